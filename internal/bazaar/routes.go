package bazaar

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler, sf *Storefront) {
	r.Post("/whatsapp", h.HandleWebhook)
	r.Get("/", sf.HandleLanding)
	r.Get("/{sellerID}", sf.HandleSellerPage)
}
