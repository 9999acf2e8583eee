package bazaar

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Storefront renders the public catalog pages. It only ever reads, and the
// repo's fail-open reads mean a storage outage renders as an empty shop.
type Storefront struct {
	repo Repo
	tpl  *template.Template
	log  *zap.Logger
}

func NewStorefront(repo Repo, log *zap.Logger) *Storefront {
	tpl := template.Must(template.New("storefront").Parse(storefrontTemplate))
	return &Storefront{repo: repo, tpl: tpl, log: log}
}

type productCard struct {
	Image       string
	Description string
	Price       string
	ChatLink    string
}

type sellerPage struct {
	SellerID  string
	Formatted string
	Cards     []productCard
}

func (s *Storefront) HandleSellerPage(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")

	products := s.repo.ListBySeller(r.Context(), sellerID)

	page := sellerPage{
		SellerID:  sellerID,
		Formatted: formatSellerID(sellerID),
	}
	for _, p := range products {
		page.Cards = append(page.Cards, productCard{
			Image:       p.Image,
			Description: p.Description,
			Price:       p.Price,
			ChatLink:    chatLink(p),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.ExecuteTemplate(w, "seller", page); err != nil {
		s.log.Error("storefront render failed", zap.String("sellerId", sellerID), zap.Error(err))
	}
}

func (s *Storefront) HandleLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.ExecuteTemplate(w, "landing", nil); err != nil {
		s.log.Error("landing render failed", zap.Error(err))
	}
}

// chatLink builds the WhatsApp deep link that prefills the buyer's message.
func chatLink(p Product) string {
	msg := "I want to buy " + p.Description + " for " + p.Price + "."
	return "https://wa.me/" + p.SellerID + "?text=" + url.QueryEscape(msg)
}

// formatSellerID spaces out a phone-number seller ID for display,
// e.g. "233551234567" -> "+233 55 123 4567". Anything too short to split is
// shown as-is.
func formatSellerID(s string) string {
	if len(s) < 9 {
		return s
	}
	return "+" + s[0:3] + " " + s[3:5] + " " + s[5:8] + " " + s[8:]
}

const storefrontTemplate = `
{{define "seller"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>BazaarBot — Seller's Store</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; background: #faf7f2; color: #1f2937; }
  header { padding: 1rem 1.5rem; background: #fff; border-bottom: 1px solid #e5e7eb; position: sticky; top: 0; }
  header a { font-size: 1.4rem; font-weight: 700; color: inherit; text-decoration: none; }
  main { max-width: 64rem; margin: 0 auto; padding: 2rem 1rem; }
  .intro { text-align: center; margin-bottom: 2.5rem; }
  .intro p { color: #6b7280; }
  .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(14rem, 1fr)); gap: 1.5rem; }
  .card { background: #fff; border: 1px solid #e5e7eb; border-radius: 0.5rem; overflow: hidden; display: flex; flex-direction: column; }
  .card img { width: 100%; aspect-ratio: 1; object-fit: cover; }
  .card .body { padding: 1rem; flex-grow: 1; }
  .card .price { color: #047857; font-weight: 700; font-size: 1.2rem; margin-top: 0.5rem; }
  .card .buy { display: block; margin: 0 1rem 1rem; padding: 0.6rem; text-align: center; background: #047857; color: #fff; border-radius: 0.4rem; text-decoration: none; }
  .empty { text-align: center; padding: 5rem 1rem; background: #fff; border-radius: 0.5rem; color: #6b7280; }
  .empty .headline { font-size: 1.5rem; font-weight: 600; }
  footer { padding: 1.5rem; margin-top: 3rem; border-top: 1px solid #e5e7eb; text-align: center; color: #6b7280; font-size: 0.875rem; }
</style>
</head>
<body>
<header><a href="/">BazaarBot</a></header>
<main>
  <div class="intro">
    <h2>Seller's Store</h2>
    <p>Products from {{.Formatted}}</p>
  </div>
  {{if .Cards}}
  <div class="grid">
    {{range .Cards}}
    <div class="card">
      <img src="{{.Image}}" alt="{{.Description}}">
      <div class="body">
        <h3>{{.Description}}</h3>
        <p class="price">{{.Price}}</p>
      </div>
      <a class="buy" href="{{.ChatLink}}" target="_blank" rel="noopener noreferrer">Chat to Buy</a>
    </div>
    {{end}}
  </div>
  {{else}}
  <div class="empty">
    <p class="headline">This shop is empty!</p>
    <p>The seller has not added any products yet.</p>
  </div>
  {{end}}
</main>
<footer><p>Powered by BazaarBot. Create your own store via WhatsApp.</p></footer>
</body>
</html>{{end}}

{{define "landing"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>BazaarBot</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; background: #faf7f2; color: #1f2937; }
  main { max-width: 40rem; margin: 0 auto; padding: 4rem 1rem; text-align: center; }
  p { color: #6b7280; line-height: 1.6; }
</style>
</head>
<body>
<main>
  <h1>BazaarBot</h1>
  <p>Open a shop straight from WhatsApp: send a photo of your product with the
  price in the caption, and BazaarBot builds your storefront page for you.</p>
  <p>Your store lives at <code>/&lt;your number&gt;</code>.</p>
</main>
</body>
</html>{{end}}
`
