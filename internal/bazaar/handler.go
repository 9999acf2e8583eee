package bazaar

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// twimlAck is the empty TwiML document Twilio expects back from a webhook.
const twimlAck = "<Response/>"

type Handler struct {
	svc Service
	log *zap.Logger
}

func NewHandler(svc Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// HandleWebhook accepts both encodings on one route: form-encoded bodies come
// from Twilio, everything else is treated as a JSON tester call.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		h.handleProviderForm(w, r)
		return
	}
	h.handleJSON(w, r)
}

// handleProviderForm always answers 200 with an empty TwiML ack. The outbound
// user-facing message and the ack are independent; internal failures never
// reach Twilio.
func (h *Handler) handleProviderForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Error("webhook form parse failed", zap.Error(err))
		writeTwiML(w)
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	mediaURL := r.PostFormValue("MediaUrl0")
	numMedia, _ := strconv.Atoi(r.PostFormValue("NumMedia"))

	h.log.Info("webhook received",
		zap.String("from", from),
		zap.String("body", body),
		zap.Int("numMedia", numMedia),
	)

	if from == "" {
		h.log.Error("webhook missing From field, dropping")
		writeTwiML(w)
		return
	}

	h.svc.HandleProviderCallback(r.Context(), from, body, mediaURL, numMedia)
	writeTwiML(w)
}

func (h *Handler) handleJSON(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SellerID     string `json:"sellerId"`
		Message      string `json:"message"`
		PhotoDataURI string `json:"photoDataUri"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if payload.SellerID == "" || payload.Message == "" {
		writeJSONError(w, http.StatusBadRequest, "missing required fields: sellerId and message")
		return
	}

	res, err := h.svc.Dispatch(r.Context(), &InboundMessage{
		SellerID:     payload.SellerID,
		Text:         payload.Message,
		PhotoDataURI: payload.PhotoDataURI,
	})
	if err != nil {
		h.log.Error("tester dispatch failed",
			zap.String("sellerId", payload.SellerID),
			zap.Error(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "an internal server error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func writeTwiML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(twimlAck))
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
