package bazaar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bazaar-labs/bazaarbot/internal/ai"
)

func newTestHandler(f *fixture) *Handler {
	return NewHandler(f.svc, zap.NewNop())
}

func postForm(h *Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/whatsapp", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	return rec
}

func postJSON(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/whatsapp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	return rec
}

func TestFormWebhookMissingFrom(t *testing.T) {
	f := newFixture()
	h := newTestHandler(f)

	rec := postForm(h, url.Values{"Body": {"hello"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<Response/>", rec.Body.String())
	assert.Zero(t, f.extractor.Calls, "no flow may run without a sender")
	assert.Zero(t, f.replier.Calls)
	assert.Empty(t, f.outbound.Sent)
}

func TestFormWebhookAlwaysAcks(t *testing.T) {
	f := newFixture()
	f.replier.Err = errStoreDown // internal failure
	h := newTestHandler(f)

	rec := postForm(h, url.Values{
		"From": {"whatsapp:+233551234567"},
		"Body": {"When do you open?"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<Response/>", rec.Body.String())
	// The user still got the failsafe, independently of the ack.
	require.Len(t, f.outbound.Sent, 1)
	assert.Equal(t, MsgFailsafe, f.outbound.Sent[0].Body)
}

func TestFormWebhookAddProduct(t *testing.T) {
	f := newFixture()
	f.extractor.Details = &ai.ProductDetails{Price: "₵150", Description: "Sandals"}
	h := newTestHandler(f)

	rec := postForm(h, url.Values{
		"From":      {"whatsapp:+233551234567"},
		"Body":      {"Selling for 150"},
		"MediaUrl0": {"https://api.twilio.com/media/1"},
		"NumMedia":  {"1"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<Response/>", rec.Body.String())
	require.Len(t, f.repo.Added, 1)
	require.Len(t, f.outbound.Sent, 1)
	assert.Contains(t, f.outbound.Sent[0].Body, "Sandals")
	assert.Contains(t, f.outbound.Sent[0].Body, "₵150")
}

func TestJSONWebhookMissingFields(t *testing.T) {
	f := newFixture()
	h := newTestHandler(f)

	rec := postJSON(h, `{"message": "hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(h, `{"sellerId": "233000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, f.replier.Calls)
}

func TestJSONWebhookProductNotFound(t *testing.T) {
	f := newFixture()
	h := newTestHandler(f)

	rec := postJSON(h, `{"sellerId": "233000", "message": "(ID: prod_999)"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Sorry, I couldn't find that product. It might no longer be available.", res.Reply)
}

func TestJSONWebhookAddProduct(t *testing.T) {
	f := newFixture()
	f.extractor.Details = &ai.ProductDetails{Price: "₵100", Description: "Shoes"}
	h := newTestHandler(f)

	rec := postJSON(h, `{"sellerId": "233000", "message": "Selling shoes", "photoDataUri": "data:image/jpeg;base64,abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.repo.Added, 1, "exactly one add call")
	assert.Equal(t, "₵100", f.repo.Added[0].Price)
	assert.Equal(t, "Shoes", f.repo.Added[0].Description)

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.ConfirmationMessage, "Shoes")
	assert.Contains(t, res.ConfirmationMessage, "₵100")
	require.NotNil(t, res.AddedProduct)
}

func TestJSONWebhookInternalError(t *testing.T) {
	f := newFixture()
	f.replier.Err = errStoreDown
	h := newTestHandler(f)

	rec := postJSON(h, `{"sellerId": "233000", "message": "hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}
