package bazaar

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TwilioOutbound talks to the Twilio REST API: message sends and
// authenticated media downloads. With empty credentials every call degrades
// to a logged no-op so the rest of the pipeline keeps working.
type TwilioOutbound struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string // e.g. "whatsapp:+14155238886"
	client     *http.Client
	log        *zap.Logger
}

func NewTwilioOutbound(accountSID, authToken, fromNumber string, log *zap.Logger) *TwilioOutbound {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		log.Warn("twilio credentials not configured, outbound messages will be dropped " +
			"(set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_WHATSAPP_NUMBER)")
	}
	return &TwilioOutbound{
		baseURL:    "https://api.twilio.com",
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

func (t *TwilioOutbound) configured() bool {
	return t.accountSID != "" && t.authToken != "" && t.fromNumber != ""
}

// SendMessage posts one WhatsApp message through the Messages endpoint.
func (t *TwilioOutbound) SendMessage(ctx context.Context, to string, body string) error {
	if !t.configured() {
		t.log.Error("twilio not configured, message not sent",
			zap.String("to", to),
			zap.String("body", body),
		)
		return nil
	}

	form := url.Values{}
	form.Set("From", t.fromNumber)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := t.baseURL + "/2010-04-01/Accounts/" + t.accountSID + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.New("twilio api error: " + resp.Status + " body=" + string(respBody))
	}
	return nil
}

// FetchMedia downloads a Twilio-hosted media file and returns it as a
// data:<type>;base64,<payload> URI for the extractor flow.
func (t *TwilioOutbound) FetchMedia(ctx context.Context, mediaURL string) (string, error) {
	if t.accountSID == "" || t.authToken == "" {
		return "", errors.New("twilio credentials not configured, cannot fetch media")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", errors.New("media fetch failed: " + resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
