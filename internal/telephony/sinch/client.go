package sinch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/acme/sales-callback/internal/config"
	"github.com/acme/sales-callback/internal/telephony"
)

// Client talks to the Sinch Voice and SMS REST APIs. Credentials come from a
// single configuration point shared by the dialer and the notifier.
type Client struct {
	projectID   string
	accessKey   string
	keySecret   string
	callingBase string
	smsBase     string
	from        string
	callbackURL string
	httpc       *http.Client
}

// New constructs a client from provider configuration. The api_key must be
// on access_key:key_secret form.
func New(cfg config.ProviderConfig) (*Client, error) {
	key, secret, ok := strings.Cut(cfg.APIKey, ":")
	if !ok {
		return nil, fmt.Errorf("sinch: api key must be on access_key:key_secret form")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		projectID:   cfg.ProjectID,
		accessKey:   key,
		keySecret:   secret,
		callingBase: strings.TrimRight(cfg.CallingBaseURL, "/"),
		smsBase:     strings.TrimRight(cfg.SMSBaseURL, "/"),
		from:        cfg.PhoneNumber,
		callbackURL: cfg.CallbackURL,
		httpc:       &http.Client{Timeout: timeout},
	}, nil
}

type calloutRequest struct {
	Method     string     `json:"method"`
	TTSCallout ttsCallout `json:"ttsCallout"`
}

type ttsCallout struct {
	CLI         string      `json:"cli"`
	Destination destination `json:"destination"`
	Locale      string      `json:"locale"`
	Text        string      `json:"text"`
	Custom      string      `json:"custom,omitempty"`
}

type destination struct {
	Type     string `json:"type"`
	Endpoint string `json:"endpoint"`
}

type calloutResponse struct {
	CallID string `json:"callId"`
}

// PlaceCall issues a tts callout and returns the provider call id.
func (c *Client) PlaceCall(ctx context.Context, params telephony.CalloutParams) (string, error) {
	payload := calloutRequest{
		Method: "ttsCallout",
		TTSCallout: ttsCallout{
			CLI:         params.CLI,
			Destination: destination{Type: "number", Endpoint: params.Destination},
			Locale:      params.Locale,
			Text:        params.Text,
			Custom:      params.Agent,
		},
	}

	var out calloutResponse
	if err := c.postJSON(ctx, c.callingBase+"/calling/v1/callouts", payload, &out); err != nil {
		return "", err
	}
	if out.CallID == "" {
		return "", fmt.Errorf("sinch: callout response missing callId")
	}
	return out.CallID, nil
}

type smsBatchRequest struct {
	From string   `json:"from"`
	To   []string `json:"to"`
	Body string   `json:"body"`
}

// SendSMS sends a single text message to one recipient.
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	payload := smsBatchRequest{From: c.from, To: []string{to}, Body: body}
	url := fmt.Sprintf("%s/xms/v1/%s/batches", c.smsBase, c.projectID)
	return c.postJSON(ctx, url, payload, nil)
}

// ListNumbers fetches the numbers provisioned for the project. Used by the
// diagnostic command, not by the request path.
func (c *Client) ListNumbers(ctx context.Context) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/calling/v1/projects/%s/numbers", c.callingBase, c.projectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("sinch: new request: %w", err)
	}
	req.SetBasicAuth(c.accessKey, c.keySecret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sinch: list numbers: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sinch: read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("sinch: list numbers http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return json.RawMessage(raw), nil
}

func (c *Client) postJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sinch: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sinch: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.accessKey, c.keySecret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sinch: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sinch: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("sinch: decode response: %w", err)
		}
	}
	return nil
}
