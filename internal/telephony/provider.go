package telephony

import "context"

// CalloutParams describes a single text-to-speech callout. The customer is
// the destination; the agent number rides along in the provider's custom
// field so the call can be bridged to the right seller.
type CalloutParams struct {
	CLI         string
	Destination string
	Locale      string
	Text        string
	Agent       string
}

// Caller places outbound voice calls through the provider. A successful
// attempt returns the provider-assigned call id.
type Caller interface {
	PlaceCall(ctx context.Context, params CalloutParams) (string, error)
}

// Messenger sends text messages through the provider.
type Messenger interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Provider bundles the voice and messaging capabilities of the vendor.
type Provider interface {
	Caller
	Messenger
}
