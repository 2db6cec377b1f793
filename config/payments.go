package config

import "strings"

const defaultPaymentsAPIURL = "https://api.lemonsqueezy.com"

// Payments holds everything the checkout and webhook services need from the
// payment provider. It is built once at boot and passed in explicitly.
type Payments struct {
	APIURL  string
	APIKey  string
	StoreID string

	// WebhookSecret signs inbound webhook bodies (HMAC-SHA256).
	WebhookSecret string

	// AllowUnsignedWebhooks accepts webhooks without a signature check, but
	// only while WebhookSecret is empty. Never enable it in production.
	AllowUnsignedWebhooks bool
}

// LoadPayments snapshots the PAYMENTS_* keys.
func LoadPayments() Payments {
	_ = Load()
	return Payments{
		APIURL:                strings.TrimRight(get("PAYMENTS_API_URL", defaultPaymentsAPIURL), "/"),
		APIKey:                get("PAYMENTS_API_KEY", ""),
		StoreID:               get("PAYMENTS_STORE_ID", ""),
		WebhookSecret:         get("PAYMENTS_WEBHOOK_SECRET", ""),
		AllowUnsignedWebhooks: boolean("PAYMENTS_ALLOW_UNSIGNED_WEBHOOKS", false),
	}
}

// SkipsSignature reports whether webhook bodies are accepted unverified.
func (p Payments) SkipsSignature() bool {
	return p.WebhookSecret == "" && p.AllowUnsignedWebhooks
}
