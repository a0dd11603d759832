package models

import "encoding/json"

// Provider transaction statuses as reported by the payment gateway.
const (
	TxStatusSuccess   = "success"
	TxStatusFailed    = "failed"
	TxStatusAbandoned = "abandoned"
)

// WebhookEventChargeSuccess is the only webhook event type that drives the
// confirmation flow; everything else is acknowledged and ignored.
const WebhookEventChargeSuccess = "charge.success"

// ProviderTransaction is a verified transaction as decoded from the
// gateway verify response or a signed webhook payload.
type ProviderTransaction struct {
	// Reference is the provider-assigned transaction id.
	Reference string `json:"reference"`
	// Status is the provider-reported status (success, failed, abandoned).
	Status string `json:"status"`
	// Amount is the charged amount in major currency units. The gateway
	// client normalizes from the provider's minor-unit representation.
	Amount int64 `json:"amount"`
	// Currency is the ISO currency code.
	Currency string `json:"currency"`
	// PaidAt is the provider payment timestamp (RFC 3339).
	PaidAt string `json:"paid_at"`
	// CustomerEmail is the payer email, lower-cased by the gateway client.
	CustomerEmail string `json:"customer_email"`
	// FullName is extracted from the checkout metadata custom fields.
	FullName string `json:"full_name"`
	// Phone is extracted from the checkout metadata custom fields.
	Phone string `json:"phone"`
	// Metadata is the raw checkout metadata object.
	Metadata json.RawMessage `json:"metadata,omitempty"`
	// Raw is the full provider transaction object as received.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// InitializedTransaction is the result of a checkout initialization.
type InitializedTransaction struct {
	// AuthorizationURL is the hosted checkout page the buyer is sent to.
	AuthorizationURL string `json:"authorization_url"`
	// AccessCode is the provider access code for the checkout session.
	AccessCode string `json:"access_code"`
	// Reference is the provider-assigned transaction id.
	Reference string `json:"reference"`
}
