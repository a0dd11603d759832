package models

import "context"

// Gateway talks to the external payment provider over HTTPS and validates
// inbound webhook signatures.
type Gateway interface {
	// Initialize starts a checkout session. The amount is given in major
	// currency units; the client converts to the provider's minor unit.
	Initialize(ctx context.Context, email string, amount int64, metadata map[string]interface{}) (*InitializedTransaction, error)
	// Verify fetches the transaction by reference and returns a
	// *GatewayError unless the provider reports it as success.
	Verify(ctx context.Context, reference string) (*ProviderTransaction, error)
	// VerifyWebhookSignature checks the HMAC of the exact raw request bytes
	// against the signature header. Must be called before any parsing.
	VerifyWebhookSignature(rawBody []byte, signature string) bool
	// ParseWebhookEvent decodes a signed webhook body into the event name
	// and the carried transaction.
	ParseWebhookEvent(rawBody []byte) (string, *ProviderTransaction, error)
}

// IdentityStore is the authentication service's admin surface.
type IdentityStore interface {
	// FindByEmail returns the identity for the email, or nil when none
	// exists.
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	// Create provisions a new identity with the email pre-confirmed.
	Create(ctx context.Context, identity *Identity) (*Identity, error)
}
