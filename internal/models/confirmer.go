package models

import "context"

// Outcome is the terminal state of one confirmation run.
type Outcome int

const (
	// OutcomeDone means the payment was recorded and entitlement granted.
	OutcomeDone Outcome = iota
	// OutcomeAlreadyProcessed means the reference was seen before; nothing
	// was re-run. Success to the caller.
	OutcomeAlreadyProcessed
	// OutcomeRecordingFailed means the payment insert failed. The one
	// outcome that must be surfaced loudly.
	OutcomeRecordingFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeAlreadyProcessed:
		return "already_processed"
	case OutcomeRecordingFailed:
		return "recording_failed"
	}
	return "unknown"
}

// ConfirmResult is what a confirmation run hands back to the entry point.
type ConfirmResult struct {
	Outcome Outcome
	// UserID is the resolved account id, empty when identity resolution
	// degraded.
	UserID string
	// AccessToken is a signed token for the gated-content page, set only
	// on OutcomeDone.
	AccessToken string
	// Err carries the recording error on OutcomeRecordingFailed.
	Err error
}

// ConfirmerI drives the payment confirmation and provisioning flow.
// Both entry points (redirect callback and webhook) converge on Confirm.
type ConfirmerI interface {
	// InitializeCheckout starts a checkout session with the provider.
	InitializeCheckout(ctx context.Context, email string, amount int64, metadata map[string]interface{}) (*InitializedTransaction, error)
	// VerifyReference verifies the transaction with the provider.
	VerifyReference(ctx context.Context, reference string) (*ProviderTransaction, error)
	// Confirm runs dedup check, identity resolution, payment recording,
	// entitlement grant and notification for a verified transaction.
	Confirm(ctx context.Context, tx *ProviderTransaction) *ConfirmResult
	// CheckEntitlement reports whether the bearer of the access token is
	// entitled to the gated content.
	CheckEntitlement(token string) (bool, error)
	// CheckEntitlementByEmail reports the entitlement flag for an email.
	CheckEntitlementByEmail(email string) (bool, error)
}
