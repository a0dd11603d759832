package confirm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cacguide/paygate/internal/config"
	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/logger"
)

// Confirmer drives the payment confirmation and account-provisioning flow.
// Both entry points (the browser redirect callback and the signed webhook)
// converge on Confirm; they only differ in how the verified transaction is
// obtained and how the outcome is rendered.
type Confirmer struct {
	logger *logger.Logger
	config *config.Config

	repo        models.Repository
	identities  models.IdentityStore
	gateway     models.Gateway
	notificator models.NotificationService
}

// NewConfirmer creates a new Confirmer instance
func NewConfirmer(
	repo models.Repository,
	identities models.IdentityStore,
	gateway models.Gateway,
	notificator models.NotificationService,
	logger *logger.Logger,
	config *config.Config,
) models.ConfirmerI {
	return &Confirmer{
		repo:        repo,
		identities:  identities,
		gateway:     gateway,
		notificator: notificator,
		logger:      logger,
		config:      config,
	}
}

// InitializeCheckout starts a checkout session with the provider.
func (c *Confirmer) InitializeCheckout(ctx context.Context, email string, amount int64, metadata map[string]interface{}) (*models.InitializedTransaction, error) {
	return c.gateway.Initialize(ctx, email, amount, metadata)
}

// VerifyReference verifies the transaction with the provider.
func (c *Confirmer) VerifyReference(ctx context.Context, reference string) (*models.ProviderTransaction, error) {
	return c.gateway.Verify(ctx, reference)
}

// Confirm processes a verified transaction: dedup check, identity
// resolution, payment recording, entitlement grant, notification.
//
// Recording the payment is the commit point. Identity resolution,
// entitlement and notification are allowed to fail: money was taken, so
// the record must exist even when linkage does not, and linkage can be
// repaired by an administrator later.
func (c *Confirmer) Confirm(ctx context.Context, tx *models.ProviderTransaction) *models.ConfirmResult {
	runID := uuid.NewString()
	c.logger.Info("Confirming payment ", "run ", runID, "reference ", tx.Reference, "email ", tx.CustomerEmail)

	// Fast-path idempotency check. The unique index on reference is the
	// authoritative guard; a lookup failure here is not fatal.
	exists, err := c.repo.PaymentExists(tx.Reference)
	if err != nil {
		c.logger.Error("Failed to check payment existence ", "run ", runID, "error ", err)
	}
	if exists {
		c.logger.Info("Reference already processed ", "run ", runID, "reference ", tx.Reference)
		return &models.ConfirmResult{Outcome: models.OutcomeAlreadyProcessed}
	}

	userID := c.resolveAccount(ctx, runID, tx)

	payment := &models.Payment{
		Reference:  tx.Reference,
		UserEmail:  tx.CustomerEmail,
		UserID:     userID,
		Amount:     tx.Amount,
		Currency:   tx.Currency,
		Status:     models.PaymentStatusSuccess,
		PaidAt:     tx.PaidAt,
		RawPayload: tx.Raw,
		Metadata:   tx.Metadata,
	}
	if err := c.repo.CreatePayment(payment); err != nil {
		if errors.Is(err, models.ErrDuplicateReference) {
			// Lost the race against the other entry point. The winner did
			// the side effects; treat as already processed.
			c.logger.Info("Duplicate reference on insert ", "run ", runID, "reference ", tx.Reference)
			return &models.ConfirmResult{Outcome: models.OutcomeAlreadyProcessed}
		}

		recErr := &models.RecordingError{Reference: tx.Reference, Err: err}
		c.logger.Error("PAYMENT RECORDING FAILED ", "run ", runID, "reference ", tx.Reference, "error ", err)
		c.notificator.AlertOperator(fmt.Sprintf(
			"Payment recording FAILED for reference %s (email %s, amount %d %s): %v",
			tx.Reference, tx.CustomerEmail, tx.Amount, tx.Currency, err))
		return &models.ConfirmResult{Outcome: models.OutcomeRecordingFailed, Err: recErr}
	}
	c.logger.Info("Payment recorded ", "run ", runID, "reference ", tx.Reference)

	if userID != "" {
		if err := c.grantEntitlement(userID, tx); err != nil {
			degraded := &models.DegradedError{Step: "entitlement", Err: err}
			c.logger.Error("Failed to grant entitlement ", "run ", runID, "user ", userID, "error ", degraded)
		}
	}

	c.notificator.SendPaymentConfirmation(&models.PaymentNotification{
		Email:      tx.CustomerEmail,
		FullName:   tx.FullName,
		Reference:  tx.Reference,
		Amount:     tx.Amount,
		Currency:   tx.Currency,
		AccessLink: c.config.GuideURL(),
	})

	token, err := c.mintAccessToken(userID, tx.CustomerEmail)
	if err != nil {
		degraded := &models.DegradedError{Step: "access token", Err: err}
		c.logger.Error("Failed to mint access token ", "run ", runID, "error ", degraded)
		token = ""
	}

	return &models.ConfirmResult{Outcome: models.OutcomeDone, UserID: userID, AccessToken: token}
}

// resolveAccount maps a verified payer email to an account id. Lookup
// order: profile row, then auth identity, then provision a new identity.
// Returns empty on failure; the caller records the payment regardless.
func (c *Confirmer) resolveAccount(ctx context.Context, runID string, tx *models.ProviderTransaction) string {
	account, err := c.repo.GetAccountByEmail(tx.CustomerEmail)
	if err != nil {
		c.logger.Error("Failed to look up profile ", "run ", runID, "error ", err)
	}
	if account != nil {
		c.logger.Debug("Found existing profile ", "run ", runID, "id ", account.ID)
		return account.ID
	}

	// No profile row. An identity may still exist from a sign-up whose
	// profile creation failed.
	existing, err := c.identities.FindByEmail(ctx, tx.CustomerEmail)
	if err != nil {
		degraded := &models.DegradedError{Step: "identity lookup", Err: err}
		c.logger.Error("Failed to look up identity ", "run ", runID, "error ", degraded)
		return ""
	}
	if existing != nil {
		c.logger.Debug("Found existing identity ", "run ", runID, "id ", existing.ID)
		return existing.ID
	}

	created, err := c.identities.Create(ctx, &models.Identity{
		Email:    tx.CustomerEmail,
		FullName: tx.FullName,
		Phone:    tx.Phone,
	})
	if err != nil {
		degraded := &models.DegradedError{Step: "identity provisioning", Err: err}
		c.logger.Error("Failed to provision identity ", "run ", runID, "error ", degraded)
		return ""
	}

	c.logger.Info("Provisioned identity for payer ", "run ", runID, "id ", created.ID)
	return created.ID
}

// grantEntitlement upserts the profile with paid=true and refreshed
// name/phone. One retry: the redirect path sends the user straight to the
// gated page, which expects the flag to be set.
func (c *Confirmer) grantEntitlement(userID string, tx *models.ProviderTransaction) error {
	account := &models.Account{
		ID:       userID,
		Email:    tx.CustomerEmail,
		FullName: tx.FullName,
		Phone:    tx.Phone,
		Paid:     true,
	}

	err := c.repo.UpsertAccount(account)
	if err == nil {
		return nil
	}
	c.logger.Warn("Entitlement grant failed, retrying ", "user ", userID, "error ", err)

	return c.repo.UpsertAccount(account)
}

// CheckEntitlementByEmail reports the entitlement flag for an email.
func (c *Confirmer) CheckEntitlementByEmail(email string) (bool, error) {
	account, err := c.repo.GetAccountByEmail(email)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	return account.Paid, nil
}
