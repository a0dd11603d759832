package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/logger"
)

const (
	// minorUnitsFactor converts between major currency units and the
	// provider's minor unit (naira to kobo).
	minorUnitsFactor = 100

	// webhookBodyLimit caps how much of a webhook request is read.
	webhookBodyLimit = 1 << 20 // 1MiB
)

// Paystack is the HTTP client for the payment provider. It issues
// initialize and verify calls and validates inbound webhook signatures.
type Paystack struct {
	logger *logger.Logger

	baseURL     string
	secretKey   string
	callbackURL string

	client *http.Client
}

// NewPaystack creates a new Paystack client. callbackURL is where the
// provider redirects the buyer after checkout.
func NewPaystack(baseURL, secretKey, callbackURL string, timeout time.Duration, logger *logger.Logger) *Paystack {
	return &Paystack{
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		secretKey:   secretKey,
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: timeout},
	}
}

type initializeRequest struct {
	Email       string                 `json:"email"`
	Amount      int64                  `json:"amount"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CallbackURL string                 `json:"callback_url"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// Initialize starts a checkout session. The amount is given in major
// currency units and transmitted in the provider's minor unit.
func (p *Paystack) Initialize(ctx context.Context, email string, amount int64, metadata map[string]interface{}) (*models.InitializedTransaction, error) {
	if p.secretKey == "" {
		return nil, models.ErrConfigMissing
	}

	payload, err := json.Marshal(initializeRequest{
		Email:       email,
		Amount:      amount * minorUnitsFactor,
		Metadata:    metadata,
		CallbackURL: p.callbackURL,
	})
	if err != nil {
		return nil, &models.GatewayError{Op: "initialize", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, &models.GatewayError{Op: "initialize", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &models.GatewayError{Op: "initialize", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.GatewayError{Op: "initialize", Err: fmt.Errorf("provider returned status %d", resp.StatusCode)}
	}

	var decoded initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &models.GatewayError{Op: "initialize", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !decoded.Status {
		return nil, &models.GatewayError{Op: "initialize", Err: fmt.Errorf("provider rejected request: %s", decoded.Message)}
	}

	p.logger.Debug("Transaction initialized ", "reference ", decoded.Data.Reference)
	return &models.InitializedTransaction{
		AuthorizationURL: decoded.Data.AuthorizationURL,
		AccessCode:       decoded.Data.AccessCode,
		Reference:        decoded.Data.Reference,
	}, nil
}

// providerTransaction mirrors the provider's transaction object. Amount is
// in minor units on the wire.
type providerTransaction struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	Metadata json.RawMessage `json:"metadata"`
}

type verifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Verify fetches the transaction by reference. Any status other than
// success, including not-found, is a terminal *GatewayError.
func (p *Paystack) Verify(ctx context.Context, reference string) (*models.ProviderTransaction, error) {
	if p.secretKey == "" {
		return nil, models.ErrConfigMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, &models.GatewayError{Op: "verify", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &models.GatewayError{Op: "verify", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.GatewayError{Op: "verify", Err: fmt.Errorf("provider returned status %d", resp.StatusCode)}
	}

	var decoded verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &models.GatewayError{Op: "verify", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !decoded.Status || len(decoded.Data) == 0 {
		return nil, &models.GatewayError{Op: "verify", Err: fmt.Errorf("provider rejected request: %s", decoded.Message)}
	}

	tx, err := decodeTransaction(decoded.Data)
	if err != nil {
		return nil, &models.GatewayError{Op: "verify", Err: err}
	}
	if tx.Status != models.TxStatusSuccess {
		return nil, &models.GatewayError{Op: "verify", Status: tx.Status}
	}

	return tx, nil
}

// VerifyWebhookSignature computes an HMAC-SHA512 over the exact raw
// request bytes and compares it against the hex signature from the
// request header. Constant-time comparison via hmac.Equal.
func (p *Paystack) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	if p.secretKey == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

type webhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ParseWebhookEvent decodes a webhook body. Callers must have checked the
// signature first; this function does no authentication.
func (p *Paystack) ParseWebhookEvent(rawBody []byte) (string, *models.ProviderTransaction, error) {
	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return "", nil, fmt.Errorf("failed to decode webhook event: %w", err)
	}

	if event.Event != models.WebhookEventChargeSuccess {
		return event.Event, nil, nil
	}

	tx, err := decodeTransaction(event.Data)
	if err != nil {
		return event.Event, nil, err
	}

	return event.Event, tx, nil
}

// decodeTransaction converts a raw provider transaction object into the
// domain form: email lower-cased, amount normalized to major units,
// checkout metadata flattened.
func decodeTransaction(raw json.RawMessage) (*models.ProviderTransaction, error) {
	var wire providerTransaction
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	fullName, phone := extractCustomerFields(wire.Metadata)

	return &models.ProviderTransaction{
		Reference:     wire.Reference,
		Status:        wire.Status,
		Amount:        wire.Amount / minorUnitsFactor,
		Currency:      currencyOrDefault(wire.Currency),
		PaidAt:        wire.PaidAt,
		CustomerEmail: strings.ToLower(wire.Customer.Email),
		FullName:      fullName,
		Phone:         phone,
		Metadata:      wire.Metadata,
		Raw:           raw,
	}, nil
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "NGN"
	}
	return currency
}

type checkoutMetadata struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	CustomFields []struct {
		VariableName string `json:"variable_name"`
		Value        string `json:"value"`
	} `json:"custom_fields"`
}

// extractCustomerFields pulls full_name and phone out of the checkout
// metadata. Custom fields win over top-level keys; absent or malformed
// metadata yields empty values.
func extractCustomerFields(raw json.RawMessage) (string, string) {
	if len(raw) == 0 {
		return "", ""
	}

	var meta checkoutMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return "", ""
	}

	fullName := meta.FullName
	phone := meta.Phone
	for _, field := range meta.CustomFields {
		switch field.VariableName {
		case "full_name":
			if field.Value != "" {
				fullName = field.Value
			}
		case "phone":
			if field.Value != "" {
				phone = field.Value
			}
		}
	}

	return fullName, phone
}

// ReadWebhookBody reads a webhook request body with a hard size cap.
func ReadWebhookBody(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, webhookBodyLimit))
}
