package models

import "encoding/json"

// Payment statuses. Only successful charges are persisted; failed and
// abandoned transactions never reach the payments table.
const (
	PaymentStatusSuccess = "success"
)

// Payment is the authoritative record of a verified charge.
// A row is created exactly once per provider reference and is never
// updated or deleted afterwards.
type Payment struct {
	// ID is the unique identifier for the payment.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// Reference is the provider-assigned transaction id. It is the
	// idempotency key: the unique index is what makes double delivery safe.
	Reference string `json:"reference" gorm:"column:reference;uniqueIndex;not null"`
	// UserEmail is the payer email, stored lower-cased.
	UserEmail string `json:"user_email" gorm:"column:user_email;index;not null"`
	// UserID is the linked account id, empty when identity resolution failed.
	UserID string `json:"user_id,omitempty" gorm:"column:user_id;index"`
	// Amount is the charged amount in major currency units.
	Amount int64 `json:"amount" gorm:"column:amount;not null"`
	// Currency is the ISO currency code reported by the provider.
	Currency string `json:"currency" gorm:"column:currency;default:NGN"`
	// Status is the provider-reported transaction status.
	Status string `json:"status" gorm:"column:status;not null"`
	// PaidAt is the provider-reported payment timestamp (RFC 3339).
	PaidAt string `json:"paid_at" gorm:"column:paid_at"`
	// RawPayload is the full provider transaction object, kept for audit.
	RawPayload json.RawMessage `json:"raw_payload,omitempty" gorm:"column:raw_payload;type:jsonb"`
	// Metadata carries the custom fields submitted at checkout.
	Metadata json.RawMessage `json:"metadata,omitempty" gorm:"column:metadata;type:jsonb"`
	// CreatedAt is the date when the record was written.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;autoCreateTime;index"`
}

func (Payment) TableName() string { return "payments" }

// EmailLog records every outbound transactional email attempt.
type EmailLog struct {
	// ID is the unique identifier for the log entry.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// UserEmail is the recipient address.
	UserEmail string `json:"user_email" gorm:"column:user_email;index"`
	// Type is the email kind (welcome, etc.).
	Type string `json:"type" gorm:"column:type"`
	// Status is the delivery outcome (sent, failed).
	Status string `json:"status" gorm:"column:status"`
	// CreatedAt is the date when the attempt was made.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (EmailLog) TableName() string { return "email_logs" }
