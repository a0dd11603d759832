package models

type Repository interface {
	// PaymentExists reports whether a payment row exists for the reference.
	// This is the idempotency fast path; the unique index on reference is
	// the authoritative guard.
	PaymentExists(reference string) (bool, error)
	// CreatePayment inserts the payment record. Returns
	// ErrDuplicateReference when the unique index rejects the insert.
	CreatePayment(payment *Payment) error
	ListPayments(limit, offset int) ([]*Payment, error)

	GetAccountByEmail(email string) (*Account, error)
	GetAccount(id string) (*Account, error)
	// UpsertAccount creates or replaces the profile row by id.
	UpsertAccount(account *Account) error
	SetAccountPaid(id string, paid bool) error

	AddEmailLog(email, emailType, status string) error

	Close() error
}
