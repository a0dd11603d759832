package models

type NotificationService interface {
	// SendPaymentConfirmation delivers the access email for a confirmed
	// payment and writes the email log entry. Best-effort: failures are
	// logged and never propagated.
	SendPaymentConfirmation(notification *PaymentNotification)
	// AlertOperator pushes an out-of-band alert for failures that risk
	// revenue loss.
	AlertOperator(message string)
}

// PaymentNotification carries what the confirmation email needs.
type PaymentNotification struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Reference  string `json:"reference"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	AccessLink string `json:"access_link"`
}
