package notificator

import (
	"runtime/debug"

	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/logger"
)

type emailSender interface {
	SendPaymentConfirmation(notification *models.PaymentNotification) error
}

type alertSender interface {
	SendAlert(message string)
}

// Notificator fans a confirmed payment out to the delivery channels.
// Everything here is best-effort: a notification failure must never turn
// a recorded payment into an error response.
type Notificator struct {
	logger *logger.Logger
	db     models.Repository

	email    emailSender
	telegram alertSender
}

func NewNotificator(logger *logger.Logger, db models.Repository, emailNotif *EmailNotificator, telNotif *TelegramNotificator) *Notificator {
	n := &Notificator{logger: logger, db: db}
	if emailNotif != nil {
		n.email = emailNotif
	}
	if telNotif != nil {
		n.telegram = telNotif
	}
	return n
}

// safeCall runs a function with panic recovery (synchronous, no goroutine spawning)
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// SendPaymentConfirmation delivers the access email and records the
// attempt in the email log.
func (n *Notificator) SendPaymentConfirmation(notification *models.PaymentNotification) {
	if n.email == nil {
		n.logger.Warn("Email notificator not configured, skipping confirmation email ", "email ", notification.Email)
		return
	}

	status := "failed"
	n.safeCall(func() {
		if err := n.email.SendPaymentConfirmation(notification); err != nil {
			n.logger.Error("Failed to send confirmation email ", "email ", notification.Email, "error ", err)
			return
		}
		status = "sent"
	}, "confirmationEmail")

	if err := n.db.AddEmailLog(notification.Email, "welcome", status); err != nil {
		n.logger.Error("Failed to write email log ", "email ", notification.Email, "error ", err)
	}
}

// AlertOperator pushes an out-of-band alert. Used for recording failures,
// which risk silent revenue loss and must reach a human.
func (n *Notificator) AlertOperator(message string) {
	n.logger.Error("OPERATOR ALERT: ", message)
	if n.telegram == nil {
		return
	}
	n.safeCall(func() { n.telegram.SendAlert(message) }, "operatorAlert")
}
