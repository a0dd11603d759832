package notificator

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/logger"
)

type EmailNotificator struct {
	logger *logger.Logger

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	SMTPAuth smtp.Auth
}

func NewEmailNotificator(logger *logger.Logger, SMTPHost string, SMTPPort int, SMTPUser string, SMTPPassword string, SMTPSender string) *EmailNotificator {
	auth := smtp.PlainAuth(
		"",
		SMTPUser,
		SMTPPassword,
		SMTPHost,
	)

	return &EmailNotificator{
		logger:       logger,
		SMTPAuth:     auth,
		SMTPHost:     SMTPHost,
		SMTPPort:     SMTPPort,
		SMTPUser:     SMTPUser,
		SMTPPassword: SMTPPassword,
		SMTPSender:   SMTPSender,
	}
}

// SendPaymentConfirmation sends the access email for a confirmed payment.
func (e *EmailNotificator) SendPaymentConfirmation(notification *models.PaymentNotification) error {
	subject := "Payment Confirmed - Your Guide Access"
	html := confirmationHTML(notification)

	return e.send(notification.Email, subject, html)
}

func (e *EmailNotificator) send(to, subject, html string) error {
	addr := fmt.Sprintf("%s:%s", e.SMTPHost, strconv.Itoa(e.SMTPPort))
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		e.SMTPSender,
		to,
		subject,
		html,
	)
	if err := smtp.SendMail(addr, e.SMTPAuth, e.SMTPSender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func confirmationHTML(notification *models.PaymentNotification) string {
	name := notification.FullName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: auto; padding: 20px;">
<h2>Payment Confirmed!</h2>
<p>Hi %s,</p>
<p>Your payment (%s %d, reference %s) has been received. You now have lifetime access to the guide.</p>
<p><a href="%s">Access your guide now</a></p>
</div>`, name, notification.Currency, notification.Amount, notification.Reference, notification.AccessLink)
}
