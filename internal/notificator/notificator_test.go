package notificator

import (
	"errors"
	"testing"

	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/logger"
)

// logRepository implements models.Repository; only the email log matters here.
type logRepository struct {
	emailLogs []string
	logErr    error
}

func (r *logRepository) PaymentExists(string) (bool, error)               { return false, nil }
func (r *logRepository) CreatePayment(*models.Payment) error              { return nil }
func (r *logRepository) ListPayments(int, int) ([]*models.Payment, error) { return nil, nil }
func (r *logRepository) GetAccountByEmail(string) (*models.Account, error) {
	return nil, nil
}
func (r *logRepository) GetAccount(string) (*models.Account, error) { return nil, nil }
func (r *logRepository) UpsertAccount(*models.Account) error        { return nil }
func (r *logRepository) SetAccountPaid(string, bool) error          { return nil }
func (r *logRepository) Close() error                               { return nil }

func (r *logRepository) AddEmailLog(email, emailType, status string) error {
	if r.logErr != nil {
		return r.logErr
	}
	r.emailLogs = append(r.emailLogs, email+":"+emailType+":"+status)
	return nil
}

type stubEmailSender struct {
	sent []*models.PaymentNotification
	err  error
	boom bool
}

func (s *stubEmailSender) SendPaymentConfirmation(n *models.PaymentNotification) error {
	if s.boom {
		panic("smtp client broke")
	}
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

type stubAlertSender struct {
	alerts []string
	boom   bool
}

func (s *stubAlertSender) SendAlert(message string) {
	if s.boom {
		panic("telegram client broke")
	}
	s.alerts = append(s.alerts, message)
}

func testNotification() *models.PaymentNotification {
	return &models.PaymentNotification{
		Email:     "ada@example.com",
		FullName:  "Ada Obi",
		Reference: "ref_notif_001",
		Amount:    5000,
		Currency:  "NGN",
	}
}

func TestSendPaymentConfirmationLogsSent(t *testing.T) {
	repo := &logRepository{}
	email := &stubEmailSender{}
	n := &Notificator{logger: logger.NewNop(), db: repo, email: email}

	n.SendPaymentConfirmation(testNotification())

	if len(email.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(email.sent))
	}
	if len(repo.emailLogs) != 1 || repo.emailLogs[0] != "ada@example.com:welcome:sent" {
		t.Errorf("expected a sent email log, got %v", repo.emailLogs)
	}
}

func TestSendPaymentConfirmationLogsFailure(t *testing.T) {
	repo := &logRepository{}
	email := &stubEmailSender{err: errors.New("smtp: 550 rejected")}
	n := &Notificator{logger: logger.NewNop(), db: repo, email: email}

	n.SendPaymentConfirmation(testNotification())

	if len(repo.emailLogs) != 1 || repo.emailLogs[0] != "ada@example.com:welcome:failed" {
		t.Errorf("expected a failed email log, got %v", repo.emailLogs)
	}
}

func TestSendPaymentConfirmationRecoversPanic(t *testing.T) {
	repo := &logRepository{}
	email := &stubEmailSender{boom: true}
	n := &Notificator{logger: logger.NewNop(), db: repo, email: email}

	n.SendPaymentConfirmation(testNotification())

	if len(repo.emailLogs) != 1 || repo.emailLogs[0] != "ada@example.com:welcome:failed" {
		t.Errorf("a panicking sender must be logged as failed, got %v", repo.emailLogs)
	}
}

func TestSendPaymentConfirmationSkipsWhenUnconfigured(t *testing.T) {
	repo := &logRepository{}
	n := NewNotificator(logger.NewNop(), repo, nil, nil)

	n.SendPaymentConfirmation(testNotification())

	if len(repo.emailLogs) != 0 {
		t.Errorf("expected no email log without an email channel, got %v", repo.emailLogs)
	}
}

func TestAlertOperatorDelivers(t *testing.T) {
	alerts := &stubAlertSender{}
	n := &Notificator{logger: logger.NewNop(), db: &logRepository{}, telegram: alerts}

	n.AlertOperator("recording failed for ref_notif_001")

	if len(alerts.alerts) != 1 || alerts.alerts[0] != "recording failed for ref_notif_001" {
		t.Errorf("expected the alert to reach the channel, got %v", alerts.alerts)
	}
}

func TestAlertOperatorWithoutTelegram(t *testing.T) {
	// A nil channel means log-only; the call must not panic.
	n := NewNotificator(logger.NewNop(), &logRepository{}, nil, nil)
	n.AlertOperator("recording failed for ref_notif_001")
}

func TestAlertOperatorRecoversPanic(t *testing.T) {
	alerts := &stubAlertSender{boom: true}
	n := &Notificator{logger: logger.NewNop(), db: &logRepository{}, telegram: alerts}

	n.AlertOperator("recording failed for ref_notif_001")
}
