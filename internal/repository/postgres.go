package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/logger"
)

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use standard logger
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond, // Log queries slower than this
			LogLevel:                  gormLogger.Warn,        // Only log warnings or errors
			IgnoreRecordNotFoundError: true,                   // Suppress "record not found" errors
			Colorful:                  true,                   // Enable colorful logs
		},
	)
	// TranslateError maps unique-constraint violations to
	// gorm.ErrDuplicatedKey, which CreatePayment relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(&models.Payment{}, &models.Account{}, &models.EmailLog{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

func (db *PostgresDB) PaymentExists(reference string) (bool, error) {
	var payment models.Payment
	if err := db.Conn.Select("id").Where("reference = ?", reference).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if payment exists: %s", err)
	}

	return true, nil
}

// CreatePayment inserts the payment record. The unique index on reference
// makes this the authoritative idempotency guard: a concurrent insert for
// the same reference loses here and gets ErrDuplicateReference, which
// callers treat as already-processed rather than failure.
func (db *PostgresDB) CreatePayment(payment *models.Payment) error {
	if err := db.Conn.Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateReference
		}
		return fmt.Errorf("failed to create payment: %s", err)
	}

	return nil
}

func (db *PostgresDB) ListPayments(limit, offset int) ([]*models.Payment, error) {
	var payments []*models.Payment
	if err := db.Conn.Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %s", err)
	}

	return payments, nil
}

func (db *PostgresDB) GetAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := db.Conn.Where("email = ?", strings.ToLower(email)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by email: %s", err)
	}

	return &account, nil
}

func (db *PostgresDB) GetAccount(id string) (*models.Account, error) {
	var account models.Account
	if err := db.Conn.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %s", err)
	}

	return &account, nil
}

func (db *PostgresDB) UpsertAccount(account *models.Account) error {
	account.Email = strings.ToLower(account.Email)
	var existing models.Account
	err := db.Conn.Where("id = ?", account.ID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to get account for upsert: %s", err)
		}
		if err := db.Conn.Create(account).Error; err != nil {
			return fmt.Errorf("failed to create account: %s", err)
		}
		return nil
	}

	existing.Email = account.Email
	existing.FullName = account.FullName
	existing.Phone = account.Phone
	existing.Paid = account.Paid
	if account.Role != "" {
		existing.Role = account.Role
	}
	if err := db.Conn.Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update account: %s", err)
	}

	return nil
}

func (db *PostgresDB) SetAccountPaid(id string, paid bool) error {
	var account models.Account
	if err := db.Conn.Where("id = ?", id).First(&account).Error; err != nil {
		return fmt.Errorf("failed to get account: %s", err)
	}

	account.Paid = paid
	if err := db.Conn.Save(&account).Error; err != nil {
		return fmt.Errorf("failed to update account paid status: %s", err)
	}

	return nil
}

func (db *PostgresDB) AddEmailLog(email, emailType, status string) error {
	entry := models.EmailLog{
		UserEmail: strings.ToLower(email),
		Type:      emailType,
		Status:    status,
	}
	db.logger.Debug("Adding email log ", "entry ", entry)
	if err := db.Conn.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to add email log: %s", err)
	}
	return nil
}
