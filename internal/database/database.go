package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shifty/server/internal/models"
)

var (
	ErrIntentNotFound     = errors.New("payment intent not found")
	ErrDuplicateReference = errors.New("payment reference already exists")
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{db: db}, nil
}

// GetDB exposes the underlying connection for transactions
func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreatePaymentIntent stores a new pending intent
func (d *Database) CreatePaymentIntent(intent *models.PaymentIntent) error {
	if err := d.db.Create(intent).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to insert payment intent: %w", err)
	}
	return nil
}

// GetPaymentIntentByReference looks up an intent by its public reference
func (d *Database) GetPaymentIntentByReference(reference string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := d.db.Where("reference = ?", reference).First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payment intent: %w", err)
	}
	return &intent, nil
}

// GetWebhookEvents returns the events logged for a reference, oldest first
func (d *Database) GetWebhookEvents(reference string) ([]models.WebhookEvent, error) {
	var events []models.WebhookEvent
	if err := d.db.Where("reference = ?", reference).Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query webhook events: %w", err)
	}
	return events, nil
}

// ApplyWebhookEvents logs each event and moves pending intents to the
// reported status. It returns the intents that changed. Events for unknown
// or already final intents are logged without an applied timestamp.
func ApplyWebhookEvents(tx *gorm.DB, events []*models.WebhookEvent) ([]models.PaymentIntent, error) {
	var changed []models.PaymentIntent

	for _, event := range events {
		var intent models.PaymentIntent
		err := tx.Where("reference = ?", event.Reference).First(&intent).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load intent %s: %w", event.Reference, err)
		}

		logged := *event
		logged.ID = 0
		logged.AppliedAt = nil

		if err == nil && !intent.IsFinal() {
			now := time.Now().UTC()
			result := tx.Model(&models.PaymentIntent{}).
				Where("id = ? AND status = ?", intent.ID, models.PaymentStatusPending).
				Updates(map[string]interface{}{"status": event.Status, "updated_at": now})
			if result.Error != nil {
				return nil, fmt.Errorf("failed to update intent %s: %w", event.Reference, result.Error)
			}
			if result.RowsAffected > 0 {
				intent.Status = event.Status
				intent.UpdatedAt = now
				logged.AppliedAt = &now
				changed = append(changed, intent)
			}
		}

		if err := tx.Create(&logged).Error; err != nil {
			return nil, fmt.Errorf("failed to log webhook event: %w", err)
		}
	}

	return changed, nil
}

// ExpireStaleIntents marks pending intents created before the cutoff as expired
func (d *Database) ExpireStaleIntents(before time.Time) (int64, error) {
	result := d.db.Model(&models.PaymentIntent{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, before.UTC()).
		Updates(map[string]interface{}{"status": models.PaymentStatusExpired, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire payment intents: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
