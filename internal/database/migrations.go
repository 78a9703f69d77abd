package database

import (
	"fmt"

	"shifty/server/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.PaymentIntent{}, &models.WebhookEvent{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Sweeps filter on both columns
	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payment_intents_status_created
		ON payment_intents(status, created_at);
	`).Error; err != nil {
		return fmt.Errorf("failed to create sweep index: %w", err)
	}

	return nil
}
