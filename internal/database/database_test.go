package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shifty/server/internal/models"
)

func setupTestDB(t *testing.T) *Database {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func newIntent(id, reference string) *models.PaymentIntent {
	return &models.PaymentIntent{
		ID:        id,
		Reference: reference,
		Amount:    2000,
		Method:    models.PaymentMethodUPI,
		Status:    models.PaymentStatusPending,
	}
}

func TestCreateAndGetPaymentIntent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.CreatePaymentIntent(newIntent("id-1", "SHIFTY-AAAAAA")))

	stored, err := db.GetPaymentIntentByReference("SHIFTY-AAAAAA")
	require.NoError(t, err)
	assert.Equal(t, "id-1", stored.ID)
	assert.Equal(t, 2000, stored.Amount)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
	assert.False(t, stored.CreatedAt.IsZero())

	_, err = db.GetPaymentIntentByReference("SHIFTY-ZZZZZZ")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestCreatePaymentIntent_DuplicateReference(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.CreatePaymentIntent(newIntent("id-1", "SHIFTY-AAAAAA")))

	err := db.CreatePaymentIntent(newIntent("id-2", "SHIFTY-AAAAAA"))
	assert.ErrorIs(t, err, ErrDuplicateReference)
}

func TestApplyWebhookEvents(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.CreatePaymentIntent(newIntent("id-1", "SHIFTY-AAAAAA")))
	require.NoError(t, db.CreatePaymentIntent(newIntent("id-2", "SHIFTY-BBBBBB")))

	forwardedAt := time.Now().UTC()
	events := []*models.WebhookEvent{
		{Reference: "SHIFTY-AAAAAA", Status: models.PaymentStatusCaptured, ForwardedAt: forwardedAt},
		{Reference: "SHIFTY-BBBBBB", Status: models.PaymentStatusFailed, ForwardedAt: forwardedAt},
		// already captured by the first event
		{Reference: "SHIFTY-AAAAAA", Status: models.PaymentStatusFailed, ForwardedAt: forwardedAt},
		{Reference: "SHIFTY-UNKNWN", Status: models.PaymentStatusCaptured, ForwardedAt: forwardedAt},
	}

	var changed []models.PaymentIntent
	err := db.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = ApplyWebhookEvents(tx, events)
		return err
	})
	require.NoError(t, err)

	require.Len(t, changed, 2)
	assert.Equal(t, "SHIFTY-AAAAAA", changed[0].Reference)
	assert.Equal(t, models.PaymentStatusCaptured, changed[0].Status)
	assert.Equal(t, models.PaymentStatusFailed, changed[1].Status)

	first, err := db.GetPaymentIntentByReference("SHIFTY-AAAAAA")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCaptured, first.Status)

	logged, err := db.GetWebhookEvents("SHIFTY-AAAAAA")
	require.NoError(t, err)
	require.Len(t, logged, 2)
	assert.NotNil(t, logged[0].AppliedAt)
	assert.Nil(t, logged[1].AppliedAt)

	unknown, err := db.GetWebhookEvents("SHIFTY-UNKNWN")
	require.NoError(t, err)
	require.Len(t, unknown, 1)
	assert.Nil(t, unknown[0].AppliedAt)

	// callers' events are left untouched
	assert.Zero(t, events[0].ID)
	assert.Nil(t, events[0].AppliedAt)
}

func TestApplyWebhookEvents_RollsBackWithTransaction(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.CreatePaymentIntent(newIntent("id-1", "SHIFTY-AAAAAA")))

	err := db.GetDB().Transaction(func(tx *gorm.DB) error {
		if _, err := ApplyWebhookEvents(tx, []*models.WebhookEvent{
			{Reference: "SHIFTY-AAAAAA", Status: models.PaymentStatusCaptured, ForwardedAt: time.Now()},
		}); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	stored, err := db.GetPaymentIntentByReference("SHIFTY-AAAAAA")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)

	logged, err := db.GetWebhookEvents("SHIFTY-AAAAAA")
	require.NoError(t, err)
	assert.Empty(t, logged)
}

func TestExpireStaleIntents(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()

	stale := newIntent("id-1", "SHIFTY-AAAAAA")
	stale.CreatedAt = now.Add(-2 * time.Hour)
	fresh := newIntent("id-2", "SHIFTY-BBBBBB")
	fresh.CreatedAt = now.Add(-5 * time.Minute)
	settled := newIntent("id-3", "SHIFTY-CCCCCC")
	settled.Status = models.PaymentStatusCaptured
	settled.CreatedAt = now.Add(-3 * time.Hour)

	for _, intent := range []*models.PaymentIntent{stale, fresh, settled} {
		require.NoError(t, db.CreatePaymentIntent(intent))
	}

	expired, err := db.ExpireStaleIntents(now.Add(-30 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	tests := map[string]string{
		"SHIFTY-AAAAAA": models.PaymentStatusExpired,
		"SHIFTY-BBBBBB": models.PaymentStatusPending,
		"SHIFTY-CCCCCC": models.PaymentStatusCaptured,
	}
	for reference, status := range tests {
		stored, err := db.GetPaymentIntentByReference(reference)
		require.NoError(t, err)
		assert.Equal(t, status, stored.Status, reference)
	}

	expired, err = db.ExpireStaleIntents(now.Add(-30 * time.Minute))
	require.NoError(t, err)
	assert.Zero(t, expired)
}
