package processor

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shifty/server/config"
	"shifty/server/internal/database"
	"shifty/server/internal/models"
	"shifty/server/internal/queue"
)

// MockDB is a mock implementation of TxRunner
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error {
	args := m.Called(fc)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyPaymentCaptured(intent models.PaymentIntent) error {
	args := m.Called(intent)
	return args.Error(0)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Webhooks.ProcessorCount = 2
	cfg.Webhooks.MaxRetries = 2
	cfg.Webhooks.RetryDelay = 0
	return cfg
}

func setupTestDB(t *testing.T) *database.Database {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func createIntent(t *testing.T, db *database.Database, reference string) {
	require.NoError(t, db.CreatePaymentIntent(&models.PaymentIntent{
		ID:        reference + "-id",
		Reference: reference,
		Amount:    2000,
		Method:    models.PaymentMethodUPI,
		Status:    models.PaymentStatusPending,
	}))
}

func TestNewBatchProcessor(t *testing.T) {
	mockDB := &MockDB{}
	eventQueue := queue.NewEventQueue(10, nil)
	cfg := testConfig()
	logger := logrus.New()

	processor := NewBatchProcessor(mockDB, eventQueue, cfg, nil, logger)

	assert.NotNil(t, processor)
	assert.Equal(t, mockDB, processor.db)
	assert.Equal(t, eventQueue, processor.queue)
	assert.Equal(t, cfg, processor.config)
	assert.Equal(t, logger, processor.logger)
}

func TestBatchProcessor_ProcessBatch(t *testing.T) {
	mockDB := &MockDB{}
	processor := NewBatchProcessor(mockDB, queue.NewEventQueue(10, nil), testConfig(), nil, logrus.New())

	batch := []*models.WebhookEvent{
		{Reference: "SHIFTY-AAAAAA", Status: models.PaymentStatusCaptured},
	}

	// Test successful processing
	mockDB.On("Transaction", mock.Anything).Return(nil).Once()
	err := processor.processBatch(batch)
	assert.NoError(t, err)

	// Test retry on failure: one attempt plus two retries
	mockDB.On("Transaction", mock.Anything).Return(errors.New("db error")).Times(3)
	err = processor.processBatch(batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process batch after 3 attempts")
	mockDB.AssertExpectations(t)
}

func TestBatchProcessor_RecoversOnRetry(t *testing.T) {
	mockDB := &MockDB{}
	processor := NewBatchProcessor(mockDB, queue.NewEventQueue(10, nil), testConfig(), nil, logrus.New())

	mockDB.On("Transaction", mock.Anything).Return(errors.New("database is locked")).Once()
	mockDB.On("Transaction", mock.Anything).Return(nil).Once()

	assert.NoError(t, processor.processBatch([]*models.WebhookEvent{{Reference: "SHIFTY-AAAAAA"}}))
	mockDB.AssertNumberOfCalls(t, "Transaction", 2)
}

func TestBatchProcessor_StopAbandonsRetries(t *testing.T) {
	mockDB := &MockDB{}
	cfg := testConfig()
	cfg.Webhooks.RetryDelay = 60
	processor := NewBatchProcessor(mockDB, queue.NewEventQueue(10, nil), cfg, nil, logrus.New())

	mockDB.On("Transaction", mock.Anything).Return(errors.New("db error"))
	processor.cancel()

	start := time.Now()
	err := processor.processBatch([]*models.WebhookEvent{{Reference: "SHIFTY-AAAAAA"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abandoned during shutdown")
	assert.Less(t, time.Since(start), 5*time.Second)
	mockDB.AssertNumberOfCalls(t, "Transaction", 1)
}

func TestBatchProcessor_AppliesEventsAndNotifies(t *testing.T) {
	db := setupTestDB(t)
	createIntent(t, db, "SHIFTY-AAAAAA")
	createIntent(t, db, "SHIFTY-BBBBBB")

	notifier := &MockNotifier{}
	notifier.On("NotifyPaymentCaptured", mock.MatchedBy(func(intent models.PaymentIntent) bool {
		return intent.Reference == "SHIFTY-AAAAAA"
	})).Return(errors.New("telegram down")).Once()

	eventQueue := queue.NewEventQueue(10, nil)
	processor := NewBatchProcessor(db.GetDB(), eventQueue, testConfig(), notifier, logrus.New())
	processor.Start()

	require.NoError(t, eventQueue.Push(
		&models.WebhookEvent{Reference: "SHIFTY-AAAAAA", Status: models.PaymentStatusCaptured, ForwardedAt: time.Now()},
		&models.WebhookEvent{Reference: "SHIFTY-BBBBBB", Status: models.PaymentStatusFailed, ForwardedAt: time.Now()},
	))

	// Stop drains the queue
	processor.Stop()
	assert.True(t, eventQueue.IsClosed())

	captured, err := db.GetPaymentIntentByReference("SHIFTY-AAAAAA")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCaptured, captured.Status)

	failed, err := db.GetPaymentIntentByReference("SHIFTY-BBBBBB")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, failed.Status)

	// A failed notification does not undo the capture
	notifier.AssertExpectations(t)
}

func TestBatchProcessor_StartStop(t *testing.T) {
	mockDB := &MockDB{}
	eventQueue := queue.NewEventQueue(10, nil)
	processor := NewBatchProcessor(mockDB, eventQueue, testConfig(), nil, logrus.New())

	processor.Start()
	processor.Stop()

	assert.True(t, eventQueue.IsClosed())
	assert.ErrorIs(t, eventQueue.Push(&models.WebhookEvent{Reference: "SHIFTY-AAAAAA"}), queue.ErrQueueClosed)
	mockDB.AssertNotCalled(t, "Transaction", mock.Anything)
}
