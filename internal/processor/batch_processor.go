package processor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shifty/server/config"
	"shifty/server/internal/database"
	"shifty/server/internal/models"
	"shifty/server/internal/queue"
)

// TxRunner runs a function inside a database transaction. *gorm.DB satisfies it.
type TxRunner interface {
	Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error
}

// Notifier is told about intents that were just captured
type Notifier interface {
	NotifyPaymentCaptured(intent models.PaymentIntent) error
}

// BatchProcessor applies batches of webhook events to stored payment intents
type BatchProcessor struct {
	db       TxRunner
	logger   *logrus.Logger
	config   *config.Config
	queue    *queue.EventQueue
	notifier Notifier
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance. notifier may be nil.
func NewBatchProcessor(db TxRunner, queue *queue.EventQueue, config *config.Config, notifier Notifier, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:       db,
		queue:    queue,
		config:   config,
		notifier: notifier,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the queue and starts its workers
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
	p.queue.Start(p.config.Webhooks.ProcessorCount)
}

// Stop abandons pending retries, then closes the queue and waits for the
// workers to drain it. Batches still queued get a single attempt.
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.queue.Close()
}

// processBatch applies a batch in one transaction with retry logic
func (p *BatchProcessor) processBatch(batch []*models.WebhookEvent) error {
	maxRetries := p.config.Webhooks.MaxRetries
	retryDelay := time.Duration(p.config.Webhooks.RetryDelay) * time.Second

	var changed []models.PaymentIntent
	var err error
	attempts := 0
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-p.ctx.Done():
				return fmt.Errorf("batch abandoned during shutdown after %d attempts: %w", attempts, err)
			case <-time.After(retryDelay):
			}
			p.logger.Infof("Retrying webhook batch, attempt %d of %d", attempt, maxRetries)
		}

		attempts++
		err = p.db.Transaction(func(tx *gorm.DB) error {
			var applyErr error
			changed, applyErr = database.ApplyWebhookEvents(tx, batch)
			if applyErr != nil {
				return fmt.Errorf("failed to apply webhook batch: %w", applyErr)
			}
			return nil
		})

		if err == nil {
			p.logger.WithFields(logrus.Fields{
				"events":  len(batch),
				"applied": len(changed),
			}).Info("Processed webhook batch")
			p.notify(changed)
			return nil
		}

		p.logger.WithError(err).Error("Webhook batch processing failed")
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", attempts, err)
}

func (p *BatchProcessor) notify(changed []models.PaymentIntent) {
	if p.notifier == nil {
		return
	}
	for _, intent := range changed {
		if intent.Status != models.PaymentStatusCaptured {
			continue
		}
		if err := p.notifier.NotifyPaymentCaptured(intent); err != nil {
			p.logger.WithError(err).WithField("reference", intent.Reference).Error("Failed to send capture notification")
		}
	}
}
