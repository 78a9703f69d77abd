package payments

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shifty/server/internal/database"
	"shifty/server/internal/models"
)

const (
	ReferencePrefix   = "SHIFTY-"
	DefaultMinAmount  = 1500
	referenceLength   = 6
	referenceAttempts = 3
)

var (
	ErrAmountTooLow   = errors.New("amount below minimum")
	ErrInvalidMethod  = errors.New("invalid payment method")
	ErrInvalidStatus  = errors.New("invalid webhook status")
	ErrIntentNotFound = database.ErrIntentNotFound
)

// Store persists payment intents
type Store interface {
	CreatePaymentIntent(intent *models.PaymentIntent) error
	GetPaymentIntentByReference(reference string) (*models.PaymentIntent, error)
}

// Publisher hands webhook events to the asynchronous processor
type Publisher interface {
	Push(events ...*models.WebhookEvent) error
}

// IntentRequest is a request to start a booking fee payment
type IntentRequest struct {
	Amount    float64
	ListingID string
	Method    string
}

// WebhookReceipt acknowledges a gateway callback
type WebhookReceipt struct {
	OK          bool            `json:"ok"`
	Received    ReceivedPayload `json:"received"`
	ForwardedAt time.Time       `json:"forwardedAt"`
}

type ReceivedPayload struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Service runs the mocked payment flow
type Service struct {
	store     Store
	events    Publisher
	minAmount int
	logger    *logrus.Logger
	now       func() time.Time
}

func NewService(store Store, events Publisher, minAmount int, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	if minAmount <= 0 {
		minAmount = DefaultMinAmount
	}
	return &Service{
		store:     store,
		events:    events,
		minAmount: minAmount,
		logger:    logger,
		now:       time.Now,
	}
}

// MinAmountMessage is the user-facing error for amounts below the minimum
func (s *Service) MinAmountMessage() string {
	return fmt.Sprintf("Amount must be at least ₹%s", FormatRupees(s.minAmount))
}

// CreateIntent validates and stores a new pending intent
func (s *Service) CreateIntent(req IntentRequest) (*models.PaymentIntent, error) {
	if math.IsNaN(req.Amount) || req.Amount < float64(s.minAmount) {
		return nil, ErrAmountTooLow
	}

	method := strings.ToLower(strings.TrimSpace(req.Method))
	if method == "" {
		method = models.PaymentMethodUPI
	}
	if method != models.PaymentMethodUPI && method != models.PaymentMethodCard {
		return nil, ErrInvalidMethod
	}

	intent := &models.PaymentIntent{
		Amount:    int(math.Round(req.Amount)),
		ListingID: strings.TrimSpace(req.ListingID),
		Method:    method,
		Status:    models.PaymentStatusPending,
	}

	var err error
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		intent.ID = uuid.NewString()
		intent.Reference = NewReference()

		err = s.store.CreatePaymentIntent(intent)
		if !errors.Is(err, database.ErrDuplicateReference) {
			break
		}
		s.logger.WithField("reference", intent.Reference).Warn("Payment reference collision, generating another")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store payment intent: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"reference": intent.Reference,
		"amount":    intent.Amount,
		"method":    intent.Method,
	}).Info("Created payment intent")

	return intent, nil
}

// GetIntent returns a stored intent by reference
func (s *Service) GetIntent(reference string) (*models.PaymentIntent, error) {
	return s.store.GetPaymentIntentByReference(strings.TrimSpace(reference))
}

// ReceiveWebhook accepts a gateway callback for a known intent and queues it
// for processing.
func (s *Service) ReceiveWebhook(reference, status string) (*WebhookReceipt, error) {
	if reference == "" || (status != models.PaymentStatusCaptured && status != models.PaymentStatusFailed) {
		return nil, ErrInvalidStatus
	}

	if _, err := s.store.GetPaymentIntentByReference(reference); err != nil {
		return nil, err
	}

	forwardedAt := s.now().UTC()
	event := &models.WebhookEvent{
		Reference:   reference,
		Status:      status,
		ForwardedAt: forwardedAt,
	}
	if err := s.events.Push(event); err != nil {
		return nil, fmt.Errorf("failed to queue webhook event: %w", err)
	}

	return &WebhookReceipt{
		OK:          true,
		Received:    ReceivedPayload{Reference: reference, Status: status},
		ForwardedAt: forwardedAt,
	}, nil
}

// NewReference returns a reference like SHIFTY-3F9A1C
func NewReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ReferencePrefix + strings.ToUpper(id[:referenceLength])
}

// FormatRupees groups digits the Indian way: 1,500 and 1,50,000.
func FormatRupees(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	if len(digits) <= 3 {
		return sign + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return sign + strings.Join(groups, ",") + "," + tail
}
