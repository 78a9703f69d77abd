package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"shifty/server/config"
	"shifty/server/internal/models"
)

const DefaultAPIBaseURL = "https://api.telegram.org"

type Config struct {
	Enabled  bool
	BotToken string
	ChatID   string

	// Overridable for tests
	APIBaseURL string
}

type Service struct {
	logger *logrus.Logger
	client *http.Client
	config Config
}

func NewService(cfg Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	return &Service{
		logger: logger,
		config: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether messages will actually be sent
func (s *Service) Enabled() bool {
	return s.config.Enabled
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if !s.config.Enabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("telegram chat ID is not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(s.config.APIBaseURL, "/"), s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found")
		default:
			return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyPaymentCaptured tells the operations chat that a booking fee came in
func (s *Service) NotifyPaymentCaptured(intent models.PaymentIntent) error {
	if !s.config.Enabled {
		return nil
	}

	return s.SendMessage(FormatCapturedMessage(intent))
}

// FormatCapturedMessage renders the operations message for a captured intent
func FormatCapturedMessage(intent models.PaymentIntent) string {
	listing := "No listing attached"
	if intent.ListingID != "" {
		listing = intent.ListingID
		if l := config.GetListingByID(intent.ListingID); l != nil {
			listing = fmt.Sprintf("%s (%s)", l.Title, l.Zone)
		}
	}

	return fmt.Sprintf(
		"<b>Booking fee captured</b>\n\n"+
			"🧾 %s\n"+
			"💰 ₹%d via %s\n"+
			"🏠 %s",
		intent.Reference,
		intent.Amount,
		strings.ToUpper(intent.Method),
		listing,
	)
}
