package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5250"`

		// gin mode: debug, release or test
		Mode string `env:"GIN_MODE" envDefault:"release"`

		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

		// Seconds to wait for in-flight requests on shutdown
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	}

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/shifty.db"`
	}

	Catalog struct {
		// Optional JSON file replacing the built-in listings
		ListingsPath string `env:"LISTINGS_PATH"`
	}

	Pricing struct {
		// Optional JSON file overriding the default price weights
		WeightsPath string `env:"PRICING_WEIGHTS_PATH"`
	}

	Payments struct {
		MinAmount int `env:"PAYMENT_MIN_AMOUNT" envDefault:"1500"`

		// Minutes before a pending intent expires
		IntentTTL int `env:"PAYMENT_INTENT_TTL" envDefault:"30"`

		// Seconds between expiry sweeps
		SweepInterval int `env:"PAYMENT_SWEEP_INTERVAL" envDefault:"60"`
	}

	Webhooks struct {
		// Number of event batches buffered before the endpoint rejects new ones
		QueueSize int `env:"WEBHOOK_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent event processors
		ProcessorCount int `env:"WEBHOOK_PROCESSOR_COUNT" envDefault:"1"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"WEBHOOK_RETRY_DELAY" envDefault:"1"`
	}

	Telegram struct {
		Enabled  bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
