package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development staging production test"`

	FirebaseProject            string `env:"FIREBASE_PROJECT_ID" validate:"required"`
	FirebaseServiceAccountJSON string `env:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	FirebaseServiceAccountPath string `env:"FIREBASE_SERVICE_ACCOUNT_PATH" envDefault:"./firebase-adminsdk.json"`
	StorageBucket              string `env:"STORAGE_BUCKET"`

	OmisePublicKey       string        `env:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey       string        `env:"OMISE_SECRET_KEY"`
	OmiseMode            string        `env:"OMISE_MODE" envDefault:"test" validate:"oneof=test live"`
	OmiseKeyCacheTTL     time.Duration `env:"OMISE_KEY_CACHE_TTL" envDefault:"5m"`
	BankTransferMockMode bool          `env:"BANK_TRANSFER_MOCK_MODE" envDefault:"false"`
	PromptPayEnabled     bool          `env:"PROMPTPAY_ENABLED" envDefault:"true"`

	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`

	CronSecret          string        `env:"CRON_SECRET"`
	AutoConfirmDays     int           `env:"AUTO_CONFIRM_DAYS" envDefault:"7" validate:"min=1"`
	AutoConfirmInterval time.Duration `env:"AUTO_CONFIRM_INTERVAL" envDefault:"0s"`
	RedisURL            string        `env:"REDIS_URL"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	MailFrom       string `env:"MAIL_FROM" validate:"omitempty,email"`

	WSAllowedOrigins []string `env:"WS_ALLOWED_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := configValidator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
