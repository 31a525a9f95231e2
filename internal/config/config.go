package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       App
	Postgres  Postgres
	Redis     Redis
	Asynq     Asynq
	HTTP      HTTP
	Probe     Probe
	Metrics   Metrics
	Worker    Worker
	Comps     Comps
	Valuation Valuation
	Matching  Matching
	Priority  Priority
	Notifier  Notifier
	Bot       Bot
}

type App struct {
	Name     string `env:"APP_NAME" envDefault:"dealflow"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTP struct {
	ListenAddress    string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout  time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogFieldMaxLen   int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
	OperatorAPIToken string        `env:"HTTP_OPERATOR_API_TOKEN" json:"-"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Validate: %w", err)
	}

	return config, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	if c.Worker.BatchSize <= 0 {
		return fmt.Errorf("WORKER_BATCH_SIZE must be positive, got %d", c.Worker.BatchSize)
	}

	if c.Valuation.MinRepair > c.Valuation.MaxRepair {
		return fmt.Errorf("VALUATION_MIN_REPAIR %.0f exceeds VALUATION_MAX_REPAIR %.0f",
			c.Valuation.MinRepair, c.Valuation.MaxRepair)
	}

	if c.Valuation.DiscountRate <= 0 || c.Valuation.DiscountRate > 1 {
		return fmt.Errorf("VALUATION_DISCOUNT_RATE must be in (0, 1], got %v", c.Valuation.DiscountRate)
	}

	if _, err := c.Matching.Domain(); err != nil {
		return err
	}

	if _, err := c.Worker.ParsedStatuses(); err != nil {
		return err
	}

	if c.Notifier.Enabled && (c.Notifier.Token == "" || c.Notifier.ChatID == 0) {
		return fmt.Errorf("NOTIFIER_TOKEN and NOTIFIER_CHAT_ID are required when NOTIFIER_ENABLED")
	}

	if c.Bot.Enabled && (c.Bot.Token == "" || c.Bot.AdminID == 0) {
		return fmt.Errorf("BOT_TOKEN and BOT_ADMIN_ID are required when BOT_ENABLED")
	}

	return nil
}
