package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the process configuration, populated from environment
// variables. SQLitePath is used by the polling entry point, SupabaseURL/Key
// by the serverless one.
type Config struct {
	TelegramToken     string        `env:"TELEGRAM_TOKEN,required,notEmpty"`
	FinanceAPIURL     string        `env:"FINANCE_API_URL,required,notEmpty"`
	FinanceAPITimeout time.Duration `env:"FINANCE_API_TIMEOUT" envDefault:"10s"`
	SQLitePath        string        `env:"SQLITE_PATH" envDefault:"users.db"`
	SupabaseURL       string        `env:"SUPABASE_URL"`
	SupabaseKey       string        `env:"SUPABASE_KEY"`
}

// LoadConfig reads an optional .env file and parses the environment.
func LoadConfig() (*Config, error) {
	// .env is a local-development convenience; deployments set variables
	// directly, so a missing file is not an error
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}
