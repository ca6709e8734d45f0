package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT" validate:"required,numeric"`
	DBDriver        string        `mapstructure:"DB_DRIVER" validate:"required,oneof=sqlite pgx"`
	DBDSN           string        `mapstructure:"DB_DSN" validate:"required"`
	BaseURL         string        `mapstructure:"INGEST_BASE_URL" validate:"required,url"`
	ProductsPath    string        `mapstructure:"INGEST_PRODUCTS_ENDPOINT" validate:"required"`
	FetchTimeout    time.Duration `mapstructure:"INGEST_TIMEOUT" validate:"gt=0"`
	LogLevel        string        `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	LogFile         string        `mapstructure:"LOG_FILE"`
	ImportRateLimit int           `mapstructure:"IMPORT_RATE_LIMIT" validate:"gte=1"`
}

var defaults = map[string]any{
	"PORT":                     "8080",
	"DB_DRIVER":                "sqlite",
	"INGEST_BASE_URL":          "https://fakestoreapi.com/",
	"INGEST_PRODUCTS_ENDPOINT": "products",
	"INGEST_TIMEOUT":           "30s",
	"LOG_LEVEL":                "info",
	"LOG_FILE":                 "",
	"IMPORT_RATE_LIMIT":        10,
}

// Load reads .env (if any) and the process environment. A missing DB_DSN or
// any invalid value is an error; callers treat it as fatal.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(viper.New())
}

// FromViper builds a Config from v after applying defaults and env binding.
func FromViper(v *viper.Viper) (Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	// DB_DSN has no default, so it must be bound for Unmarshal to see it.
	if err := v.BindEnv("DB_DSN"); err != nil {
		return Config{}, err
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
