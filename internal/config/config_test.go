package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"fakestore-ingestor/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "file:ingestor.db")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "file:ingestor.db", cfg.DBDSN)
	require.Equal(t, "https://fakestoreapi.com/", cfg.BaseURL)
	require.Equal(t, "products", cfg.ProductsPath)
	require.Equal(t, 30*time.Second, cfg.FetchTimeout)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 10, cfg.ImportRateLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://u:p@localhost/store")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("INGEST_BASE_URL", "http://catalog.internal:9000/api/")
	t.Setenv("INGEST_PRODUCTS_ENDPOINT", "v2/products")
	t.Setenv("INGEST_TIMEOUT", "5s")
	t.Setenv("PORT", "9090")
	t.Setenv("IMPORT_RATE_LIMIT", "3")

	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	require.Equal(t, "pgx", cfg.DBDriver)
	require.Equal(t, "http://catalog.internal:9000/api/", cfg.BaseURL)
	require.Equal(t, "v2/products", cfg.ProductsPath)
	require.Equal(t, 5*time.Second, cfg.FetchTimeout)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 3, cfg.ImportRateLimit)
}

func TestLoadRequiresConnectionString(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := config.FromViper(viper.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "DBDSN")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DSN", "x")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.FromViper(viper.New())
	require.Error(t, err)
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	t.Setenv("DB_DSN", "x")
	t.Setenv("INGEST_BASE_URL", "not a url")

	_, err := config.FromViper(viper.New())
	require.Error(t, err)
}
