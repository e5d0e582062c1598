package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serverKeys = []string{
	"PORT", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"JWT_SECRET", "JWT_TTL", "ADMIN_API_KEY", "FRONTEND_URL", "CORS_ORIGINS",
	"LOGIN_RATE_LIMIT", "LOGIN_RATE_BURST", "CATALOG_LOCALE", "CATALOG_XLSX",
	"SEED_DEMO_USERS", "APP_ENV",
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadServer_Defaults(t *testing.T) {
	clearEnv(t, serverKeys...)
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5.0, cfg.LoginRate)
	assert.Equal(t, 10, cfg.LoginBurst)
	assert.Equal(t, "es", cfg.CatalogLocale)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.False(t, cfg.SeedDemoUsers)
	assert.Contains(t, cfg.DatabaseURL, "port=5432")
}

func TestLoadServer_SecretRequiredInProduction(t *testing.T) {
	clearEnv(t, serverKeys...)

	_, err := LoadServer()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadServer_Overrides(t *testing.T) {
	clearEnv(t, serverKeys...)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/store")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("FRONTEND_URL", "https://shop.example.com")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SEED_DEMO_USERS", "true")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db/store", cfg.DatabaseURL)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.SeedDemoUsers)
	assert.Subset(t, cfg.CORSOrigins, []string{
		"https://shop.example.com", "https://a.example.com", "https://b.example.com",
	})
}

func TestLoadServer_InvalidNumber(t *testing.T) {
	clearEnv(t, serverKeys...)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOGIN_RATE_BURST", "lots")

	_, err := LoadServer()
	assert.ErrorContains(t, err, "LOGIN_RATE_BURST")
}

func TestLoadStorefront(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOREFRONT_API_URL", "")
	t.Setenv("STOREFRONT_DATA_DIR", dir)
	t.Setenv("PAYMENT_DELAY", "10ms")

	cfg, err := LoadStorefront()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 10*time.Millisecond, cfg.PaymentDelay)
}

func TestLoadEnv_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STOREFRONT_TEST_VALUE=from-dotenv\n"), 0o600))
	t.Setenv("STOREFRONT_TEST_VALUE", "")
	os.Unsetenv("STOREFRONT_TEST_VALUE")

	LoadEnv(path)
	assert.Equal(t, "from-dotenv", os.Getenv("STOREFRONT_TEST_VALUE"))
}
