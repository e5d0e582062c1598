// Package config reads the environment (optionally from a .env file) for the
// API server and the storefront CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Server struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	AdminAPIKey   string
	FrontendURL   string
	CORSOrigins   []string
	LoginRate     float64
	LoginBurst    int
	CatalogLocale string
	CatalogXLSX   string
	SeedDemoUsers bool
	Env           string
}

func (s Server) Development() bool { return s.Env == "development" }

type Storefront struct {
	APIURL       string
	DataDir      string
	PaymentDelay time.Duration
}

var ErrMissingSecret = errors.New("config: JWT_SECRET is required outside development")

const devJWTSecret = "dev-secret-change-me"

// Default origins allowed by CORS in addition to CORS_ORIGINS.
var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
}

// LoadEnv loads .env files into the process environment. Missing files are
// ignored.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// LoadServer reads the server settings.
func LoadServer() (Server, error) {
	cfg := Server{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   databaseURL(),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminAPIKey:   os.Getenv("ADMIN_API_KEY"),
		FrontendURL:   os.Getenv("FRONTEND_URL"),
		CatalogLocale: getenv("CATALOG_LOCALE", "es"),
		CatalogXLSX:   os.Getenv("CATALOG_XLSX"),
		Env:           getenv("APP_ENV", "production"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.LoginRate, err = getFloat("LOGIN_RATE_LIMIT", 5); err != nil {
		return cfg, err
	}
	if cfg.LoginBurst, err = getInt("LOGIN_RATE_BURST", 10); err != nil {
		return cfg, err
	}
	if cfg.SeedDemoUsers, err = getBool("SEED_DEMO_USERS", false); err != nil {
		return cfg, err
	}

	cfg.CORSOrigins = append([]string{}, defaultOrigins...)
	if cfg.FrontendURL != "" {
		cfg.CORSOrigins = append(cfg.CORSOrigins, cfg.FrontendURL)
	}
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if cfg.JWTSecret == "" {
		if !cfg.Development() {
			return cfg, ErrMissingSecret
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

// LoadStorefront reads the storefront settings.
func LoadStorefront() (Storefront, error) {
	cfg := Storefront{
		APIURL:  getenv("STOREFRONT_API_URL", "http://localhost:8080/api"),
		DataDir: os.Getenv("STOREFRONT_DATA_DIR"),
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("config: resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".modelstore")
	}

	var err error
	cfg.PaymentDelay, err = getDuration("PAYMENT_DELAY", 2*time.Second)
	return cfg, err
}

// databaseURL prefers DATABASE_URL and falls back to the DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), getenv("DB_PORT", "5432"),
	)
}

// ---------- Helpers ----------
func getenv(key, d string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return d
}

func getInt(key string, d int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return d, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return d, fmt.Errorf("config: %s: %w", key, err)
	}
	return i, nil
}

func getFloat(key string, d float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return d, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return d, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, d bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return d, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, d time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return d, nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return d, fmt.Errorf("config: %s: %w", key, err)
	}
	return dur, nil
}
