package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/modelstore-api/auth"
	"github.com/junaidrashid-git/modelstore-api/catalog"
	"github.com/junaidrashid-git/modelstore-api/config"
	orderControllers "github.com/junaidrashid-git/modelstore-api/controllers/order"
	"github.com/junaidrashid-git/modelstore-api/middleware"
	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/routes"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	defer log.Sync()
	log.Info("✅ Starting application...", zap.String("env", cfg.Env))

	// Init DB
	db := initDatabase(cfg.DatabaseURL, log)

	// Auto-migrate all tables
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		log.Fatal("❌ AutoMigrate failed", zap.Error(err))
	}

	if cfg.SeedDemoUsers {
		if err := auth.SeedDemoUsers(db, log); err != nil {
			log.Fatal("❌ Failed to seed demo users", zap.Error(err))
		}
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatal("❌ Failed to load catalog", zap.Error(err))
	}
	log.Info("📦 Catalog loaded", zap.Int("products", cat.Len()), zap.String("locale", cat.Locale().String()))

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.LoginRate), cfg.LoginBurst)
	go limiter.Cleanup(context.Background(), 5*time.Minute)

	// Gin setup
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// CORS settings
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:          db,
		Catalog:     catalog.NewLive(cat),
		Tokens:      auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Hub:         orderControllers.NewHub(log, middleware.AllowOrigin(cfg.CORSOrigins)),
		Limiter:     limiter,
		AdminAPIKey: cfg.AdminAPIKey,
		Log:         log,
	})

	// Start server
	log.Info("🚀 Server running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

func newLogger(cfg config.Server) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if cfg.Development() {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewExample()
	}
	return log
}

// initDatabase sets up the GORM DB connection
func initDatabase(dsn string, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ DB connection failed", zap.Error(err))
	}
	return db
}

// loadCatalog uses the embedded catalog unless CATALOG_XLSX points to a
// spreadsheet.
func loadCatalog(cfg config.Server) (*catalog.Catalog, error) {
	tag, err := language.Parse(cfg.CatalogLocale)
	if err != nil {
		return nil, fmt.Errorf("CATALOG_LOCALE: %w", err)
	}
	if cfg.CatalogXLSX == "" {
		return catalog.Default(catalog.WithLocale(tag))
	}

	f, err := os.Open(cfg.CatalogXLSX)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	products, _, err := catalog.LoadXLSX(f, info.Size())
	if err != nil {
		return nil, err
	}
	return catalog.New(products, catalog.WithLocale(tag))
}

// corsConfig allows the configured origins plus any *.vercel.app deployment.
func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOriginFunc:  middleware.AllowOrigin(origins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
