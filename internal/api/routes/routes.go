package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/polyvisor/metric-ledger/internal/api/handlers"
	"github.com/polyvisor/metric-ledger/internal/config"
	"github.com/polyvisor/metric-ledger/internal/engine"
	"github.com/polyvisor/metric-ledger/internal/events"
	"github.com/polyvisor/metric-ledger/internal/ledger"
	"github.com/polyvisor/metric-ledger/internal/models"
	"github.com/polyvisor/metric-ledger/internal/proof"
	"github.com/polyvisor/metric-ledger/internal/repository"
	"github.com/polyvisor/metric-ledger/internal/service"
	"github.com/polyvisor/metric-ledger/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Setup wires the full stack: persistence mirror, verification engine,
// ledger, service and HTTP routes.
func Setup(router *gin.Engine, cfg *config.Config) {
	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	repo := repository.NewMetricRepository(db)
	verifier := proof.NewVerifier(buildEngine(cfg))

	led := ledger.New(verifier, events.LogSink{}, nil)
	for _, reporter := range cfg.TrustedReporters {
		led.RegisterReporter(reporter)
	}

	ledgerService := service.NewLedgerService(led, repo)
	handler := handlers.NewLedgerHandler(ledgerService)

	// Liveness
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/metrics", handler.SubmitMetric)
		v1.POST("/metrics/batch", handler.SubmitBatch)
		v1.GET("/metrics/:category", handler.GetMetric)
		v1.GET("/metrics/:category/history", handler.GetMetricHistory)

		v1.GET("/health-score", handler.GetHealthScore)
		v1.GET("/reputation/:reporter", handler.GetReputation)
		v1.PUT("/privacy-level", handler.SetPrivacyLevel)
		v1.GET("/proofs/:ref/verify", handler.VerifyProof)

		// Admin routes; caller authorization is delegated to the token
		// middleware (an external concern from the ledger's point of view).
		admin := v1.Group("/admin", adminAuth(cfg.AdminToken))
		{
			admin.POST("/reporters", handler.RegisterReporter)
			admin.GET("/reporters", handler.ListReporters)
			admin.GET("/stats", handler.GetStats)
		}
	}
}

// buildEngine picks the cryptographic verification collaborator. Without a
// configured verifier service the static engine stands in (every
// structurally sound proof passes).
func buildEngine(cfg *config.Config) engine.Engine {
	if cfg.UseMockEngine || cfg.VerifierURL == "" {
		logger.Info("Using static verification engine")
		return engine.NewStaticEngine(true)
	}
	logger.Info("Using external verification engine", zap.String("url", cfg.VerifierURL))
	return engine.NewHTTPEngine(cfg.VerifierURL, cfg.VerifierAPIKey)
}

// adminAuth guards administrative routes with a shared token. An empty
// configured token leaves the routes open for local development.
func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token != "" && c.GetHeader("X-Admin-Token") != token {
			c.AbortWithStatusJSON(http.StatusForbidden, handlers.ErrorResponse{
				Error:   "Forbidden",
				Message: "Missing or invalid admin token",
			})
			return
		}
		c.Next()
	}
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.DatabaseURL == "" {
		logger.Info("No database URL configured, using in-memory SQLite")
		// Pure Go SQLite (no CGO required)
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
		}
	} else {
		logger.Info("Connecting to PostgreSQL database")
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			return nil, err
		}
	}

	err = db.AutoMigrate(
		&models.MetricHistory{},
		&models.StoredProof{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database initialized successfully")
	return db, nil
}
