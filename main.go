package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/edinetfin/config"
	"github.com/epeers/edinetfin/docs"
	"github.com/epeers/edinetfin/internal/cache"
	"github.com/epeers/edinetfin/internal/database"
	"github.com/epeers/edinetfin/internal/edinet"
	"github.com/epeers/edinetfin/internal/handlers"
	"github.com/epeers/edinetfin/internal/middleware"
	"github.com/epeers/edinetfin/internal/repository"
	"github.com/epeers/edinetfin/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// Create context for initialization
	ctx := context.Background()

	// Initialize database connection
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare schema: %v", err)
	}

	// Initialize EDINET client
	edinetClient := edinet.NewClientWithOptions(cfg.APIKey, edinet.Options{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.RequestTimeout,
		RatePerSec: cfg.RatePerSec,
		Burst:      cfg.MaxConcurrency,
	})

	// Initialize caches
	listingCache := cache.NewMemoryCache(15 * time.Minute)

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db.Pool)
	financialRepo := repository.NewFinancialStatementRepository(db.Pool)

	// Initialize services
	schedule, err := services.ScheduleByName(cfg.ScanSchedule, cfg.StrideDays)
	if err != nil {
		log.Fatalf("Invalid scan schedule: %v", err)
	}
	locator := services.NewLocator(edinetClient, listingCache)
	scanner := services.NewFilingScanner(locator, schedule, cfg.MaxConcurrency, cfg.RequestTimeout)
	financialSvc := services.NewFinancialService(scanner, edinetClient, financialRepo, companyRepo)
	companySvc := services.NewCompanyService(companyRepo)
	log.Infof("Registry scan schedule: %s (annual reports filed outside scheduled dates are not found)", schedule.Name())

	// Initialize handlers
	financialHandler := handlers.NewFinancialHandler(financialSvc)
	adminHandler := handlers.NewAdminHandler(companySvc)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Financial data routes
	router.POST("/companies/:code/fetch-financial-data", financialHandler.FetchFinancialData)
	router.GET("/companies/:code/financial-statements", financialHandler.GetFinancialStatements)
	router.POST("/documents/extract", financialHandler.ExtractDocument)

	// Admin routes
	admin := router.Group("/admin")
	{
		admin.POST("/companies", adminHandler.RegisterCompany)
		admin.POST("/companies/import", adminHandler.ImportCompanies)
		admin.DELETE("/companies/:code", adminHandler.DeleteCompany)
	}

	// API docs
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// A registry fetch can run for minutes; give it a bounded grace period
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
