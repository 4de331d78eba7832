package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/accountant"
	"github.com/vuongle/taxmate/internal/ai"
	"github.com/vuongle/taxmate/internal/api"
	"github.com/vuongle/taxmate/internal/auth"
	"github.com/vuongle/taxmate/internal/backup"
	"github.com/vuongle/taxmate/internal/chat"
	"github.com/vuongle/taxmate/internal/config"
	"github.com/vuongle/taxmate/internal/report"
	"github.com/vuongle/taxmate/internal/repository"
	"github.com/vuongle/taxmate/internal/tax"
	"github.com/vuongle/taxmate/pkg/database"
	"github.com/vuongle/taxmate/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting TaxMate",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(repository.Migrations); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Report.OutputDir, 0755); err != nil {
		logger.Fatal("Failed to create report output directory", zap.Error(err))
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db.DB, logger)
	transactionRepo := repository.NewTransactionRepository(db.DB, logger)
	chatRepo := repository.NewChatRepository(db.DB, logger)
	bookingRepo := repository.NewBookingRepository(db.DB, logger)

	// Initialize AI components
	extractor := ai.NewExtractor(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Temperature, logger)
	licenseReader := ai.NewLicenseReader(cfg.OpenAI.APIKey, cfg.OpenAI.VisionModel, logger)

	// Initialize services
	taxEngine := tax.NewEngine(tax.DefaultPolicy())
	authService := auth.NewService(accountRepo, cfg.Auth.SessionTTL, logger)
	chatService := chat.NewService(chatRepo, transactionRepo, extractor, logger)
	accountantService := accountant.NewService(bookingRepo, accountRepo, chatRepo, accountant.Config{
		Name:           cfg.Accountant.Name,
		LicenseNumber:  cfg.Accountant.LicenseNumber,
		PricePerFiling: cfg.Accountant.PricePerFiling,
	}, logger)
	reportGenerator := report.NewGenerator(logger)
	backupService := backup.NewService(
		backup.NewCodec(cfg.Backup.Passphrase),
		accountRepo, transactionRepo, chatRepo, bookingRepo, logger,
	)

	// Set Gin mode based on logger level
	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize HTTP router
	router := api.NewRouter(api.Handlers{
		Auth:        api.NewAuthHandler(authService, logger),
		Profile:     api.NewProfileHandler(accountRepo, licenseReader, logger),
		Transaction: api.NewTransactionHandler(transactionRepo, logger),
		Tax:         api.NewTaxHandler(taxEngine, transactionRepo, logger),
		Chat:        api.NewChatHandler(chatService, logger),
		Accountant:  api.NewAccountantHandler(accountantService, logger),
		Report:      api.NewReportHandler(reportGenerator, taxEngine, transactionRepo, logger),
		Backup:      api.NewBackupHandler(backupService, logger),
	}, authService, accountantService, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
