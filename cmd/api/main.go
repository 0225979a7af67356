package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gst-invoice-api/internal/application/service"
	"github.com/sangkips/gst-invoice-api/internal/config"
	"github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/gst-invoice-api/internal/infrastructure/repository"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/handler"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/middleware"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/routes"
	"github.com/sangkips/gst-invoice-api/pkg/email"
	"github.com/sangkips/gst-invoice-api/pkg/logger"
	"github.com/sangkips/gst-invoice-api/pkg/metrics"
	"github.com/sangkips/gst-invoice-api/pkg/oauth"
	"github.com/sangkips/gst-invoice-api/pkg/printer"
	"github.com/sangkips/gst-invoice-api/pkg/session"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
	"github.com/sangkips/gst-invoice-api/pkg/validator"
	"go.uber.org/zap"
)

const idempotencySweepInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, !cfg.App.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	if cfg.EnvFile != "" {
		zlog.Info("loaded environment file", zap.String("path", cfg.EnvFile))
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validator.RegisterGin(); err != nil {
		zlog.Fatal("failed to register validators", zap.Error(err))
	}

	// Connect to database
	db, err := database.NewDB(&cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.SeedDefaultData(db, cfg.Admin, utils.HashPassword, zlog); err != nil {
		zlog.Warn("failed to seed default data", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Token revocation store
	var sessions session.Store
	if cfg.Redis.Enabled() {
		redisStore, err := session.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		zlog.Info("REDIS_ADDR not set, logout revocations are kept in memory")
		sessions = session.NewMemoryStore()
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Initialize repositories
	userRepo := infraRepo.NewUserRepository(db)
	roleRepo := infraRepo.NewRoleRepository(db)
	profileRepo := infraRepo.NewProfileRepository(db)
	clientRepo := infraRepo.NewClientRepository(db)
	documentRepo := infraRepo.NewDocumentRepository(db)
	hsnRepo := infraRepo.NewHSNRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
		StateSecret:        cfg.JWT.Secret,
	})

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:      cfg.Printer.Type,
		USBPath:   cfg.Printer.USBPath,
		Address:   cfg.Printer.Address,
		Timeout:   cfg.Printer.Timeout,
		CharWidth: cfg.Printer.CharWidth,
	})
	if err != nil {
		zlog.Warn("failed to initialize printer, printing disabled", zap.Error(err))
		thermalPrinter, _ = printer.New(printer.Config{Type: "none"})
	}
	defer thermalPrinter.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager, sessions, googleOAuthService, zlog)
	profileService := service.NewProfileService(profileRepo)
	clientService := service.NewClientService(clientRepo)
	hsnService := service.NewHSNService(hsnRepo, zlog)
	printerService := service.NewPrinterService(thermalPrinter, cfg.Printer.CharWidth, m, zlog)
	documentService := service.NewDocumentService(
		documentRepo, profileRepo, clientRepo, hsnService, printerService, emailService, m, zlog,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService, zlog),
		Profile:  handler.NewProfileHandler(profileService),
		Client:   handler.NewClientHandler(clientService),
		Document: handler.NewDocumentHandler(documentService),
		HSN:      handler.NewHSNHandler(hsnService, cfg.Upload.MaxSize),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests:        cfg.RateLimit.Requests,
		Window:          time.Duration(cfg.RateLimit.Duration) * time.Second,
		CleanupInterval: 5 * time.Minute,
		EntryTTL:        10 * time.Minute,
	})
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Sessions:        sessions,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         m,
		Log:             zlog,
	})

	go sweepIdempotencyKeys(ctx, idempotencyRepo, zlog)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("db_driver", cfg.Database.Driver),
			zap.String("printer", thermalPrinter.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

// sweepIdempotencyKeys drops expired idempotency records until ctx ends.
func sweepIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Warn("failed to delete expired idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("deleted expired idempotency keys", zap.Int64("count", n))
			}
		}
	}
}
