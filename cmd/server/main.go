package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"stock-tracker.backend/internal/config"
	"stock-tracker.backend/internal/infrastructure/ai"
	"stock-tracker.backend/internal/infrastructure/datasources/postgres"
	"stock-tracker.backend/internal/infrastructure/jobs"
	"stock-tracker.backend/internal/infrastructure/mailer"
	"stock-tracker.backend/internal/infrastructure/migrations"
	"stock-tracker.backend/internal/infrastructure/repositories"
	"stock-tracker.backend/internal/interfaces/http/handlers"
	"stock-tracker.backend/internal/interfaces/http/middleware"
	"stock-tracker.backend/internal/usecases"
	"stock-tracker.backend/pkg/jwt"
	"stock-tracker.backend/pkg/logger"
	"stock-tracker.backend/pkg/metrics"
	"stock-tracker.backend/pkg/redis"
)

const (
	serviceName     = "stock-tracker-backend"
	serviceVersion  = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = postgres.NewConnection
	openGorm   = postgres.OpenGorm
	migrateUp  = func(ctx context.Context, db *sql.DB) error {
		return migrations.NewRunner(db, migrations.DialectPostgres).Run(ctx, "up")
	}
	newSessionStore = redis.NewSessionStore
	newGenerator    = func(ctx context.Context, cfg config.AIConfig) (usecases.TextGenerator, error) {
		return ai.NewGeminiGenerator(ctx, cfg)
	}
	runServer     = serveHTTP
	notifyContext = signal.NotifyContext
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	initLog(cfg.Server.Env, cfg.Server.LogLevel)
	defer logger.Sync()

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sqlDB, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := migrateUp(ctx, sqlDB); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db, err := openGorm(sqlDB)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Connected to PostgreSQL")

	app, err := buildApp(ctx, cfg, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.cleanupJob.Start(gctx)
		return nil
	})
	g.Go(func() error {
		defer stop()
		logger.Info(gctx, "Stock Tracker backend starting", zap.String("port", cfg.Server.Port))
		if err := runServer(gctx, srv); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	err = g.Wait()
	app.cleanupJob.Stop()
	logger.Info(context.Background(), "Server stopped")
	return err
}

// app is the wired HTTP surface plus the background work it owns.
type app struct {
	router     *gin.Engine
	cleanupJob *jobs.AuthCleanupJob
	registry   *prometheus.Registry
}

func buildApp(ctx context.Context, cfg *config.Config, db *gorm.DB) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	mail, err := mailer.New(cfg.SMTP)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	if !cfg.SMTP.Enabled() {
		logger.Warn(ctx, "SMTP_HOST not set, emails will be logged instead of sent")
	}

	generator, err := newGenerator(ctx, cfg.AI)
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		logger.Warn(ctx, "GEMINI_API_KEY not set, AI endpoints are disabled")
		generator = ai.Disabled{}
	case err != nil:
		return nil, err
	}

	userRepo := repositories.NewUserRepository(db)
	emailVerifRepo := repositories.NewEmailVerificationRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	uow := repositories.NewUnitOfWork(db)

	authUsecase := usecases.NewAuthUsecase(userRepo, emailVerifRepo, uow, jwtService, mail, usecases.AuthOptions{
		RequireEmailVerification: cfg.Auth.RequireEmailVerification,
		OTPTTL:                   cfg.Auth.OTPTTL,
		OTPResendCooldown:        cfg.Auth.OTPResendCooldown,
	})
	resetUsecase := usecases.NewPasswordResetUsecase(
		userRepo,
		resetRepo,
		uow,
		jwt.NewResetTokenSigner(cfg.Auth.ResetSecret, cfg.Auth.ResetTTL),
		mail,
		cfg.Server.AppURL,
		cfg.Auth.ResetUnknownDelay,
	)
	productUsecase := usecases.NewProductUsecase(productRepo, categoryRepo, uow, metrics.NewImportMetrics(reg))
	orderUsecase := usecases.NewOrderUsecase(orderRepo)
	dashboardUsecase := usecases.NewDashboardUsecase(orderRepo, productRepo, userRepo)
	reportUsecase := usecases.NewReportUsecase(orderRepo, productRepo)
	settingsUsecase := usecases.NewSettingsUsecase(userRepo)
	aiUsecase := usecases.NewAIUsecase(generator, reportUsecase)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(metrics.NewHTTPMetrics(reg)))

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r)
	registerMetricsRoute(r, reg)
	registerAPIV1Routes(r, routeDeps{
		authHandler: handlers.NewAuthHandler(authUsecase, resetUsecase, sessionStore, handlers.CookieOptions{
			Secure:     cfg.Server.IsProduction(),
			AccessTTL:  cfg.JWT.AccessExpiry,
			RefreshTTL: cfg.JWT.RefreshExpiry,
		}),
		productHandler:   handlers.NewProductHandler(productUsecase),
		orderHandler:     handlers.NewOrderHandler(orderUsecase),
		dashboardHandler: handlers.NewDashboardHandler(dashboardUsecase, reportUsecase),
		settingsHandler:  handlers.NewSettingsHandler(settingsUsecase),
		aiHandler:        handlers.NewAIHandler(aiUsecase),
		authMiddleware:   middleware.AuthMiddleware(jwtService, sessionStore),
		maintenance:      cfg.Server.MaintenanceMode,
		authRateLimit:    cfg.Auth.RateLimit,
		authRateWindow:   cfg.Auth.RateWindow,
	})

	return &app{
		router:     r,
		cleanupJob: jobs.NewAuthCleanupJob(emailVerifRepo, resetRepo, metrics.NewJobMetrics(reg), cfg.Jobs.CleanupInterval),
		registry:   reg,
	}, nil
}

// serveHTTP runs srv until ctx is cancelled, then drains in-flight requests.
func serveHTTP(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
