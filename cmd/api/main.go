package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/mediconnect/ehr-api/internal/config"
	"github.com/mediconnect/ehr-api/internal/email"
	"github.com/mediconnect/ehr-api/internal/handler"
	authHandler "github.com/mediconnect/ehr-api/internal/handler/auth"
	"github.com/mediconnect/ehr-api/internal/handler/patient"
	promHandler "github.com/mediconnect/ehr-api/internal/handler/prometheus"
	"github.com/mediconnect/ehr-api/internal/middleware"
	"github.com/mediconnect/ehr-api/internal/repository/postgres"
	"github.com/mediconnect/ehr-api/internal/router"
	authService "github.com/mediconnect/ehr-api/internal/service/auth"
	"github.com/mediconnect/ehr-api/internal/service/record"
	pkgauth "github.com/mediconnect/ehr-api/pkg/auth"
	"github.com/mediconnect/ehr-api/pkg/cache"
	"github.com/mediconnect/ehr-api/pkg/logger"
	"github.com/mediconnect/ehr-api/pkg/metrics"
	"github.com/mediconnect/ehr-api/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	store, err := storage.NewMinIO(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.UseSSL,
		cfg.Storage.PublicBase,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to object storage")
	}

	var bundleCache cache.Cache
	if cfg.Redis.URL != "" {
		bundleCache, err = cache.NewRedis(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
	} else {
		bundleCache = cache.NewMemory(cfg.Cache.TTL)
	}

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	chemistRepo := postgres.NewChemistRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	testRepo := postgres.NewTestRecordRepository(db)
	allergyRepo := postgres.NewAllergyRepository(db)

	// Services
	appMetrics := metrics.NewMetrics("mediconnect", "api")
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	emailSvc := email.NewNoopService()
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(cfg.SMTP, cfg.SMTP.NotifyTo)
	}

	recordSvc := record.NewService(
		patientRepo,
		prescriptionRepo,
		testRepo,
		allergyRepo,
		store,
		appLogger,
		record.WithCache(bundleCache, cfg.Cache.TTL),
		record.WithMetrics(appMetrics),
	)
	authSvc := authService.NewService(patientRepo, doctorRepo, chemistRepo, jwtSvc, emailSvc, appLogger)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc)
	patientH := patient.NewHandler(recordSvc, authMiddleware)
	promH := promHandler.New()

	r := router.NewRouter(authH, patientH, h, promH, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORS:             middleware.DefaultCORSConfig(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
