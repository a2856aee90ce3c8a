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

	"campusevents/config"
	"campusevents/internal/adapters/auth"
	"campusevents/internal/adapters/email"
	deliveryhttp "campusevents/internal/delivery/http"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
	bcryptCost      = 10
)

// @title Campus Events API
// @version 1.0
// @description Department event registration service: signup, event creation, registrations, and rosters.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("migrate database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	credentialRepo := postgres.NewCredentialRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	hostingRepo := postgres.NewHostingRepository(db)

	hasher := auth.NewBcryptHasher(bcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccess,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	policy := services.NewAccessPolicy(credentialRepo)
	authService := services.NewAuthService(userRepo, credentialRepo, departmentRepo, hasher, tokenIssuer, cfg.JWTExpiry, serviceTimeout)
	registrationService := services.NewRegistrationService(eventRepo, hostingRepo, userRepo, departmentRepo, policy, emailService, logger, serviceTimeout)
	queryService := services.NewQueryService(eventRepo, hostingRepo, serviceTimeout)

	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, registrationService, queryService)
	attendeeController := controllers.NewAttendeeController(logger, registrationService, queryService)
	departmentController := controllers.NewDepartmentController(logger, departmentRepo)

	mux := deliveryhttp.NewRouter(logger, tokenVerifier, authController, eventController, attendeeController, departmentController)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}
}
