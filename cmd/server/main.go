package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/smtp"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/recanto/api/internal/config"
	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/handler"
	"github.com/recanto/api/internal/jobs"
	"github.com/recanto/api/internal/middleware"
	"github.com/recanto/api/internal/repository"
	"github.com/recanto/api/internal/service"
	"github.com/recanto/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env when present; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	responsibleRepo := repository.NewResponsibleRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Mail dispatch: a buffered queue in front of SMTP. When mail is
	// disabled the dispatcher still runs with a no-op sender so the
	// enrollment flow never cares.
	var sender service.Sender
	if cfg.Mail.Enabled {
		var auth smtp.Auth
		if cfg.Mail.User != "" {
			auth = smtp.PlainAuth("", cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Host)
		}
		sender = &service.SMTPSender{
			Addr: cfg.Mail.Addr(),
			From: cfg.Mail.From,
			Auth: auth,
		}
	} else {
		sender = service.SenderFunc(func(service.Notification) error { return nil })
	}
	dispatcher := service.NewDispatcher(sender, cfg.Mail.Buffer, logger)
	defer dispatcher.Close()

	notifier := service.NewMailNotifier(dispatcher)

	// CEP lookup with provider fallback
	addressService := service.NewAddressService(service.AddressServiceConfig{
		Client:       &http.Client{Timeout: cfg.CEP.Timeout},
		ViaCEPURL:    cfg.CEP.ViaCEPURL,
		BrasilAPIURL: cfg.CEP.BrasilAPIURL,
		Logger:       logger,
	})

	// Response drafting chain: AI first when configured, template always
	var drafters []service.ResponseDrafter
	if cfg.Drafting.Endpoint != "" {
		drafters = append(drafters, service.NewAIDrafter(service.AIDrafterConfig{
			Client:   &http.Client{Timeout: cfg.Drafting.Timeout},
			Endpoint: cfg.Drafting.Endpoint,
			APIKey:   cfg.Drafting.APIKey,
		}))
	}
	drafters = append(drafters, &service.TemplateDrafter{})

	// Initialize services
	clientService := service.NewClientService(service.ClientServiceConfig{
		Repo:      clientRepo,
		Addresses: addressService,
		Signer:    jwtService,
		Logger:    logger,
	})

	activityService := service.NewActivityService(service.ActivityServiceConfig{
		Repo:         activityRepo,
		Responsibles: responsibleRepo,
	})

	responsibleService := service.NewResponsibleService(service.ResponsibleServiceConfig{
		Repo:       responsibleRepo,
		Activities: activityRepo,
	})

	enrollmentService := service.NewEnrollmentService(service.EnrollmentServiceConfig{
		Repo:       enrollmentRepo,
		Clients:    clientRepo,
		Activities: activityRepo,
		Notifier:   notifier,
	})

	reviewService := service.NewReviewService(service.ReviewServiceConfig{
		Repo:       reviewRepo,
		Clients:    clientRepo,
		Activities: activityRepo,
		Drafters:   drafters,
		Logger:     logger,
	})

	// Close activities whose schedule window has ended
	activityCloser := jobs.NewActivityCloser(activityRepo, 1*time.Hour, logger)
	activityCloser.Start()
	defer activityCloser.Stop()

	// Initialize idempotency store for enrollment submissions
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService)
	activityHandler := handler.NewActivityHandler(activityService)
	responsibleHandler := handler.NewResponsibleHandler(responsibleService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	addressHandler := handler.NewAddressHandler(addressService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	auth := middleware.Auth(jwtService)
	staff := middleware.RequireStaff(jwtService)

	// Client endpoints
	mux.HandleFunc("POST /api/clientes", clientHandler.Register)
	mux.HandleFunc("POST /api/clientes/login", clientHandler.Login)
	mux.Handle("GET /api/clientes", staff(http.HandlerFunc(clientHandler.List)))
	mux.Handle("GET /api/clientes/{id}", auth(http.HandlerFunc(clientHandler.Get)))
	mux.Handle("PUT /api/clientes/{id}", auth(http.HandlerFunc(clientHandler.Update)))
	mux.Handle("DELETE /api/clientes/{id}", auth(http.HandlerFunc(clientHandler.Deactivate)))

	// Activity endpoints (catalog is public, management is staff)
	mux.HandleFunc("GET /api/atividades", activityHandler.List)
	mux.HandleFunc("GET /api/atividades/{id}", activityHandler.Get)
	mux.Handle("POST /api/atividades", staff(http.HandlerFunc(activityHandler.Create)))
	mux.Handle("PUT /api/atividades/{id}", staff(http.HandlerFunc(activityHandler.Update)))
	mux.Handle("DELETE /api/atividades/{id}", staff(http.HandlerFunc(activityHandler.Delete)))

	// Responsible endpoints (staff only)
	mux.Handle("POST /api/responsaveis", staff(http.HandlerFunc(responsibleHandler.Create)))
	mux.Handle("GET /api/responsaveis", staff(http.HandlerFunc(responsibleHandler.List)))
	mux.Handle("GET /api/responsaveis/{id}", staff(http.HandlerFunc(responsibleHandler.Get)))
	mux.Handle("PUT /api/responsaveis/{id}", staff(http.HandlerFunc(responsibleHandler.Update)))
	mux.Handle("DELETE /api/responsaveis/{id}", staff(http.HandlerFunc(responsibleHandler.Delete)))

	// Enrollment endpoints
	mux.HandleFunc("POST /api/inscricoes", enrollmentHandler.Create)
	mux.HandleFunc("GET /api/inscricoes", enrollmentHandler.List)
	mux.HandleFunc("GET /api/inscricoes/{id}", enrollmentHandler.Get)
	mux.HandleFunc("PUT /api/inscricoes/{id}/confirmar", enrollmentHandler.Confirm)
	mux.HandleFunc("PUT /api/inscricoes/{id}/cancelar", enrollmentHandler.Cancel)
	mux.HandleFunc("GET /api/inscricoes/cliente/{id}", enrollmentHandler.ListByClient)
	mux.HandleFunc("GET /api/inscricoes/atividade/{id}", enrollmentHandler.ListByActivity)
	mux.Handle("GET /api/inscricoes/admin/relatorio", staff(http.HandlerFunc(enrollmentHandler.Report)))

	// Review endpoints
	mux.HandleFunc("POST /api/avaliacoes", reviewHandler.Create)
	mux.HandleFunc("GET /api/avaliacoes/publicas", reviewHandler.ListPublic)
	mux.Handle("GET /api/avaliacoes", staff(http.HandlerFunc(reviewHandler.List)))
	mux.Handle("GET /api/avaliacoes/{id}", staff(http.HandlerFunc(reviewHandler.Get)))
	mux.Handle("PUT /api/avaliacoes/{id}/responder", staff(http.HandlerFunc(reviewHandler.Respond)))
	mux.Handle("GET /api/avaliacoes/{id}/rascunho", staff(http.HandlerFunc(reviewHandler.Draft)))
	mux.Handle("PUT /api/avaliacoes/{id}/arquivar", staff(http.HandlerFunc(reviewHandler.Archive)))
	mux.Handle("PUT /api/avaliacoes/{id}/visibilidade", staff(http.HandlerFunc(reviewHandler.SetVisibility)))
	mux.Handle("GET /api/avaliacoes/admin/sentimento", staff(http.HandlerFunc(reviewHandler.Sentiment)))

	// CEP lookup endpoint
	mux.HandleFunc("GET /api/cep/{cep}", addressHandler.Lookup)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	// Dispatcher drains queued notifications on the deferred Close.
	slog.Info("server exited")
}
