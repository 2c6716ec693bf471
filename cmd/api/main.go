// Command api serves the TaskFlow accounts API.
//
//	@title			TaskFlow Accounts API
//	@version		1.0
//	@description	Email/password accounts with JWT access and refresh tokens.
//	@BasePath		/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taskflow/auth-service/internal/api"
	"github.com/taskflow/auth-service/internal/core/service"
	"github.com/taskflow/auth-service/internal/infrastructure/config"
	"github.com/taskflow/auth-service/internal/infrastructure/db"
	"github.com/taskflow/auth-service/internal/infrastructure/http"
	"github.com/taskflow/auth-service/internal/infrastructure/http/handlers"
	"github.com/taskflow/auth-service/internal/infrastructure/queue"
	"github.com/taskflow/auth-service/pkg/logger"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		boot := logger.Init(logger.Options{Service: "auth-service"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "auth-service",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := db.Open(ctx, cfg, logger.Component("db"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer func() {
		closeCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := backend.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	store, err := service.NewAccountStore(backend.Accounts, service.AccountStoreConfig{
		RequiredFields: cfg.Auth.RequiredFields,
		NameMaxLength:  cfg.Auth.NameMaxLength,
		HashCost:       cfg.Auth.BcryptCost,
	}, logger.Component("account_store"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid account store configuration")
	}

	issuer, err := service.NewSessionIssuer(service.SessionConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, backend.Revocations, logger.Component("sessions"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid session configuration")
	}

	login, err := service.NewLoginValidator(store, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare login validator")
	}

	logins := queue.NewDispatcher(0, store, logger.Component("login_queue"))
	logins.Start(context.WithoutCancel(ctx))
	defer logins.Close()

	authService := service.NewAuthService(store, issuer, login, logger.Component("auth"))
	authService.SetLoginRecorder(logins)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checks := make(map[string]handlers.Pinger, len(backend.Checks))
	for name, p := range backend.Checks {
		checks[name] = p
	}

	router, err := api.NewRouter(api.RouterDeps{
		AuthService: authService,
		Verifier:    issuer,
		Health:      checks,
		Registry:    reg,
		Log:         logger.Component("http"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("driver", cfg.StoreDriver).
		Msg("starting auth service")

	if err := http.NewServer(router, cfg.Addr(), log).Run(ctx); err != nil {
		log.Error().Err(err).Msg("server error")
		cancel()
		logins.Close()
		os.Exit(1)
	}

	log.Info().Msg("auth service stopped")
}
