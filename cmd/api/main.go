package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/jaekwang-park/plantcare-api/internal/catalog"
	cognitopkg "github.com/jaekwang-park/plantcare-api/internal/cognito"
	"github.com/jaekwang-park/plantcare-api/internal/config"
	apihttp "github.com/jaekwang-park/plantcare-api/internal/http"
	"github.com/jaekwang-park/plantcare-api/internal/middleware"
	"github.com/jaekwang-park/plantcare-api/internal/model"
	"github.com/jaekwang-park/plantcare-api/internal/reminder"
	"github.com/jaekwang-park/plantcare-api/internal/repository"
	"github.com/jaekwang-park/plantcare-api/internal/service"
)

// gardenerResolverAdapter adapts a gardener repository to middleware.GardenerResolver.
type gardenerResolverAdapter struct {
	repo interface {
		GetByCognitoSub(ctx context.Context, cognitoSub string) (model.Gardener, error)
	}
}

func (a *gardenerResolverAdapter) ResolveGardenerID(ctx context.Context, cognitoSub string) (string, error) {
	g, err := a.repo.GetByCognitoSub(ctx, cognitoSub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", middleware.ErrGardenerNotFound
		}
		return "", fmt.Errorf("failed to resolve gardener: %w", err)
	}
	return g.ID, nil
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
		"catalog_url", cfg.Catalog.BaseURL,
		"picker_mode", cfg.PickerMode,
	)

	db, err := repository.NewDB(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	reminderRepo := repository.NewPostgresReminder(db)
	gardenerRepo := repository.NewPostgresGardener(db)

	// Catalog: one shared HTTP client, one controller per browsing session
	catalogClient := catalog.NewClient(catalog.ClientConfig{
		BaseURL:       cfg.Catalog.BaseURL,
		Timeout:       cfg.Catalog.Timeout,
		RetryCount:    cfg.Catalog.RetryCount,
		RatePerSecond: cfg.Catalog.RatePerSecond,
		CacheSize:     cfg.Catalog.CacheSize,
		CacheTTL:      cfg.Catalog.CacheTTL,
	}, logger)
	sessions := catalog.NewRegistry(cfg.Catalog.MaxSessions, cfg.Catalog.SessionTTL, func() *catalog.Controller {
		return catalog.NewController(catalogClient, cfg.Catalog.PageSize, logger)
	})

	catalogSvc := service.NewCatalogService(sessions, logger)
	reminderSvc := service.NewReminderService(reminderRepo, catalogSvc, reminder.Options{PickerMode: cfg.PickerMode}, logger)

	var accountSvc *service.AccountService
	if cfg.Cognito.AppClientID != "" {
		cognitoClient, err := cognitopkg.NewAWSClient(
			ctx,
			cfg.Cognito.Region,
			cfg.Cognito.AppClientID,
			cfg.Cognito.AppClientSecret,
		)
		if err != nil {
			return err
		}
		accountSvc = service.NewAccountService(cognitoClient, gardenerRepo)
		logger.Info("cognito client initialized", "region", cfg.Cognito.Region)
	} else {
		logger.Warn("cognito client not initialized: COGNITO_APP_CLIENT_ID not set")
	}

	authCfg := middleware.AuthConfig{
		DevMode: cfg.AuthDevMode,
		Logger:  logger,
	}
	if !cfg.AuthDevMode {
		authCfg.JWKSClient = middleware.NewJWKSClient(middleware.CognitoJWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID))
		authCfg.Issuer = middleware.CognitoIssuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.AppClientID = cfg.Cognito.AppClientID
		authCfg.Gardeners = &gardenerResolverAdapter{repo: gardenerRepo}
	}
	auth, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	srv := apihttp.NewServer(cfg.ServerPort, logger, apihttp.Services{
		Catalog:    catalogSvc,
		Reminder:   reminderSvc,
		Account:    accountSvc,
		DB:         db,
		PickerMode: cfg.PickerMode,
		PageSize:   cfg.Catalog.PageSize,
	}, auth)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
