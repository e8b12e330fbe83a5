package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/soloviev-vladislav/telegram-userbot-api/config"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/adapters/devsession"
	redisadapter "github.com/soloviev-vladislav/telegram-userbot-api/internal/adapters/redis"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/adapters/sessionbridge"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/core"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/data"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/observability/notify/telegram"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/observability/notify/webhook"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/service"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/service/failurenotifier"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Accounts        *service.AccountService
	Lookups         *service.LookupService
	FailureNotifier *failurenotifier.Service
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires adapters and services from configuration.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	dialer, err := buildSessionDialer(cfg, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	var store core.AccountStore
	if deps.RedisClient != nil {
		store = redisadapter.NewAccountStoreWithPrefix(deps.RedisClient, cfg.Redis.KeyPrefix)
	}

	accounts, err := service.NewAccountService(service.AccountServiceOptions{
		Dialer: dialer,
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create account service: %w", err)
	}

	notifier := buildFailureNotifier(logger, cfg.Telegram)

	lookups, err := service.NewLookupService(service.LookupServiceOptions{
		Registry: data.NewTaskRegistry(),
		Accounts: accounts,
		Sink:     webhook.NewClient(webhook.Config{}),
		Failures: notifier,
		Logger:   logger,
		Tuning: service.LookupTuning{
			SettleInterval:  cfg.Lookup.SettleInterval,
			ItemDelay:       cfg.Lookup.ItemDelay,
			ProgressEvery:   cfg.Lookup.ProgressEvery,
			ProgressTimeout: cfg.Lookup.ProgressTimeout,
			FinalTimeout:    cfg.Lookup.FinalTimeout,
		},
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create lookup service: %w", err)
	}

	return ServiceContainer{
		Accounts:        accounts,
		Lookups:         lookups,
		FailureNotifier: notifier,
	}, nil
}

// buildSessionDialer picks the bridge dialer or the dev in-memory dialer.
//
//nolint:ireturn // callers depend on the core.SessionDialer port.
func buildSessionDialer(cfg *config.AppConfig, logger *slog.Logger) (core.SessionDialer, error) {
	if cfg.UseDevSessions() {
		logger.Warn("no session bridge configured; using in-memory dev sessions")
		return devsession.NewDialer(devsession.Config{}), nil
	}

	dialer, err := sessionbridge.NewDialer(sessionbridge.Config{
		BaseURL: cfg.Telegram.BridgeURL,
		Timeout: cfg.Telegram.BridgeTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create session bridge dialer: %w", err)
	}
	return dialer, nil
}

// buildFailureNotifier configures ops alert sinks from config.
func buildFailureNotifier(logger *slog.Logger, cfg config.TelegramConfig) *failurenotifier.Service {
	var sinks []failurenotifier.SinkRegistration

	if cfg.OpsAlertsEnabled() {
		sink, err := telegram.NewSink(telegram.Config{
			BotToken: cfg.OpsBotToken,
			ChatID:   cfg.OpsChatID,
		})
		if err != nil {
			logger.Error("failed to initialise telegram ops sink", "error", err)
		} else {
			sinks = append(sinks, failurenotifier.SinkRegistration{Name: "telegram", Sink: sink})
		}
	}

	return failurenotifier.NewService(failurenotifier.Options{
		Logger: logger,
		Sinks:  sinks,
	})
}

// RunConfig groups dependencies for running the gateway until shutdown.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the HTTP server, restores persisted accounts, and
// blocks until a shutdown signal arrives. In-flight lookup batches are waited
// for so their final webhooks still go out.
func RunWithShutdown(cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()
	if err := cfg.Services.Accounts.RestoreFromStore(ctx); err != nil {
		logger.Warn("restore accounts from store failed", "error", err)
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	<-quit

	logger.Info("shutting down gateway...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Config.HTTP.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}

	// Let running batches finish; their webhooks are the only durable output.
	cfg.Services.Lookups.Wait()
	cfg.Services.Accounts.CloseAll(shutdownCtx)

	logger.Info("gateway stopped")
	return errors.Join(errs...)
}
