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
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/config"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/adapters/masumi"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/adapters/webhook"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/core"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/data"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds the application services and the adapters they run on.
type ServiceContainer struct {
	Jobs  *service.JobService
	Store core.JobStore
	// Redis is set when the redis store backend is selected; closed on shutdown.
	Redis *redis.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// buildJobStore selects the job store backend from configuration.
func buildJobStore(cfg *config.AppConfig, logger *slog.Logger) (core.JobStore, *redis.Client, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		logger.Info("using redis job store", "addr", cfg.Store.Redis.Addr, "db", cfg.Store.Redis.DB)
		return data.NewRedisJobStore(client), client, nil
	case config.StoreBackendMemory:
		logger.Info("using in-memory job store; jobs will not survive a restart")
		return data.NewMemoryJobStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("invalid store backend: %q", cfg.Store.Backend)
	}
}

// NewServices wires adapters and services from configuration.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	store, redisClient, err := buildJobStore(cfg, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	payments, err := masumi.NewClient(masumi.Config{
		BaseURL:         cfg.Payment.ServiceURL,
		APIKey:          cfg.Payment.APIKey,
		AgentIdentifier: cfg.Payment.AgentIdentifier,
		SellerVKey:      cfg.Payment.SellerVKey,
		Amount:          cfg.Payment.Amount,
		Unit:            cfg.Payment.Unit,
		Timeout:         cfg.Payment.Timeout,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build payment client: %w", err)
	}

	dispatcher, err := webhook.NewDispatcher(webhook.Config{
		URL:          cfg.Dispatch.WebhookURL,
		Timeout:      cfg.Dispatch.Timeout,
		RetryLimit:   cfg.Dispatch.RetryLimit,
		RetryBackoff: cfg.Dispatch.RetryBackoff,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build webhook dispatcher: %w", err)
	}

	jobs, err := service.NewJobService(service.JobServiceOptions{
		Store:      store,
		Payments:   payments,
		Dispatcher: dispatcher,
		Monitor: service.MonitorConfig{
			PollInterval: cfg.Monitor.PollInterval,
			PollTimeout:  cfg.Monitor.PollTimeout,
		},
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build job service: %w", err)
	}

	return ServiceContainer{Jobs: jobs, Store: store, Redis: redisClient}, nil
}

// ServiceOrchestrationConfig groups everything RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and manages its lifecycle.
// This function blocks until a shutdown signal is received.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	return waitForShutdown(shutdownConfig{
		server:   server,
		services: cfg.Services,
		logger:   logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	server   *http.Server
	services ServiceContainer
	logger   *slog.Logger
}

// waitForShutdown blocks until a shutdown signal arrives, then stops
// everything in dependency order.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	cfg.logger.Info("shutting down services...")
	return gracefulStop(cfg)
}

// gracefulStop stops everything in dependency order within the shutdown
// budget: the HTTP server drains first so no handler can create a job after
// the monitors are told to stop, then the monitors wind down, then the store
// connection closes.
func gracefulStop(cfg shutdownConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()

	var err error
	if serr := ShutdownHTTPServer(ShutdownConfig{
		Context: ctx,
		Server:  cfg.server,
		Logger:  cfg.logger,
	}); serr != nil {
		err = fmt.Errorf("shutdown http server: %w", serr)
	}

	if cfg.services.Jobs != nil {
		if serr := cfg.services.Jobs.Shutdown(ctx); serr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown job service: %w", serr))
		} else {
			cfg.logger.Info("payment monitors stopped")
		}
	}

	if cfg.services.Redis != nil {
		if cerr := cfg.services.Redis.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close redis client: %w", cerr))
		}
	}

	return err
}
