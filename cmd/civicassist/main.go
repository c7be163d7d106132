// Command civicassist runs the citation-enforcing assistant API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/opencivic/civicassist/agent"
	"github.com/opencivic/civicassist/config"
	"github.com/opencivic/civicassist/contrib/provider"
	"github.com/opencivic/civicassist/facts"
	"github.com/opencivic/civicassist/graph"
	"github.com/opencivic/civicassist/middleware/logger"
	"github.com/opencivic/civicassist/pkg/logging"
	"github.com/opencivic/civicassist/pkg/telemetry"
	"github.com/opencivic/civicassist/server"
	"github.com/opencivic/civicassist/tool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "civicassist:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.Logger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "civicassist",
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		Disable:        cfg.DisableTelemetry,
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Error("telemetry shutdown failed", "error", err)
		}
	}()

	factService := facts.NewService(cfg.FactsDir)
	if _, err := factService.LoadRegistry(cfg.FactsRegistry); err != nil {
		return fmt.Errorf("load facts registry %q: %w", cfg.FactsRegistry, err)
	}
	log.Info("facts registry loaded", "registry", cfg.FactsRegistry, "facts", len(factService.GetAll()))

	graphStore, closeGraph, err := openGraphStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGraph()

	engine, err := provider.New(provider.Config{
		Provider:  cfg.Provider,
		APIKey:    cfg.EngineAPIKey(),
		Model:     cfg.Model,
		MaxTokens: int64(cfg.MaxTokens),
	})
	if err != nil {
		return fmt.Errorf("init provider: %w", err)
	}

	assistant := agent.New(tool.NewDispatcher(factService, graphStore),
		agent.WithEngine(engine),
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithMiddleware(logger.NewRequestLogger()),
		agent.WithMiddleware(logger.NewResponseLogger()),
	)

	srv := server.New(server.Config{
		Agent:        assistant,
		Graph:        graphStore,
		Facts:        factService,
		Logger:       log,
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Version:      cfg.ServiceVersion,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func openGraphStore(ctx context.Context, cfg *config.Config) (graph.Store, func(), error) {
	if cfg.GraphBackend == config.GraphBackendPostgres {
		store, err := graph.OpenPostgres(ctx, cfg.GraphDatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open graph store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	}
	return graph.BostonRPP(), func() {}, nil
}
