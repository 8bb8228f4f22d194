// Package main is the entry point for the brand-mixer HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nexora/brand-mixer/internal/brandinfo"
	"github.com/nexora/brand-mixer/internal/config"
	"github.com/nexora/brand-mixer/internal/imagegen"
	"github.com/nexora/brand-mixer/internal/llm"
	"github.com/nexora/brand-mixer/internal/provider"
	"github.com/nexora/brand-mixer/internal/server"
	"github.com/nexora/brand-mixer/internal/service"
	"github.com/nexora/brand-mixer/internal/storage"
)

func main() {
	// run() is separate so deferred cleanup executes before os.Exit
	// (deferred functions don't run when os.Exit is called directly).
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("MIXER_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Structured logging with zap: JSON in production, human-readable in
	// development.
	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync flushes buffered log entries; it commonly fails on stdout/stderr,
	// which is not a real problem.
	defer func() { _ = logger.Sync() }()

	// Storage
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	fs, err := storage.NewFileSystem(cfg.Storage.ImageDir)
	if err != nil {
		return fmt.Errorf("creating image filesystem: %w", err)
	}

	comboRepo := storage.NewComboRepository(db)
	callRepo := storage.NewGenerationCallRepository(db)

	// Providers
	genClients := buildGenerationClients(cfg, logger)
	imgClients := buildImageClients(cfg, logger)

	fusionProvider := provider.NewFusionProvider(
		genClients,
		cfg.Generation.RatePerMinute,
		time.Duration(cfg.Generation.TimeoutSeconds)*time.Second,
		callRepo,
		logger,
	)
	imageProvider := provider.NewImageProvider(
		imgClients,
		time.Duration(cfg.Image.TimeoutSeconds)*time.Second,
		logger,
	)

	fusion := service.NewFusionService(
		fusionProvider,
		imageProvider,
		service.NewImageProcessor(fs),
		comboRepo,
		brandinfo.NewCatalog(),
		db,
		cfg.Server.BaseURL,
		cfg.Leaderboard.DefaultLimit,
		cfg.Leaderboard.MaxLimit,
		logger,
	)

	srv := server.New(cfg, server.Deps{
		Fusion:   fusion,
		ImageDir: fs.BaseDir(),
	}, logger)

	// Graceful shutdown: listen for SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// buildGenerationClients assembles the text-generation client list in
// configured order, skipping providers without credentials. An empty list
// is fine — the service degrades to deterministic fallbacks.
func buildGenerationClients(cfg *config.Config, logger *zap.Logger) []llm.Client {
	var clients []llm.Client
	for _, name := range cfg.Generation.ProviderOrder {
		switch name {
		case "anthropic":
			if cfg.Generation.Anthropic.APIKey != "" {
				clients = append(clients, llm.NewAnthropicClient(cfg.Generation.Anthropic.APIKey, cfg.Generation.Anthropic.Model))
			}
		case "openai":
			if cfg.Generation.OpenAI.APIKey != "" {
				clients = append(clients, llm.NewOpenAIClient(cfg.Generation.OpenAI.APIKey, cfg.Generation.OpenAI.Model))
			}
		default:
			logger.Warn("unknown generation provider in config", zap.String("provider", name))
		}
	}
	if len(clients) == 0 {
		logger.Warn("no generation providers configured, combos will use fallback templates")
	}
	return clients
}

// buildImageClients assembles the image-generation client list the same way.
func buildImageClients(cfg *config.Config, logger *zap.Logger) []imagegen.Client {
	timeout := time.Duration(cfg.Image.TimeoutSeconds) * time.Second
	var clients []imagegen.Client
	for _, name := range cfg.Image.ProviderOrder {
		switch name {
		case "huggingface":
			if cfg.Image.HuggingFace.APIToken != "" {
				clients = append(clients, imagegen.NewHuggingFaceClient(cfg.Image.HuggingFace.APIToken, cfg.Image.HuggingFace.Model, timeout))
			}
		case "openai":
			if cfg.Image.OpenAI.APIKey != "" {
				clients = append(clients, imagegen.NewOpenAIImageClient(cfg.Image.OpenAI.APIKey))
			}
		default:
			logger.Warn("unknown image provider in config", zap.String("provider", name))
		}
	}
	if len(clients) == 0 {
		logger.Warn("no image providers configured, combos will use placeholder art")
	}
	return clients
}
