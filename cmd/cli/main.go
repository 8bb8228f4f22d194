// Package main provides the CLI tool for the brand-mixer service.
// Uses Cobra for command parsing.
//
// Run with: go run ./cmd/cli seed
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexora/brand-mixer/internal/config"
	"github.com/nexora/brand-mixer/internal/llm"
	"github.com/nexora/brand-mixer/internal/model"
	"github.com/nexora/brand-mixer/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mixer-cli",
		Short: "Brand mixer CLI tools",
	}

	root.AddCommand(seedCmd())
	root.AddCommand(statsCmd())
	return root
}

func seedCmd() *cobra.Command {
	var votes int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample combos for demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(votes)
		},
	}

	cmd.Flags().IntVar(&votes, "votes", 5, "Maximum votes to give each sample combo")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print store totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

// openStore loads config and opens the database, shared by all commands.
func openStore() (*config.Config, storage.ComboRepository, func(), error) {
	configPath := os.Getenv("MIXER_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	return cfg, storage.NewComboRepository(db), func() { db.Close() }, nil
}

func runSeed(maxVotes int) error {
	if maxVotes <= 0 {
		maxVotes = 1
	}

	// Always use development mode for CLI logging
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	_, repo, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	samples := []struct {
		product1, product2 string
		mode               model.Mode
	}{
		{"Coca-Cola", "Pepsi", model.ModeCompetitive},
		{"Nike", "Adidas", model.ModeCompetitive},
		{"Apple", "Samsung", model.ModeFusion},
	}

	ctx := context.Background()

	for i, s := range samples {
		req := model.FusionRequest{Product1: s.product1, Product2: s.product2, Mode: s.mode}
		result := llm.Fallback(req)

		combo := &model.Combo{
			Name:               result.Name,
			Slogan:             result.Slogan,
			Description:        result.Description,
			Product1:           s.product1,
			Product2:           s.product2,
			Mode:               s.mode,
			HostReaction:       result.HostReaction,
			ImageURL:           "",
			CompatibilityScore: result.CompatibilityScore,
		}
		if err := repo.Create(ctx, combo); err != nil {
			return fmt.Errorf("seeding combo %s + %s: %w", s.product1, s.product2, err)
		}

		// Votes only ever move through the atomic increment, seeds included.
		voteCount := (i*3)%maxVotes + 1
		for v := 0; v < voteCount; v++ {
			if _, err := repo.Vote(ctx, combo.ID); err != nil {
				return fmt.Errorf("seeding votes for %s: %w", combo.ID, err)
			}
		}

		logger.Info("seeded combo",
			zap.String("id", combo.ID),
			zap.String("name", combo.Name),
			zap.Int("votes", voteCount),
		)
	}

	return nil
}

func runStats() error {
	_, repo, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	stats, err := repo.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	fmt.Printf("combos: %d\nvotes:  %d\n", stats.TotalCombos, stats.TotalVotes)
	return nil
}
