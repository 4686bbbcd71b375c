package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"monumenten/internal/bag"
	"monumenten/internal/config"
	"monumenten/internal/enrich"
	"monumenten/internal/erfgoed"
	"monumenten/internal/sparql"
	"monumenten/internal/table"
)

// run executes the whole pipeline: read input, build lookups, enrich every
// record in order, write the output atomically.
func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, p := range []string{cfg.Log, cfg.Output} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create directory for %s: %w", p, err)
			}
		}
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logger.Sync()

	t, err := table.ReadAll(cfg.Input, cfg.Column)
	if err != nil {
		return err
	}
	logger.Info("invoer geladen",
		zap.String("bestand", cfg.Input),
		zap.Int("records", len(t.Records)))

	rce := sparql.NewClient(sparql.ClientConfig{
		Endpoint:   cfg.Endpoints.CultureelErfgoed,
		Timeout:    cfg.HTTP.Timeout,
		MaxRetries: cfg.HTTP.MaxRetries,
		RateLimit:  cfg.HTTP.RateLimit,
		RateBurst:  cfg.HTTP.RateBurst,
	})
	kadaster := sparql.NewClient(sparql.ClientConfig{
		Endpoint:   cfg.Endpoints.Kadaster,
		Timeout:    cfg.HTTP.Timeout,
		MaxRetries: cfg.HTTP.MaxRetries,
		RateLimit:  cfg.HTTP.RateLimit,
		RateBurst:  cfg.HTTP.RateBurst,
	})

	index, err := loadGezichten(ctx, cfg, rce)
	if err != nil {
		return err
	}
	logger.Info("beschermde gezichten geladen", zap.Int("gezichten", index.Len()))

	var successors enrich.SuccessorFinder
	apiKey := cfg.BAG.APIKey
	if apiKey == "" {
		apiKey = promptAPIKey()
	}
	if apiKey != "" {
		successors = bag.NewClient(bag.ClientConfig{
			BaseURL:    cfg.BAG.BaseURL,
			APIKey:     apiKey,
			Timeout:    cfg.HTTP.Timeout,
			MaxRetries: cfg.HTTP.MaxRetries,
		})
	} else {
		logger.Warn("no BAG API key configured; successor fallback disabled")
	}

	resolver := enrich.NewResolver(
		erfgoed.NewMonumentClient(rce),
		erfgoed.NewGezichtClient(kadaster, index),
		successors,
		logger,
	)
	if err := enrich.NewEnricher(resolver, logger).Run(ctx, t, cfg.Column); err != nil {
		return err
	}

	if err := table.WriteAll(cfg.Output, t.Columns, t.Records); err != nil {
		return err
	}
	logger.Info("uitvoer geschreven",
		zap.String("bestand", cfg.Output),
		zap.Int("records", len(t.Records)))
	fmt.Printf("Enriched %d records, output written to %s\n", len(t.Records), cfg.Output)
	return nil
}

func loadGezichten(ctx context.Context, cfg *config.Config, rce *sparql.Client) (*erfgoed.GezichtIndex, error) {
	if cfg.Gezichten.Source == config.GezichtenSourceShapefile {
		return erfgoed.LoadGezichtenShapefile(cfg.Gezichten.Shapefile, cfg.Gezichten.NameField)
	}
	return erfgoed.LoadGezichtenSPARQL(ctx, rce)
}

func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// promptAPIKey asks for the BAG API key on the terminal, hidden input. A
// non-interactive run simply proceeds without fallback.
func promptAPIKey() string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ""
	}
	fmt.Print("BAG API key (empty disables the successor fallback): ")
	key, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(key))
}
