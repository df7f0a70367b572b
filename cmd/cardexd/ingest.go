// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cardexhq/cardex/internal/adapters"
	"github.com/cardexhq/cardex/internal/catalog"
	"github.com/cardexhq/cardex/internal/identity"
	"github.com/cardexhq/cardex/internal/imagetask"
	"github.com/cardexhq/cardex/internal/ingest"
	"github.com/cardexhq/cardex/internal/logging"
	"github.com/cardexhq/cardex/internal/validation"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion job for a game",
	Long: `Fetch cards from the game's provider API, normalize them, and import
them into the catalog. Known cards are skipped by content hash; new printings
of known cards import incrementally. The run is recorded as an ETL job.

Interrupting with SIGINT finishes the in-flight batch, records the job as
cancelled, and exits cleanly.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("game", "", fmt.Sprintf("game code (%s)", strings.Join(adapters.Games(), ", ")))
	ingestCmd.Flags().Int("limit", 0, "maximum records to fetch from the provider (0 = all)")
	ingestCmd.Flags().Int("batch-size", 0, "override configured batch size")
	ingestCmd.Flags().Int("concurrency", 0, "override configured worker count per batch")
	ingestCmd.Flags().Bool("force", false, "reimport known cards, refreshing stored prices, images, and legalities")
	ingestCmd.Flags().Bool("dry-run", false, "fetch and validate only, without writing to the catalog")
	ingestCmd.Flags().String("metrics-addr", "", "expose Prometheus metrics on this address during the run (e.g. :9090)")

	if err := ingestCmd.MarkFlagRequired("game"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	limit, _ := cmd.Flags().GetInt("limit")

	if v, _ := cmd.Flags().GetInt("batch-size"); v > 0 {
		cfg.Ingest.BatchSize = v
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		cfg.Ingest.Concurrency = v
	}
	if cmd.Flags().Changed("force") {
		cfg.Ingest.Force, _ = cmd.Flags().GetBool("force")
	}

	adapter, err := adapters.New(game, cfg)
	if err != nil {
		return err
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return runDryRun(cmd.Context(), adapter, limit)
	}

	store, err := catalog.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()

	dispatcher, cleanup, err := buildDispatcher()
	if err != nil {
		return err
	}
	defer cleanup()

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		stopMetrics := serveMetrics(addr)
		defer stopMetrics()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := ingest.NewEngine(cfg.Ingest, store, dispatcher)
	result, err := engine.Run(ctx, adapter, limit)
	if err != nil {
		return err
	}

	fmt.Printf("Ingestion finished in %s\n", result.Duration().Round(time.Millisecond))
	fmt.Printf("  cards:   %d total, %d created, %d skipped, %d failed\n",
		result.TotalCards, result.SuccessfulCards, result.SkippedCards, result.FailedCards)
	fmt.Printf("  prints:  %d created\n", result.PrintsCreated)
	fmt.Printf("  skus:    %d created\n", result.SKUsCreated)
	if result.Cancelled {
		unprocessed := result.TotalCards - result.SuccessfulCards - result.SkippedCards - result.FailedCards
		fmt.Printf("  run was cancelled before completion (%d cards not processed)\n", unprocessed)
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %s (%s): %s\n", e.CardName, e.Fault, e.Message)
	}

	if result.FailedCards > 0 && result.SuccessfulCards == 0 && result.SkippedCards == 0 {
		return fmt.Errorf("all %d cards failed", result.FailedCards)
	}
	return nil
}

// runDryRun fetches and validates without touching the catalog: it reports
// what a real run would attempt, including the SKU expansion per card.
func runDryRun(ctx context.Context, adapter ingest.SourceAdapter, limit int) error {
	cards, err := adapter.FetchCards(ctx, limit)
	if err != nil {
		return fmt.Errorf("fetch from %s failed: %w", adapter.Name(), err)
	}

	var valid, invalid, prints, skus int
	for _, card := range cards {
		if err := validation.ValidateCard(card); err != nil {
			invalid++
			fmt.Printf("  invalid: %s: %v\n", card.Name, err)
			continue
		}
		valid++
		card.OracleHash = identity.OracleHashFor(card)
		prints += len(card.Prints)
		for i := range card.Prints {
			skus += len(identity.SKUMatrix(
				card.GameCode, card.Prints[i].SetCode, card.Prints[i].CollectorNumber,
				card.Languages, card.Prints[i].Foil))
		}
	}

	fmt.Printf("Dry run: %d cards fetched, %d valid, %d invalid\n", len(cards), valid, invalid)
	fmt.Printf("  would import up to %d prints and %d SKUs (before dedup)\n", prints, skus)
	return nil
}

// serveMetrics exposes /metrics for the duration of the run. Scrapers get the
// live import counters; the returned func shuts the listener down.
func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", addr).Msg("Metrics endpoint listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("Metrics endpoint failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("Error shutting down metrics endpoint")
		}
	}
}

// buildDispatcher selects the image task dispatcher. With NATS enabled the
// tasks go to JetStream (optionally via an embedded server); otherwise they
// are logged and counted only.
func buildDispatcher() (imagetask.Dispatcher, func(), error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS disabled, image tasks will be logged only")
		return imagetask.NewLogDispatcher(), func() {}, nil
	}

	var server *imagetask.EmbeddedServer
	if cfg.NATS.EmbeddedServer {
		var err error
		server, err = imagetask.NewEmbeddedServer(&cfg.NATS)
		if err != nil {
			return nil, nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		cfg.NATS.URL = server.ClientURL()
		logging.Info().Str("url", cfg.NATS.URL).Msg("Embedded NATS server started")
	}

	dispatcher, err := imagetask.NewNATSDispatcher(&cfg.NATS, nil)
	if err != nil {
		if server != nil {
			_ = server.Shutdown(context.Background())
		}
		return nil, nil, fmt.Errorf("create NATS dispatcher: %w", err)
	}

	cleanup := func() {
		if err := dispatcher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing image dispatcher")
		}
		if server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				logging.Error().Err(err).Msg("Error shutting down embedded NATS server")
			}
		}
	}
	return dispatcher, cleanup, nil
}
