package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/txreplay/internal/adapter/csvio"
	httpadapter "github.com/iho/txreplay/internal/adapter/http"
	"github.com/iho/txreplay/internal/adapter/http/handler"
	"github.com/iho/txreplay/internal/engine"
	"github.com/iho/txreplay/internal/infrastructure/config"
	"github.com/iho/txreplay/internal/infrastructure/logger"
	"github.com/iho/txreplay/internal/infrastructure/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "txreplay",
		Short:         "Transaction replay engine",
		Long:          `Replays an ordered CSV stream of deposits, withdrawals and disputes into final per-client account balances.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var strict bool
	processCmd := &cobra.Command{
		Use:   "process <input.csv>",
		Short: "Replay a transaction file and print the final snapshot as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), args[0], cmd.OutOrStdout(), strict)
		},
	}
	processCmd.Flags().BoolVar(&strict, "strict", false, "fail when any input row is malformed")

	serveCmd := &cobra.Command{
		Use:   "serve <input.csv>",
		Short: "Replay a transaction file and serve the snapshot over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0])
		},
	}

	rootCmd.AddCommand(processCmd, serveCmd)

	return rootCmd
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With().
		Str("run_id", ulid.Make().String()).
		Logger()

	return cfg, log, nil
}

// replay opens the input file and runs it through a fresh engine.
func replay(ctx context.Context, path string, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*engine.Engine, engine.Stats, error) {
	if !strings.HasSuffix(path, ".csv") {
		return nil, engine.Stats{}, fmt.Errorf("input file %q must have a .csv extension", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, engine.Stats{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	reader, err := csvio.NewReader(f)
	if err != nil {
		return nil, engine.Stats{}, fmt.Errorf("reading input: %w", err)
	}

	eng := engine.New(engine.Config{
		RejectOverdrawnDispute: cfg.RejectOverdrawnDispute,
		Logger:                 log,
		Metrics:                m,
	})

	stats, err := eng.Run(ctx, reader)
	if err != nil {
		return nil, stats, err
	}

	return eng, stats, nil
}

func runProcess(ctx context.Context, path string, out io.Writer, strict bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	eng, stats, err := replay(ctx, path, cfg, log, nil)
	if err != nil {
		return err
	}

	if err := csvio.Write(out, eng.Snapshot()); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	if strict && stats.Malformed > 0 {
		return fmt.Errorf("input had %d malformed rows", stats.Malformed)
	}

	return nil
}

func runServe(ctx context.Context, path string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	m := metrics.New()

	eng, _, err := replay(ctx, path, cfg, log, m)
	if err != nil {
		return err
	}

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		AccountHandler: handler.NewAccountHandler(eng),
		StatsHandler:   handler.NewStatsHandler(eng),
		HealthHandler:  handler.NewHealthHandler(),
		Logger:         log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("serving snapshot")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")

	return nil
}
