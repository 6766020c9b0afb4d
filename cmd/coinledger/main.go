package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coinledger/internal/chain"
	"coinledger/internal/config"
	"coinledger/internal/indexer"
	"coinledger/internal/storage"
	"coinledger/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "coinledger",
		Short:        "Coin ledger extraction pipeline",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest transactions from a fullnode and extract coin records",
		RunE:  runIngest,
	}

	ingestCmd.Flags().String("fullnode", "", "fullnode REST base URL")
	ingestCmd.Flags().Uint64("from", 0, "start version (inclusive)")
	ingestCmd.Flags().Uint64("to", 0, "end version (inclusive), 0 means latest")
	ingestCmd.Flags().Uint64("batch-size", 100, "transactions per batch")
	ingestCmd.Flags().String("out-dir", "./data", "output directory for JSONL streams")
	ingestCmd.Flags().String("pg-dsn", "", "Postgres DSN (writes to Postgres instead of JSONL)")
	ingestCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	ingestCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	ingestCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	ingestCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	ingestCmd.Flags().Duration("request-timeout", 30*time.Second, "fullnode request timeout")
	ingestCmd.Flags().String("on-error", "halt", "fatal extraction error policy (halt, skip)")
	ingestCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(ingestCmd)

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract coin records from a transactions JSONL file",
		RunE:  runExtract,
	}

	extractCmd.Flags().String("in", "", "input transactions JSONL")
	extractCmd.Flags().String("out-dir", "./data", "output directory for JSONL streams")
	extractCmd.Flags().String("errors", "./data/extract_errors.jsonl", "extract errors JSONL")
	extractCmd.Flags().String("on-error", "halt", "fatal extraction error policy (halt, skip)")
	extractCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(extractCmd)

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load extracted JSONL streams into Postgres",
		RunE:  runLoad,
	}

	loadCmd.Flags().String("in-dir", "./data", "input directory with JSONL streams")
	loadCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	loadCmd.Flags().Int("batch-size", 1000, "records per DB batch")
	loadCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(loadCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadIngest(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.FullnodeURL == "" {
		return fmt.Errorf("fullnode url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(cfg.FullnodeURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	var sink storage.Storage
	var state indexer.StateStore
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sink = store
		state = &indexer.DBStateStore{Store: store, Name: "coinledger"}
	} else {
		sink = storage.NewJsonlStorage(cfg.OutDir)
	}

	runner := indexer.NewRunner(indexer.RunConfig{
		FromVersion:       cfg.FromVersion,
		ToVersion:         cfg.ToVersion,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
		OnError:           cfg.OnError,
	}, client, sink, state, logger)

	logger.Info("ingest start",
		zap.String("fullnode", cfg.FullnodeURL),
		zap.Uint64("from", cfg.FromVersion),
		zap.Uint64("to", cfg.ToVersion),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("on_error", cfg.OnError),
	)

	return runner.Run(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
