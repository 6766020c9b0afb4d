package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coinledger/internal/config"
	"coinledger/internal/model"
	"coinledger/internal/storage"
	"coinledger/internal/storage/postgres"
)

func runLoad(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadLoad(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.InDir == "" {
		return fmt.Errorf("input dir is required")
	}
	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	logger.Info("load start", zap.String("in_dir", cfg.InDir), zap.Int("batch_size", cfg.BatchSize))

	total := 0

	n, err := loadStream(ctx, filepath.Join(cfg.InDir, storage.ActivitiesFile), cfg.BatchSize,
		func(records []model.CoinActivity) error {
			return store.PutCoinBatch(ctx, model.CoinBatch{Activities: records})
		})
	if err != nil {
		return err
	}
	total += n

	n, err = loadStream(ctx, filepath.Join(cfg.InDir, storage.InfosFile), cfg.BatchSize,
		func(records []model.CoinInfo) error {
			return store.PutCoinBatch(ctx, model.CoinBatch{Infos: records})
		})
	if err != nil {
		return err
	}
	total += n

	n, err = loadStream(ctx, filepath.Join(cfg.InDir, storage.BalancesFile), cfg.BatchSize,
		func(records []model.CoinBalance) error {
			return store.PutCoinBatch(ctx, model.CoinBatch{Balances: records})
		})
	if err != nil {
		return err
	}
	total += n

	// Current balance snapshots replay in file order; the store's
	// version-gated upsert keeps the highest version per key.
	n, err = loadStream(ctx, filepath.Join(cfg.InDir, storage.CurrentBalancesFile), cfg.BatchSize,
		func(records []model.CurrentCoinBalance) error {
			current := make(map[model.CurrentBalanceKey]model.CurrentCoinBalance, len(records))
			for _, record := range records {
				key := model.CurrentBalanceKey{OwnerAddress: record.OwnerAddress, CoinType: record.CoinType}
				existing, ok := current[key]
				if ok && existing.LastTransactionVersion > record.LastTransactionVersion {
					continue
				}
				current[key] = record
			}
			return store.PutCoinBatch(ctx, model.CoinBatch{CurrentBalances: current})
		})
	if err != nil {
		return err
	}
	total += n

	logger.Info("load complete", zap.Int("records", total))
	return nil
}

// loadStream reads a JSONL stream and flushes decoded records in batches.
// A missing stream file is fine; not every range produces every stream.
func loadStream[T any](ctx context.Context, path string, batchSize int, flush func([]T) error) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	total := 0
	pending := make([]T, 0, batchSize)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			return total, fmt.Errorf("parse %s: %w", path, err)
		}
		pending = append(pending, record)

		if len(pending) >= batchSize {
			if err := flush(pending); err != nil {
				return total, err
			}
			total += len(pending)
			pending = pending[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return total, fmt.Errorf("scan %s: %w", path, err)
	}

	if len(pending) > 0 {
		if err := flush(pending); err != nil {
			return total, err
		}
		total += len(pending)
	}

	return total, nil
}
