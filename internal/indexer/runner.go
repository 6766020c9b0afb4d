package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coinledger/internal/coin"
	"coinledger/internal/model"
	"coinledger/internal/storage"
)

// Error policies for fatal per-transaction extraction errors.
const (
	OnErrorHalt = "halt"
	OnErrorSkip = "skip"
)

// TransactionSource supplies committed transactions in version order.
type TransactionSource interface {
	LatestVersion(ctx context.Context) (uint64, error)
	TransactionsByVersion(ctx context.Context, start, limit uint64) ([]model.Transaction, error)
}

// RunConfig holds runtime settings for the ingestion loop.
type RunConfig struct {
	FromVersion       uint64
	ToVersion         uint64
	BatchSize         uint64
	CheckpointPath    string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
	OnError           string
}

// Runner streams transactions from the fullnode, extracts coin records,
// and writes them to storage. Batches are applied in ascending version
// order, which keeps the current-balance latest-wins invariant without
// any coordination.
type Runner struct {
	cfg     RunConfig
	source  TransactionSource
	storage storage.Storage
	logger  *zap.Logger
	state   StateStore
}

// NewRunner builds a Runner with its dependencies. A nil state store
// falls back to the file checkpoint configured in cfg.
func NewRunner(cfg RunConfig, source TransactionSource, storageSink storage.Storage, state StateStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if state == nil {
		state = NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled)
	}
	return &Runner{
		cfg:     cfg,
		source:  source,
		storage: storageSink,
		logger:  logger,
		state:   state,
	}
}

// Run executes the ingestion loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("transaction source is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	switch r.cfg.OnError {
	case "", OnErrorHalt, OnErrorSkip:
	default:
		return fmt.Errorf("unknown on-error policy: %s", r.cfg.OnError)
	}

	from := r.cfg.FromVersion
	to := r.cfg.ToVersion
	if to == 0 {
		latest, err := r.source.LatestVersion(ctx)
		if err != nil {
			return fmt.Errorf("get latest version: %w", err)
		}
		to = latest
	}

	lastProcessed, ok, err := r.state.Load(ctx)
	if err != nil {
		return err
	}
	if ok && lastProcessed >= from {
		from = lastProcessed + 1
		r.logger.Info("resume from checkpoint",
			zap.Uint64("last_processed", lastProcessed),
			zap.Uint64("from", from),
		)
	}

	if from > to {
		r.logger.Info("nothing to sync", zap.Uint64("from", from), zap.Uint64("to", to))
		return nil
	}

	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, versionRange := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.logger.Info("fetch transactions", zap.Uint64("from", versionRange.From), zap.Uint64("to", versionRange.To))

		txns, err := r.fetchRangeWithRetry(ctx, versionRange)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}

		batch, skipped, err := r.extractBatch(txns)
		if err != nil {
			return err
		}

		if err := r.storage.PutCoinBatch(ctx, batch); err != nil {
			return fmt.Errorf("store coin batch: %w", err)
		}

		if err := r.state.Save(ctx, versionRange.To); err != nil {
			return err
		}

		r.logger.Info("batch complete",
			zap.Uint64("from", versionRange.From),
			zap.Uint64("to", versionRange.To),
			zap.Int("activities", len(batch.Activities)),
			zap.Int("infos", len(batch.Infos)),
			zap.Int("balances", len(batch.Balances)),
			zap.Int("skipped", skipped),
		)
	}

	return nil
}

// extractBatch runs the extractor over one fetched range. A fatal
// extraction error aborts exactly that transaction; the policy decides
// whether the whole run halts or the transaction is skipped.
func (r *Runner) extractBatch(txns []model.Transaction) (model.CoinBatch, int, error) {
	merged := model.CoinBatch{
		CurrentBalances: make(map[model.CurrentBalanceKey]model.CurrentCoinBalance),
	}

	skipped := 0
	insertedAt := time.Now().UTC()
	for i := range txns {
		batch, err := coin.ExtractTransaction(&txns[i], insertedAt)
		if err != nil {
			r.logger.Error("extract transaction failed",
				zap.Uint64("version", uint64(txns[i].Version)),
				zap.Error(err),
			)
			if r.cfg.OnError == OnErrorSkip {
				skipped++
				continue
			}
			return model.CoinBatch{}, 0, err
		}
		merged.Merge(batch)
	}

	return merged, skipped, nil
}

func (r *Runner) fetchRangeWithRetry(ctx context.Context, versionRange VersionRange) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, versionRange.To-versionRange.From+1)

	start := versionRange.From
	for start <= versionRange.To {
		limit := versionRange.To - start + 1

		var txns []model.Transaction
		err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			var err error
			txns, err = r.source.TransactionsByVersion(ctx, start, limit)
			if err != nil {
				r.logger.Warn("fetch failed", zap.Error(err), zap.Uint64("start", start), zap.Uint64("limit", limit))
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		if len(txns) == 0 {
			return nil, fmt.Errorf("fullnode returned no transactions at version %d", start)
		}

		out = append(out, txns...)
		start += uint64(len(txns))
	}

	return out, nil
}
