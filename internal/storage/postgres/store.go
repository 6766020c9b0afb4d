package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coinledger/internal/model"
)

// Store provides Postgres persistence for the four coin record streams.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutCoinBatch writes one extracted batch. The append-only streams insert
// with conflict-ignore so a replayed batch is idempotent; current balances
// upsert gated on the stored version so a stale batch can never move a key
// backwards.
func (s *Store) PutCoinBatch(ctx context.Context, batch model.CoinBatch) error {
	if batch.Size() == 0 {
		return nil
	}

	pgBatch := &pgx.Batch{}
	for _, activity := range batch.Activities {
		pgBatch.Queue(`
			INSERT INTO coin_activities (
				transaction_version, event_account_address, event_creation_number, event_sequence_number,
				owner_address, coin_type, amount, activity_type, is_gas_fee, is_transaction_success,
				entry_function_id_str, inserted_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
			ON CONFLICT (transaction_version, event_account_address, event_creation_number, event_sequence_number)
			DO NOTHING
		`,
			activity.TransactionVersion,
			activity.EventAccountAddress,
			activity.EventCreationNumber,
			activity.EventSequenceNumber,
			activity.OwnerAddress,
			activity.CoinType,
			activity.Amount,
			activity.ActivityType,
			activity.IsGasFee,
			activity.IsTransactionSuccess,
			nullableString(activity.EntryFunctionIDStr),
		)
	}

	for _, info := range batch.Infos {
		pgBatch.Queue(`
			INSERT INTO coin_infos (
				coin_type, transaction_version_created, creator_address, name, symbol, decimals, supply
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (coin_type, transaction_version_created)
			DO NOTHING
		`,
			info.CoinType,
			info.TransactionVersionCreated,
			info.CreatorAddress,
			info.Name,
			info.Symbol,
			info.Decimals,
			info.Supply,
		)
	}

	for _, balance := range batch.Balances {
		pgBatch.Queue(`
			INSERT INTO coin_balances (
				transaction_version, owner_address, coin_type, amount,
				deposit_event_address, deposit_event_creation_number,
				withdraw_event_address, withdraw_event_creation_number
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (owner_address, coin_type, transaction_version)
			DO NOTHING
		`,
			balance.TransactionVersion,
			balance.OwnerAddress,
			balance.CoinType,
			balance.Amount,
			balance.DepositGUID.AccountAddress,
			balance.DepositGUID.CreationNumber,
			balance.WithdrawGUID.AccountAddress,
			balance.WithdrawGUID.CreationNumber,
		)
	}

	for _, current := range batch.SortedCurrentBalances() {
		pgBatch.Queue(`
			INSERT INTO current_coin_balances (
				owner_address, coin_type, amount, last_transaction_version
			) VALUES ($1,$2,$3,$4)
			ON CONFLICT (owner_address, coin_type)
			DO UPDATE SET
				amount = EXCLUDED.amount,
				last_transaction_version = EXCLUDED.last_transaction_version
			WHERE current_coin_balances.last_transaction_version <= EXCLUDED.last_transaction_version
		`,
			current.OwnerAddress,
			current.CoinType,
			current.Amount,
			current.LastTransactionVersion,
		)
	}

	br := s.pool.SendBatch(ctx, pgBatch)
	defer br.Close()

	for i := 0; i < pgBatch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("apply coin batch: %w", err)
		}
	}
	return nil
}

// LoadState returns the last processed version for the named pipeline.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	var version int64
	err := s.pool.QueryRow(ctx,
		`SELECT last_processed_version FROM ledger_state WHERE name = $1`, name,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load state: %w", err)
	}
	return uint64(version), true, nil
}

// SaveState records the last processed version for the named pipeline.
func (s *Store) SaveState(ctx context.Context, name string, version uint64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ledger_state (name, last_processed_version, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name)
		DO UPDATE SET last_processed_version = EXCLUDED.last_processed_version, updated_at = now()
	`, name, int64(version))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
