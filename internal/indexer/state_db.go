package indexer

import (
	"context"

	"coinledger/internal/storage/postgres"
)

// DBStateStore keeps the ingestion checkpoint in the same database the
// coin records land in, so a restart resumes from what was actually
// committed.
type DBStateStore struct {
	Store *postgres.Store
	Name  string
}

func (s *DBStateStore) Load(ctx context.Context) (uint64, bool, error) {
	if s == nil || s.Store == nil {
		return 0, false, nil
	}
	return s.Store.LoadState(ctx, s.Name)
}

func (s *DBStateStore) Save(ctx context.Context, version uint64) error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.SaveState(ctx, s.Name, version)
}
