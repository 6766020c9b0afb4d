package storage

import (
	"context"

	"coinledger/internal/model"
)

// Storage is a sink for extracted coin records. Implementations must keep
// the latest-version-wins invariant for current balances when batches are
// applied out of order.
type Storage interface {
	PutCoinBatch(ctx context.Context, batch model.CoinBatch) error
}
