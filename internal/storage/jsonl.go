package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"coinledger/internal/model"
)

// Stream file names under the output directory.
const (
	ActivitiesFile      = "coin_activities.jsonl"
	InfosFile           = "coin_infos.jsonl"
	BalancesFile        = "coin_balances.jsonl"
	CurrentBalancesFile = "current_coin_balances.jsonl"
)

// JsonlStorage appends coin records as JSON lines, one file per stream.
// Current balances are written as snapshots per batch; replaying the file
// in order reproduces latest-wins.
type JsonlStorage struct {
	dir string
	mu  sync.Mutex
}

func NewJsonlStorage(dir string) *JsonlStorage {
	return &JsonlStorage{dir: dir}
}

// PutCoinBatch appends the four collections to their stream files.
func (s *JsonlStorage) PutCoinBatch(_ context.Context, batch model.CoinBatch) error {
	if batch.Size() == 0 {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := appendLines(filepath.Join(s.dir, ActivitiesFile), asValues(batch.Activities)); err != nil {
		return err
	}
	if err := appendLines(filepath.Join(s.dir, InfosFile), asValues(batch.Infos)); err != nil {
		return err
	}
	if err := appendLines(filepath.Join(s.dir, BalancesFile), asValues(batch.Balances)); err != nil {
		return err
	}
	return appendLines(filepath.Join(s.dir, CurrentBalancesFile), asValues(batch.SortedCurrentBalances()))
}

func asValues[T any](records []T) []interface{} {
	out := make([]interface{}, 0, len(records))
	for _, record := range records {
		out = append(out, record)
	}
	return out
}

func appendLines(path string, records []interface{}) error {
	if len(records) == 0 {
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
