package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"coinledger/internal/model"
)

func TestJsonlStorageWritesStreams(t *testing.T) {
	dir := t.TempDir()
	sink := NewJsonlStorage(dir)

	batch := model.CoinBatch{
		Activities: []model.CoinActivity{
			{TransactionVersion: 1, EventAccountAddress: "0xa", EventCreationNumber: 7, OwnerAddress: "0xa", CoinType: "0x1::test::Coin", Amount: decimal.NewFromInt(50), ActivityType: "0x1::coin::DepositEvent"},
		},
		Balances: []model.CoinBalance{
			{TransactionVersion: 1, OwnerAddress: "0xa", CoinType: "0x1::test::Coin", Amount: decimal.NewFromInt(100)},
		},
		CurrentBalances: map[model.CurrentBalanceKey]model.CurrentCoinBalance{
			{OwnerAddress: "0xa", CoinType: "0x1::test::Coin"}: {OwnerAddress: "0xa", CoinType: "0x1::test::Coin", Amount: decimal.NewFromInt(100), LastTransactionVersion: 1},
		},
	}

	if err := sink.PutCoinBatch(context.Background(), batch); err != nil {
		t.Fatalf("put batch: %v", err)
	}
	if err := sink.PutCoinBatch(context.Background(), batch); err != nil {
		t.Fatalf("put batch again: %v", err)
	}

	if got := countLines(t, filepath.Join(dir, ActivitiesFile)); got != 2 {
		t.Fatalf("activities lines: %d", got)
	}
	if got := countLines(t, filepath.Join(dir, BalancesFile)); got != 2 {
		t.Fatalf("balances lines: %d", got)
	}
	if got := countLines(t, filepath.Join(dir, CurrentBalancesFile)); got != 2 {
		t.Fatalf("current balances lines: %d", got)
	}
	if _, err := os.Stat(filepath.Join(dir, InfosFile)); !os.IsNotExist(err) {
		t.Fatalf("empty stream should not create a file")
	}

	var activity model.CoinActivity
	firstLine := readFirstLine(t, filepath.Join(dir, ActivitiesFile))
	if err := json.Unmarshal([]byte(firstLine), &activity); err != nil {
		t.Fatalf("parse activity line: %v", err)
	}
	if activity.Amount.String() != "50" || activity.CoinType != "0x1::test::Coin" {
		t.Fatalf("activity round trip mismatch: %+v", activity)
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan %s: %v", path, err)
	}
	return count
}

func readFirstLine(t *testing.T, path string) string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatalf("empty file %s", path)
	}
	return scanner.Text()
}
