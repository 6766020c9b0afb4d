package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientLedgerInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chain_id":1,"ledger_version":"1000","block_height":"500"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/v1", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	version, err := client.LatestVersion(context.Background())
	if err != nil {
		t.Fatalf("latest version: %v", err)
	}
	if version != 1000 {
		t.Fatalf("version: %d", version)
	}
}

func TestClientTransactionsByVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transactions" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("start") != "10" || r.URL.Query().Get("limit") != "2" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"type":"user_transaction","version":"10","success":true,"gas_used":"5"},
			{"type":"state_checkpoint_transaction","version":"11","success":true,"gas_used":"0"}
		]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/v1", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	txns, err := client.TransactionsByVersion(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("transaction count: %d", len(txns))
	}
	if txns[0].Version != 10 || txns[1].Version != 11 {
		t.Fatalf("versions: %d %d", txns[0].Version, txns[1].Version)
	}
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"version pruned"}`, http.StatusGone)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.TransactionsByVersion(context.Background(), 1, 1); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}
