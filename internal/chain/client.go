package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coinledger/internal/model"
)

// LedgerInfo is the fullnode's ledger summary.
type LedgerInfo struct {
	ChainID       uint      `json:"chain_id"`
	LedgerVersion model.U64 `json:"ledger_version"`
	BlockHeight   model.U64 `json:"block_height"`
}

// Client is a minimal fullnode REST client covering what ingestion needs:
// ledger info and transactions by version range.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given fullnode base URL, e.g.
// https://fullnode.mainnet.aptoslabs.com/v1.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("fullnode url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid fullnode url: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// LedgerInfo returns the current ledger summary.
func (c *Client) LedgerInfo(ctx context.Context) (LedgerInfo, error) {
	var info LedgerInfo
	if err := c.get(ctx, c.baseURL, &info); err != nil {
		return LedgerInfo{}, err
	}
	return info, nil
}

// LatestVersion returns the highest committed transaction version.
func (c *Client) LatestVersion(ctx context.Context) (uint64, error) {
	info, err := c.LedgerInfo(ctx)
	if err != nil {
		return 0, err
	}
	return uint64(info.LedgerVersion), nil
}

// TransactionsByVersion fetches up to limit committed transactions starting
// at the given version, in version order.
func (c *Client) TransactionsByVersion(ctx context.Context, start, limit uint64) ([]model.Transaction, error) {
	endpoint := c.baseURL + "/transactions?start=" + strconv.FormatUint(start, 10) +
		"&limit=" + strconv.FormatUint(limit, 10)

	var txns []model.Transaction
	if err := c.get(ctx, endpoint, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fullnode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("fullnode status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
