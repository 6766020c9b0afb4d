package model

import "github.com/shopspring/decimal"

// CoinBalance is a balance snapshot from one coin store write. Keyed by
// (owner_address, coin_type, transaction_version).
type CoinBalance struct {
	TransactionVersion int64           `json:"transaction_version"`
	OwnerAddress       string          `json:"owner_address"`
	CoinType           string          `json:"coin_type"`
	Amount             decimal.Decimal `json:"amount"`
	DepositGUID        EventGUID       `json:"deposit_guid"`
	WithdrawGUID       EventGUID       `json:"withdraw_guid"`
}

// CurrentCoinBalance is the balance of (owner_address, coin_type) as of the
// highest version observed for that key. A lower version must never
// overwrite a higher one.
type CurrentCoinBalance struct {
	OwnerAddress           string          `json:"owner_address"`
	CoinType               string          `json:"coin_type"`
	Amount                 decimal.Decimal `json:"amount"`
	LastTransactionVersion int64           `json:"last_transaction_version"`
}

// CurrentBalanceKey is the primary key of the current_coin_balances stream.
type CurrentBalanceKey struct {
	OwnerAddress string
	CoinType     string
}
