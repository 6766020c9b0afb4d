package model

import "github.com/shopspring/decimal"

// CoinActivity is one ledger entry: a real withdraw/deposit event or the
// synthetic gas-fee entry of a user transaction. Keyed by
// (transaction_version, event_account_address, event_creation_number,
// event_sequence_number).
type CoinActivity struct {
	TransactionVersion   int64           `json:"transaction_version"`
	EventAccountAddress  string          `json:"event_account_address"`
	EventCreationNumber  int64           `json:"event_creation_number"`
	EventSequenceNumber  int64           `json:"event_sequence_number"`
	OwnerAddress         string          `json:"owner_address"`
	CoinType             string          `json:"coin_type"`
	Amount               decimal.Decimal `json:"amount"`
	ActivityType         string          `json:"activity_type"`
	IsGasFee             bool            `json:"is_gas_fee"`
	IsTransactionSuccess bool            `json:"is_transaction_success"`
	EntryFunctionIDStr   string          `json:"entry_function_id_str,omitempty"`
	InsertedAt           string          `json:"inserted_at"`
}
