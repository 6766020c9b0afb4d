package model

import "github.com/shopspring/decimal"

// CoinInfo is coin metadata observed in a write_resource change. Keyed by
// (coin_type, transaction_version_created). The engine emits one row per
// matching write; it does not deduplicate across transactions.
type CoinInfo struct {
	CoinType                  string           `json:"coin_type"`
	TransactionVersionCreated int64            `json:"transaction_version_created"`
	CreatorAddress            string           `json:"creator_address"`
	Name                      string           `json:"name"`
	Symbol                    string           `json:"symbol"`
	Decimals                  int32            `json:"decimals"`
	Supply                    *decimal.Decimal `json:"supply,omitempty"`
}
