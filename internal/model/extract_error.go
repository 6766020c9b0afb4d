package model

// ExtractError records a failed extraction for one transaction.
type ExtractError struct {
	TransactionVersion int64  `json:"transaction_version"`
	Error              string `json:"error"`
}
