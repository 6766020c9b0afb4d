package model

import "encoding/json"

// Transaction type tags used by the fullnode API.
const (
	TransactionTypeGenesis = "genesis_transaction"
	TransactionTypeUser    = "user_transaction"
)

// Write-set change type tags. Changes with any other tag carry no coin state.
const (
	ChangeTypeWriteResource  = "write_resource"
	ChangeTypeWriteTableItem = "write_table_item"
)

// PayloadTypeEntryFunction marks a user transaction payload that calls an
// entry function directly.
const PayloadTypeEntryFunction = "entry_function_payload"

// Transaction is one committed transaction as returned by the fullnode API.
type Transaction struct {
	Type         string           `json:"type"`
	Version      U64              `json:"version"`
	Success      bool             `json:"success"`
	GasUsed      U64              `json:"gas_used"`
	Sender       string           `json:"sender,omitempty"`
	GasUnitPrice U64              `json:"gas_unit_price,omitempty"`
	Payload      *Payload         `json:"payload,omitempty"`
	Changes      []WriteSetChange `json:"changes"`
	Events       []Event          `json:"events"`
}

// Payload is the payload of a user transaction. Only entry function calls
// carry a function identifier; other payload kinds are opaque here.
type Payload struct {
	Type     string `json:"type"`
	Function string `json:"function,omitempty"`
}

// WriteSetChange is one mutation recorded by a transaction's execution.
// The populated fields depend on Type.
type WriteSetChange struct {
	Type string `json:"type"`

	// write_resource
	Address string        `json:"address,omitempty"`
	Data    *ResourceData `json:"data,omitempty"`

	// write_table_item
	Handle       string         `json:"handle,omitempty"`
	Key          string         `json:"key,omitempty"`
	Value        string         `json:"value,omitempty"`
	DecodedTable *TableItemData `json:"decoded_table_data,omitempty"`
}

// ResourceData is the typed payload of a write_resource change.
type ResourceData struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TableItemData is the decoded form of a write_table_item change.
type TableItemData struct {
	Key       json.RawMessage `json:"key"`
	KeyType   string          `json:"key_type"`
	Value     json.RawMessage `json:"value"`
	ValueType string          `json:"value_type"`
}

// Event is one event emitted during a transaction.
type Event struct {
	GUID           EventStreamID   `json:"guid"`
	SequenceNumber U64             `json:"sequence_number"`
	Type           string          `json:"type"`
	Data           json.RawMessage `json:"data"`
}

// EventStreamID is the wire form of an event stream handle.
type EventStreamID struct {
	AccountAddress string `json:"account_address"`
	CreationNumber U64    `json:"creation_number"`
}

// EventGUID identifies an event stream: the emitting account plus the
// per-account creation number. Sequence numbers order events within it.
type EventGUID struct {
	AccountAddress string `json:"account_address"`
	CreationNumber int64  `json:"creation_number"`
}

// GUIDKey returns the comparable stream identifier of the event.
func (e Event) GUIDKey() EventGUID {
	return EventGUID{
		AccountAddress: e.GUID.AccountAddress,
		CreationNumber: int64(e.GUID.CreationNumber),
	}
}
