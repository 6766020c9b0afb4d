package coin

import (
	"fmt"
	"sort"
	"strings"

	"coinledger/internal/model"
)

// DecodeError reports a write or event payload that contradicts the shape
// its type name implies. It is fatal for the containing transaction: a
// payload we claim to recognize but cannot decode means the extractor's
// type knowledge is stale.
type DecodeError struct {
	TransactionVersion int64
	TypeName           string
	Err                error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at version %d: %v", e.TypeName, e.TransactionVersion, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MissingCoinTypeError reports a recognized withdraw/deposit event whose
// GUID has no coin store write in the same transaction. The ledger
// guarantees the pair arrives together, so this is a data-consistency
// violation, fatal for the transaction. The full mapping is carried for
// diagnosis.
type MissingCoinTypeError struct {
	TransactionVersion int64
	GUID               model.EventGUID
	EventToCoinType    map[model.EventGUID]string
}

func (e *MissingCoinTypeError) Error() string {
	return fmt.Sprintf(
		"no coin store write for event guid (%s, %d) at version %d, mapping: %s",
		e.GUID.AccountAddress, e.GUID.CreationNumber, e.TransactionVersion, formatMapping(e.EventToCoinType),
	)
}

func formatMapping(mapping map[model.EventGUID]string) string {
	entries := make([]string, 0, len(mapping))
	for guid, coinType := range mapping {
		entries = append(entries, fmt.Sprintf("(%s, %d)=%s", guid.AccountAddress, guid.CreationNumber, coinType))
	}
	sort.Strings(entries)
	return "{" + strings.Join(entries, ", ") + "}"
}
