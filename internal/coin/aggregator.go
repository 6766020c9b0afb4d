package coin

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"coinledger/internal/model"
)

// SupplyLookup maps an aggregator table handle to its resolved value.
// It is transaction-local and discarded after extraction.
type SupplyLookup map[string]decimal.Decimal

// Integer value types an aggregator table cell can carry.
var aggregatorValueTypes = map[string]struct{}{
	"u64":  {},
	"u128": {},
}

// ResolveAggregators scans the table-item writes of one transaction and
// collects the current value behind each aggregator handle. A later write
// for the same handle overwrites an earlier one. Writes that are not
// aggregator-shaped are skipped, never an error.
func ResolveAggregators(version int64, changes []model.WriteSetChange) (SupplyLookup, error) {
	lookup := make(SupplyLookup)
	for _, change := range changes {
		if change.Type != model.ChangeTypeWriteTableItem {
			continue
		}
		item := change.DecodedTable
		if item == nil {
			continue
		}
		if _, ok := aggregatorValueTypes[item.ValueType]; !ok {
			continue
		}

		value, err := decodeTableInteger(item.Value)
		if err != nil {
			return nil, &DecodeError{
				TransactionVersion: version,
				TypeName:           item.ValueType,
				Err:                fmt.Errorf("table item %s: %w", change.Handle, err),
			}
		}
		lookup[change.Handle] = value
	}
	return lookup, nil
}

func decodeTableInteger(raw json.RawMessage) (decimal.Decimal, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return decimal.Decimal{}, fmt.Errorf("unmarshal value: %w", err)
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse value %q: %w", text, err)
	}
	return value, nil
}
