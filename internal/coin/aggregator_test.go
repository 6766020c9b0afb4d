package coin

import (
	"encoding/json"
	"testing"

	"coinledger/internal/model"
)

func tableItemChange(handle, valueType, value string) model.WriteSetChange {
	return model.WriteSetChange{
		Type:   model.ChangeTypeWriteTableItem,
		Handle: handle,
		Key:    "0x6",
		DecodedTable: &model.TableItemData{
			KeyType:   "address",
			Key:       json.RawMessage(`"0x6"`),
			ValueType: valueType,
			Value:     json.RawMessage(value),
		},
	}
}

func TestResolveAggregators(t *testing.T) {
	changes := []model.WriteSetChange{
		tableItemChange("0x42", "u128", `"42"`),
		tableItemChange("0x43", "u64", `"7"`),
		{Type: model.ChangeTypeWriteResource},
		tableItemChange("0x44", "0x1::some::Struct", `{"field":"1"}`),
	}

	lookup, err := ResolveAggregators(1, changes)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(lookup) != 2 {
		t.Fatalf("lookup size: %d", len(lookup))
	}
	if lookup["0x42"].String() != "42" || lookup["0x43"].String() != "7" {
		t.Fatalf("lookup values: %+v", lookup)
	}
}

func TestResolveAggregatorsLastWriteWins(t *testing.T) {
	changes := []model.WriteSetChange{
		tableItemChange("0x42", "u128", `"10"`),
		tableItemChange("0x42", "u128", `"20"`),
	}

	lookup, err := ResolveAggregators(1, changes)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if lookup["0x42"].String() != "20" {
		t.Fatalf("later write should win: %s", lookup["0x42"])
	}
}

func TestResolveAggregatorsUndecodedSkipped(t *testing.T) {
	changes := []model.WriteSetChange{
		{Type: model.ChangeTypeWriteTableItem, Handle: "0x42", Value: "0xdeadbeef"},
	}

	lookup, err := ResolveAggregators(1, changes)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(lookup) != 0 {
		t.Fatalf("undecoded table item should be skipped: %+v", lookup)
	}
}

func TestResolveAggregatorsMalformedValue(t *testing.T) {
	changes := []model.WriteSetChange{
		tableItemChange("0x42", "u128", `"not-a-number"`),
	}

	if _, err := ResolveAggregators(9, changes); err == nil {
		t.Fatalf("expected decode error for malformed aggregator value")
	}
}
