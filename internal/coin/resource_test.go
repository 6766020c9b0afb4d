package coin

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"coinledger/internal/model"
)

func coinInfoChange(creator, coinType, supplyJSON string) model.WriteSetChange {
	data := `{"name":"Test Coin","symbol":"TC","decimals":8,"supply":` + supplyJSON + `}`
	return model.WriteSetChange{
		Type:    model.ChangeTypeWriteResource,
		Address: creator,
		Data: &model.ResourceData{
			Type: CoinInfoTypePrefix + coinType + ">",
			Data: json.RawMessage(data),
		},
	}
}

func TestCoinInfoIntegerSupply(t *testing.T) {
	change := coinInfoChange("0xc", "0x1::test::Coin",
		`{"vec":[{"aggregator":{"vec":[]},"integer":{"vec":[{"limit":"340282366920938463463374607431768211455","value":"1000000"}]}}]}`)

	info, err := CoinInfoFromWriteResource(change, 10, nil)
	if err != nil {
		t.Fatalf("decode coin info: %v", err)
	}
	if info == nil {
		t.Fatalf("expected coin info")
	}
	if info.CoinType != "0x1::test::Coin" || info.CreatorAddress != "0xc" {
		t.Fatalf("identity mismatch: %+v", info)
	}
	if info.Name != "Test Coin" || info.Symbol != "TC" || info.Decimals != 8 {
		t.Fatalf("metadata mismatch: %+v", info)
	}
	if info.Supply == nil || info.Supply.String() != "1000000" {
		t.Fatalf("supply mismatch: %v", info.Supply)
	}
}

func TestCoinInfoAggregatorSupply(t *testing.T) {
	change := coinInfoChange("0xc", "0x1::test::Coin",
		`{"vec":[{"aggregator":{"vec":[{"handle":"0x42","key":"0x6","limit":"340282366920938463463374607431768211455"}]},"integer":{"vec":[]}}]}`)

	lookup := SupplyLookup{"0x42": decimal.NewFromInt(42)}
	info, err := CoinInfoFromWriteResource(change, 10, lookup)
	if err != nil {
		t.Fatalf("decode coin info: %v", err)
	}
	if info.Supply == nil || info.Supply.String() != "42" {
		t.Fatalf("supply should resolve via aggregator: %v", info.Supply)
	}

	// The backing table write may live in a different transaction; the
	// supply is then unknown, never zero.
	info, err = CoinInfoFromWriteResource(change, 10, SupplyLookup{})
	if err != nil {
		t.Fatalf("decode coin info: %v", err)
	}
	if info.Supply != nil {
		t.Fatalf("unresolved supply should be absent, got %v", info.Supply)
	}
}

func TestCoinInfoNoSupplyOption(t *testing.T) {
	change := coinInfoChange("0xc", "0x1::test::Coin", `{"vec":[]}`)

	info, err := CoinInfoFromWriteResource(change, 10, nil)
	if err != nil {
		t.Fatalf("decode coin info: %v", err)
	}
	if info.Supply != nil {
		t.Fatalf("missing option should leave supply absent")
	}
}

func TestCoinStoreDecode(t *testing.T) {
	change := coinStoreChange("0xa", "0x1::test::Coin", "100", 7, 8)

	balance, current, mapping, err := CoinStoreFromWriteResource(change, 12)
	if err != nil {
		t.Fatalf("decode coin store: %v", err)
	}
	if balance.OwnerAddress != "0xa" || balance.CoinType != "0x1::test::Coin" {
		t.Fatalf("balance identity mismatch: %+v", balance)
	}
	if balance.Amount.String() != "100" || balance.TransactionVersion != 12 {
		t.Fatalf("balance mismatch: %+v", balance)
	}
	if current.LastTransactionVersion != 12 {
		t.Fatalf("current version mismatch: %+v", current)
	}

	deposit := model.EventGUID{AccountAddress: "0xa", CreationNumber: 7}
	withdraw := model.EventGUID{AccountAddress: "0xa", CreationNumber: 8}
	if mapping[deposit] != "0x1::test::Coin" || mapping[withdraw] != "0x1::test::Coin" {
		t.Fatalf("event mapping mismatch: %+v", mapping)
	}
}

func TestUnrelatedResourceIgnored(t *testing.T) {
	change := model.WriteSetChange{
		Type:    model.ChangeTypeWriteResource,
		Address: "0xa",
		Data: &model.ResourceData{
			Type: "0x1::account::Account",
			Data: json.RawMessage(`{"sequence_number":"1"}`),
		},
	}

	info, err := CoinInfoFromWriteResource(change, 1, nil)
	if err != nil || info != nil {
		t.Fatalf("unrelated resource should be skipped: %v %v", info, err)
	}

	balance, current, mapping, err := CoinStoreFromWriteResource(change, 1)
	if err != nil || balance != nil || current != nil || mapping != nil {
		t.Fatalf("unrelated resource should be skipped: %v", err)
	}
}

func TestCoinStoreMalformedPayload(t *testing.T) {
	change := model.WriteSetChange{
		Type:    model.ChangeTypeWriteResource,
		Address: "0xa",
		Data: &model.ResourceData{
			Type: CoinStoreTypePrefix + "0x1::test::Coin>",
			Data: json.RawMessage(`{"coin":{"value":"abc"}}`),
		},
	}

	_, _, _, err := CoinStoreFromWriteResource(change, 1)
	if err == nil {
		t.Fatalf("expected decode error for malformed balance")
	}
}
