package coin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"coinledger/internal/model"
)

// coinInfoData is the decoded payload of a CoinInfo resource.
type coinInfoData struct {
	Name     string      `json:"name"`
	Symbol   string      `json:"symbol"`
	Decimals int32       `json:"decimals"`
	Supply   optionalVec `json:"supply"`
}

// optionalVec is the on-chain Option encoding: a vec with zero or one item.
type optionalVec struct {
	Vec []optionalAggregator `json:"vec"`
}

type optionalAggregator struct {
	Aggregator aggregatorVec `json:"aggregator"`
	Integer    integerVec    `json:"integer"`
}

type aggregatorVec struct {
	Vec []aggregatorCell `json:"vec"`
}

type aggregatorCell struct {
	Handle string `json:"handle"`
	Key    string `json:"key"`
	Limit  string `json:"limit"`
}

type integerVec struct {
	Vec []integerCell `json:"vec"`
}

type integerCell struct {
	Value string `json:"value"`
	Limit string `json:"limit"`
}

// coinStoreData is the decoded payload of a CoinStore resource.
type coinStoreData struct {
	Coin           coinValue       `json:"coin"`
	Frozen         bool            `json:"frozen"`
	DepositEvents  eventHandleData `json:"deposit_events"`
	WithdrawEvents eventHandleData `json:"withdraw_events"`
}

type coinValue struct {
	Value string `json:"value"`
}

type eventHandleData struct {
	Counter model.U64     `json:"counter"`
	GUID    eventGUIDData `json:"guid"`
}

type eventGUIDData struct {
	ID eventGUIDID `json:"id"`
}

type eventGUIDID struct {
	Addr        string    `json:"addr"`
	CreationNum model.U64 `json:"creation_num"`
}

// CoinInfoFromWriteResource decodes a coin metadata write. A resource of any
// other type yields (nil, nil). Indirect supply resolves through the
// aggregator lookup; a handle absent from the lookup leaves supply nil,
// since the defining table write may live in another transaction.
func CoinInfoFromWriteResource(change model.WriteSetChange, version int64, lookup SupplyLookup) (*model.CoinInfo, error) {
	coinType, ok := coinTypeFromResource(change, CoinInfoTypePrefix)
	if !ok {
		return nil, nil
	}

	var data coinInfoData
	if err := json.Unmarshal(change.Data.Data, &data); err != nil {
		return nil, &DecodeError{
			TransactionVersion: version,
			TypeName:           change.Data.Type,
			Err:                err,
		}
	}

	supply, err := resolveSupply(data.Supply, lookup)
	if err != nil {
		return nil, &DecodeError{
			TransactionVersion: version,
			TypeName:           change.Data.Type,
			Err:                err,
		}
	}

	return &model.CoinInfo{
		CoinType:                  coinType,
		TransactionVersionCreated: version,
		CreatorAddress:            change.Address,
		Name:                      data.Name,
		Symbol:                    data.Symbol,
		Decimals:                  data.Decimals,
		Supply:                    supply,
	}, nil
}

// CoinStoreFromWriteResource decodes a coin store write into a balance
// snapshot, a current balance, and the deposit/withdraw stream mappings that
// tie this store's events back to its coin type. A resource of any other
// type yields nils.
func CoinStoreFromWriteResource(change model.WriteSetChange, version int64) (*model.CoinBalance, *model.CurrentCoinBalance, map[model.EventGUID]string, error) {
	coinType, ok := coinTypeFromResource(change, CoinStoreTypePrefix)
	if !ok {
		return nil, nil, nil, nil
	}

	var data coinStoreData
	if err := json.Unmarshal(change.Data.Data, &data); err != nil {
		return nil, nil, nil, &DecodeError{
			TransactionVersion: version,
			TypeName:           change.Data.Type,
			Err:                err,
		}
	}

	amount, err := decimal.NewFromString(data.Coin.Value)
	if err != nil {
		return nil, nil, nil, &DecodeError{
			TransactionVersion: version,
			TypeName:           change.Data.Type,
			Err:                fmt.Errorf("parse balance %q: %w", data.Coin.Value, err),
		}
	}

	depositGUID := model.EventGUID{
		AccountAddress: data.DepositEvents.GUID.ID.Addr,
		CreationNumber: int64(data.DepositEvents.GUID.ID.CreationNum),
	}
	withdrawGUID := model.EventGUID{
		AccountAddress: data.WithdrawEvents.GUID.ID.Addr,
		CreationNumber: int64(data.WithdrawEvents.GUID.ID.CreationNum),
	}

	balance := &model.CoinBalance{
		TransactionVersion: version,
		OwnerAddress:       change.Address,
		CoinType:           coinType,
		Amount:             amount,
		DepositGUID:        depositGUID,
		WithdrawGUID:       withdrawGUID,
	}
	current := &model.CurrentCoinBalance{
		OwnerAddress:           change.Address,
		CoinType:               coinType,
		Amount:                 amount,
		LastTransactionVersion: version,
	}
	eventToCoinType := map[model.EventGUID]string{
		depositGUID:  coinType,
		withdrawGUID: coinType,
	}

	return balance, current, eventToCoinType, nil
}

// coinTypeFromResource extracts the generic coin type argument when the
// resource type matches the given prefix.
func coinTypeFromResource(change model.WriteSetChange, prefix string) (string, bool) {
	if change.Type != model.ChangeTypeWriteResource || change.Data == nil {
		return "", false
	}
	typeName := change.Data.Type
	if !strings.HasPrefix(typeName, prefix) || !strings.HasSuffix(typeName, ">") {
		return "", false
	}
	return typeName[len(prefix) : len(typeName)-1], true
}

// resolveSupply picks the direct integer supply when present, otherwise
// consults the aggregator lookup. Missing option or missing handle both
// mean the supply is unknown, not zero.
func resolveSupply(supply optionalVec, lookup SupplyLookup) (*decimal.Decimal, error) {
	if len(supply.Vec) == 0 {
		return nil, nil
	}
	option := supply.Vec[0]

	if len(option.Integer.Vec) > 0 {
		value, err := decimal.NewFromString(option.Integer.Vec[0].Value)
		if err != nil {
			return nil, fmt.Errorf("parse integer supply %q: %w", option.Integer.Vec[0].Value, err)
		}
		return &value, nil
	}

	if len(option.Aggregator.Vec) > 0 {
		value, ok := lookup[option.Aggregator.Vec[0].Handle]
		if !ok {
			return nil, nil
		}
		return &value, nil
	}

	return nil, nil
}
