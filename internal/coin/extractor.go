package coin

import (
	"time"

	"github.com/shopspring/decimal"

	"coinledger/internal/model"
)

// ExtractTransaction converts one transaction into the four output
// collections. It is a pure function of its inputs: no shared state, no
// I/O, so independent transactions can be processed concurrently.
//
// Coin state is spread across four places that must be correlated here:
// withdraw/deposit events carry amounts but no coin type; CoinStore writes
// carry the coin type plus the event stream GUIDs that tie events back to
// it; CoinInfo writes carry metadata; aggregator table items carry supply.
//
// A DecodeError or MissingCoinTypeError aborts the whole transaction and
// yields no partial output.
func ExtractTransaction(txn *model.Transaction, insertedAt time.Time) (model.CoinBatch, error) {
	batch := model.CoinBatch{
		CurrentBalances: make(map[model.CurrentBalanceKey]model.CurrentCoinBalance),
	}

	var userSubmitted bool
	switch txn.Type {
	case model.TransactionTypeGenesis:
	case model.TransactionTypeUser:
		userSubmitted = true
	default:
		// Block metadata, state checkpoints and future kinds carry no coin
		// state. The ignore is deliberate and by name.
		return batch, nil
	}

	version := int64(txn.Version)
	inserted := insertedAt.UTC().Format(time.RFC3339Nano)

	var entryFunction string
	if userSubmitted {
		if txn.Payload != nil && txn.Payload.Type == model.PayloadTypeEntryFunction {
			entryFunction = truncate(txn.Payload.Function, MaxEntryFunctionLength)
		}
		batch.Activities = append(batch.Activities, gasFeeActivity(txn, version, inserted))
	}

	lookup, err := ResolveAggregators(version, txn.Changes)
	if err != nil {
		return model.CoinBatch{}, err
	}

	eventToCoinType := make(map[model.EventGUID]string)
	for _, change := range txn.Changes {
		if change.Type != model.ChangeTypeWriteResource {
			continue
		}

		info, err := CoinInfoFromWriteResource(change, version, lookup)
		if err != nil {
			return model.CoinBatch{}, err
		}
		if info != nil {
			batch.Infos = append(batch.Infos, *info)
		}

		balance, current, mapping, err := CoinStoreFromWriteResource(change, version)
		if err != nil {
			return model.CoinBatch{}, err
		}
		if balance != nil {
			batch.Balances = append(batch.Balances, *balance)
			// Last write per key within the transaction wins.
			key := model.CurrentBalanceKey{OwnerAddress: current.OwnerAddress, CoinType: current.CoinType}
			batch.CurrentBalances[key] = *current
			for guid, coinType := range mapping {
				eventToCoinType[guid] = coinType
			}
		}
	}

	for _, event := range txn.Events {
		coinEvent, err := ClassifyEvent(event, version)
		if err != nil {
			return model.CoinBatch{}, err
		}
		if coinEvent == nil {
			continue
		}

		guid := event.GUIDKey()
		coinType, ok := eventToCoinType[guid]
		if !ok {
			return model.CoinBatch{}, &MissingCoinTypeError{
				TransactionVersion: version,
				GUID:               guid,
				EventToCoinType:    eventToCoinType,
			}
		}

		batch.Activities = append(batch.Activities, model.CoinActivity{
			TransactionVersion:   version,
			EventAccountAddress:  guid.AccountAddress,
			EventCreationNumber:  guid.CreationNumber,
			EventSequenceNumber:  int64(event.SequenceNumber),
			OwnerAddress:         guid.AccountAddress,
			CoinType:             coinType,
			Amount:               coinEvent.Amount,
			ActivityType:         coinEvent.ActivityType,
			IsGasFee:             false,
			IsTransactionSuccess: txn.Success,
			EntryFunctionIDStr:   entryFunction,
			InsertedAt:           inserted,
		})
	}

	return batch, nil
}

// gasFeeActivity synthesizes the gas-burn entry of a user transaction. A
// failed transaction still burns gas, so the success flag mirrors the
// transaction outcome.
func gasFeeActivity(txn *model.Transaction, version int64, inserted string) model.CoinActivity {
	amount := decimal.NewFromUint64(uint64(txn.GasUsed)).
		Mul(decimal.NewFromUint64(uint64(txn.GasUnitPrice)))

	return model.CoinActivity{
		TransactionVersion:   version,
		EventAccountAddress:  txn.Sender,
		EventCreationNumber:  GasFeeCreationNumber,
		EventSequenceNumber:  GasFeeSequenceNumber,
		OwnerAddress:         txn.Sender,
		CoinType:             AptosCoinType,
		Amount:               amount,
		ActivityType:         GasFeeActivityType,
		IsGasFee:             true,
		IsTransactionSuccess: txn.Success,
		InsertedAt:           inserted,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
