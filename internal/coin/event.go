package coin

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"coinledger/internal/model"
)

// CoinEvent is a recognized withdraw or deposit event.
type CoinEvent struct {
	ActivityType string
	Amount       decimal.Decimal
}

type coinEventData struct {
	Amount string `json:"amount"`
}

// ClassifyEvent decodes a withdraw/deposit event. Events of any other type
// yield (nil, nil): new event kinds appear over time and callers must skip
// them silently. A recognized type with a malformed payload is an error.
func ClassifyEvent(event model.Event, version int64) (*CoinEvent, error) {
	switch event.Type {
	case WithdrawEventType, DepositEventType:
	default:
		return nil, nil
	}

	var data coinEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return nil, &DecodeError{
			TransactionVersion: version,
			TypeName:           event.Type,
			Err:                err,
		}
	}
	amount, err := decimal.NewFromString(data.Amount)
	if err != nil {
		return nil, &DecodeError{
			TransactionVersion: version,
			TypeName:           event.Type,
			Err:                fmt.Errorf("parse amount %q: %w", data.Amount, err),
		}
	}

	return &CoinEvent{ActivityType: event.Type, Amount: amount}, nil
}
