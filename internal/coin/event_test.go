package coin

import (
	"encoding/json"
	"errors"
	"testing"

	"coinledger/internal/model"
)

func TestClassifyEventWithdraw(t *testing.T) {
	event := model.Event{
		GUID:           model.EventStreamID{AccountAddress: "0xa", CreationNumber: 3},
		SequenceNumber: 5,
		Type:           WithdrawEventType,
		Data:           json.RawMessage(`{"amount":"12345678901234567890"}`),
	}

	coinEvent, err := ClassifyEvent(event, 1)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if coinEvent == nil {
		t.Fatalf("expected recognized event")
	}
	if coinEvent.ActivityType != WithdrawEventType {
		t.Fatalf("activity type: %s", coinEvent.ActivityType)
	}
	// Amounts above 2^63 must survive without precision loss.
	if coinEvent.Amount.String() != "12345678901234567890" {
		t.Fatalf("amount: %s", coinEvent.Amount)
	}
}

func TestClassifyEventUnrecognized(t *testing.T) {
	event := model.Event{
		Type: "0x1::reconfiguration::NewEpochEvent",
		Data: json.RawMessage(`{"epoch":"2"}`),
	}

	coinEvent, err := ClassifyEvent(event, 1)
	if err != nil {
		t.Fatalf("unrecognized event must not error: %v", err)
	}
	if coinEvent != nil {
		t.Fatalf("unrecognized event must yield nil")
	}
}

func TestClassifyEventMalformed(t *testing.T) {
	event := model.Event{
		Type: DepositEventType,
		Data: json.RawMessage(`{"amount":12}`),
	}

	_, err := ClassifyEvent(event, 33)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if decodeErr.TransactionVersion != 33 {
		t.Fatalf("decode error version: %d", decodeErr.TransactionVersion)
	}
}
