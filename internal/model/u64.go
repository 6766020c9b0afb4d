package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// U64 decodes an unsigned 64-bit integer that the fullnode API encodes
// either as a JSON string or as a bare number.
type U64 uint64

// UnmarshalJSON decodes a U64 from a string or number.
func (u *U64) UnmarshalJSON(data []byte) error {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	text := string(raw)
	if len(text) >= 2 && text[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		text = s
	}

	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return fmt.Errorf("parse u64 %q: %w", text, err)
	}
	*u = U64(value)
	return nil
}

// MarshalJSON encodes a U64 as a string, matching the fullnode wire form.
func (u U64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}
