package message

import (
	"encoding/json"
	"fmt"
)

// ParseSnapshot parses JSON data from a byte slice into a Snapshot.
// It returns ErrJSONUnmarshalFailed (wrapping the original error) if unmarshalling fails.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot

	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}
	return s, nil
}

// EncodeSnapshot serializes s as JSON.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONMarshalFailed, err)
	}
	return data, nil
}
