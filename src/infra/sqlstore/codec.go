package sqlstore

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"

	"github.com/bryanwahyu/sandai/src/domain/combat"
)

// encodeUnits stores final unit snapshots as snappy-compressed JSON.
func encodeUnits(units []combat.UnitState) ([]byte, error) {
	raw, err := json.Marshal(units)
	if err != nil {
		return nil, fmt.Errorf("encode final units: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

func decodeUnits(blob []byte) ([]combat.UnitState, error) {
	raw, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("decompress final units: %w", err)
	}
	var units []combat.UnitState
	if err := json.Unmarshal(raw, &units); err != nil {
		return nil, fmt.Errorf("decode final units: %w", err)
	}
	return units, nil
}
