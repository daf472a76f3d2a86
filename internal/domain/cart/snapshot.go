package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SnapshotVersion is the persisted layout written by this build.
// Version 0 is the unversioned bare JSON array of line items.
const SnapshotVersion = 1

var (
	ErrCorruptSnapshot    = errors.New("corrupt cart snapshot")
	ErrUnsupportedVersion = errors.New("unsupported cart snapshot version")
)

// Snapshot is the persisted form of a cart
type Snapshot struct {
	Version int        `json:"version"`
	SavedAt time.Time  `json:"savedAt"`
	Items   []LineItem `json:"items"`
}

// Encode serializes items into a versioned snapshot
func Encode(items []LineItem, savedAt time.Time) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(Snapshot{
		Version: SnapshotVersion,
		SavedAt: savedAt.UTC(),
		Items:   items,
	})
}

// Decode parses a persisted payload of any known version and returns its line items
func Decode(data []byte) ([]LineItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCorruptSnapshot)
	}

	var items []LineItem
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
	case '{':
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		if snap.Version < 1 {
			return nil, fmt.Errorf("%w: missing version", ErrCorruptSnapshot)
		}
		if snap.Version > SnapshotVersion {
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
		}
		items = snap.Items
	default:
		return nil, fmt.Errorf("%w: unexpected payload", ErrCorruptSnapshot)
	}

	return normalize(items)
}

// normalize validates decoded lines and folds duplicate product+weight lines into the first one
func normalize(items []LineItem) ([]LineItem, error) {
	out := make([]LineItem, 0, len(items))
	seenID := make(map[string]bool, len(items))
	byPair := make(map[[2]string]int, len(items))

	for _, item := range items {
		switch {
		case item.ID == "":
			return nil, fmt.Errorf("%w: line without id", ErrCorruptSnapshot)
		case item.ProductID == "":
			return nil, fmt.Errorf("%w: line %s has no product", ErrCorruptSnapshot, item.ID)
		case item.WeightOption.Label == "":
			return nil, fmt.Errorf("%w: line %s has no weight", ErrCorruptSnapshot, item.ID)
		case item.WeightOption.Price < 0:
			return nil, fmt.Errorf("%w: line %s has negative price", ErrCorruptSnapshot, item.ID)
		case item.Quantity <= 0:
			return nil, fmt.Errorf("%w: line %s has quantity %d", ErrCorruptSnapshot, item.ID, item.Quantity)
		case seenID[item.ID]:
			return nil, fmt.Errorf("%w: duplicate line id %s", ErrCorruptSnapshot, item.ID)
		}
		seenID[item.ID] = true

		pair := [2]string{item.ProductID, item.WeightOption.Label}
		if i, dup := byPair[pair]; dup {
			out[i].Quantity += item.Quantity
			continue
		}
		byPair[pair] = len(out)
		out = append(out, item)
	}
	return out, nil
}
