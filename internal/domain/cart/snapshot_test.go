package cart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/example/snack-storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []LineItem {
	return []LineItem{
		{
			ID:           "masala-gram-250-250g-1",
			ProductID:    "masala-gram-250",
			Name:         "Masala Gram",
			WeightOption: catalog.WeightOption{Label: "250g", Price: 650},
			Quantity:     3,
			Image:        "/assets/masala-gram-product.jpg",
		},
		{
			ID:           "kalu-dodol-400-400g-2",
			ProductID:    "kalu-dodol-400",
			Name:         "Kalu Dodol",
			WeightOption: catalog.WeightOption{Label: "400g", Price: 1690},
			Quantity:     1,
		},
	}
}

// ============================================
// Encode Tests
// ============================================

func TestEncode_WritesVersionedEnvelope(t *testing.T) {
	saved := time.Date(2024, 5, 1, 15, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	data, err := Encode(sampleItems(), saved)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `1`, string(raw["version"]))
	assert.JSONEq(t, `"2024-05-01T10:00:00Z"`, string(raw["savedAt"]))
	assert.Contains(t, string(raw["items"]), `"productId":"masala-gram-250"`)
	assert.Contains(t, string(raw["items"]), `"weightOption":{"label":"250g","price":650}`)
}

func TestEncode_EmptyCartWritesEmptyList(t *testing.T) {
	data, err := Encode(nil, time.Unix(0, 0))
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.NotNil(t, snap.Items)
	assert.Empty(t, snap.Items)
	assert.Contains(t, string(data), `"items":[]`)
}

// ============================================
// Decode Tests
// ============================================

func TestDecode_RoundTrip(t *testing.T) {
	data, err := Encode(sampleItems(), time.Now())
	require.NoError(t, err)

	items, err := Decode(data)

	require.NoError(t, err)
	assert.Equal(t, sampleItems(), items)
}

func TestDecode_LegacyArray(t *testing.T) {
	legacy, err := json.Marshal(sampleItems())
	require.NoError(t, err)

	items, err := Decode(legacy)

	require.NoError(t, err)
	assert.Equal(t, sampleItems(), items)
}

func TestDecode_MergesDuplicateLines(t *testing.T) {
	payload := `{"version":1,"items":[
		{"id":"a","productId":"masala-gram-250","weightOption":{"label":"250g","price":650},"quantity":2},
		{"id":"b","productId":"kalu-dodol-400","weightOption":{"label":"400g","price":1690},"quantity":1},
		{"id":"c","productId":"masala-gram-250","weightOption":{"label":"250g","price":650},"quantity":1}
	]}`

	items, err := Decode([]byte(payload))

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "b", items[1].ID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"empty", "", ErrCorruptSnapshot},
		{"whitespace", "   \n", ErrCorruptSnapshot},
		{"garbage", "hello", ErrCorruptSnapshot},
		{"truncated array", `[{"id":"a"`, ErrCorruptSnapshot},
		{"missing version", `{"items":[]}`, ErrCorruptSnapshot},
		{"newer version", `{"version":2,"items":[]}`, ErrUnsupportedVersion},
		{"missing id", `[{"productId":"p","weightOption":{"label":"x","price":1},"quantity":1}]`, ErrCorruptSnapshot},
		{"missing product", `[{"id":"a","weightOption":{"label":"x","price":1},"quantity":1}]`, ErrCorruptSnapshot},
		{"missing label", `[{"id":"a","productId":"p","weightOption":{"price":1},"quantity":1}]`, ErrCorruptSnapshot},
		{"negative price", `[{"id":"a","productId":"p","weightOption":{"label":"x","price":-1},"quantity":1}]`, ErrCorruptSnapshot},
		{"zero quantity", `[{"id":"a","productId":"p","weightOption":{"label":"x","price":1},"quantity":0}]`, ErrCorruptSnapshot},
		{"duplicate id", `[{"id":"a","productId":"p","weightOption":{"label":"x","price":1},"quantity":1},{"id":"a","productId":"q","weightOption":{"label":"x","price":1},"quantity":1}]`, ErrCorruptSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Decode([]byte(tt.payload))

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, items)
		})
	}
}

func TestDecode_EmptyLegacyArray(t *testing.T) {
	items, err := Decode([]byte(`[]`))

	require.NoError(t, err)
	assert.Empty(t, items)
}
