package notebook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func TestDecode_Shapes(t *testing.T) {
	nowStr := FormatTime(fixedNow)

	tests := []struct {
		name      string
		raw       string
		wantShape Shape
		want      Document
	}{
		{
			name:      "canonical notebook",
			raw:       `{"version":4,"updatedAt":"2025-01-02T03:04:05.000Z","inventory":{"cupboard":[{"id":"a","name":"Rice","createdAt":"2025-01-01T00:00:00.000Z"}],"fridge":[],"freezer":[]}}`,
			wantShape: ShapeNotebook,
			want: Document{
				Version:   4,
				UpdatedAt: "2025-01-02T03:04:05.000Z",
				Inventory: Inventory{
					Cupboard: []Item{{ID: "a", Name: "Rice", CreatedAt: "2025-01-01T00:00:00.000Z"}},
					Fridge:   []Item{},
					Freezer:  []Item{},
				},
			},
		},
		{
			name:      "historical snake case",
			raw:       `{"version":2,"updated_at":"2024-06-01T10:00:00Z","inventory":{"fridge":[{"id":"m","item_name":"  Milk ","created_at":"2024-05-30T08:00:00Z"}]}}`,
			wantShape: ShapeNotebook,
			want: Document{
				Version:   2,
				UpdatedAt: "2024-06-01T10:00:00Z",
				Inventory: Inventory{
					Cupboard: []Item{},
					Fridge:   []Item{{ID: "m", Name: "Milk", CreatedAt: "2024-05-30T08:00:00Z"}},
					Freezer:  []Item{},
				},
			},
		},
		{
			name:      "notebook without timestamp",
			raw:       `{"version":3,"inventory":{}}`,
			wantShape: ShapeNotebook,
			want:      Document{Version: 3, UpdatedAt: nowStr, Inventory: EmptyInventory()},
		},
		{
			name:      "legacy bare inventory",
			raw:       `{"freezer":[{"id":"p","name":"Peas","createdAt":"x"}]}`,
			wantShape: ShapeInventory,
			want: Document{
				Version:   1,
				UpdatedAt: nowStr,
				Inventory: Inventory{
					Cupboard: []Item{},
					Fridge:   []Item{},
					Freezer:  []Item{{ID: "p", Name: "Peas", CreatedAt: "x"}},
				},
			},
		},
		{
			name:      "non-array locations and non-object elements",
			raw:       `{"cupboard":"oops","fridge":[1,"two",null,{"id":"e","name":"Eggs"}],"freezer":{}}`,
			wantShape: ShapeInventory,
			want: Document{
				Version:   1,
				UpdatedAt: nowStr,
				Inventory: Inventory{
					Cupboard: []Item{},
					Fridge:   []Item{{ID: "e", Name: "Eggs"}},
					Freezer:  []Item{},
				},
			},
		},
		{
			name:      "string version is not a notebook",
			raw:       `{"version":"2","inventory":{"cupboard":[]}}`,
			wantShape: ShapeUnknown,
			want:      Empty(fixedNow),
		},
		{
			name:      "array",
			raw:       `[1,2,3]`,
			wantShape: ShapeUnknown,
			want:      Empty(fixedNow),
		},
		{
			name:      "number",
			raw:       `42`,
			wantShape: ShapeUnknown,
			want:      Empty(fixedNow),
		},
		{
			name:      "unrelated object",
			raw:       `{"hello":"world"}`,
			wantShape: ShapeUnknown,
			want:      Empty(fixedNow),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw), fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantShape, got.Shape)
			assert.Equal(t, tt.want, got.Document)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{", "not json", "null", `{"version":1} trailing`} {
		t.Run(raw, func(t *testing.T) {
			_, err := Decode([]byte(raw), fixedNow)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestEncode_CanonicalFieldNames(t *testing.T) {
	d, err := Decode([]byte(`{"version":2,"updated_at":"2024-06-01T10:00:00Z","inventory":{"fridge":[{"id":"m","item_name":"Milk","created_at":"c"}]}}`), fixedNow)
	require.NoError(t, err)

	b, err := Encode(d.Document)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"version":2,"updatedAt":"2024-06-01T10:00:00Z","inventory":{"cupboard":[],"fridge":[{"id":"m","name":"Milk","createdAt":"c"}],"freezer":[]}}`,
		string(b))
	assert.NotContains(t, string(b), "item_name")
}

func TestEncode_NilSlicesBecomeArrays(t *testing.T) {
	b, err := Encode(Document{Version: 1, UpdatedAt: "t"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"updatedAt":"t","inventory":{"cupboard":[],"fridge":[],"freezer":[]}}`, string(b))
}

func TestEncodeDecode_PreservesOrder(t *testing.T) {
	inv := EmptyInventory().
		Add(Cupboard, Item{ID: "1", Name: "Flour", CreatedAt: "a"}).
		Add(Cupboard, Item{ID: "2", Name: "Sugar", CreatedAt: "b"})
	doc := Document{Version: 7, UpdatedAt: FormatTime(fixedNow), Inventory: inv}

	b, err := Encode(doc)
	require.NoError(t, err)

	got, err := DecodeDocument(b, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, "2", got.Inventory.Cupboard[0].ID)
}
