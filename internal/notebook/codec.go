package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Shape identifies which persisted layout a payload was recognised as.
type Shape int

const (
	// ShapeUnknown is any JSON value that is neither a notebook nor an inventory.
	ShapeUnknown Shape = iota
	// ShapeNotebook is the versioned document: {"version", "updatedAt", "inventory"}.
	ShapeNotebook
	// ShapeInventory is the legacy bare inventory: {"cupboard", "fridge", "freezer"}.
	ShapeInventory
)

func (s Shape) String() string {
	switch s {
	case ShapeNotebook:
		return "notebook"
	case ShapeInventory:
		return "inventory"
	default:
		return "unknown"
	}
}

// Decoded is the result of normalising a persisted payload.
type Decoded struct {
	Shape    Shape
	Document Document
}

// Encode writes doc in the canonical wire form.
func Encode(doc Document) ([]byte, error) {
	doc.Inventory = doc.Inventory.Clone()
	return json.Marshal(doc)
}

// Decode normalises raw into a Document. It fails only with ErrMalformed,
// for input that is not JSON or is JSON null; any other value yields a
// usable document. now stamps documents that carry no timestamp of their own.
func Decode(raw []byte, now time.Time) (Decoded, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Decoded{}, fmt.Errorf("%w: empty", ErrMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return Decoded{}, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if v == nil {
		return Decoded{}, fmt.Errorf("%w: null", ErrMalformed)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return Decoded{Shape: ShapeUnknown, Document: Empty(now)}, nil
	}

	if version, ok := numberField(obj, "version"); ok {
		if inv, ok := obj["inventory"].(map[string]any); ok {
			updatedAt, ok := stringField(obj, "updatedAt", "updated_at")
			if !ok {
				updatedAt = FormatTime(now)
			}
			return Decoded{
				Shape: ShapeNotebook,
				Document: Document{
					Version:   version,
					UpdatedAt: updatedAt,
					Inventory: decodeInventory(inv),
				},
			}, nil
		}
	}

	if hasAnyLocation(obj) {
		doc := Empty(now)
		doc.Inventory = decodeInventory(obj)
		return Decoded{Shape: ShapeInventory, Document: doc}, nil
	}

	return Decoded{Shape: ShapeUnknown, Document: Empty(now)}, nil
}

// DecodeDocument is Decode without the shape.
func DecodeDocument(raw []byte, now time.Time) (Document, error) {
	d, err := Decode(raw, now)
	if err != nil {
		return Document{}, err
	}
	return d.Document, nil
}

func hasAnyLocation(obj map[string]any) bool {
	for _, loc := range Locations {
		if _, ok := obj[string(loc)]; ok {
			return true
		}
	}
	return false
}

func decodeInventory(obj map[string]any) Inventory {
	inv := EmptyInventory()
	for _, loc := range Locations {
		arr, ok := obj[string(loc)].([]any)
		if !ok {
			continue
		}
		items := make([]Item, 0, len(arr))
		for _, el := range arr {
			m, ok := el.(map[string]any)
			if !ok {
				continue
			}
			items = append(items, decodeItem(m))
		}
		inv = inv.With(loc, items)
	}
	return inv
}

func decodeItem(m map[string]any) Item {
	id, _ := stringField(m, "id")
	name, _ := stringField(m, "name", "item_name")
	createdAt, _ := stringField(m, "createdAt", "created_at")
	return Item{
		ID:        id,
		Name:      strings.TrimSpace(name),
		CreatedAt: createdAt,
	}
}

// stringField returns the first of keys holding a string.
func stringField(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s, true
		}
	}
	return "", false
}

func numberField(m map[string]any, key string) (int64, bool) {
	n, ok := m[key].(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
