package notebook

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item is one tracked food item.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// NewItem builds an item with a fresh id. Surrounding whitespace is trimmed
// and inner runs of whitespace collapse to a single space.
func NewItem(name string, now time.Time) (Item, error) {
	name = NormalizeName(name)
	if name == "" {
		return Item{}, ErrEmptyName
	}
	return Item{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: FormatTime(now),
	}, nil
}

// NormalizeName trims name and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Inventory is the full notebook contents. Each slice is ordered
// most-recent-first.
type Inventory struct {
	Cupboard []Item `json:"cupboard"`
	Fridge   []Item `json:"fridge"`
	Freezer  []Item `json:"freezer"`
}

// EmptyInventory returns an inventory with all three locations present and empty.
func EmptyInventory() Inventory {
	return Inventory{Cupboard: []Item{}, Fridge: []Item{}, Freezer: []Item{}}
}

// Items returns the items stored at loc.
func (inv Inventory) Items(loc Location) []Item {
	switch loc {
	case Cupboard:
		return inv.Cupboard
	case Fridge:
		return inv.Fridge
	case Freezer:
		return inv.Freezer
	default:
		return nil
	}
}

// With returns a copy of inv whose loc slice is replaced by items.
func (inv Inventory) With(loc Location, items []Item) Inventory {
	out := inv.Clone()
	if items == nil {
		items = []Item{}
	}
	switch loc {
	case Cupboard:
		out.Cupboard = items
	case Fridge:
		out.Fridge = items
	case Freezer:
		out.Freezer = items
	}
	return out
}

// Add returns a copy of inv with item prepended at loc.
func (inv Inventory) Add(loc Location, item Item) Inventory {
	items := make([]Item, 0, len(inv.Items(loc))+1)
	items = append(items, item)
	items = append(items, inv.Items(loc)...)
	return inv.With(loc, items)
}

// Remove returns a copy of inv without the item id at loc.
func (inv Inventory) Remove(loc Location, id string) (Inventory, error) {
	current := inv.Items(loc)
	idx := slices.IndexFunc(current, func(it Item) bool { return it.ID == id })
	if idx < 0 {
		return inv, ErrItemNotFound
	}
	return inv.With(loc, slices.Delete(slices.Clone(current), idx, idx+1)), nil
}

// Find looks an item up by id across all locations.
func (inv Inventory) Find(id string) (Item, Location, bool) {
	for _, loc := range Locations {
		for _, it := range inv.Items(loc) {
			if it.ID == id {
				return it, loc, true
			}
		}
	}
	return Item{}, "", false
}

// Len is the total number of items.
func (inv Inventory) Len() int {
	return len(inv.Cupboard) + len(inv.Fridge) + len(inv.Freezer)
}

// Clone returns a deep copy with non-nil slices.
func (inv Inventory) Clone() Inventory {
	return Inventory{
		Cupboard: cloneItems(inv.Cupboard),
		Fridge:   cloneItems(inv.Fridge),
		Freezer:  cloneItems(inv.Freezer),
	}
}

// Equal reports whether both inventories serialise to the same JSON.
func (inv Inventory) Equal(other Inventory) bool {
	a, errA := json.Marshal(inv.Clone())
	b, errB := json.Marshal(other.Clone())
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return slices.Clone(items)
}
