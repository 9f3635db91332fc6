package notebook

import "time"

// Document is the versioned notebook that is persisted and synchronised.
type Document struct {
	Version   int64     `json:"version"`
	UpdatedAt string    `json:"updatedAt"`
	Inventory Inventory `json:"inventory"`
}

// Empty returns the document a device starts with: version 1, no items.
func Empty(now time.Time) Document {
	return Document{
		Version:   1,
		UpdatedAt: FormatTime(now),
		Inventory: EmptyInventory(),
	}
}

// Next returns the document that follows d after a mutation producing inv.
func (d Document) Next(inv Inventory, now time.Time) Document {
	return Document{
		Version:   d.Version + 1,
		UpdatedAt: FormatTime(now),
		Inventory: inv.Clone(),
	}
}

// Stamp returns d with the given version and a fresh timestamp.
func (d Document) Stamp(version int64, now time.Time) Document {
	return Document{
		Version:   version,
		UpdatedAt: FormatTime(now),
		Inventory: d.Inventory.Clone(),
	}
}

// UpdatedTime parses UpdatedAt.
func (d Document) UpdatedTime() (time.Time, bool) {
	return ParseTime(d.UpdatedAt)
}
