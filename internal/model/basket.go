package model

import "time"

// BasketItem is a single lab pick awaiting commitment.  The lab name is
// snapshotted at add time so the basket page renders without a catalog
// lookup.  The requested window fields are optional: when empty, the
// reservation engine falls back to its default two-hour window.
//
// Items carry json tags because the whole basket is serialized into the
// Redis session store between requests.
type BasketItem struct {
    LabID       uint64    `json:"lab_id"`
    LabName     string    `json:"lab_name"`
    BookingDate string    `json:"booking_date,omitempty"` // YYYY-MM-DD, optional
    StartTime   string    `json:"start_time,omitempty"`   // HH:MM:SS, optional
    EndTime     string    `json:"end_time,omitempty"`     // HH:MM:SS, optional
    AddedAt     time.Time `json:"added_at"`
}

// Basket is the ordered, mutable list of lab picks owned by one member.
// It exists only between requests inside the session store and is never
// written to the primary database.  Items have no identity beyond their
// position; indices are re-compacted after every removal so position 0
// is always the oldest remaining pick.
type Basket struct {
    Items []BasketItem `json:"items"`
}

// Add appends a pick with the current UTC timestamp.  Duplicates are
// allowed here; the reservation engine deduplicates at commit time.
func (b *Basket) Add(item BasketItem) {
    if item.AddedAt.IsZero() {
        item.AddedAt = time.Now().UTC()
    }
    b.Items = append(b.Items, item)
}

// Remove deletes the item at position index and shifts later items
// down.  An out-of-range index (a stale link from an old basket page)
// leaves the basket unchanged and reports false.
func (b *Basket) Remove(index int) bool {
    if index < 0 || index >= len(b.Items) {
        return false
    }
    b.Items = append(b.Items[:index], b.Items[index+1:]...)
    return true
}

// Clear empties the basket.  Called by the commit handler only after
// the reservation engine reports success.
func (b *Basket) Clear() {
    b.Items = nil
}

// Len returns the current number of picks.
func (b *Basket) Len() int {
    return len(b.Items)
}

// Snapshot returns a copy of the current items so callers can iterate
// without observing later mutations.
func (b *Basket) Snapshot() []BasketItem {
    out := make([]BasketItem, len(b.Items))
    copy(out, b.Items)
    return out
}
