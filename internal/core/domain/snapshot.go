package domain

import (
	"fmt"
	"sort"
)

// Snapshot is the complete server state at one point in time.
// Snapshots are produced wholesale and never modified after creation.
type Snapshot []Asset

// Validate checks every asset and the uniqueness of ids
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, a := range s {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("asset %d: %w", i, err)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// Index returns the snapshot keyed by asset id
func (s Snapshot) Index() map[string]Asset {
	idx := make(map[string]Asset, len(s))
	for _, a := range s {
		idx[a.ID] = a
	}
	return idx
}

// Find looks up an asset by id
func (s Snapshot) Find(id string) (Asset, bool) {
	for _, a := range s {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// Clone returns an independent copy
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// CountByType tallies assets per type
func (s Snapshot) CountByType() map[AssetType]int {
	counts := make(map[AssetType]int, len(AssetTypes))
	for _, a := range s {
		counts[a.Type]++
	}
	return counts
}

// HighlightSet holds the ids whose value changed between two snapshots
type HighlightSet map[string]struct{}

// NewHighlightSet builds a set from ids
func NewHighlightSet(ids ...string) HighlightSet {
	set := make(HighlightSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is highlighted. Safe on a nil set.
func (h HighlightSet) Has(id string) bool {
	_, ok := h[id]
	return ok
}

// IDs returns the highlighted ids in sorted order
func (h HighlightSet) IDs() []string {
	ids := make([]string, 0, len(h))
	for id := range h {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
