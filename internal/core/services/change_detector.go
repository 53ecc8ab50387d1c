package services

import "github.com/kamal-hamza/assetwatch/internal/core/domain"

// DetectChanges returns the ids of assets that exist in both snapshots and
// whose value differs in any field. Ids that only appear in current are new
// rows, not changes, and are left out. Removed ids are not reported.
func DetectChanges(previous, current domain.Snapshot) domain.HighlightSet {
	changed := make(domain.HighlightSet)
	if len(previous) == 0 || len(current) == 0 {
		return changed
	}

	known := previous.Index()
	for _, asset := range current {
		old, ok := known[asset.ID]
		if !ok {
			continue
		}
		if old != asset {
			changed[asset.ID] = struct{}{}
		}
	}
	return changed
}
