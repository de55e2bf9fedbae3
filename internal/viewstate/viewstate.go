// Package viewstate reconciles panel visibility and the active panel against
// persisted user choices. The same mechanism drives two independent panel
// catalogs (admin and dashboard) that differ only in storage keys and which
// panels are locked.
package viewstate

// Panel describes one show/hide-able dashboard section. Locked panels cannot
// be hidden by user preference.
type Panel struct {
	ID     string
	Label  string
	Locked bool
}

// Catalog is a fixed, ordered list of panels. Order determines which panel
// becomes active when the current one is hidden.
type Catalog []Panel

// HiddenSet holds the ids of panels the user has chosen to hide.
type HiddenSet map[string]bool

// NewHiddenSet builds a HiddenSet from a persisted id list. Unknown ids are
// kept (they are harmless and may belong to a newer catalog).
func NewHiddenSet(ids []string) HiddenSet {
	h := make(HiddenSet, len(ids))
	for _, id := range ids {
		h[id] = true
	}
	return h
}

// IDs returns the hidden ids as a sorted-by-catalog list suitable for
// persistence. Ids not present in the catalog are dropped.
func (h HiddenSet) IDs(catalog Catalog) []string {
	ids := make([]string, 0, len(h))
	for _, p := range catalog {
		if h[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// ComputeVisibility reports, for every catalog panel, whether it is visible:
// a panel is visible iff its id is not in the hidden set.
func ComputeVisibility(catalog Catalog, hidden HiddenSet) map[string]bool {
	vis := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		vis[p.ID] = !hidden[p.ID]
	}
	return vis
}

// Toggle applies a visibility change for one panel and returns the resulting
// hidden set. The input set is never mutated. The second return reports
// whether the request was corrected: hiding a locked panel, or hiding the
// last visible panel, is rejected and the panel stays visible so the caller
// can snap its checkbox back on.
func Toggle(catalog Catalog, hidden HiddenSet, id string, wantVisible bool) (HiddenSet, bool) {
	next := make(HiddenSet, len(hidden)+1)
	for k := range hidden {
		next[k] = true
	}

	if wantVisible {
		delete(next, id)
		return next, false
	}

	for _, p := range catalog {
		if p.ID == id && p.Locked {
			return next, true
		}
	}

	// Reject the change if it would leave no panel visible.
	visible := 0
	for _, p := range catalog {
		if !next[p.ID] && p.ID != id {
			visible++
		}
	}
	if visible == 0 {
		return next, true
	}

	next[id] = true
	return next, false
}

// FirstVisible returns the first catalog panel not in the hidden set, in
// catalog order. If every panel is hidden — unreachable when all mutations go
// through Toggle — it falls back to the first catalog entry.
func FirstVisible(catalog Catalog, hidden HiddenSet) string {
	for _, p := range catalog {
		if !hidden[p.ID] {
			return p.ID
		}
	}
	if len(catalog) > 0 {
		return catalog[0].ID
	}
	return ""
}

// ResolveActive validates a persisted active-panel id: it is returned as-is
// when it names a known, visible panel, otherwise the first visible panel
// takes its place. Idempotent.
func ResolveActive(catalog Catalog, hidden HiddenSet, persisted string) string {
	if persisted != "" && !hidden[persisted] {
		for _, p := range catalog {
			if p.ID == persisted {
				return persisted
			}
		}
	}
	return FirstVisible(catalog, hidden)
}
