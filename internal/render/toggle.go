package render

import "github.com/kilupskalvis/commitview/internal/models"

// Toggle returns a copy of diff with file i's Collapsed flag inverted. The
// input is not modified. An out-of-range index returns an unchanged copy and
// a nil diff returns nil.
func Toggle(diff *models.DiffPayload, i int) *models.DiffPayload {
	out := diff.Clone()
	if out == nil || i < 0 || i >= len(out.Files) {
		return out
	}
	out.Files[i].Collapsed = !out.Files[i].Collapsed
	return out
}

// SetAll returns a copy of diff with every file's Collapsed flag set to
// collapsed.
func SetAll(diff *models.DiffPayload, collapsed bool) *models.DiffPayload {
	out := diff.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Files {
		out.Files[i].Collapsed = collapsed
	}
	return out
}

// CollapsedIndexes lists the indexes of collapsed files in order.
func CollapsedIndexes(diff *models.DiffPayload) []int {
	if diff == nil {
		return nil
	}
	var idx []int
	for i, f := range diff.Files {
		if f.Collapsed {
			idx = append(idx, i)
		}
	}
	return idx
}

// WithCollapsed returns a copy of diff where exactly the given indexes are
// collapsed. Unknown indexes are ignored.
func WithCollapsed(diff *models.DiffPayload, indexes []int) *models.DiffPayload {
	out := SetAll(diff, false)
	if out == nil {
		return nil
	}
	for _, i := range indexes {
		if i >= 0 && i < len(out.Files) {
			out.Files[i].Collapsed = true
		}
	}
	return out
}
