package render

import (
	"fmt"

	"github.com/kilupskalvis/commitview/internal/models"
)

// NoDiffMessage is shown when no diff payload is available.
const NoDiffMessage = "No diff available for this commit."

// Numbering selects how lines are numbered.
type Numbering int

const (
	// Sequential numbers lines by their position in the patch.
	Sequential Numbering = iota
	// Hunk numbers lines by their real position in the old and new file.
	Hunk
)

// ParseNumbering maps a config value to a Numbering.
func ParseNumbering(s string) (Numbering, error) {
	switch s {
	case "", "sequential":
		return Sequential, nil
	case "hunk":
		return Hunk, nil
	}
	return Sequential, fmt.Errorf("unknown numbering %q", s)
}

// FileView is everything a front end needs to draw one file.
type FileView struct {
	Index       int
	Filename    string
	Collapsed   bool
	ToggleLabel string
	Lines       []Line
	Added       int
	Removed     int
}

// View is the rendered diff. Available is false when there was no payload
// at all, in which case front ends show NoDiffMessage.
type View struct {
	Available bool
	Numbering Numbering
	Files     []FileView
}

// ToggleLabel is the label of a file's collapse control.
func ToggleLabel(collapsed bool) string {
	if collapsed {
		return "Expand"
	}
	return "Collapse"
}

// Build renders every file of diff in order. Lines are produced for
// collapsed files too; hiding them is up to the front end.
func Build(diff *models.DiffPayload, numbering Numbering) View {
	if diff == nil {
		return View{Numbering: numbering}
	}

	view := View{
		Available: true,
		Numbering: numbering,
		Files:     make([]FileView, 0, len(diff.Files)),
	}
	for i, f := range diff.Files {
		view.Files = append(view.Files, BuildFile(i, f, numbering))
	}
	return view
}

// BuildFile renders a single file.
func BuildFile(index int, f models.FileDiff, numbering Numbering) FileView {
	var lines []Line
	if numbering == Hunk {
		lines = HunkLines(f.Patch)
	} else {
		lines = Lines(f.Patch)
	}

	fv := FileView{
		Index:       index,
		Filename:    f.Filename,
		Collapsed:   f.Collapsed,
		ToggleLabel: ToggleLabel(f.Collapsed),
		Lines:       lines,
	}
	for _, l := range lines {
		switch l.Kind {
		case Added:
			fv.Added++
		case Removed:
			fv.Removed++
		}
	}
	return fv
}
