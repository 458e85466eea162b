// Package render turns a diff payload into per-file line views.
//
// Everything here is pure: functions take models by value or pointer and
// never mutate their input. Collapsing a file is modelled as producing a
// new payload (see Toggle), not as hiding data.
package render

import "strings"

// Kind classifies a patch line by its first character.
type Kind int

const (
	Neutral Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "neutral"
	}
}

// Class is the CSS class used for the line in HTML output.
func (k Kind) Class() string {
	return "line-" + k.String()
}

// Line is one rendered patch line.
//
// Number is the 1-based position of the line in the split patch and is only
// meaningful when Numbered is set; hunk headers consume a position but are
// not numbered. OldNumber and NewNumber are filled by HunkLines only, zero
// meaning "not on that side".
type Line struct {
	Text      string
	Kind      Kind
	Number    int
	Numbered  bool
	OldNumber int
	NewNumber int
}

// SplitLines splits a patch on newline. Joining the result with "\n"
// reproduces the patch exactly; an empty patch yields one empty line.
func SplitLines(patch string) []string {
	return strings.Split(patch, "\n")
}

// Classify returns Added for lines starting with "+", Removed for "-", and
// Neutral for everything else, hunk headers included.
func Classify(line string) Kind {
	switch {
	case strings.HasPrefix(line, "+"):
		return Added
	case strings.HasPrefix(line, "-"):
		return Removed
	default:
		return Neutral
	}
}

// IsHunkHeader reports whether line opens a hunk.
func IsHunkHeader(line string) bool {
	return strings.HasPrefix(line, "@@")
}

// Lines splits and classifies a patch using sequential numbering.
func Lines(patch string) []Line {
	raw := SplitLines(patch)
	out := make([]Line, len(raw))
	for i, text := range raw {
		out[i] = Line{
			Text:     text,
			Kind:     Classify(text),
			Number:   i + 1,
			Numbered: !IsHunkHeader(text),
		}
	}
	return out
}
