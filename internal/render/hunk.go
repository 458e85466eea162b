package render

import (
	"regexp"
	"strconv"
)

// hunkHeaderRE matches "@@ -a[,b] +c[,d] @@" with optional trailing context.
var hunkHeaderRE = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// HunkRange is the parsed position information of a hunk header.
type HunkRange struct {
	OldStart, OldLines int
	NewStart, NewLines int
}

// ParseHunkHeader parses a unified diff hunk header. Omitted counts default
// to 1, as in diff(1).
func ParseHunkHeader(line string) (HunkRange, bool) {
	m := hunkHeaderRE.FindStringSubmatch(line)
	if m == nil {
		return HunkRange{}, false
	}
	atoi := func(s string, def int) int {
		if s == "" {
			return def
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return def
		}
		return n
	}
	return HunkRange{
		OldStart: atoi(m[1], 0),
		OldLines: atoi(m[2], 1),
		NewStart: atoi(m[3], 0),
		NewLines: atoi(m[4], 1),
	}, true
}

// HunkLines is Lines with real before/after line numbers taken from the hunk
// headers. Lines outside any hunk, hunk headers themselves, and "\ No newline"
// markers get no old or new number. Sequential numbers are still filled in.
func HunkLines(patch string) []Line {
	lines := Lines(patch)

	inHunk := false
	var oldNo, newNo int
	for i := range lines {
		l := &lines[i]
		if IsHunkHeader(l.Text) {
			r, ok := ParseHunkHeader(l.Text)
			inHunk = ok
			oldNo, newNo = r.OldStart, r.NewStart
			continue
		}
		if !inHunk || (len(l.Text) > 0 && l.Text[0] == '\\') {
			continue
		}
		switch l.Kind {
		case Added:
			l.NewNumber = newNo
			newNo++
		case Removed:
			l.OldNumber = oldNo
			oldNo++
		default:
			l.OldNumber = oldNo
			l.NewNumber = newNo
			oldNo++
			newNo++
		}
	}
	return lines
}
