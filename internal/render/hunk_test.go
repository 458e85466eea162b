package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHunkHeader(t *testing.T) {
	r, ok := ParseHunkHeader("@@ -12,7 +14,9 @@ func main() {")
	require.True(t, ok)
	assert.Equal(t, HunkRange{OldStart: 12, OldLines: 7, NewStart: 14, NewLines: 9}, r)

	r, ok = ParseHunkHeader("@@ -3 +3 @@")
	require.True(t, ok)
	assert.Equal(t, HunkRange{OldStart: 3, OldLines: 1, NewStart: 3, NewLines: 1}, r)

	r, ok = ParseHunkHeader("@@ -0,0 +1,4 @@")
	require.True(t, ok)
	assert.Equal(t, 0, r.OldLines)
	assert.Equal(t, 1, r.NewStart)

	_, ok = ParseHunkHeader("@@ garbage @@")
	assert.False(t, ok)
	_, ok = ParseHunkHeader(" context")
	assert.False(t, ok)
}

func TestHunkLines(t *testing.T) {
	patch := "@@ -10,3 +10,3 @@\n a\n-b\n+c\n d\n\\ No newline at end of file\n@@ -40 +40,2 @@\n x\n+y"
	lines := HunkLines(patch)
	require.Len(t, lines, 9)

	type nums struct{ old, new int }
	got := make([]nums, len(lines))
	for i, l := range lines {
		got[i] = nums{l.OldNumber, l.NewNumber}
	}
	assert.Equal(t, []nums{
		{0, 0},   // header
		{10, 10}, // a
		{11, 0},  // -b
		{0, 11},  // +c
		{12, 12}, // d
		{0, 0},   // no newline marker
		{0, 0},   // header
		{40, 40}, // x
		{0, 41},  // +y
	}, got)
}

func TestHunkLines_KeepsSequentialNumbers(t *testing.T) {
	lines := HunkLines("@@ -1 +1 @@\n-a\n+b")
	assert.False(t, lines[0].Numbered)
	assert.Equal(t, 2, lines[1].Number)
	assert.Equal(t, 3, lines[2].Number)
	assert.Equal(t, 1, lines[1].OldNumber)
	assert.Equal(t, 1, lines[2].NewNumber)
}

func TestHunkLines_NoHeader(t *testing.T) {
	lines := HunkLines("+a\n b")
	for _, l := range lines {
		assert.Zero(t, l.OldNumber)
		assert.Zero(t, l.NewNumber)
	}
}
