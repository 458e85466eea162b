// Package highlight applies terminal syntax highlighting to diff content.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter formats source lines with ANSI colours.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// New creates a Highlighter using the named chroma style. Unknown names use
// chroma's fallback style.
func New(style string) *Highlighter {
	return &Highlighter{
		style:     styles.Get(style),
		formatter: formatters.Get("terminal256"),
	}
}

// Lines highlights lines as one document in the language matched by
// filename. It returns lines unchanged when no lexer matches or
// tokenising fails. The result always has len(lines) entries.
func (h *Highlighter) Lines(filename string, lines []string) []string {
	lexer := lexers.Match(filename)
	if lexer == nil || len(lines) == 0 {
		return lines
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return lines
	}

	out := make([]string, len(lines))
	copy(out, lines)
	var b strings.Builder
	for i, toks := range chroma.SplitTokensIntoLines(it.Tokens()) {
		if i >= len(out) {
			break
		}
		// Callers print their own line breaks.
		if n := len(toks); n > 0 {
			toks[n-1].Value = strings.TrimSuffix(toks[n-1].Value, "\n")
		}
		b.Reset()
		if err := h.formatter.Format(&b, h.style, chroma.Literator(toks...)); err != nil {
			continue
		}
		out[i] = b.String()
	}
	return out
}

// Content strips the one-character diff marker from a patch line.
func Content(line string) (marker, rest string) {
	if line == "" {
		return "", ""
	}
	switch line[0] {
	case '+', '-', ' ':
		return line[:1], line[1:]
	}
	return "", line
}
