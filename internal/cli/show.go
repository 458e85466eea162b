package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/commitview/internal/fetch"
	"github.com/kilupskalvis/commitview/internal/highlight"
	"github.com/kilupskalvis/commitview/internal/models"
	"github.com/kilupskalvis/commitview/internal/render"
	"github.com/spf13/cobra"
)

var (
	showCollapse  []string
	showStat      bool
	showHighlight bool
)

var showCmd = &cobra.Command{
	Use:   "show [OWNER REPOSITORY SHA]",
	Short: "Print commit details and diff",
	Long: `Print a commit's header and per-file diff. Without arguments the
default commit from the config is shown.

Examples:
  commitview show golemfactory clay a1bf367b3af680b1182cc52bb77ba095764a11f9
  commitview show --collapse go.sum --collapse vendor/modules.txt
  commitview show --stat
  commitview show --highlight | less -R`,
	Args: commitArgs,
	Run:  runShow,
}

func init() {
	showCmd.Flags().StringArrayVar(&showCollapse, "collapse", nil, "Collapse the file with this path, repeat for multiple")
	showCmd.Flags().BoolVar(&showStat, "stat", false, "Show only per-file added/removed counts")
	showCmd.Flags().BoolVar(&showHighlight, "highlight", false, "Syntax highlight file content (uses highlight_style)")
}

type showOptions struct {
	Collapse    []string
	Stat        bool
	Numbering   render.Numbering
	Highlighter *highlight.Highlighter // nil disables highlighting
}

func runShow(cmd *cobra.Command, args []string) {
	c := initContext(cmd, os.Stderr)

	id, err := identityFromArgs(args, c.Config.DefaultCommit)
	if err != nil {
		exitError("%v", err)
	}

	opts := showOptions{
		Collapse:  showCollapse,
		Stat:      showStat,
		Numbering: c.Numbering,
	}
	if showHighlight && !color.NoColor {
		opts.Highlighter = highlight.New(c.Config.Highlight)
	}

	st := fetch.Load(cmd.Context(), c.Fetcher, id, c.Logger)
	if err := printCommit(os.Stdout, st, opts); err != nil {
		exitError("%v", err)
	}
}

// printCommit writes st to w. A failed state returns the fixed user-facing
// message as an error.
func printCommit(w io.Writer, st fetch.State, opts showOptions) error {
	if st.Status != fetch.Success {
		return fmt.Errorf("%s", st.Err)
	}

	yellow := color.New(color.FgYellow)
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	h := render.Header(st.Commit)
	bold.Fprintln(w, h.Title)
	fmt.Fprintf(w, "Authored by %s %s\n", h.AuthorName, h.AuthoredAt)
	if body := strings.TrimSpace(h.Body); body != "" {
		fmt.Fprintln(w)
		for _, line := range strings.Split(body, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Committed by: %s\n", h.CommitterName)
	fmt.Fprint(w, "Commit: ")
	yellow.Fprintln(w, h.SHA)
	fmt.Fprintf(w, "Parent: %s\n\n", h.Parents)

	diff := collapsePaths(st.Diff, opts.Collapse)
	view := render.Build(diff, opts.Numbering)
	if !view.Available {
		fmt.Fprintln(w, render.NoDiffMessage)
		return nil
	}

	if opts.Stat {
		var added, removed int
		for _, fv := range view.Files {
			fmt.Fprintf(w, " %s | ", fv.Filename)
			green.Fprintf(w, "+%d", fv.Added)
			fmt.Fprint(w, " ")
			red.Fprintf(w, "-%d\n", fv.Removed)
			added += fv.Added
			removed += fv.Removed
		}
		fmt.Fprintf(w, " %d file(s) changed, %d insertion(s)(+), %d deletion(s)(-)\n", len(view.Files), added, removed)
		return nil
	}

	for _, fv := range view.Files {
		bold.Fprintf(w, "%s", fv.Filename)
		if fv.Collapsed {
			fmt.Fprintln(w, " (collapsed)")
			continue
		}
		fmt.Fprintln(w)

		var highlighted []string
		if opts.Highlighter != nil {
			highlighted = highlightFile(opts.Highlighter, fv)
		}

		for i, l := range fv.Lines {
			fmt.Fprint(w, lineNumber(l, opts.Numbering))
			switch {
			case highlighted != nil && !render.IsHunkHeader(l.Text):
				marker, _ := highlight.Content(l.Text)
				switch l.Kind {
				case render.Added:
					green.Fprint(w, marker)
				case render.Removed:
					red.Fprint(w, marker)
				default:
					fmt.Fprint(w, marker)
				}
				fmt.Fprintln(w, highlighted[i])
			case render.IsHunkHeader(l.Text):
				cyan.Fprintln(w, l.Text)
			case l.Kind == render.Added:
				green.Fprintln(w, l.Text)
			case l.Kind == render.Removed:
				red.Fprintln(w, l.Text)
			default:
				fmt.Fprintln(w, l.Text)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

// highlightFile highlights the content of every non-header line of fv,
// indexed like fv.Lines.
func highlightFile(h *highlight.Highlighter, fv render.FileView) []string {
	content := make([]string, len(fv.Lines))
	for i, l := range fv.Lines {
		if render.IsHunkHeader(l.Text) {
			continue
		}
		_, content[i] = highlight.Content(l.Text)
	}
	return h.Lines(fv.Filename, content)
}

func lineNumber(l render.Line, n render.Numbering) string {
	if n == render.Hunk {
		return fmt.Sprintf("%4s %4s ", optNum(l.OldNumber), optNum(l.NewNumber))
	}
	if !l.Numbered {
		return "     "
	}
	return fmt.Sprintf("%4d ", l.Number)
}

func optNum(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprint(n)
}

// collapsePaths marks every file whose name is in paths as collapsed.
func collapsePaths(diff *models.DiffPayload, paths []string) *models.DiffPayload {
	if diff == nil || len(paths) == 0 {
		return diff
	}
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}
	var idx []int
	for i, f := range diff.Files {
		if want[f.Filename] {
			idx = append(idx, i)
		}
	}
	return render.WithCollapsed(diff, idx)
}
