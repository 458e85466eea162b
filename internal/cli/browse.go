package cli

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kilupskalvis/commitview/internal/fetch"
	"github.com/kilupskalvis/commitview/internal/tui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var browseLogFile string

var browseCmd = &cobra.Command{
	Use:   "browse [OWNER REPOSITORY SHA]",
	Short: "Browse a commit's diff interactively",
	Long: `Open an interactive viewer for a commit. Files can be collapsed and
expanded one at a time or all at once, and the commit can be re-fetched.

The screen is owned by the viewer, so logs are discarded unless --log-file
is given.`,
	Args: commitArgs,
	Run:  runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseLogFile, "log-file", "", "Write logs to this file")
}

func runBrowse(cmd *cobra.Command, args []string) {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		exitError("browse needs an interactive terminal; use show instead")
	}

	var logOut io.Writer = io.Discard
	if browseLogFile != "" {
		f, err := os.OpenFile(browseLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			exitError("failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}

	c := initContext(cmd, logOut)
	id, err := identityFromArgs(args, c.Config.DefaultCommit)
	if err != nil {
		exitError("%v", err)
	}

	ctrl := fetch.NewController(c.Fetcher, c.Logger)
	defer ctrl.Close()
	unsubscribe := ctrl.Subscribe(func(st fetch.State) {
		c.Logger.Debug("fetch state", "commit", st.Identity.String(), "status", st.Status.String(), "seq", st.Seq)
	})
	defer unsubscribe()

	p := tea.NewProgram(tui.New(ctrl, id, c.Numbering), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		exitError("%v", err)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
