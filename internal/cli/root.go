// Package cli implements the command-line interface for commitview.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kilupskalvis/commitview/internal/api"
	"github.com/kilupskalvis/commitview/internal/config"
	"github.com/kilupskalvis/commitview/internal/models"
	"github.com/kilupskalvis/commitview/internal/render"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagAPIURL    string
	flagLogLevel  string
	flagLogFormat string
	flagNumbering string
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config    *config.Config
	Logger    *slog.Logger
	Fetcher   api.Fetcher
	Numbering render.Numbering
}

// loadContext reads config, applies flags that were set on cmd and builds
// the logger and API client. Logs go to logOut.
func loadContext(cmd *cobra.Command, logOut io.Writer) (*cmdContext, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	// Only flags given on the command line beat the file and environment.
	var overrides config.Config
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		overrides.APIURL = flagAPIURL
	}
	if flags.Changed("log-level") {
		overrides.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		overrides.LogFormat = flagLogFormat
	}
	if flags.Changed("numbering") {
		overrides.Numbering = flagNumbering
	}
	if err := cfg.Merge(&overrides); err != nil {
		return nil, err
	}

	numbering, err := render.ParseNumbering(cfg.Numbering)
	if err != nil {
		return nil, err
	}

	return &cmdContext{
		Config:    cfg,
		Logger:    cfg.Logger(logOut),
		Fetcher:   api.New(cfg.APIURL, cfg.Timeout.Std(), cfg.Retries),
		Numbering: numbering,
	}, nil
}

// initContext is loadContext for commands that exit on error.
func initContext(cmd *cobra.Command, logOut io.Writer) *cmdContext {
	c, err := loadContext(cmd, logOut)
	if err != nil {
		exitError("%v", err)
	}
	return c
}

// commitArgs accepts either no arguments or OWNER REPOSITORY SHA.
func commitArgs(_ *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 3 {
		return fmt.Errorf("accepts OWNER REPOSITORY SHA or no arguments, received %d", len(args))
	}
	return nil
}

// identityFromArgs builds the identity named by args, or def when there
// are none.
func identityFromArgs(args []string, def models.CommitIdentity) (models.CommitIdentity, error) {
	id := def
	if len(args) == 3 {
		id = models.CommitIdentity{Owner: args[0], Repository: args[1], CommitSHA: args[2]}
	}
	if err := id.Validate(); err != nil {
		return models.CommitIdentity{}, err
	}
	return id, nil
}

var rootCmd = &cobra.Command{
	Use:   "commitview",
	Short: "View commit details and diffs",
	Long: `commitview fetches a commit and its diff from the repository API and
displays them in the terminal, in an interactive viewer, or as HTML pages.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/commitview/config.toml)")
	pf.StringVar(&flagAPIURL, "api-url", config.DefaultAPIURL, "Repository API base URL (env: COMMITVIEW_API_URL)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	pf.StringVar(&flagLogFormat, "log-format", "text", "Log format (json|text)")
	pf.StringVar(&flagNumbering, "numbering", config.NumberingSequential, "Line numbering (sequential|hunk)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
