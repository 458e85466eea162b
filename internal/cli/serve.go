package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kilupskalvis/commitview/internal/config"
	"github.com/kilupskalvis/commitview/internal/render"
	"github.com/kilupskalvis/commitview/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveListen string
	serveWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve commit pages over HTTP",
	Long: `Serve HTML commit pages at /repositories/{owner}/{repository}/commit/{sha}.
The root path redirects to the default commit from the config.

Examples:
  commitview serve
  commitview serve --listen 0.0.0.0:8730 --api-url http://api.internal:5000
  commitview serve --watch

With --watch, edits to the config file change the default commit and the
line numbering without a restart. Other settings need a restart.`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (host:port, env: COMMITVIEW_LISTEN)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the config file when it changes")
}

func runServe(cmd *cobra.Command, _ []string) {
	c := initContext(cmd, os.Stdout)
	listen := c.Config.Listen
	if serveListen != "" {
		listen = serveListen
	}

	settings := web.NewSettings(&web.Config{
		DefaultCommit: c.Config.DefaultCommit,
		Numbering:     c.Numbering,
	})
	h := web.NewHandler(c.Fetcher, settings, c.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		go func() {
			err := config.Watch(ctx, c.Config.Path(), c.Logger, func(cfg *config.Config) {
				if next, ok := webConfig(cfg, c.Logger); ok {
					settings.Store(next)
				}
			})
			if err != nil {
				c.Logger.Error("config watch stopped", "error", err)
			}
		}()
	}

	if err := web.ListenAndServe(ctx, web.NewServer(listen, h), c.Logger); err != nil {
		c.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// webConfig extracts the reloadable settings from cfg.
func webConfig(cfg *config.Config, logger *slog.Logger) (*web.Config, bool) {
	numbering, err := render.ParseNumbering(cfg.Numbering)
	if err != nil {
		logger.Warn("ignoring reloaded config", "error", err)
		return nil, false
	}
	return &web.Config{DefaultCommit: cfg.DefaultCommit, Numbering: numbering}, true
}
