// Command commitview-web serves commit pages over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kilupskalvis/commitview/internal/api"
	"github.com/kilupskalvis/commitview/internal/config"
	"github.com/kilupskalvis/commitview/internal/render"
	"github.com/kilupskalvis/commitview/internal/web"
)

func main() {
	configPath := flag.String("config", os.Getenv("COMMITVIEW_CONFIG"), "Config file")
	listen := flag.String("listen", "", "Listen address (overrides config)")
	apiURL := flag.String("api-url", "", "Repository API base URL (overrides config)")
	watch := flag.Bool("watch", false, "Reload default commit and numbering when the config file changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.Merge(&config.Config{Listen: *listen, APIURL: *apiURL})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Servers log JSON unless told otherwise.
	if os.Getenv("COMMITVIEW_LOG_FORMAT") == "" && cfg.LogFormat == "text" {
		cfg.LogFormat = "json"
	}
	logger := cfg.Logger(os.Stdout)

	numbering, err := render.ParseNumbering(cfg.Numbering)
	if err != nil {
		logger.Error("invalid numbering", "error", err)
		os.Exit(1)
	}

	settings := web.NewSettings(&web.Config{DefaultCommit: cfg.DefaultCommit, Numbering: numbering})
	h := web.NewHandler(api.New(cfg.APIURL, cfg.Timeout.Std(), cfg.Retries), settings, logger)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		go func() {
			err := config.Watch(ctx, cfg.Path(), logger, func(next *config.Config) {
				n, err := render.ParseNumbering(next.Numbering)
				if err != nil {
					logger.Warn("ignoring reloaded config", "error", err)
					return
				}
				settings.Store(&web.Config{DefaultCommit: next.DefaultCommit, Numbering: n})
			})
			if err != nil {
				logger.Error("config watch stopped", "error", err)
			}
		}()
	}

	if err := web.ListenAndServe(ctx, web.NewServer(cfg.Listen, h), logger); err != nil {
		logger.Error("server error", "error", err, "api_url", cfg.APIURL)
		os.Exit(1)
	}
}
