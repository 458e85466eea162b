// Package web serves the commit viewer as server-rendered HTML.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/kilupskalvis/commitview/internal/api"
	"github.com/kilupskalvis/commitview/internal/fetch"
	"github.com/kilupskalvis/commitview/internal/models"
	"github.com/kilupskalvis/commitview/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("commit.html").ParseFS(templateFS, "templates/commit.html"))

// Config holds the viewer settings.
type Config struct {
	DefaultCommit models.CommitIdentity
	Numbering     render.Numbering
}

// Settings holds the Config in effect. It can be replaced while serving.
type Settings struct {
	p atomic.Pointer[Config]
}

// NewSettings creates Settings holding cfg. A nil cfg is the zero Config.
func NewSettings(cfg *Config) *Settings {
	s := &Settings{}
	s.Store(cfg)
	return s
}

// Load returns the current Config.
func (s *Settings) Load() *Config {
	return s.p.Load()
}

// Store replaces the current Config.
func (s *Settings) Store(cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	s.p.Store(cfg)
}

// Handler creates the HTTP handler with all routes and middleware.
func Handler(f api.Fetcher, cfg *Config, logger *slog.Logger) http.Handler {
	return NewHandler(f, NewSettings(cfg), logger)
}

// NewHandler is Handler with settings that may change between requests.
func NewHandler(f api.Fetcher, settings *Settings, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, settings.Load().DefaultCommit.PagePath(), http.StatusFound)
	})
	mux.Handle("GET /repositories/{owner}/{repository}/commit/{commitSHA}", &commitPage{
		fetcher:  f,
		settings: settings,
		logger:   logger,
	})

	return applyMiddleware(mux,
		recoveryMiddleware(logger),
		loggingMiddleware(logger),
		requestIDMiddleware,
	)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type commitPage struct {
	fetcher  api.Fetcher
	settings *Settings
	logger   *slog.Logger
}

// pageData is the template input.
type pageData struct {
	Identity  models.CommitIdentity
	Error     string
	HasCommit bool
	Commit    render.CommitHeader
	Available bool
	NoDiff    string
	Hunk      bool
	Files     []fileBlock
}

type fileBlock struct {
	render.FileView
	ToggleHref string
}

func (p *commitPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := models.CommitIdentity{
		Owner:      r.PathValue("owner"),
		Repository: r.PathValue("repository"),
		CommitSHA:  r.PathValue("commitSHA"),
	}
	if err := id.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := p.settings.Load()
	logger := p.logger.With("request_id", requestID(r))
	st := fetch.Load(r.Context(), p.fetcher, id, logger)

	data := pageData{
		Identity: id,
		NoDiff:   render.NoDiffMessage,
		Hunk:     cfg.Numbering == render.Hunk,
	}
	status := http.StatusOK
	if st.Status == fetch.Failure {
		data.Error = st.Err
		status = http.StatusBadGateway
	} else {
		data.HasCommit = st.Commit != nil
		data.Commit = render.Header(st.Commit)

		diff := render.WithCollapsed(st.Diff, parseCollapsed(r.URL.Query().Get("collapsed")))
		view := render.Build(diff, cfg.Numbering)
		data.Available = view.Available
		for _, fv := range view.Files {
			data.Files = append(data.Files, fileBlock{
				FileView:   fv,
				ToggleHref: toggleHref(r.URL.Path, diff, fv.Index),
			})
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logger.Error("render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// parseCollapsed reads a comma-separated list of file indexes. Entries that
// are not non-negative integers are skipped.
func parseCollapsed(raw string) []int {
	if raw == "" {
		return nil
	}
	var idx []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		idx = append(idx, n)
	}
	return idx
}

func formatCollapsed(idx []int) string {
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// toggleHref links to the same page with file i's collapsed state flipped.
func toggleHref(path string, diff *models.DiffPayload, i int) string {
	next := render.CollapsedIndexes(render.Toggle(diff, i))
	anchor := "#file-" + strconv.Itoa(i)
	if len(next) == 0 {
		return path + anchor
	}
	q := url.Values{"collapsed": {formatCollapsed(next)}}
	return path + "?" + q.Encode() + anchor
}
