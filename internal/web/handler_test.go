package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/kilupskalvis/commitview/internal/models"
	"github.com/kilupskalvis/commitview/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	commit *models.CommitDetail
	diff   *models.DiffPayload
	err    error
}

func (s *stubFetcher) GetCommit(context.Context, models.CommitIdentity) (*models.CommitDetail, error) {
	return s.commit, s.err
}

func (s *stubFetcher) GetDiff(context.Context, models.CommitIdentity) (*models.DiffPayload, error) {
	return s.diff, s.err
}

var defaultCommit = models.CommitIdentity{Owner: "golemfactory", Repository: "clay", CommitSHA: "a1bf367"}

func sampleFetcher() *stubFetcher {
	return &stubFetcher{
		commit: &models.CommitDetail{
			SHA:    "a1bf367",
			Author: models.Account{Login: "octo", AvatarURL: "https://example.com/a.png"},
			Commit: models.CommitInfo{
				Author:    models.Signature{Name: "Octo Cat"},
				Committer: models.Signature{Name: "Bot"},
				Message:   "Fix parser\nDetails here",
			},
			Parents: []models.ParentRef{{SHA: "p1"}},
		},
		diff: &models.DiffPayload{Files: []models.FileDiff{
			{Filename: "main.go", Patch: "@@ -1,2 +1,3 @@\n-foo\n+bar\n context"},
			{Filename: "README.md", Patch: "+<b>hi</b>"},
		}},
	}
}

func newTestServer(t *testing.T, f *stubFetcher, numbering render.Numbering) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	h := Handler(f, &Config{DefaultCommit: defaultCommit, Numbering: numbering}, logger)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, sampleFetcher(), render.Sequential)

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRootRedirect(t *testing.T) {
	ts := newTestServer(t, sampleFetcher(), render.Sequential)

	resp, _ := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/repositories/golemfactory/clay/commit/a1bf367", resp.Header.Get("Location"))
}

func TestCommitPage(t *testing.T) {
	ts := newTestServer(t, sampleFetcher(), render.Sequential)

	resp, body := get(t, ts.URL+"/repositories/golemfactory/clay/commit/a1bf367")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	assert.Contains(t, body, `<div class="commit-title">Fix parser</div>`)
	assert.Contains(t, body, "Authored by <strong>Octo Cat</strong>")
	assert.Contains(t, body, "Details here")
	assert.Contains(t, body, `alt="octo"`)
	assert.Contains(t, body, "p1")

	assert.Contains(t, body, `<div class="line-neutral">@@ -1,2 &#43;1,3 @@</div>`)
	assert.Contains(t, body, `<div class="line-removed"><span class="line-number">2</span>-foo</div>`)
	assert.Contains(t, body, `<div class="line-added"><span class="line-number">3</span>&#43;bar</div>`)
	assert.Contains(t, body, `<div class="line-neutral"><span class="line-number">4</span> context</div>`)

	assert.Contains(t, body, "&lt;b&gt;hi&lt;/b&gt;", "patch text is escaped")
	assert.Equal(t, 2, strings.Count(body, ">Collapse</a>"))
	assert.NotContains(t, body, "file-content collapsed")
	assert.Contains(t, body, `href="/repositories/golemfactory/clay/commit/a1bf367?collapsed=1#file-1"`)
}

func TestCommitPage_Collapsed(t *testing.T) {
	ts := newTestServer(t, sampleFetcher(), render.Sequential)

	_, body := get(t, ts.URL+"/repositories/golemfactory/clay/commit/a1bf367?collapsed=0,bogus,9")

	assert.Equal(t, 1, strings.Count(body, "file-content collapsed"))
	assert.Equal(t, 1, strings.Count(body, ">Expand</a>"))
	assert.Contains(t, body, "-foo", "collapsed content is still in the page")
	// Expanding file 0 leaves nothing collapsed.
	assert.Contains(t, body, `href="/repositories/golemfactory/clay/commit/a1bf367#file-0"`)
	// Collapsing file 1 keeps file 0 collapsed.
	assert.Contains(t, body, `href="/repositories/golemfactory/clay/commit/a1bf367?collapsed=0%2C1#file-1"`)
}

func TestCommitPage_HunkNumbering(t *testing.T) {
	ts := newTestServer(t, sampleFetcher(), render.Hunk)

	_, body := get(t, ts.URL+"/repositories/golemfactory/clay/commit/a1bf367")
	assert.Contains(t, body, `<div class="line-removed"><span class="line-number">1</span><span class="line-number"></span>-foo</div>`)
}

func TestCommitPage_Failure(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{err: errors.New("connection refused")}, render.Sequential)

	resp, body := get(t, ts.URL+"/repositories/golemfactory/clay/commit/a1bf367")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Error: Failed to fetch commit details")
	assert.NotContains(t, body, "connection refused")
	assert.NotContains(t, body, `class="commit-header"`)
	assert.Contains(t, body, render.NoDiffMessage)
}

func TestCommitPage_EmptyFiles(t *testing.T) {
	f := sampleFetcher()
	f.diff = &models.DiffPayload{Files: []models.FileDiff{}}
	ts := newTestServer(t, f, render.Sequential)

	resp, body := get(t, ts.URL+"/repositories/golemfactory/clay/commit/a1bf367")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<div class="diff-container">`)
	assert.NotContains(t, body, `class="file-diff"`)
	assert.NotContains(t, body, render.NoDiffMessage)
}

func TestParseAndFormatCollapsed(t *testing.T) {
	assert.Nil(t, parseCollapsed(""))
	assert.Equal(t, []int{0, 3}, parseCollapsed("0, 3,-1,x"))
	assert.Equal(t, "0,3", formatCollapsed([]int{0, 3}))
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := recoveryMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSettings_SwapWhileServing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	settings := NewSettings(&Config{DefaultCommit: defaultCommit})
	ts := httptest.NewServer(NewHandler(sampleFetcher(), settings, logger))
	t.Cleanup(ts.Close)

	resp, _ := get(t, ts.URL+"/")
	assert.Equal(t, "/repositories/golemfactory/clay/commit/a1bf367", resp.Header.Get("Location"))

	settings.Store(&Config{
		DefaultCommit: models.CommitIdentity{Owner: "acme", Repository: "widgets", CommitSHA: "beef"},
		Numbering:     render.Hunk,
	})
	resp, _ = get(t, ts.URL+"/")
	assert.Equal(t, "/repositories/acme/widgets/commit/beef", resp.Header.Get("Location"))

	_, body := get(t, ts.URL+"/repositories/golemfactory/clay/commit/a1bf367")
	assert.Contains(t, body, `<span class="line-number">1</span><span class="line-number"></span>-foo`)
}

func TestSettings_NilIsZero(t *testing.T) {
	s := NewSettings(nil)
	require.NotNil(t, s.Load())
	assert.Equal(t, render.Sequential, s.Load().Numbering)
}

func TestCommitPage_InvalidIdentity(t *testing.T) {
	ts := newTestServer(t, sampleFetcher(), render.Sequential)

	resp, _ := get(t, ts.URL+"/repositories/a%5Cb/clay/commit/a1bf367")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
