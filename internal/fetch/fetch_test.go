package fetch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/kilupskalvis/commitview/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned results keyed by commit SHA. A gated SHA blocks
// until its gate is closed, ignoring context cancellation, to simulate a
// response that arrives late.
type fakeFetcher struct {
	mu        sync.Mutex
	gates     map[string]chan struct{}
	commitErr map[string]error
	diffErr   map[string]error
	finished  chan string
	calls     int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		gates:     make(map[string]chan struct{}),
		commitErr: make(map[string]error),
		diffErr:   make(map[string]error),
		finished:  make(chan string, 16),
	}
}

func (f *fakeFetcher) gate(sha string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[sha] = ch
	return ch
}

func (f *fakeFetcher) wait(sha string) {
	f.mu.Lock()
	f.calls++
	ch := f.gates[sha]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (f *fakeFetcher) GetCommit(_ context.Context, id models.CommitIdentity) (*models.CommitDetail, error) {
	f.wait(id.CommitSHA)
	f.mu.Lock()
	err := f.commitErr[id.CommitSHA]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &models.CommitDetail{SHA: id.CommitSHA}, nil
}

func (f *fakeFetcher) GetDiff(_ context.Context, id models.CommitIdentity) (*models.DiffPayload, error) {
	defer func() { f.finished <- id.CommitSHA }()
	f.wait(id.CommitSHA)
	f.mu.Lock()
	err := f.diffErr[id.CommitSHA]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &models.DiffPayload{Files: []models.FileDiff{{Filename: id.CommitSHA + ".go"}}}, nil
}

func identity(sha string) models.CommitIdentity {
	return models.CommitIdentity{Owner: "A", Repository: "B", CommitSHA: sha}
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})), &buf
}

func TestLoad_Success(t *testing.T) {
	st := Load(context.Background(), newFakeFetcher(), identity("C"), nil)

	assert.Equal(t, Success, st.Status)
	assert.False(t, st.Loading())
	assert.Equal(t, "C", st.Commit.SHA)
	require.Len(t, st.Diff.Files, 1)
	assert.Empty(t, st.Err)
}

func TestLoad_BothFail(t *testing.T) {
	f := newFakeFetcher()
	f.commitErr["C"] = errors.New("connection refused")
	f.diffErr["C"] = errors.New("connection refused")
	logger, buf := bufferLogger()

	st := Load(context.Background(), f, identity("C"), logger)

	assert.Equal(t, Failure, st.Status)
	assert.False(t, st.Loading())
	assert.Equal(t, FailureMessage, st.Err)
	assert.Nil(t, st.Commit)
	assert.Nil(t, st.Diff)
	assert.Contains(t, buf.String(), "error fetching commit details")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestLoad_PartialFailureDiscardsBoth(t *testing.T) {
	f := newFakeFetcher()
	f.diffErr["C"] = errors.New("diff too large")
	logger, _ := bufferLogger()

	st := Load(context.Background(), f, identity("C"), logger)

	assert.Equal(t, Failure, st.Status)
	assert.Nil(t, st.Commit, "a succeeded half is not kept")
	assert.Nil(t, st.Diff)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failure", Failure.String())
}
