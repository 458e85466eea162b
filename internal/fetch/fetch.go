// Package fetch loads a commit and its diff and tracks the result for a
// changing commit identity.
package fetch

import (
	"context"
	"log/slog"

	"github.com/kilupskalvis/commitview/internal/api"
	"github.com/kilupskalvis/commitview/internal/models"
	"golang.org/x/sync/errgroup"
)

// FailureMessage is the only error text shown to users.
const FailureMessage = "Failed to fetch commit details"

// Status is the phase of a fetch sequence.
type Status int

const (
	Pending Status = iota
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "pending"
	}
}

// State is the observable result of a fetch sequence. Commit and Diff are
// set only for Success and Err only for Failure.
type State struct {
	Identity models.CommitIdentity
	Status   Status
	Commit   *models.CommitDetail
	Diff     *models.DiffPayload
	Err      string
	Seq      uint64
}

// Loading reports whether the sequence is still in flight.
func (s State) Loading() bool {
	return s.Status == Pending
}

// Load fetches the commit and the diff concurrently. If either request
// fails, both results are dropped, the cause is logged and a Failure state
// carrying FailureMessage is returned.
func Load(ctx context.Context, f api.Fetcher, id models.CommitIdentity, logger *slog.Logger) State {
	st, err := load(ctx, f, id)
	if err != nil {
		logFailure(logger, id, err)
	}
	return st
}

func load(ctx context.Context, f api.Fetcher, id models.CommitIdentity) (State, error) {
	var (
		commit *models.CommitDetail
		diff   *models.DiffPayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		commit, err = f.GetCommit(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		diff, err = f.GetDiff(gctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return State{Identity: id, Status: Failure, Err: FailureMessage}, err
	}
	return State{Identity: id, Status: Success, Commit: commit, Diff: diff}, nil
}

func logFailure(logger *slog.Logger, id models.CommitIdentity, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("error fetching commit details",
		"owner", id.Owner,
		"repository", id.Repository,
		"commit", id.CommitSHA,
		"error", err,
	)
}
