package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kilupskalvis/commitview/internal/api"
	"github.com/kilupskalvis/commitview/internal/models"
)

var (
	// ErrNotStarted is returned by Wait before any identity has been set.
	ErrNotStarted = errors.New("fetch: no identity set")
	// ErrClosed is returned by Wait once the controller is closed.
	ErrClosed = errors.New("fetch: controller closed")
)

// Controller owns the fetch state for one viewer.
//
// Every fetch sequence is tagged with an increasing sequence number. Starting
// a sequence cancels the previous one, and a response that arrives for a
// superseded sequence is dropped, so a slow old response can never
// overwrite a newer state.
type Controller struct {
	fetcher api.Fetcher
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	seq       uint64
	started   bool
	closed    bool
	cancel    context.CancelFunc
	done      chan struct{}
	observers map[int]func(State)
	nextObs   int

	// notifyMu orders deliveries so observers never see an older state
	// after a newer one.
	notifyMu sync.Mutex
}

// NewController creates a Controller. A nil logger uses slog.Default.
func NewController(f api.Fetcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		fetcher:   f,
		logger:    logger,
		observers: make(map[int]func(State)),
	}
}

// SetIdentity starts a fetch for id unless id equals the current identity
// field by field. It returns whether a new sequence was started.
func (c *Controller) SetIdentity(id models.CommitIdentity) bool {
	c.mu.Lock()
	if c.closed || (c.started && c.state.Identity == id) {
		c.mu.Unlock()
		return false
	}
	c.startLocked(id)
	c.mu.Unlock()

	c.publish()
	return true
}

// Refresh re-runs the fetch for the current identity.
func (c *Controller) Refresh() bool {
	c.mu.Lock()
	if c.closed || !c.started {
		c.mu.Unlock()
		return false
	}
	c.startLocked(c.state.Identity)
	c.mu.Unlock()

	c.publish()
	return true
}

func (c *Controller) startLocked(id models.CommitIdentity) {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.started = true
	c.state = State{Identity: id, Status: Pending, Seq: seq}

	c.logger.Debug("fetch started", "identity", id.String(), "seq", seq)
	go c.run(ctx, cancel, seq, id, done)
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, seq uint64, id models.CommitIdentity, done chan struct{}) {
	defer close(done)
	defer cancel()

	st, err := load(ctx, c.fetcher, id)
	st.Seq = seq

	c.mu.Lock()
	if seq != c.seq || c.closed {
		c.mu.Unlock()
		c.logger.Debug("discarding stale response", "identity", id.String(), "seq", seq)
		return
	}
	c.state = st
	c.mu.Unlock()

	if err != nil {
		logFailure(c.logger, id, err)
	}
	c.publish()
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until the current sequence settles or ctx is done. If the
// sequence is superseded while waiting, Wait follows the newer one.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		if !c.started {
			c.mu.Unlock()
			return State{}, ErrNotStarted
		}
		st, done, closed := c.state, c.done, c.closed
		c.mu.Unlock()

		if st.Status != Pending {
			return st, nil
		}
		if closed {
			return st, ErrClosed
		}

		select {
		case <-done:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Subscribe registers fn to receive the latest state after every
// transition. Consecutive deliveries may repeat a state. fn must not call
// SetIdentity or Refresh synchronously.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) publish() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	st := c.state
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Close cancels any in-flight fetch. Later SetIdentity and Refresh calls
// are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
}
