// Package scoring sends finished games to the backend. Submission is fire
// and forget: each report runs in its own goroutine, is never retried, and
// its outcome is only logged and offered on a channel. Game state never
// waits on it.
package scoring

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcaderank/internal/api"
)

// Submitter posts one score.
type Submitter interface {
	SubmitScore(ctx context.Context, gameID string, score int) (api.ScoreResult, error)
}

// Result is the outcome of one submission.
type Result struct {
	GameID  string
	Score   int
	LocalID int64 // Row ID of the local copy, 0 when none was saved
	Level   int
	XP      int
	Err     error
}

// Reporter submits scores in the background.
type Reporter struct {
	client  Submitter
	logger  *log.Logger
	timeout time.Duration
	hooks   []func(Result)

	wg sync.WaitGroup
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithTimeout bounds each submission. Zero leaves only the HTTP client's
// own timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Reporter) { r.timeout = d }
}

// WithHook registers a callback run in the submitting goroutine once the
// backend answers.
func WithHook(fn func(Result)) Option {
	return func(r *Reporter) { r.hooks = append(r.hooks, fn) }
}

// NewReporter creates a reporter. A nil client yields a reporter that
// never submits.
func NewReporter(client Submitter, logger *log.Logger, opts ...Option) *Reporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Reporter{client: client, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report submits a completed game if its score is positive. It returns
// immediately; the channel receives exactly one Result and is buffered so
// nobody has to read it. ok is false when nothing was sent.
func (r *Reporter) Report(gameID string, score int, localID int64) (res <-chan Result, ok bool) {
	if r == nil || r.client == nil || score <= 0 {
		return nil, false
	}

	out := make(chan Result, 1)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		out <- r.submit(gameID, score, localID)
		close(out)
	}()
	return out, true
}

func (r *Reporter) submit(gameID string, score int, localID int64) Result {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	res := Result{GameID: gameID, Score: score, LocalID: localID}
	sr, err := r.client.SubmitScore(ctx, gameID, score)
	if err != nil {
		res.Err = err
		r.logger.Error("failed to save score", "game", gameID, "score", score, "error", err)
	} else {
		res.Level, res.XP = sr.Level, sr.XP
		r.logger.Info("XP updated", "game", gameID, "score", score, "level", sr.Level, "xp", sr.XP)
	}

	for _, hook := range r.hooks {
		hook(res)
	}
	return res
}

// Wait blocks until every in-flight submission has finished. Call it
// before exiting so the last score is not dropped with the process.
func (r *Reporter) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

// WaitTimeout is Wait with an upper bound. It reports whether everything
// finished in time.
func (r *Reporter) WaitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
