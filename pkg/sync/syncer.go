// Package sync is the bidirectional synchronization engine between the
// local task store and Google Tasks. A full pass runs three stages:
// push (local dirty rows and queued deletions go out), pull (the full
// remote collection merges in under a timestamp conflict rule), and
// order reconciliation (the remote ordering is aligned to the local one
// with the minimum number of move calls, found via a longest increasing
// subsequence).
//
// Failures are contained to the smallest unit that caused them: one bad
// record never blocks the batch, one failed stage never blocks the next.
package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jaredevans/task-manager-curses/pkg/store"
)

// Options are pass-through knobs for the order reconciliation walk.
type Options struct {
	// DryRun reports intended moves through the notifier without
	// executing them.
	DryRun bool
	// MoveLimit caps the number of moves per pass; 0 means unlimited.
	MoveLimit int
	// MoveDelay is slept between successive remote moves to respect
	// rate limits. Not correctness-critical.
	MoveDelay time.Duration
}

// Result aggregates what a sync pass actually did. Partial completion is
// an accepted terminal state, not an error.
type Result struct {
	Pushed        int
	PushFailed    int
	Deletes       int
	PulledNew     int
	PulledUpdated int
	Moves         int
	MoveFailed    int
	Kept          int
	Errors        []error
}

// Syncer sequences the sync stages against one store and one remote.
type Syncer struct {
	store  *store.Store
	remote Remote
	log    *slog.Logger
	notify Notifier
	opts   Options
	now    func() time.Time
}

// New creates a Syncer. logger may be nil (discard) and notify may be
// nil (silent).
func New(st *store.Store, remote Remote, logger *slog.Logger, notify Notifier, opts Options) *Syncer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Syncer{
		store:  st,
		remote: remote,
		log:    logger,
		notify: notify,
		opts:   opts,
		now:    time.Now,
	}
}

func (s *Syncer) notifyf(format string, args ...any) {
	if s.notify != nil {
		s.notify(fmt.Sprintf(format, args...))
	}
}

// FullSync runs Push, Pull, and ReconcileOrder in order. A stage failure
// is recorded and the pass continues: reconciliation runs with whatever
// local and remote state the earlier stages produced.
func (s *Syncer) FullSync(ctx context.Context) *Result {
	res := &Result{}

	s.notifyf("Sync: pushing local changes...")
	if err := s.Push(ctx, res); err != nil {
		s.log.Error("push stage failed", "err", err)
		res.Errors = append(res.Errors, fmt.Errorf("push: %w", err))
	}

	s.notifyf("Sync: pulling remote changes...")
	if err := s.Pull(ctx, res); err != nil {
		s.log.Error("pull stage failed", "err", err)
		res.Errors = append(res.Errors, fmt.Errorf("pull: %w", err))
	}

	s.notifyf("Sync: aligning remote order (min moves)...")
	if err := s.ReconcileOrder(ctx, res); err != nil {
		s.log.Error("order stage failed", "err", err)
		res.Errors = append(res.Errors, fmt.Errorf("order: %w", err))
	}

	s.notifyf("Sync complete: pushed %d, pulled %d new / %d updated, moves %d (kept %d in place).",
		res.Pushed, res.PulledNew, res.PulledUpdated, res.Moves, res.Kept)
	return res
}
