package sync

import (
	"context"
	"time"

	"github.com/jaredevans/task-manager-curses/pkg/model"
	"github.com/jaredevans/task-manager-curses/pkg/util"
	"google.golang.org/api/tasks/v1"
)

// Push sends queued deletions and dirty local rows to the remote side.
//
// Deletions go first and are best effort: a failed delete (most often
// "already gone") is logged and the queue is cleared regardless, so a
// tombstone is attempted exactly once. Dirty rows are pushed in position
// order; a failed record keeps its dirty flag and the batch continues.
// Only a local store failure aborts the stage.
func (s *Syncer) Push(ctx context.Context, res *Result) error {
	pending, err := s.store.PendingDeletions(ctx)
	if err != nil {
		return err
	}
	for _, gid := range pending {
		if err := s.remote.Delete(ctx, gid); err != nil {
			s.log.Warn("remote delete failed", "google_id", gid, "err", err)
		}
		res.Deletes++
	}
	if len(pending) > 0 {
		if err := s.store.ClearDeletions(ctx); err != nil {
			return err
		}
	}

	dirty, err := s.store.Dirty(ctx)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	for _, t := range dirty {
		payload := buildPayload(t, now)

		var resp *tasks.Task
		if t.Linked() {
			resp, err = s.remote.Patch(ctx, t.GoogleID, payload)
		} else {
			resp, err = s.remote.Insert(ctx, payload)
		}
		if err != nil {
			res.PushFailed++
			s.log.Error("push failed", "task", t.Title, "err", err)
			s.notifyf("Push failed for task %q: %v", t.Title, err)
			continue
		}

		if err := s.store.ApplyPush(ctx, t.ID, resp.Id, resp.Etag, resp.Updated); err != nil {
			return err
		}
		res.Pushed++
	}
	return nil
}

// buildPayload converts a local record to the remote wire shape. A due
// date that fails to convert is omitted rather than failing the record:
// the content still syncs, the date silently drops.
func buildPayload(t model.Task, now time.Time) *tasks.Task {
	item := &tasks.Task{
		Title: t.Title,
		Notes: t.Notes,
	}
	if due, ok := util.MMDDToRFC3339(t.Due, now.Year()); ok {
		item.Due = due
	}
	if t.Done {
		item.Status = statusCompleted
		completed := now.Format(time.RFC3339)
		item.Completed = &completed
	} else {
		item.Status = statusNeedsAction
	}
	return item
}
