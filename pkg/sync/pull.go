package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/jaredevans/task-manager-curses/pkg/model"
	"github.com/jaredevans/task-manager-curses/pkg/util"
)

// Pull fetches the entire remote collection (completed and hidden items
// included) and merges it into the local store.
//
// Conflict rule: a local record is overwritten only when it is clean AND
// the remote looks newer (no known local remote-updated timestamp, or
// remote updated strictly newer). Dirty records are never overwritten —
// an in-flight local edit always survives a pull. Remote items with no
// local mapping are inserted clean at the end of the local ordering.
//
// Pull never deletes local rows; remote-initiated deletions are not
// reconciled. Known asymmetry, kept deliberately.
func (s *Syncer) Pull(ctx context.Context, res *Result) error {
	items, err := s.remote.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch remote tasks: %w", err)
	}

	for _, item := range items {
		if item == nil || item.Id == "" {
			continue
		}

		due := ""
		if item.Due != "" {
			due = util.RFC3339ToMMDD(item.Due)
		}
		done := item.Status == statusCompleted

		local, err := s.store.ByGoogleID(ctx, item.Id)
		if err != nil {
			return err
		}
		if local == nil {
			task := model.Task{
				Title:    item.Title,
				Notes:    item.Notes,
				Due:      due,
				Done:     done,
				GoogleID: item.Id,
				Etag:     item.Etag,
				Updated:  item.Updated,
			}
			if err := s.store.InsertRemote(ctx, task); err != nil {
				return err
			}
			res.PulledNew++
			continue
		}

		if local.Dirty {
			continue
		}
		if !remoteNewer(local.Updated, item.Updated) {
			continue
		}
		if err := s.store.ApplyRemote(ctx, local.ID, item.Title, due, item.Notes, done, item.Etag, item.Updated); err != nil {
			return err
		}
		res.PulledUpdated++
	}
	return nil
}

// remoteNewer compares the remote 'updated' stamp with the last one we
// recorded locally. An unknown local stamp means we have nothing to
// compare against, so remote wins. A missing remote stamp cannot be
// newer. A malformed stamp on either side counts as newer: prefer
// fresher-looking data over silently keeping stale rows.
func remoteNewer(localUpdated, remoteUpdated string) bool {
	if localUpdated == "" {
		return true
	}
	if remoteUpdated == "" {
		return false
	}
	lu, lerr := time.Parse(time.RFC3339, localUpdated)
	ru, rerr := time.Parse(time.RFC3339, remoteUpdated)
	if lerr != nil || rerr != nil {
		return true
	}
	return ru.After(lu)
}
