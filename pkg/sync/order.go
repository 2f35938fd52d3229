package sync

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// moveRetryDelay is the fixed pause before the single retry of a failed
// remote move.
const moveRetryDelay = 600 * time.Millisecond

// ReconcileOrder makes the remote list order match the local position
// order with the fewest possible move calls.
//
// The walk computes a longest strictly increasing subsequence of the
// remote order mapped into desired indices; those items are already in
// correct relative order and stay put. Every other item is moved once,
// in target order, immediately after the previously placed item. The
// number of moves issued on a clean pass is exactly
// len(desired) - len(LIS), which is minimal for the anchor-based move
// primitive.
func (s *Syncer) ReconcileOrder(ctx context.Context, res *Result) error {
	desired, err := s.store.LinkedIDs(ctx)
	if err != nil {
		return err
	}
	if len(desired) == 0 {
		s.notifyf("Order sync: no remotely linked tasks to reorder.")
		return nil
	}

	desiredSet := make(map[string]bool, len(desired))
	for _, gid := range desired {
		desiredSet[gid] = true
	}

	items, err := s.remote.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch remote order: %w", err)
	}
	remoteOrder := make([]string, 0, len(desired))
	remoteSet := make(map[string]bool, len(desired))
	for _, it := range items {
		if it != nil && it.Id != "" && desiredSet[it.Id] {
			remoteOrder = append(remoteOrder, it.Id)
			remoteSet[it.Id] = true
		}
	}

	// Tasks not yet visible remotely are skipped for this pass.
	filtered := desired[:0:0]
	for _, gid := range desired {
		if remoteSet[gid] {
			filtered = append(filtered, gid)
		}
	}
	if len(filtered) == 0 {
		s.notifyf("Order sync: none of the desired tasks exist remotely; skipping.")
		return nil
	}

	targetIndex := make(map[string]int, len(filtered))
	for i, gid := range filtered {
		targetIndex[gid] = i
	}

	// Remote order read left to right, mapped into target indices.
	seq := make([]int, 0, len(remoteOrder))
	for _, gid := range remoteOrder {
		if i, ok := targetIndex[gid]; ok {
			seq = append(seq, i)
		}
	}

	inLIS := make(map[string]bool)
	for _, i := range lisIndices(seq) {
		inLIS[remoteOrder[i]] = true
	}
	res.Kept = len(inLIS)

	anchor := ""
	for _, gid := range filtered {
		if s.opts.MoveLimit > 0 && res.Moves >= s.opts.MoveLimit {
			s.notifyf("Order sync: hit move limit (%d); stopping early.", s.opts.MoveLimit)
			break
		}

		// Already in correct relative order: placed without a move.
		if inLIS[gid] {
			anchor = gid
			continue
		}

		if s.opts.DryRun {
			if anchor != "" {
				s.notifyf("[dry-run] would move %s after %s", gid, anchor)
			} else {
				s.notifyf("[dry-run] would move %s to top", gid)
			}
			anchor = gid
			continue
		}

		if err := s.moveWithRetry(ctx, gid, anchor); err != nil {
			res.MoveFailed++
			s.log.Error("move failed after retry", "google_id", gid, "err", err)
			s.notifyf("Order sync: move failed for %s: %v", gid, err)
		} else {
			res.Moves++
			if s.opts.MoveDelay > 0 {
				sleepCtx(ctx, s.opts.MoveDelay)
			}
		}
		anchor = gid
	}

	s.notifyf("Order sync complete. Moves issued: %d (kept %d in place).", res.Moves, res.Kept)
	return nil
}

// moveWithRetry attempts a move, then exactly one retry after a short
// fixed delay. A second failure is the caller's to report; the walk
// continues with the next item.
func (s *Syncer) moveWithRetry(ctx context.Context, gid, anchor string) error {
	err := s.remote.Move(ctx, gid, anchor)
	if err == nil {
		return nil
	}
	s.log.Warn("move failed, retrying once", "google_id", gid, "err", err)
	sleepCtx(ctx, moveRetryDelay)
	return s.remote.Move(ctx, gid, anchor)
}

// lisIndices returns the indices of one longest strictly increasing
// subsequence of seq, via patience sorting with predecessor tracking.
// O(n log n).
func lisIndices(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}

	// tails[k] = index in seq of the smallest tail among all increasing
	// subsequences of length k+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i := range prev {
		prev[i] = -1
	}

	for i, x := range seq {
		j := sort.Search(len(tails), func(k int) bool { return seq[tails[k]] >= x })
		if j == len(tails) {
			tails = append(tails, i)
		} else {
			tails[j] = i
		}
		if j > 0 {
			prev[i] = tails[j-1]
		}
	}

	out := make([]int, 0, len(tails))
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		out = append(out, i)
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
