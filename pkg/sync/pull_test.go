package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/tasks/v1"
)

func TestRemoteNewer(t *testing.T) {
	tests := []struct {
		name   string
		local  string
		remote string
		want   bool
	}{
		{"unknown local wins for remote", "", "2026-01-01T00:00:00Z", true},
		{"missing remote is not newer", "2026-01-01T00:00:00Z", "", false},
		{"strictly newer remote", "2026-01-01T00:00:00Z", "2026-01-02T00:00:00Z", true},
		{"equal is not newer", "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z", false},
		{"older remote", "2026-01-02T00:00:00Z", "2026-01-01T00:00:00Z", false},
		{"malformed remote prefers remote", "2026-01-01T00:00:00Z", "garbage", true},
		{"malformed local prefers remote", "garbage", "2026-01-01T00:00:00Z", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remoteNewer(tt.local, tt.remote))
		})
	}
}

func TestPullInsertsUnknownRemoteAtEnd(t *testing.T) {
	s, st, remote := newTestSyncer(t, Options{})
	ctx := context.Background()

	_, err := st.Add(ctx, "existing local", "", "")
	require.NoError(t, err)

	remote.items = append(remote.items, &tasks.Task{
		Id:      "new-remote",
		Title:   "from server",
		Notes:   "server notes",
		Due:     "2026-03-04T00:00:00Z",
		Status:  statusCompleted,
		Etag:    "e1",
		Updated: "2026-03-04T10:00:00Z",
	})

	res := &Result{}
	require.NoError(t, s.Pull(ctx, res))
	assert.Equal(t, 1, res.PulledNew)

	all, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	got := all[1]
	assert.Equal(t, "from server", got.Title)
	assert.Equal(t, "3/4", got.Due)
	assert.True(t, got.Done)
	assert.False(t, got.Dirty)
	assert.Equal(t, "new-remote", got.GoogleID)
	assert.Equal(t, 1, got.Pos, "appended after the existing task")
}

func TestPullOverwritesCleanLocalWhenRemoteNewer(t *testing.T) {
	s, st, remote := newTestSyncer(t, Options{})
	ctx := context.Background()

	id := linkTask(t, st, "old title", "g1", "2026-01-01T00:00:00Z")
	remote.items = append(remote.items, &tasks.Task{
		Id:      "g1",
		Title:   "newer title",
		Status:  statusNeedsAction,
		Etag:    "e2",
		Updated: "2026-01-02T00:00:00Z",
	})

	res := &Result{}
	require.NoError(t, s.Pull(ctx, res))
	assert.Equal(t, 1, res.PulledUpdated)

	got, err := st.ByGoogleID(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "newer title", got.Title)
	assert.False(t, got.Dirty, "merged record becomes clean")
	assert.Equal(t, "2026-01-02T00:00:00Z", got.Updated)
}

func TestPullLeavesCleanLocalWhenRemoteOlderOrEqual(t *testing.T) {
	for _, remoteStamp := range []string{"2026-01-01T00:00:00Z", "2025-12-31T00:00:00Z"} {
		s, st, remote := newTestSyncer(t, Options{})
		ctx := context.Background()

		linkTask(t, st, "local title", "g1", "2026-01-01T00:00:00Z")
		remote.items = append(remote.items, &tasks.Task{
			Id:      "g1",
			Title:   "stale remote title",
			Status:  statusNeedsAction,
			Updated: remoteStamp,
		})

		res := &Result{}
		require.NoError(t, s.Pull(ctx, res))
		assert.Zero(t, res.PulledUpdated)

		got, err := st.ByGoogleID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "local title", got.Title)
	}
}

func TestPullNeverOverwritesDirtyLocal(t *testing.T) {
	s, st, remote := newTestSyncer(t, Options{})
	ctx := context.Background()

	id := linkTask(t, st, "pushed title", "g1", "2026-01-01T00:00:00Z")
	// Local edit after the push: dirty again.
	require.NoError(t, st.Update(ctx, id, "in-flight edit", "", ""))

	remote.items = append(remote.items, &tasks.Task{
		Id:      "g1",
		Title:   "remote change",
		Status:  statusNeedsAction,
		Updated: "2030-01-01T00:00:00Z", // far newer; must still lose
	})

	res := &Result{}
	require.NoError(t, s.Pull(ctx, res))
	assert.Zero(t, res.PulledUpdated)

	got, err := st.ByGoogleID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "in-flight edit", got.Title)
	assert.True(t, got.Dirty)
}

func TestPullOverwritesWhenLocalUpdatedUnknown(t *testing.T) {
	s, st, remote := newTestSyncer(t, Options{})
	ctx := context.Background()

	linkTask(t, st, "local", "g1", "") // linked but no known remote stamp
	remote.items = append(remote.items, &tasks.Task{
		Id:      "g1",
		Title:   "remote",
		Status:  statusNeedsAction,
		Updated: "2020-01-01T00:00:00Z", // even an old stamp wins against unknown
	})

	res := &Result{}
	require.NoError(t, s.Pull(ctx, res))
	assert.Equal(t, 1, res.PulledUpdated)
}

func TestPullDropsUnparseableDue(t *testing.T) {
	s, st, remote := newTestSyncer(t, Options{})
	ctx := context.Background()

	remote.items = append(remote.items, &tasks.Task{
		Id:      "g1",
		Title:   "bad due",
		Due:     "not-a-timestamp",
		Status:  statusNeedsAction,
		Updated: "2026-01-01T00:00:00Z",
	})

	res := &Result{}
	require.NoError(t, s.Pull(ctx, res))

	got, err := st.ByGoogleID(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Due, "malformed due degrades to empty, record still pulled")
}

func TestPullNeverDeletesLocalRows(t *testing.T) {
	s, st, _ := newTestSyncer(t, Options{})
	ctx := context.Background()

	// Linked locally, but the remote collection is empty (deleted
	// server-side). Pull leaves the local row alone.
	linkTask(t, st, "orphaned", "gone", "2026-01-01T00:00:00Z")

	res := &Result{}
	require.NoError(t, s.Pull(ctx, res))

	all, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
