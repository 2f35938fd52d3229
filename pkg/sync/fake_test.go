package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jaredevans/task-manager-curses/pkg/store"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/tasks/v1"
)

// fakeRemote is an in-memory Remote holding an ordered task list. Move
// relocates an item after its anchor exactly the way the real API does,
// so reconciliation results can be replayed and checked.
type fakeRemote struct {
	items   []*tasks.Task
	nextID  int
	updated string // stamp applied to insert/patch responses

	listErr   error
	insertErr error
	patchErr  error
	deleteErr error
	moveErrs  map[string]int // remaining forced failures per id

	deleteCalls []string
	moveCalls   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		updated:  "2026-01-01T00:00:00Z",
		moveErrs: map[string]int{},
	}
}

// seed appends bare items with the given ids, in order.
func (f *fakeRemote) seed(ids ...string) {
	for _, id := range ids {
		f.items = append(f.items, &tasks.Task{
			Id:      id,
			Title:   "task " + id,
			Status:  statusNeedsAction,
			Updated: f.updated,
		})
	}
}

func (f *fakeRemote) order() []string {
	ids := make([]string, len(f.items))
	for i, it := range f.items {
		ids[i] = it.Id
	}
	return ids
}

func (f *fakeRemote) find(id string) *tasks.Task {
	for _, it := range f.items {
		if it.Id == id {
			return it
		}
	}
	return nil
}

func (f *fakeRemote) List(ctx context.Context) ([]*tasks.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*tasks.Task, len(f.items))
	for i, it := range f.items {
		cp := *it
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeRemote) Insert(ctx context.Context, t *tasks.Task) (*tasks.Task, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	cp := *t
	cp.Id = fmt.Sprintf("rem-%d", f.nextID)
	cp.Etag = "etag-" + cp.Id
	cp.Updated = f.updated
	f.items = append(f.items, &cp)
	out := cp
	return &out, nil
}

func (f *fakeRemote) Patch(ctx context.Context, id string, t *tasks.Task) (*tasks.Task, error) {
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	it := f.find(id)
	if it == nil {
		return nil, fmt.Errorf("task %s not found", id)
	}
	it.Title = t.Title
	it.Notes = t.Notes
	it.Due = t.Due
	it.Status = t.Status
	it.Completed = t.Completed
	it.Updated = f.updated
	it.Etag = "etag-" + id + "-patched"
	cp := *it
	return &cp, nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, it := range f.items {
		if it.Id == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRemote) Move(ctx context.Context, id, previousID string) error {
	f.moveCalls++
	if n := f.moveErrs[id]; n > 0 {
		f.moveErrs[id] = n - 1
		return fmt.Errorf("forced move failure for %s", id)
	}

	var moved *tasks.Task
	for i, it := range f.items {
		if it.Id == id {
			moved = it
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	if moved == nil {
		return fmt.Errorf("task %s not found", id)
	}

	if previousID == "" {
		f.items = append([]*tasks.Task{moved}, f.items...)
		return nil
	}
	for i, it := range f.items {
		if it.Id == previousID {
			rest := append([]*tasks.Task{moved}, f.items[i+1:]...)
			f.items = append(f.items[:i+1], rest...)
			return nil
		}
	}
	return fmt.Errorf("anchor %s not found", previousID)
}

var _ Remote = (*fakeRemote)(nil)

// newTestSyncer wires a fresh temp-file store, a fake remote, and a
// syncer with no move delay.
func newTestSyncer(t *testing.T, opts Options) (*Syncer, *store.Store, *fakeRemote) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	remote := newFakeRemote()
	return New(st, remote, nil, nil, opts), st, remote
}

// linkTask seeds a store row already mapped to a remote identity.
func linkTask(t *testing.T, st *store.Store, title, gid, updated string) int64 {
	t.Helper()
	ctx := context.Background()
	id, err := st.Add(ctx, title, "", "")
	require.NoError(t, err)
	require.NoError(t, st.ApplyPush(ctx, id, gid, "etag-"+gid, updated))
	return id
}
