package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jaredevans/task-manager-curses/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, titles ...string) (Model, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	for _, title := range titles {
		_, err := st.Add(ctx, title, "", "")
		require.NoError(t, err)
	}

	m := New(st, nil, nil)
	m.now = func() time.Time {
		return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	}
	msg := m.loadTasks()()
	updated, _ := m.Update(msg)
	return updated.(Model), st
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC)

	days, ok := daysLeft("8/30", now)
	require.True(t, ok)
	assert.Equal(t, 3, days)

	days, ok = daysLeft("8/27", now)
	require.True(t, ok)
	assert.Equal(t, 0, days)

	days, ok = daysLeft("8/20", now)
	require.True(t, ok)
	assert.Equal(t, -7, days)

	_, ok = daysLeft("", now)
	assert.False(t, ok)
}

func TestViewListsTasksInOrder(t *testing.T) {
	m, _ := newTestModel(t, "first", "second", "third")

	out := m.View()
	assert.Contains(t, out, "1. first")
	assert.Contains(t, out, "2. second")
	assert.Contains(t, out, "3. third")
}

func TestCursorMovementClamps(t *testing.T) {
	m, _ := newTestModel(t, "a", "b")

	updated, _ := m.Update(keyPress("up"))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 5; i++ {
		updated, _ = m.Update(keyPress("down"))
		m = updated.(Model)
	}
	assert.Equal(t, 1, m.cursor)
}

func TestMoveModeSwapsAndSaves(t *testing.T) {
	m, st := newTestModel(t, "a", "b", "c")

	updated, _ := m.Update(keyPress("space"))
	m = updated.(Model)
	require.True(t, m.moveMode)

	// Drag "a" below "b".
	updated, _ = m.Update(keyPress("down"))
	m = updated.(Model)
	assert.Equal(t, "b", m.tasks[0].Title)
	assert.Equal(t, "a", m.tasks[1].Title)

	updated, cmd := m.Update(keyPress("space"))
	m = updated.(Model)
	require.False(t, m.moveMode)
	require.NotNil(t, cmd)
	cmd() // persists the new order

	tasks, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "b", tasks[0].Title)
	assert.Equal(t, "a", tasks[1].Title)
	assert.True(t, tasks[0].Dirty, "reorder marks rows for push")
}

func TestMoveModeEscapeCancels(t *testing.T) {
	m, _ := newTestModel(t, "a", "b")

	updated, _ := m.Update(keyPress("space"))
	m = updated.(Model)
	updated, _ = m.Update(keyPress("down"))
	m = updated.(Model)

	updated, cmd := m.Update(keyPress("esc"))
	m = updated.(Model)
	assert.False(t, m.moveMode)
	require.NotNil(t, cmd)

	// Reload returns the stored order, dropping the uncommitted swap.
	msg := cmd()
	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, "a", m.tasks[0].Title)
}

func TestFormAddsTask(t *testing.T) {
	m, st := newTestModel(t)

	updated, _ := m.Update(keyPress("a"))
	m = updated.(Model)
	require.NotNil(t, m.form)

	m.form.inputs[fieldTitle].SetValue("buy milk")
	m.form.inputs[fieldDate].SetValue("12.25")

	updated, cmd := m.Update(keyPress("enter"))
	m = updated.(Model)
	require.Nil(t, m.form)
	require.NotNil(t, cmd)
	cmd()

	tasks, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Title)
	assert.Equal(t, "12/25", tasks[0].Due, "date separators normalize to slashes")
}

func TestFormRejectsEmptyTitle(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(keyPress("a"))
	m = updated.(Model)

	updated, _ = m.Update(keyPress("enter"))
	m = updated.(Model)
	require.NotNil(t, m.form, "form stays open")
	assert.Equal(t, "title is required", m.form.errStr)
}

func TestOrderToggleDisablesMoveMode(t *testing.T) {
	m, _ := newTestModel(t, "a", "b")

	updated, cmd := m.Update(keyPress("o"))
	m = updated.(Model)
	require.True(t, m.byDue)
	msg := cmd()
	updated, _ = m.Update(msg)
	m = updated.(Model)

	updated, _ = m.Update(keyPress("space"))
	m = updated.(Model)
	assert.False(t, m.moveMode, "reordering is position-view only")
}

func TestSyncKeyWithoutRemoteSetsStatus(t *testing.T) {
	m, _ := newTestModel(t, "a")

	updated, _ := m.Update(keyPress("g"))
	m = updated.(Model)
	assert.Contains(t, m.status, "not configured")
}
