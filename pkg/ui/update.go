package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jaredevans/task-manager-curses/pkg/model"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		m.clampCursor()
		return m, nil

	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.status = "Sync failed: " + msg.err.Error()
			return m, m.loadTasks()
		}
		r := msg.result
		if len(r.Errors) > 0 {
			m.status = fmt.Sprintf("Sync finished with %d error(s); see log", len(r.Errors))
		} else {
			m.status = fmt.Sprintf("Synced: %d pushed, %d new, %d updated, %d moves",
				r.Pushed, r.PulledNew, r.PulledUpdated, r.Moves)
		}
		return m, m.loadTasks()

	case errMsg:
		m.status = "Error: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.moveMode {
			return m.updateMove(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.form = newForm("", "", "", 0)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.form = newForm(t.Title, t.Due, t.Notes, t.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Done):
		if t, ok := m.selected(); ok {
			id, done := t.ID, !t.Done
			return m, func() tea.Msg {
				if err := m.store.SetDone(context.Background(), id, done); err != nil {
					return errMsg{err}
				}
				return m.loadTasks()()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			id := t.ID
			return m, func() tea.Msg {
				if err := m.store.Delete(context.Background(), id); err != nil {
					return errMsg{err}
				}
				return m.loadTasks()()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Move):
		if len(m.tasks) > 1 && !m.byDue {
			m.moveMode = true
			m.status = "Move mode: ↑/↓ reposition, space/enter save, esc cancel"
		}
		return m, nil

	case key.Matches(msg, m.keys.Order):
		m.byDue = !m.byDue
		if m.byDue {
			m.status = "Ordered by due date (read-only view)"
		} else {
			m.status = "Ordered by position"
		}
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Sync):
		if m.syncFn == nil {
			m.status = "Sync is not configured (run: tasks auth)"
			return m, nil
		}
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status = "Syncing..."
		return m, m.runSync()
	}
	return m, nil
}

func (m Model) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.tasks[m.cursor], m.tasks[m.cursor-1] = m.tasks[m.cursor-1], m.tasks[m.cursor]
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.tasks[m.cursor], m.tasks[m.cursor+1] = m.tasks[m.cursor+1], m.tasks[m.cursor]
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Move), msg.String() == "enter":
		m.moveMode = false
		m.status = "Order saved"
		ids := make([]int64, len(m.tasks))
		for i, t := range m.tasks {
			ids[i] = t.ID
		}
		return m, func() tea.Msg {
			if err := m.store.UpdateOrder(context.Background(), ids); err != nil {
				return errMsg{err}
			}
			return m.loadTasks()()
		}

	case key.Matches(msg, m.keys.Escape):
		m.moveMode = false
		m.status = "Move cancelled"
		return m, m.loadTasks()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.form = nil
		return m, nil
	}

	done, cmd := m.form.update(msg, m.now())
	if !done {
		return m, cmd
	}

	title, date, notes := m.form.values(m.now())
	editID := m.form.editID
	m.form = nil
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if editID == 0 {
			_, err = m.store.Add(ctx, title, date, notes)
		} else {
			err = m.store.Update(ctx, editID, title, date, notes)
		}
		if err != nil {
			return errMsg{err}
		}
		return m.loadTasks()()
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}
