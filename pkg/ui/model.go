// Package ui is the terminal front end: an ordered task list over the
// local store, with add/edit/done/delete, an interactive move mode that
// rewrites positions, and a background sync trigger. The UI talks only
// to the store and the sync orchestrator; sync progress arrives through
// the notifier and lands on the status line.
package ui

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jaredevans/task-manager-curses/pkg/model"
	"github.com/jaredevans/task-manager-curses/pkg/store"
	"github.com/jaredevans/task-manager-curses/pkg/sync"
	"github.com/jaredevans/task-manager-curses/pkg/util"
)

// SyncFunc runs a full sync pass, reporting progress through notify.
// nil disables the sync keybinding (offline mode).
type SyncFunc func(ctx context.Context, notify sync.Notifier) *sync.Result

// Model is the bubbletea model for the task list screen.
type Model struct {
	store  *store.Store
	log    *slog.Logger
	syncFn SyncFunc
	keys   KeyMap
	now    func() time.Time

	tasks  []model.Task
	cursor int
	width  int
	height int

	moveMode bool
	byDue    bool
	syncing  bool
	status   string

	form *formModel
}

// New builds the list screen over an open store. logger may be nil
// (discard) and syncFn may be nil.
func New(st *store.Store, logger *slog.Logger, syncFn SyncFunc) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Model{
		store:  st,
		log:    logger,
		syncFn: syncFn,
		keys:   DefaultKeyMap(),
		now:    time.Now,
		status: "a add · e edit · d done · space move · o order · g sync · q quit",
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadTasks()
}

func (m Model) loadTasks() tea.Cmd {
	byDue := m.byDue
	return func() tea.Msg {
		ctx := context.Background()
		var (
			tasks []model.Task
			err   error
		)
		if byDue {
			tasks, err = m.store.ListByDue(ctx)
		} else {
			tasks, err = m.store.List(ctx)
		}
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (m Model) runSync() tea.Cmd {
	syncFn := m.syncFn
	log := m.log
	return func() tea.Msg {
		res := syncFn(context.Background(), func(msg string) {
			log.Info("sync", "msg", msg)
		})
		return syncDoneMsg{result: res}
	}
}

// daysLeft reports whole days from today until the task's due date,
// interpreting the date in the current year. Tasks without a due date
// report ok=false.
func daysLeft(due string, now time.Time) (int, bool) {
	if due == "" {
		return 0, false
	}
	d := util.DueOrToday(due, now)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(d.Sub(today).Hours() / 24), true
}
