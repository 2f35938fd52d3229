package ui

import (
	"github.com/jaredevans/task-manager-curses/pkg/model"
	"github.com/jaredevans/task-manager-curses/pkg/sync"
)

// tasksLoadedMsg is sent when the task list is (re)read from the store.
type tasksLoadedMsg struct {
	tasks []model.Task
}

// syncDoneMsg is sent when a background sync pass finishes.
type syncDoneMsg struct {
	result *sync.Result
	err    error
}

// errMsg carries a store operation failure back to the update loop.
type errMsg struct {
	err error
}
