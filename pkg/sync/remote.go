package sync

import (
	"context"

	"google.golang.org/api/tasks/v1"
)

// Remote task status values on the wire.
const (
	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Remote is the slice of the Google Tasks surface the engine consumes,
// scoped to one task list. google.TasksClient is the production
// implementation; tests substitute an in-memory fake.
type Remote interface {
	// List returns every task in the list in remote order, across all
	// pagination pages, including completed and hidden tasks.
	List(ctx context.Context) ([]*tasks.Task, error)

	// Insert creates a task and returns it with its assigned identity.
	Insert(ctx context.Context, t *tasks.Task) (*tasks.Task, error)

	// Patch partially updates the task with the given remote identity.
	Patch(ctx context.Context, id string, t *tasks.Task) (*tasks.Task, error)

	// Delete removes a task; deleting an already-absent task is success.
	Delete(ctx context.Context, id string) error

	// Move places id immediately after previousID, or first when
	// previousID is empty.
	Move(ctx context.Context, id, previousID string) error
}

// Notifier receives coarse progress and error text during a sync pass.
// The engine never assumes a UI is present; nil disables notifications.
type Notifier func(msg string)
