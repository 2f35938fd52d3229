// Package google implements the remote side of task sync on top of the
// Google Tasks API, scoped to a single task list.
package google

import (
	"context"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/tasks/v1"
)

// TasksClient is a Google Tasks API client bound to one task list.
type TasksClient struct {
	srv    *tasks.Service
	listID string
}

// NewTasksClient wraps an existing Tasks service.
func NewTasksClient(srv *tasks.Service, listID string) *TasksClient {
	return &TasksClient{srv: srv, listID: listID}
}

// List returns every task in the list, in the remote's current order,
// across all pagination pages. Completed and hidden tasks are included:
// the remote list is the source of truth for what exists server-side.
func (c *TasksClient) List(ctx context.Context) ([]*tasks.Task, error) {
	var items []*tasks.Task
	pageToken := ""
	for {
		call := c.srv.Tasks.List(c.listID).
			ShowCompleted(true).
			ShowHidden(true).
			ShowDeleted(false).
			MaxResults(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to list tasks: %w", err)
		}
		items = append(items, resp.Items...)
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return items, nil
}

// Insert creates a task and returns the remote record with its newly
// assigned identity, etag, and updated timestamp.
func (c *TasksClient) Insert(ctx context.Context, t *tasks.Task) (*tasks.Task, error) {
	created, err := c.srv.Tasks.Insert(c.listID, t).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to insert task: %w", err)
	}
	return created, nil
}

// Patch partially updates an existing task.
func (c *TasksClient) Patch(ctx context.Context, id string, t *tasks.Task) (*tasks.Task, error) {
	updated, err := c.srv.Tasks.Patch(c.listID, id, t).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to patch task %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes a task. An already-absent task (404/410) counts as
// success so deletions stay idempotent.
func (c *TasksClient) Delete(ctx context.Context, id string) error {
	err := c.srv.Tasks.Delete(c.listID, id).Context(ctx).Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && (gerr.Code == 404 || gerr.Code == 410) {
			return nil
		}
		return fmt.Errorf("unable to delete task %s: %w", id, err)
	}
	return nil
}

// Move places a task immediately after previousID, or first in the list
// when previousID is empty. This is the only remote reordering primitive.
func (c *TasksClient) Move(ctx context.Context, id, previousID string) error {
	call := c.srv.Tasks.Move(c.listID, id).Context(ctx)
	if previousID != "" {
		call = call.Previous(previousID)
	}
	if _, err := call.Do(); err != nil {
		return fmt.Errorf("unable to move task %s: %w", id, err)
	}
	return nil
}

// Ping verifies the credentials and list actually work, for the auth
// subcommand's connectivity check. It returns the list's display title.
func (c *TasksClient) Ping(ctx context.Context) (string, error) {
	list, err := c.srv.Tasklists.Get(c.listID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("tasks API check failed: %w", err)
	}
	return list.Title, nil
}
