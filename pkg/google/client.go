package google

import (
	"context"
	"fmt"

	"github.com/jaredevans/task-manager-curses/pkg/auth"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

// NewClient creates a Tasks API client scoped to one task list, running
// the credential flow if needed. listID is usually "@default".
func NewClient(ctx context.Context, listID, clientSecretHint, tokenHint string) (*TasksClient, error) {
	client, err := auth.GetClient(ctx, clientSecretHint, tokenHint)
	if err != nil {
		return nil, err
	}

	srv, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Tasks service: %w", err)
	}

	if listID == "" {
		listID = "@default"
	}
	return NewTasksClient(srv, listID), nil
}
