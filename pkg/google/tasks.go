// Package google wraps the Google Tasks API calls the reconciler makes.
package google

import (
	"context"
	"fmt"

	"github.com/skobaya/manabasync/pkg/auth"
	"google.golang.org/api/tasks/v1"
)

// TasksClient operates on one task list.
type TasksClient struct {
	srv    *tasks.Service
	listID string
}

// NewClient builds an authenticated client and verifies the list exists, so
// a bad list id fails before any snapshot work starts. tokenJSON optionally
// carries an inline token (see pkg/auth).
func NewClient(ctx context.Context, listID, tokenJSON string) (*TasksClient, error) {
	srv, err := auth.GetTasksService(ctx, tokenJSON)
	if err != nil {
		return nil, err
	}

	if _, err := srv.Tasklists.Get(listID).Do(); err != nil {
		return nil, fmt.Errorf("task list %s not accessible: %w", listID, err)
	}

	return &TasksClient{srv: srv, listID: listID}, nil
}

// ListTitles fetches the titles of every task on the list, following
// continuation tokens until exhausted. Completed and hidden tasks are
// included so a finished assignment is never re-added. A partial listing
// would produce false negatives in dedup, so any page failure aborts.
func (c *TasksClient) ListTitles() ([]string, error) {
	var titles []string
	pageToken := ""
	for {
		call := c.srv.Tasks.List(c.listID).
			ShowCompleted(true).
			ShowHidden(true).
			MaxResults(100)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		result, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to list tasks: %w", err)
		}
		for _, item := range result.Items {
			titles = append(titles, item.Title)
		}

		pageToken = result.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return titles, nil
}

// Insert creates a new task on the list.
func (c *TasksClient) Insert(task *tasks.Task) (*tasks.Task, error) {
	created, err := c.srv.Tasks.Insert(c.listID, task).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to insert task: %w", err)
	}
	return created, nil
}
