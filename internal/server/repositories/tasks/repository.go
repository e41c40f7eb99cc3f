package tasks

import (
	"context"

	"github.com/cuadratic/tasklist/internal/models"
)

// Repository describes task persistence. Mutations by primary key report the
// number of rows affected so the service layer can decide the missing-row
// policy; they do not return an error for an unknown id.
type Repository interface {
	// SelectByUsername returns all tasks owned by username, ordered by id
	// ascending.
	SelectByUsername(ctx context.Context, username string) ([]models.Task, error)

	// Create inserts a new task in state todo with created_at set by the
	// store, and returns the stored row.
	Create(ctx context.Context, username, title string) (*models.Task, error)

	// UpdateState sets the state of the task with the given id.
	UpdateState(ctx context.Context, id int64, state models.TaskState) (int64, error)

	// UpdateTitle renames the task with the given id.
	UpdateTitle(ctx context.Context, id int64, title string) (int64, error)

	// Delete removes the task with the given id.
	Delete(ctx context.Context, id int64) (int64, error)
}
