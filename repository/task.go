package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

// TaskMutation edits a task loaded inside the repository's transaction.
// Returning an error aborts the update.
type TaskMutation func(task *domain.Task) error

// TaskRepository stores tasks. Every read and write is scoped to ownerID;
// tasks owned by someone else report domain.ErrTaskNotFound.
type TaskRepository interface {
	// List returns the owner's tasks by created_at ascending, then insertion order.
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
	GetOwned(ctx context.Context, ownerID, id string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, ownerID, id string, mutate TaskMutation) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}
