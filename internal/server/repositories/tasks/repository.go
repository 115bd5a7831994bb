package tasks

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

// Repository persists tasks. Lookups by id are not owner-scoped so the caller
// can tell "missing" from "not yours"; writes are always scoped to user_id.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, userID int64, filter models.TaskFilter) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id, userID int64) error
}
