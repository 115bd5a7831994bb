package tokens

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

// Repository stores issued tokens by id. A token that is no longer present
// is revoked; deleting a missing token is not an error.
type Repository interface {
	Create(ctx context.Context, token *models.Token) (*models.Token, error)
	Get(ctx context.Context, id string) (*models.Token, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
	DeleteAllForUserExcept(ctx context.Context, userID int64, keepID string) error
}
