package users

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

// Repository persists user accounts. Emails are compared case-insensitively.
// Create and Update return common.ErrorAlreadyExists when the email is taken;
// lookups return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// EmailTaken reports whether another user than exceptID owns email.
	// Pass 0 to check against every user.
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}
