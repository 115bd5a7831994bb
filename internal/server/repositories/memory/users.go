package memory

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type UserRepository struct {
	s *Store
}

// emailOwnerLocked returns the id of the user owning email, or 0.
func (r *UserRepository) emailOwnerLocked(email string) int64 {
	for id, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return id
		}
	}
	return 0
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailOwnerLocked(user.Email) != 0 {
		return nil, common.ErrorAlreadyExists
	}

	r.s.lastUserID++
	now := r.s.now()

	stored := cloneUser(user)
	stored.ID = r.s.lastUserID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.users[stored.ID] = stored

	return cloneUser(stored), nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id := r.emailOwnerLocked(email)
	if id == 0 {
		return nil, common.ErrorNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserRepository) EmailTaken(_ context.Context, email string, exceptID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id := r.emailOwnerLocked(email)
	return id != 0 && id != exceptID, nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if owner := r.emailOwnerLocked(user.Email); owner != 0 && owner != user.ID {
		return nil, common.ErrorAlreadyExists
	}

	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.UpdatedAt = r.s.now()

	return cloneUser(stored), nil
}
