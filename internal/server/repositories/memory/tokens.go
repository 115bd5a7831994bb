package memory

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type TokenRepository struct {
	s *Store
}

func (r *TokenRepository) Create(_ context.Context, token *models.Token) (*models.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tokens[token.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}

	stored := *token
	stored.CreatedAt = r.s.now()
	r.s.tokens[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *TokenRepository) Get(_ context.Context, id string) (*models.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tokens[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *t
	return &out, nil
}

func (r *TokenRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tokens, id)
	return nil
}

func (r *TokenRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	return r.DeleteAllForUserExcept(ctx, userID, "")
}

func (r *TokenRepository) DeleteAllForUserExcept(_ context.Context, userID int64, keepID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, t := range r.s.tokens {
		if t.UserID == userID && id != keepID {
			delete(r.s.tokens, id)
		}
	}
	return nil
}
