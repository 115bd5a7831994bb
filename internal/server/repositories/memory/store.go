// Package memory implements the repositories over process-local maps. It backs
// the "memory" database DSN used for development and end-to-end tests.
package memory

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

// Store is the shared state behind every memory repository. Values handed
// out are copies, so callers never alias stored records.
type Store struct {
	mu sync.RWMutex

	users  map[int64]*models.User
	tasks  map[int64]*models.Task
	tokens map[string]*models.Token

	lastUserID int64
	lastTaskID int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  make(map[int64]*models.User),
		tasks:  make(map[int64]*models.Task),
		tokens: make(map[string]*models.Token),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }
func (s *Store) Tokens() *TokenRepository { return &TokenRepository{s: s} }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.EmailVerifiedAt = clonePtr(u.EmailVerifiedAt)
	return &c
}

func cloneTask(t *models.Task) *models.Task {
	c := *t
	c.Description = clonePtr(t.Description)
	c.DueDate = clonePtr(t.DueDate)
	c.Priority = clonePtr(t.Priority)
	return &c
}
