package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type TaskRepository struct {
	s *Store
}

func (r *TaskRepository) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[task.UserID]; !ok {
		return nil, common.ErrorNotFound
	}

	r.s.lastTaskID++
	now := r.s.now()

	stored := cloneTask(task)
	stored.ID = r.s.lastTaskID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.tasks[stored.ID] = stored

	return cloneTask(stored), nil
}

func (r *TaskRepository) Get(_ context.Context, id int64) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneTask(t), nil
}

// GetForUpdate is Get; the manager serialises transactions instead of
// locking rows.
func (r *TaskRepository) GetForUpdate(ctx context.Context, id int64) (*models.Task, error) {
	return r.Get(ctx, id)
}

func matches(t *models.Task, f models.TaskFilter) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && (t.Priority == nil || *t.Priority != *f.Priority) {
		return false
	}
	if f.Search != nil {
		needle := strings.ToLower(*f.Search)
		inTitle := strings.Contains(strings.ToLower(t.Title), needle)
		inDesc := t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
		if !inTitle && !inDesc {
			return false
		}
	}
	return true
}

func (r *TaskRepository) List(_ context.Context, userID int64, filter models.TaskFilter) ([]*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == userID && matches(t, filter) {
			result = append(result, cloneTask(t))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func (r *TaskRepository) Update(_ context.Context, task *models.Task) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return nil, common.ErrorNotFound
	}

	updated := cloneTask(task)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = r.s.now()
	r.s.tasks[task.ID] = updated

	return cloneTask(updated), nil
}

func (r *TaskRepository) Delete(_ context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tasks[id]
	if !ok || stored.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.tasks, id)
	return nil
}
