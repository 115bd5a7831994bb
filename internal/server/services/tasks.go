package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
)

// TaskService runs task operations on behalf of an authenticated actor.
// For a single task the checks run in a fixed order: existence (404),
// ownership (403), then input (422). Nothing is written unless all pass.
type TaskService struct {
	repomanager repomanager.RepositoryManager
}

func NewTaskService(m repomanager.RepositoryManager) *TaskService {
	return &TaskService{repomanager: m}
}

// List returns the actor's tasks matching in, newest first.
func (s *TaskService) List(ctx context.Context, actorID int64, in TaskFilterInput) ([]*models.Task, error) {
	filter, err := in.filter()
	if err != nil {
		return nil, err
	}

	tasks, err := s.repomanager.Tasks(s.repomanager.Conn()).List(ctx, actorID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Create stores a new task owned by the actor.
func (s *TaskService) Create(ctx context.Context, actorID int64, in TaskInput) (*models.Task, error) {
	fields, err := in.validate()
	if err != nil {
		return nil, err
	}

	task := &models.Task{UserID: actorID}
	fields.apply(task)

	created, err := s.repomanager.Tasks(s.repomanager.Conn()).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, actorID, id int64) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.repomanager.Conn()).Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	if err := auth.Authorize(actorID, task.UserID); err != nil {
		return nil, err
	}
	return task, nil
}

// Update replaces every writable field of the task.
func (s *TaskService) Update(ctx context.Context, actorID, id int64, in TaskInput) (*models.Task, error) {
	var updated *models.Task

	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return lookupError(err)
		}
		if err := auth.Authorize(actorID, task.UserID); err != nil {
			return err
		}

		fields, err := in.validate()
		if err != nil {
			return err
		}
		fields.apply(task)

		updated, err = repo.Update(ctx, task)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, actorID, id int64) error {
	return s.repomanager.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return lookupError(err)
		}
		if err := auth.Authorize(actorID, task.UserID); err != nil {
			return err
		}

		if err := repo.Delete(ctx, id, actorID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
}

func lookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("load task: %w", err)
}
