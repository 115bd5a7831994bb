package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

var columns = []string{
	"id", "user_id", "title", "description", "due_date",
	"completed", "priority", "created_at", "updated_at",
}

var selectTask = "SELECT " + strings.Join(columns, ", ") + " FROM tasks"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	t := &models.Task{}
	var priority sql.NullString

	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
		&t.Completed, &priority, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if priority.Valid {
		p := models.Priority(priority.String)
		t.Priority = &p
	}
	return t, nil
}

func priorityArg(p *models.Priority) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (user_id, title, description, due_date, completed, priority)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, task.DueDate, task.Completed, priorityArg(task.Priority)).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(ctx, selectTask+" WHERE id = $1", id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(ctx, selectTask+" WHERE id = $1 FOR UPDATE", id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// likeEscaper makes user input match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func listQuery(userID int64, f models.TaskFilter) sq.SelectBuilder {
	q := sq.Select(columns...).
		From("tasks").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(sq.Dollar)

	if f.Completed != nil {
		q = q.Where(sq.Eq{"completed": *f.Completed})
	}
	if f.Priority != nil {
		q = q.Where(sq.Eq{"priority": string(*f.Priority)})
	}
	if f.Search != nil {
		pattern := "%" + likeEscaper.Replace(*f.Search) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}
	return q
}

func (r *PostgresRepository) List(ctx context.Context, userID int64, filter models.TaskFilter) ([]*models.Task, error) {
	query, args, err := listQuery(userID, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update replaces every mutable field of the task owned by task.UserID.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET title = $1, description = $2, due_date = $3, completed = $4, priority = $5, updated_at = now()
		 WHERE id = $6 AND user_id = $7
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.DueDate, task.Completed, priorityArg(task.Priority),
		task.ID, task.UserID).
		Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
