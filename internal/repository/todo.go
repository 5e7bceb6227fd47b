package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hideout/hideout/internal/model"
)

// ErrTodoNotFound indicates the todo does not exist or belongs to
// another user. The two cases are deliberately indistinguishable.
var ErrTodoNotFound = errors.New("todo not found")

// CreateTodo inserts a new todo.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, description, priority, due_date, category, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.DueDate,
		todo.Category,
		todo.IsCompleted,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// ListTodos returns the user's todos, newest first.
func (r *Repository) ListTodos(ctx context.Context, userID string) ([]*model.Todo, error) {
	query := `
		SELECT id, user_id, title, description, priority, due_date, category, is_completed, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*model.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read todos: %w", err)
	}

	return todos, nil
}

// UpdateTodo replaces a todo's mutable fields. The row must belong to
// todo.UserID or ErrTodoNotFound is returned.
func (r *Repository) UpdateTodo(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	query := `
		UPDATE todos
		SET title = $3, description = $4, priority = $5, due_date = $6, category = $7, is_completed = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, priority, due_date, category, is_completed, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.DueDate,
		todo.Category,
		todo.IsCompleted,
	)

	updated, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

// DeleteTodo removes a todo owned by the given user.
func (r *Repository) DeleteTodo(ctx context.Context, userID, todoID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, todoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

func scanTodo(row pgx.Row) (*model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.Priority,
		&todo.DueDate,
		&todo.Category,
		&todo.IsCompleted,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
