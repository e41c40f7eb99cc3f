// Package tasks provides the PostgreSQL-backed repository for task
// persistence.
package tasks

import (
	"context"
	"fmt"

	"github.com/cuadratic/tasklist/internal/dbx"
	"github.com/cuadratic/tasklist/internal/models"
)

// PostgresRepository implements task storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SelectByUsername(ctx context.Context, username string) ([]models.Task, error) {
	query := `SELECT id, title, created_at, state, username FROM tasks WHERE username = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	var result []models.Task
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(&item.ID, &item.Title, &item.CreatedAt, &item.State, &item.Username); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, username, title string) (*models.Task, error) {
	query := `
		INSERT INTO tasks (title, created_at, state, username)
		VALUES ($1, now(), 0, $2)
		RETURNING id, title, created_at, state, username;
	`
	row := r.db.QueryRowContext(ctx, query, title, username)

	t := &models.Task{}
	if err := row.Scan(&t.ID, &t.Title, &t.CreatedAt, &t.State, &t.Username); err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) UpdateState(ctx context.Context, id int64, state models.TaskState) (int64, error) {
	query := `UPDATE tasks SET state = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, state)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) UpdateTitle(ctx context.Context, id int64, title string) (int64, error) {
	query := `UPDATE tasks SET title = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, title)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM tasks WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
