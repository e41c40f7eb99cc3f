// Package services contains server-side business logic. TaskService owns
// validation, the missing-row policy, and transaction boundaries around the
// task repository.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/dbx"
	"github.com/cuadratic/tasklist/internal/logging"
	"github.com/cuadratic/tasklist/internal/models"
	"github.com/cuadratic/tasklist/internal/server/config"
	"github.com/cuadratic/tasklist/internal/server/repositories/repomanager"
)

type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: rm,
		config:      cfg,
		logger:      logger.With("module", "task_service"),
	}
}

// ValidateTitle enforces the shared title bounds (1–32 characters).
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < common.TitleMinLen || n > common.TitleMaxLen {
		return fmt.Errorf("%w: title must be %d-%d characters", common.ErrorValidation, common.TitleMinLen, common.TitleMaxLen)
	}
	return nil
}

// ValidateUsername applies the same bounds to usernames; a username is just a
// string that labels tasks.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < common.TitleMinLen || n > common.TitleMaxLen {
		return fmt.Errorf("%w: username must be %d-%d characters", common.ErrorValidation, common.TitleMinLen, common.TitleMaxLen)
	}
	return nil
}

// clampDelay bounds the caller-supplied artificial delay. The delay exists to
// exercise optimistic UI behaviour under latency and is never trusted blindly.
func (s *TaskService) clampDelay(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > s.config.MaxRequestDelay {
		return s.config.MaxRequestDelay
	}
	return d
}

// wait sleeps for the clamped delay, honouring ctx cancellation.
func (s *TaskService) wait(ctx context.Context, delay time.Duration) error {
	delay = s.clampDelay(delay)
	if delay == 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List returns the tasks owned by username, ordered by id ascending.
func (s *TaskService) List(ctx context.Context, username string, delay time.Duration) ([]models.Task, error) {
	if err := s.wait(ctx, delay); err != nil {
		return nil, err
	}

	repo := s.repomanager.Tasks(s.db)
	result, err := repo.SelectByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return result, nil
}

// Add validates the title and inserts a new task for username. The insert
// runs inside a transaction even though it is a single statement; the
// original mutation path wrapped it in BEGIN/COMMIT and further statements
// may join it later.
func (s *TaskService) Add(ctx context.Context, username, title string, delay time.Duration) (*models.Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := s.wait(ctx, delay); err != nil {
		return nil, err
	}

	var created *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)
		var txErr error
		created, txErr = repo.Create(ctx, username, title)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return created, nil
}

// SetState updates the state of the task with the given id. An unknown id is
// a silent success: setting the state of a row that is already gone is
// treated as an idempotent no-op.
func (s *TaskService) SetState(ctx context.Context, id int64, state models.TaskState) error {
	if id <= 0 {
		return fmt.Errorf("%w: missing task id", common.ErrorValidation)
	}
	if !state.Valid() {
		return fmt.Errorf("%w: unknown state %d", common.ErrorValidation, state)
	}

	repo := s.repomanager.Tasks(s.db)
	n, err := repo.UpdateState(ctx, id, state)
	if err != nil {
		return fmt.Errorf("error updating task state: %w", err)
	}
	if n == 0 {
		s.logger.Debug(ctx, "state update matched no rows", "id", id)
	}
	return nil
}

// Rename updates the title of the task with the given id. Missing ids are a
// silent success, as in SetState.
func (s *TaskService) Rename(ctx context.Context, id int64, title string) error {
	if id <= 0 {
		return fmt.Errorf("%w: missing task id", common.ErrorValidation)
	}
	if err := ValidateTitle(title); err != nil {
		return err
	}

	repo := s.repomanager.Tasks(s.db)
	n, err := repo.UpdateTitle(ctx, id, title)
	if err != nil {
		return fmt.Errorf("error renaming task: %w", err)
	}
	if n == 0 {
		s.logger.Debug(ctx, "rename matched no rows", "id", id)
	}
	return nil
}

// Delete removes the task with the given id. Deleting a row that does not
// exist is a silent success.
func (s *TaskService) Delete(ctx context.Context, id int64, delay time.Duration) error {
	if id <= 0 {
		return fmt.Errorf("%w: missing task id", common.ErrorValidation)
	}
	if err := s.wait(ctx, delay); err != nil {
		return err
	}

	repo := s.repomanager.Tasks(s.db)
	n, err := repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	if n == 0 {
		s.logger.Debug(ctx, "delete matched no rows", "id", id)
	}
	return nil
}
