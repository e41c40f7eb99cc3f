package cache

import (
	"context"
	"time"

	"github.com/cuadratic/tasklist/internal/client/api"
	"github.com/cuadratic/tasklist/internal/logging"
	"github.com/cuadratic/tasklist/internal/models"
)

// Synchronizer keeps the local cache in step with the server. Every mutation
// follows the same protocol: snapshot the cached list, apply the change
// locally so the UI updates immediately, run the network call, restore the
// snapshot if the call failed, and finally mark the entry stale so the next
// read refetches the authoritative list.
type Synchronizer struct {
	client api.Client
	store  *Store
	logger logging.Logger

	// onRollback is invoked after a failed mutation has been undone,
	// with the error the server returned. Optional.
	onRollback func(err error)
}

func NewSynchronizer(client api.Client, store *Store, logger logging.Logger) *Synchronizer {
	return &Synchronizer{client: client, store: store, logger: logger}
}

// OnRollback registers a callback fired whenever an optimistic change is
// undone.
func (s *Synchronizer) OnRollback(fn func(err error)) {
	s.onRollback = fn
}

// List returns the task list for key, from cache when fresh, otherwise from
// the server. A fetch failure always returns the error; when stale cached
// data exists it is returned alongside, so callers can render the last known
// list while telling the user the read failed.
func (s *Synchronizer) List(ctx context.Context, key Key) ([]models.Task, error) {
	if tasks, fresh := s.store.Get(key); fresh {
		return tasks, nil
	}

	tasks, err := s.client.ListTasks(ctx, key.Username)
	if err != nil {
		if cached, _ := s.store.Get(key); cached != nil {
			s.logger.Warn(ctx, "task list fetch failed, stale copy available", "endpoint", key.Endpoint, "error", err)
			return cached, err
		}
		return nil, err
	}

	s.store.Set(key, tasks)
	return tasks, nil
}

// mutate runs one optimistic mutation against the cached list for key.
// apply edits a working copy of the snapshot; call performs the request.
func (s *Synchronizer) mutate(ctx context.Context, key Key,
	apply func(tasks []models.Task) []models.Task,
	call func(ctx context.Context) error) error {

	snapshot, hadEntry := s.snapshot(key)
	if hadEntry {
		s.store.Set(key, apply(copyTasks(snapshot)))
	}

	err := call(ctx)
	if err != nil {
		if hadEntry {
			s.store.Set(key, snapshot)
		}
		if s.onRollback != nil {
			s.onRollback(err)
		}
	}

	s.store.Invalidate(key)
	return err
}

func (s *Synchronizer) snapshot(key Key) ([]models.Task, bool) {
	tasks, _ := s.store.Get(key)
	return tasks, tasks != nil
}

// AddTask inserts a provisional task locally, then creates it on the server.
// The provisional ID is replaced by the real one on the next refetch.
func (s *Synchronizer) AddTask(ctx context.Context, key Key, title string) error {
	provisional := models.Task{
		ID:        time.Now().UnixMilli(),
		Title:     title,
		CreatedAt: time.Now(),
		State:     models.StateTodo,
		Username:  key.Username,
	}

	return s.mutate(ctx, key,
		func(tasks []models.Task) []models.Task {
			return append(tasks, provisional)
		},
		func(ctx context.Context) error {
			_, err := s.client.AddTask(ctx, title)
			return err
		})
}

func (s *Synchronizer) DeleteTask(ctx context.Context, key Key, id int64) error {
	return s.mutate(ctx, key,
		func(tasks []models.Task) []models.Task {
			out := tasks[:0]
			for _, t := range tasks {
				if t.ID != id {
					out = append(out, t)
				}
			}
			return out
		},
		func(ctx context.Context) error {
			return s.client.DeleteTask(ctx, id)
		})
}

func (s *Synchronizer) UpdateTaskState(ctx context.Context, key Key, id int64, state models.TaskState) error {
	return s.mutate(ctx, key,
		func(tasks []models.Task) []models.Task {
			for i := range tasks {
				if tasks[i].ID == id {
					tasks[i].State = state
				}
			}
			return tasks
		},
		func(ctx context.Context) error {
			return s.client.UpdateTaskState(ctx, id, state)
		})
}

func (s *Synchronizer) RenameTask(ctx context.Context, key Key, id int64, title string) error {
	return s.mutate(ctx, key,
		func(tasks []models.Task) []models.Task {
			for i := range tasks {
				if tasks[i].ID == id {
					tasks[i].Title = title
				}
			}
			return tasks
		},
		func(ctx context.Context) error {
			return s.client.RenameTask(ctx, id, title)
		})
}
