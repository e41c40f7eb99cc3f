package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/logging"
	"github.com/cuadratic/tasklist/internal/models"
)

// stubClient implements api.Client with programmable responses.
type stubClient struct {
	tasks     []models.Task
	listErr   error
	mutateErr error

	listCalls   int
	mutateCalls int
}

func (c *stubClient) Login(ctx context.Context, username string) error { return nil }
func (c *stubClient) Logout(ctx context.Context) error                 { return nil }
func (c *stubClient) Whoami(ctx context.Context) (string, error)       { return "", nil }
func (c *stubClient) Ping(ctx context.Context) error                   { return nil }

func (c *stubClient) ListTasks(ctx context.Context, username string) ([]models.Task, error) {
	c.listCalls++
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.tasks, nil
}

func (c *stubClient) AddTask(ctx context.Context, title string) (*models.Task, error) {
	c.mutateCalls++
	if c.mutateErr != nil {
		return nil, c.mutateErr
	}
	t := models.Task{ID: int64(len(c.tasks) + 1), Title: title}
	c.tasks = append(c.tasks, t)
	return &t, nil
}

func (c *stubClient) DeleteTask(ctx context.Context, id int64) error {
	c.mutateCalls++
	return c.mutateErr
}

func (c *stubClient) UpdateTaskState(ctx context.Context, id int64, state models.TaskState) error {
	c.mutateCalls++
	return c.mutateErr
}

func (c *stubClient) RenameTask(ctx context.Context, id int64, title string) error {
	c.mutateCalls++
	return c.mutateErr
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testKey() Key {
	return Key{Endpoint: "tasks", Username: "alice"}
}

func TestListFetchesOnCacheMiss(t *testing.T) {
	client := &stubClient{tasks: []models.Task{{ID: 1, Title: "one"}}}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	tasks, err := s.List(context.Background(), testKey())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, client.listCalls)

	// second read is served from cache
	_, err = s.List(context.Background(), testKey())
	require.NoError(t, err)
	assert.Equal(t, 1, client.listCalls)
}

func TestListRefetchesAfterInvalidate(t *testing.T) {
	client := &stubClient{tasks: []models.Task{{ID: 1}}}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	_, err := s.List(context.Background(), testKey())
	require.NoError(t, err)

	store.Invalidate(testKey())

	_, err = s.List(context.Background(), testKey())
	require.NoError(t, err)
	assert.Equal(t, 2, client.listCalls)
}

func TestListFetchFailureSurfacesErrorWithStaleData(t *testing.T) {
	client := &stubClient{tasks: []models.Task{{ID: 1, Title: "one"}}}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	_, err := s.List(context.Background(), testKey())
	require.NoError(t, err)

	store.Invalidate(testKey())
	client.listErr = fmt.Errorf("%w: connection refused", common.ErrorInternal)

	// the failure is never swallowed; the stale copy rides along
	tasks, err := s.List(context.Background(), testKey())
	assert.ErrorIs(t, err, common.ErrorInternal)
	require.Len(t, tasks, 1)
	assert.Equal(t, "one", tasks[0].Title)
}

func TestListFetchFailureWithoutCache(t *testing.T) {
	client := &stubClient{listErr: fmt.Errorf("%w: connection refused", common.ErrorInternal)}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	tasks, err := s.List(context.Background(), testKey())
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Nil(t, tasks)
}

func TestAddTaskOptimisticApply(t *testing.T) {
	client := &stubClient{tasks: []models.Task{{ID: 1, Title: "one"}}}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	_, err := s.List(context.Background(), testKey())
	require.NoError(t, err)

	// make the network call observable: the add succeeds, the entry is
	// stale afterwards so the next List refetches
	require.NoError(t, s.AddTask(context.Background(), testKey(), "two"))
	assert.Equal(t, 1, client.mutateCalls)

	_, fresh := store.Get(testKey())
	assert.False(t, fresh)

	tasks, err := s.List(context.Background(), testKey())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 2, client.listCalls)
}

func TestMutationRollbackOnFailure(t *testing.T) {
	client := &stubClient{tasks: []models.Task{{ID: 1, Title: "one"}}}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	var rolledBack error
	s.OnRollback(func(err error) { rolledBack = err })

	_, err := s.List(context.Background(), testKey())
	require.NoError(t, err)

	client.mutateErr = fmt.Errorf("%w: title too long", common.ErrorValidation)

	err = s.AddTask(context.Background(), testKey(), "way too long")
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.ErrorIs(t, rolledBack, common.ErrorValidation)

	// the provisional task is gone from the cache
	tasks, fresh := store.Get(testKey())
	require.Len(t, tasks, 1)
	assert.Equal(t, "one", tasks[0].Title)
	assert.False(t, fresh)
}

func TestDeleteTaskRollback(t *testing.T) {
	client := &stubClient{tasks: []models.Task{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	_, err := s.List(context.Background(), testKey())
	require.NoError(t, err)

	client.mutateErr = common.ErrorUnauthorized

	err = s.DeleteTask(context.Background(), testKey(), 2)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	tasks, _ := store.Get(testKey())
	require.Len(t, tasks, 2)
}

func TestUpdateTaskStateOptimistic(t *testing.T) {
	client := &stubClient{tasks: []models.Task{{ID: 1, State: models.StateTodo}}}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	_, err := s.List(context.Background(), testKey())
	require.NoError(t, err)

	require.NoError(t, s.UpdateTaskState(context.Background(), testKey(), 1, models.StateDone))

	// the optimistic edit survives, just marked stale
	tasks, fresh := store.Get(testKey())
	require.Len(t, tasks, 1)
	assert.Equal(t, models.StateDone, tasks[0].State)
	assert.False(t, fresh)
}

func TestRenameTaskRollback(t *testing.T) {
	client := &stubClient{tasks: []models.Task{{ID: 1, Title: "one"}}}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	_, err := s.List(context.Background(), testKey())
	require.NoError(t, err)

	client.mutateErr = fmt.Errorf("%w: invalid title", common.ErrorValidation)

	err = s.RenameTask(context.Background(), testKey(), 1, "")
	assert.ErrorIs(t, err, common.ErrorValidation)

	tasks, _ := store.Get(testKey())
	assert.Equal(t, "one", tasks[0].Title)
}

func TestMutationWithoutCachedEntry(t *testing.T) {
	client := &stubClient{}
	store := NewStore()
	s := NewSynchronizer(client, store, testLogger())

	// no cached list yet, mutation still reaches the server
	require.NoError(t, s.DeleteTask(context.Background(), testKey(), 7))
	assert.Equal(t, 1, client.mutateCalls)
}
