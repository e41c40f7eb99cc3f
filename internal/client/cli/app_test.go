package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/cuadratic/tasklist/internal/client/cache"
	"github.com/cuadratic/tasklist/internal/client/config"
	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/logging"
	"github.com/cuadratic/tasklist/internal/models"
)

// stubAPI implements api.Client for command tests.
type stubAPI struct {
	tasks    []models.Task
	loginErr error
	taskErr  error
}

func (s *stubAPI) Login(ctx context.Context, username string) error { return s.loginErr }
func (s *stubAPI) Logout(ctx context.Context) error                 { return nil }
func (s *stubAPI) Whoami(ctx context.Context) (string, error)       { return "alice", nil }
func (s *stubAPI) Ping(ctx context.Context) error                   { return nil }

func (s *stubAPI) ListTasks(ctx context.Context, username string) ([]models.Task, error) {
	if s.taskErr != nil {
		return nil, s.taskErr
	}
	return s.tasks, nil
}

func (s *stubAPI) AddTask(ctx context.Context, title string) (*models.Task, error) {
	if s.taskErr != nil {
		return nil, s.taskErr
	}
	t := models.Task{ID: int64(len(s.tasks) + 1), Title: title}
	s.tasks = append(s.tasks, t)
	return &t, nil
}

func (s *stubAPI) DeleteTask(ctx context.Context, id int64) error { return s.taskErr }
func (s *stubAPI) UpdateTaskState(ctx context.Context, id int64, state models.TaskState) error {
	return s.taskErr
}
func (s *stubAPI) RenameTask(ctx context.Context, id int64, title string) error { return s.taskErr }

func newTestApp(api *stubAPI) *App {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	store := cache.NewStore()
	return &App{
		config: &config.Config{ServerURL: "http://test"},
		client: api,
		store:  store,
		sync:   cache.NewSynchronizer(api, store, logger),
	}
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(args...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func joined(lines *[]string) string {
	return strings.Join(*lines, "")
}

func TestAppLogin(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(&stubAPI{})

	if err := a.Login(context.Background(), []string{"alice"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.userName != "alice" {
		t.Fatalf("userName not set: %q", a.userName)
	}
	if !strings.Contains(joined(out), "Logged in as alice") {
		t.Fatalf("missing confirmation: %q", joined(out))
	}
}

func TestAppLoginUsage(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(&stubAPI{})

	if err := a.Login(context.Background(), nil); err != nil {
		t.Fatalf("usage error should not propagate: %v", err)
	}
	if a.userName != "" {
		t.Fatalf("userName set on usage error")
	}
	if !strings.Contains(joined(out), "Usage: login") {
		t.Fatalf("missing usage hint: %q", joined(out))
	}
}

func TestAppLoginRejected(t *testing.T) {
	out := captureOutput(t)
	api := &stubAPI{loginErr: fmt.Errorf("%w: invalid username", common.ErrorValidation)}
	a := newTestApp(api)

	if err := a.Login(context.Background(), []string{""}); err == nil {
		t.Fatal("expected error")
	}
	if a.userName != "" {
		t.Fatalf("userName set after rejected login")
	}
	if !strings.Contains(joined(out), "Login rejected") {
		t.Fatalf("missing rejection message: %q", joined(out))
	}
}

func TestAppCommandsRequireLogin(t *testing.T) {
	_ = captureOutput(t)
	a := newTestApp(&stubAPI{})
	ctx := context.Background()

	if err := a.List(ctx, nil); err == nil {
		t.Fatal("list without login should fail")
	}
	if err := a.Add(ctx, []string{"x"}); err == nil {
		t.Fatal("add without login should fail")
	}
	if err := a.Delete(ctx, []string{"1"}); err == nil {
		t.Fatal("delete without login should fail")
	}
}

func TestAppListPrintsTasks(t *testing.T) {
	out := captureOutput(t)
	api := &stubAPI{tasks: []models.Task{
		{ID: 1, Title: "buy milk", State: models.StateTodo},
		{ID: 2, Title: "call bob", State: models.StateDone},
	}}
	a := newTestApp(api)
	a.userName = "alice"

	if err := a.List(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := joined(out)
	if !strings.Contains(got, "buy milk") || !strings.Contains(got, "call bob") {
		t.Fatalf("tasks not printed: %q", got)
	}
}

func TestAppListFetchFailureShowsStaleNotice(t *testing.T) {
	out := captureOutput(t)
	api := &stubAPI{tasks: []models.Task{{ID: 1, Title: "buy milk"}}}
	a := newTestApp(api)
	a.userName = "alice"
	ctx := context.Background()

	if err := a.List(ctx, nil); err != nil {
		t.Fatalf("priming list: %v", err)
	}

	a.store.Invalidate(a.cacheKey())
	api.taskErr = fmt.Errorf("%w: connection refused", common.ErrorInternal)

	err := a.List(ctx, nil)
	if err == nil {
		t.Fatal("fetch failure must surface an error")
	}
	got := joined(out)
	if !strings.Contains(got, "Could not refresh") {
		t.Fatalf("missing stale notice: %q", got)
	}
	if !strings.Contains(got, "buy milk") {
		t.Fatalf("last known list not rendered: %q", got)
	}
}

func TestAppListUnknownSortField(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(&stubAPI{tasks: []models.Task{{ID: 1}}})
	a.userName = "alice"

	if err := a.List(context.Background(), []string{"priority"}); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(joined(out), "Unknown sort field") {
		t.Fatalf("missing hint: %q", joined(out))
	}
}

func TestAppAddAndDelete(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(&stubAPI{})
	a.userName = "alice"
	ctx := context.Background()

	if err := a.Add(ctx, []string{"buy", "milk"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(joined(out), "Added: buy milk") {
		t.Fatalf("missing add confirmation: %q", joined(out))
	}

	if err := a.Delete(ctx, []string{"1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(joined(out), "Task 1 deleted") {
		t.Fatalf("missing delete confirmation: %q", joined(out))
	}
}

func TestAppDeleteBadID(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(&stubAPI{})
	a.userName = "alice"

	if err := a.Delete(context.Background(), []string{"zero"}); err != nil {
		t.Fatalf("usage error should not propagate: %v", err)
	}
	if !strings.Contains(joined(out), "Usage: delete") {
		t.Fatalf("missing usage hint: %q", joined(out))
	}
}

func TestAppSetStateReportsServerError(t *testing.T) {
	out := captureOutput(t)
	api := &stubAPI{taskErr: fmt.Errorf("%w: invalid state", common.ErrorValidation)}
	a := newTestApp(api)
	a.userName = "alice"

	if err := a.SetState(context.Background(), models.StateDone, []string{"1"}); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(joined(out), "Error:") {
		t.Fatalf("missing error output: %q", joined(out))
	}
}

func TestAppLogoutClearsSession(t *testing.T) {
	_ = captureOutput(t)
	a := newTestApp(&stubAPI{})
	a.userName = "alice"
	a.store.Set(a.cacheKey(), []models.Task{{ID: 1}})

	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if a.userName != "" {
		t.Fatalf("userName not cleared")
	}
	tasks, _ := a.store.Get(cache.Key{Endpoint: "http://test", Username: "alice"})
	if tasks != nil {
		t.Fatalf("cache not dropped")
	}
}
