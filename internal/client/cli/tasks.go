package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cuadratic/tasklist/internal/client/cache"
	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/models"
)

var errNotLoggedIn = fmt.Errorf("%w: not logged in", common.ErrorUnauthorized)

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return errNotLoggedIn
	}
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	field := ""
	if len(args) > 0 {
		field = args[0]
	}

	tasks, listErr := a.sync.List(ctx, a.cacheKey())
	if listErr != nil {
		if tasks == nil {
			printlnFn("Error:", listErr.Error())
			return listErr
		}
		printlnFn("Could not refresh, showing last known list:", listErr.Error())
	}

	sorted, err := cache.SortTasks(tasks, field)
	if err != nil {
		printlnFn(fmt.Sprintf("Unknown sort field %q, try one of: %s",
			field, strings.Join(cache.SortFields, ", ")))
		return err
	}

	if len(sorted) == 0 {
		printlnFn("No tasks")
		return listErr
	}
	for _, t := range sorted {
		printlnFn(fmt.Sprintf("%6d  [%s]  %s", t.ID, t.State, t.Title))
	}
	return listErr
}

func (a *App) Add(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		printlnFn("Usage: add <title>")
		return nil
	}
	title := strings.Join(args, " ")

	if err := a.sync.AddTask(ctx, a.cacheKey(), title); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Added:", title)
	return nil
}

func (a *App) SetState(ctx context.Context, state models.TaskState, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, ok := parseID(args, fmt.Sprintf("Usage: %s <id>", state))
	if !ok {
		return nil
	}

	if err := a.sync.UpdateTaskState(ctx, a.cacheKey(), id, state); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Task %d is now %s", id, state))
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) < 2 {
		printlnFn("Usage: rename <id> <title>")
		return nil
	}
	id, ok := parseID(args[:1], "Usage: rename <id> <title>")
	if !ok {
		return nil
	}
	title := strings.Join(args[1:], " ")

	if err := a.sync.RenameTask(ctx, a.cacheKey(), id, title); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Task %d renamed to %s", id, title))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, ok := parseID(args, "Usage: delete <id>")
	if !ok {
		return nil
	}

	if err := a.sync.DeleteTask(ctx, a.cacheKey(), id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Task %d deleted", id))
	return nil
}

func parseID(args []string, usage string) (int64, bool) {
	if len(args) != 1 {
		printlnFn(usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		printlnFn(usage)
		return 0, false
	}
	return id, true
}
