package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/models"
)

// SortFields lists the task fields a list can be ordered by.
var SortFields = []string{"id", "title", "state", "created_at"}

// SortTasks returns a copy of tasks ordered ascending by field. The sort is
// stable so equal keys keep their server order.
func SortTasks(tasks []models.Task, field string) ([]models.Task, error) {
	out := copyTasks(tasks)

	var less func(a, b models.Task) bool
	switch field {
	case "", "id":
		less = func(a, b models.Task) bool { return a.ID < b.ID }
	case "title":
		less = func(a, b models.Task) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "state":
		less = func(a, b models.Task) bool { return a.State < b.State }
	case "created_at":
		less = func(a, b models.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return nil, fmt.Errorf("%w: unknown sort field %q", common.ErrorValidation, field)
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}
