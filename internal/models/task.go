// Package models holds the task entity shared by the server and the client.
// The JSON field names are the wire format of the HTTP API.
package models

import "time"

// TaskState enumerates the lifecycle of a task.
type TaskState int16

const (
	StateTodo TaskState = iota
	StateDoing
	StateDone
)

// Valid reports whether s is one of the known states.
func (s TaskState) Valid() bool {
	return s >= StateTodo && s <= StateDone
}

func (s TaskState) String() string {
	switch s {
	case StateTodo:
		return "todo"
	case StateDoing:
		return "doing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Task is a single to-do item. Every task belongs to exactly one username;
// users are not persisted as entities, a username is just the string that
// labels tasks.
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	State     TaskState `json:"state"`
	Username  string    `json:"username"`
}
