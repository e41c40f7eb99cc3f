package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/cuadratic/tasklist/internal/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	SetState(ctx context.Context, state models.TaskState, args []string) error
	Rename(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL starts a read–eval–print loop for the task list CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and the rest as arguments, and dispatches to methods on 'a'.
// Unknown commands are reported back to the user. The loop exits on scanner
// EOF or when the user types "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help               — show available commands
//	  - login <name>       — authenticate
//	  - exit | quit        — leave the program
//
//	Logged in:
//	  - help               — show available commands
//	  - l | list [field]   — list tasks, optionally sorted by field
//	  - add <title>        — add a task
//	  - todo <id>          — move a task back to the todo column
//	  - doing <id>         — mark a task in progress
//	  - done <id>          — mark a task done
//	  - rename <id> <title> — change a task title
//	  - del | delete <id>  — delete a task
//	  - whoami             — show the active session
//	  - logout             — log out
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tl> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist [field], add <title>, todo <id>, doing <id>, done <id>, rename <id> <title>, (del)ete <id>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: login <name>, exit")
			}

		case "login":
			_ = a.Login(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "add":
			_ = a.Add(ctx, args)

		case "todo":
			_ = a.SetState(ctx, models.StateTodo, args)

		case "doing":
			_ = a.SetState(ctx, models.StateDoing, args)

		case "done":
			_ = a.SetState(ctx, models.StateDone, args)

		case "rename":
			_ = a.Rename(ctx, args)

		case "del", "delete":
			_ = a.Delete(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
