package cli

import (
	"context"
	"errors"

	"github.com/cuadratic/tasklist/internal/common"
)

func (a *App) Login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: login <name>")
		return nil
	}
	username := args[0]

	if err := a.client.Login(ctx, username); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			printlnFn("Login rejected:", err.Error())
		} else {
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	a.userName = username
	a.store.Drop(a.cacheKey())
	printlnFn("Logged in as", username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}

	a.store.Drop(a.cacheKey())
	a.userName = ""
	printlnFn("Logged out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	username, err := a.client.Whoami(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			printlnFn("Not logged in")
		} else {
			printlnFn("Error:", err.Error())
		}
		return err
	}

	printlnFn("Logged in as", username)
	return nil
}
