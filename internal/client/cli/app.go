// Package cli implements the interactive task list client.
package cli

import (
	"context"
	"log"
	"time"

	"github.com/cuadratic/tasklist/internal/client/api"
	"github.com/cuadratic/tasklist/internal/client/cache"
	"github.com/cuadratic/tasklist/internal/client/config"
	"github.com/cuadratic/tasklist/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	client   api.Client
	store    *cache.Store
	sync     *cache.Synchronizer
	userName string
	Mode     Mode
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	client, err := api.NewHTTPClient(c.ServerURL, c.RequestDelay)
	if err != nil {
		return nil, err
	}

	store := cache.NewStore()
	sync := cache.NewSynchronizer(client, store, logger)

	app := &App{config: c, client: client, store: store, sync: sync}
	sync.OnRollback(func(err error) {
		printlnFn("Change rejected by server, local list restored:", err.Error())
	})
	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// cacheKey identifies the current user's task list in the local cache.
func (a *App) cacheKey() cache.Key {
	return cache.Key{Endpoint: a.config.ServerURL, Username: a.userName}
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.client.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode != ModeOffline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
					// cached lists may have drifted while unreachable
					a.store.InvalidateAll()
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
