package handler

// DI for all handlers alike.

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/db"
	"github.com/yumyai/blutable/pkg/loader"
	"github.com/yumyai/blutable/pkg/view"
)

type AppContext struct {
	Loader       *loader.Loader
	Registry     *db.DocumentRegistry
	Jobs         *LoadJobManager
	Sessions     *SessionStore
	ExampleURL   string
	FetchTimeout time.Duration
}

// NewAppContext wires the session store so that every session explorer
// shares one snapshot cache.
func NewAppContext(l *loader.Loader, registry *db.DocumentRegistry, opts view.ExplorerOptions, limits SessionLimits) (*AppContext, error) {
	if opts.Cache == nil {
		size := opts.CacheSize
		if size <= 0 {
			size = 128
		}
		cache, err := view.NewCache(size)
		if err != nil {
			return nil, err
		}
		opts.Cache = cache
	}

	app := &AppContext{
		Loader:       l,
		Registry:     registry,
		Jobs:         NewLoadJobManager(),
		FetchTimeout: 30 * time.Second,
	}
	app.Sessions = NewSessionStore(opts, limits, app.evictSession)
	return app, nil
}

// evictSession releases what a dropped session still holds. Loads in flight
// are superseded before the history is forgotten, so none can record into it
// afterwards.
func (app *AppContext) evictSession(sess *Session) {
	sess.Guard.Commit(sess.Guard.Begin(), func() {
		sess.With(func(e *view.Explorer) { e.Reset() })
	})
	app.Jobs.ForgetSession(sess.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Registry.Forget(ctx, sess.ID); err != nil {
		logger.Warn("Failed to forget evicted session", zap.String("session", sess.ID), zap.Error(err))
		return
	}
	logger.Info("Released idle session", zap.String("session", sess.ID))
}
