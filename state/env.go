// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"easycv/config"
	"easycv/prefs"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// theme preference store, opened lazily
	Store prefs.Store

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// OpenStore returns configured preference store opening it on first use.
func (e *LocalEnv) OpenStore() (prefs.Store, error) {
	if e.Store != nil {
		return e.Store, nil
	}
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}

	kind, path := "memory", ""
	if e.Cfg != nil {
		kind, path = e.Cfg.Preferences.Store, e.Cfg.Preferences.Path
	}
	store, err := prefs.Open(kind, path, log.Named("prefs"))
	if err != nil {
		return nil, err
	}
	e.Store = store
	return store, nil
}

// Close releases resources acquired during program run.
func (e *LocalEnv) Close() (err error) {
	if e.Store != nil {
		err = multierr.Append(err, e.Store.Close())
		e.Store = nil
	}
	return err
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
