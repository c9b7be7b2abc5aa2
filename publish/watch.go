package publish

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is quiet period after last change before re-rendering.
const DefaultDebounce = 300 * time.Millisecond

// Watcher re-renders documents when they change on disk.
type Watcher struct {
	p        *Publisher
	args     []string
	debounce time.Duration
	log      *zap.Logger

	watcher *fsnotify.Watcher
	// set of watched directories
	dirs map[string]bool
	// rendered notifies about every finished batch, used in tests
	rendered func(paths []string, err error)
}

// NewWatcher switches publisher to overwrite mode, re-rendering always
// replaces previous output.
func NewWatcher(p *Publisher, args []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	p.Overwrite = true
	return &Watcher{
		p:        p,
		args:     args,
		debounce: debounce,
		log:      p.log.Named("watch"),
		watcher:  w,
		dirs:     make(map[string]bool),
	}, nil
}

// watchSources registers directories holding sources and directories given
// as arguments (recursively, so new documents are picked up).
func (w *Watcher) watchSources(sources []Source) {
	add := func(dir string) {
		if w.dirs[dir] {
			return
		}
		if err := w.watcher.Add(dir); err != nil {
			w.log.Warn("Unable to watch directory", zap.String("dir", dir), zap.Error(err))
			return
		}
		w.dirs[dir] = true
	}

	for _, s := range sources {
		add(filepath.Dir(s.Path))
	}
	for _, arg := range w.args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			continue
		}
		if fi, err := os.Stat(abs); err != nil || !fi.IsDir() {
			continue
		}
		_ = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if path != abs && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
	}
}

// Run performs initial render of everything and then re-renders changed
// documents until context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	sources, err := Collect(w.args, w.log)
	if err != nil {
		return err
	}
	w.watchSources(sources)
	w.publish(ctx, sources)

	w.log.Info("Watching for changes", zap.Int("directories", len(w.dirs)), zap.Duration("debounce", w.debounce))

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					w.watchSources(nil)
					continue
				}
			}
			if !IsDocument(event.Name) {
				continue
			}
			pending[event.Name] = true
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			changed := pending
			pending = make(map[string]bool)
			w.republish(ctx, changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error", zap.Error(err))
		}
	}
}

// republish renders sources matching changed files. Sources are collected
// again so new documents in watched directories are found.
func (w *Watcher) republish(ctx context.Context, changed map[string]bool) {
	sources, err := Collect(w.args, w.log)
	if err != nil {
		w.log.Error("Unable to collect sources", zap.Error(err))
		return
	}
	var todo []Source
	for _, s := range sources {
		if changed[s.Path] {
			todo = append(todo, s)
		}
	}
	if len(todo) == 0 {
		return
	}
	w.publish(ctx, todo)
}

func (w *Watcher) publish(ctx context.Context, sources []Source) {
	err := w.p.Publish(ctx, sources)
	if err != nil {
		w.log.Error("Some documents were not rendered", zap.Error(err))
	}
	if w.rendered != nil {
		paths := make([]string, 0, len(sources))
		for _, s := range sources {
			paths = append(paths, s.Path)
		}
		w.rendered(paths, err)
	}
}
