package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// Source is a single CV document on disk.
type Source struct {
	// Path is absolute file name.
	Path string
	// Rel is file name relative to the argument it was found under, base name
	// for files given directly.
	Rel string
	// Root is the directory Rel is relative to.
	Root string
}

// IsDocument reports whether file name looks like CV document.
func IsDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Collect expands arguments into document list. Directories are walked
// recursively, hidden entries are skipped. Result of each directory is in
// natural order, duplicates are dropped.
func Collect(args []string, log *zap.Logger) ([]Source, error) {
	var (
		out  []Source
		seen = make(map[string]bool)
	)
	add := func(s Source) {
		if seen[s.Path] {
			return
		}
		seen[s.Path] = true
		out = append(out, s)
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		fi, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("input source was not found (%s): %w", arg, err)
		}

		if !fi.IsDir() {
			if !fi.Mode().IsRegular() {
				return nil, fmt.Errorf("unexpected path mode for (%s)", arg)
			}
			add(Source{Path: abs, Rel: filepath.Base(abs), Root: filepath.Dir(abs)})
			continue
		}

		found, err := walk(abs, log)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			log.Debug("Nothing to process", zap.String("dir", abs))
		}
		for _, s := range found {
			add(s)
		}
	}
	return out, nil
}

func walk(dir string, log *zap.Logger) ([]Source, error) {
	var found []Source
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsDocument(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		found = append(found, Source{Path: path, Rel: rel, Root: dir})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(found, func(a, b Source) int {
		switch {
		case natural.Less(a.Rel, b.Rel):
			return -1
		case natural.Less(b.Rel, a.Rel):
			return 1
		}
		return 0
	})
	return found, nil
}
