package dashboard

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// DefaultDebounce is how long a file must stay quiet before a change fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports settled changes to a fixed set of files.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher watches files. Their parent directories are what fsnotify
// watches, since editors often replace a file instead of writing it.
func NewWatcher(files []string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{files: make(map[string]bool), debounce: debounce, logger: logger}
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			w.files[abs] = true
		}
	}
	return w
}

// Run blocks until ctx is done, calling onChange with the sorted paths that
// changed once they have been quiet for the debounce window. An error from
// onChange is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("watching", zap.String("dir", dir))
	}

	tick := time.NewTicker(tickInterval(w.debounce))
	defer tick.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			pending[name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case now := <-tick.C:
			settled := settledPaths(pending, now, w.debounce)
			if len(settled) == 0 {
				continue
			}
			w.logger.Debug("files changed", zap.Strings("paths", settled))
			if err := onChange(settled); err != nil {
				w.logger.Error("reload failed", zap.Error(err))
			}
		}
	}
}

// settledPaths removes and returns the pending paths quiet for at least d.
func settledPaths(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var settled []string
	for path, at := range pending {
		if now.Sub(at) >= d {
			settled = append(settled, path)
			delete(pending, path)
		}
	}
	slices.Sort(settled)
	return settled
}

// tickInterval polls a few times per debounce window, never below 1ms.
func tickInterval(debounce time.Duration) time.Duration {
	if d := debounce / 3; d >= time.Millisecond {
		return d
	}
	return time.Millisecond
}
