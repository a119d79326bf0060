package kb

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/logger"
)

// Watcher reloads the knowledge base when a source file changes. Reloads
// are rate-limited so editor save storms trigger one rebuild, not dozens.
type Watcher struct {
	kb       *KnowledgeBase
	limiter  *rate.Limiter
	onReload func()
}

// NewWatcher builds a watcher over the knowledge base's source files.
// debounce is the minimum interval between reloads; onReload, if non-nil,
// runs after each successful reload.
func NewWatcher(kb *KnowledgeBase, debounce time.Duration, onReload func()) *Watcher {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		kb:       kb,
		limiter:  rate.NewLimiter(rate.Every(debounce), 1),
		onReload: onReload,
	}
}

// Run watches until the context is cancelled. Watches are registered on
// the containing directories because editors typically replace files by
// rename, which drops a watch registered on the file itself.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer fw.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range w.kb.Paths() {
		watched[filepath.Clean(path)] = true
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
	}
	logger.WatchInfow("Watching knowledge base", "kb", w.kb.Name(), "dirs", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.limiter.Allow() {
				continue
			}
			logger.WatchInfow("Knowledge base changed, reloading", "file", event.Name)
			if err := w.kb.Reload(); err != nil {
				logger.RunWarnw("Reload failed", "error", err)
				continue
			}
			if w.onReload != nil {
				w.onReload()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.RunWarnw("Watcher error", "error", err)
		}
	}
}
