package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watch reloads the catalog when a local file source changes on disk. Write
// bursts are debounced into a single reload. URL sources are not watchable
// and return immediately. Watch runs until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context) error {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the parent directory: editors often replace the file, which
	// drops a watch placed on the file itself.
	dir := filepath.Dir(l.source)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}
	l.logger.Debug("catalog watch started", zap.String("path", l.source))

	go l.runWatch(ctx, watcher)
	return nil
}

func (l *Loader) runWatch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var mu sync.Mutex
	var pending *time.Timer

	target, _ := filepath.Abs(l.source)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			abs, _ := filepath.Abs(ev.Name)
			if abs != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(defaultDebounce, func() {
				if err := l.Load(ctx); err != nil {
					l.logger.Warn("catalog reload failed", zap.Error(err))
				}
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				l.logger.Debug("catalog watch error", zap.Error(err))
			}
		}
	}
}
