package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// DefaultDebounce is the quiet period after the last inbox event before a scan.
const DefaultDebounce = 250 * time.Millisecond

// BatchHandler receives files that appeared in the inbox since the last scan.
type BatchHandler func(ctx context.Context, files []domain.File)

// InboxWatcher watches an inbox directory and hands new files to a handler.
// A file is handed over once; writing to it again makes it eligible for the
// next scan, as does removing and re-creating it.
type InboxWatcher struct {
	dir      string
	source   ports.FileSource
	debounce time.Duration
	handler  BatchHandler
	logger   ports.Logger

	// seen is only touched from the Run goroutine.
	seen map[string]struct{}
}

// NewInboxWatcher creates a watcher for dir. Files are listed through source.
func NewInboxWatcher(dir string, source ports.FileSource, debounce time.Duration, handler BatchHandler, logger ports.Logger) *InboxWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &InboxWatcher{
		dir:      dir,
		source:   source,
		debounce: debounce,
		handler:  handler,
		logger:   orDiscard(logger),
		seen:     make(map[string]struct{}),
	}
}

// Run scans the inbox once, then rescans after every burst of changes.
// It blocks until ctx is cancelled and returns nil in that case.
func (w *InboxWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.logger.Info("watching inbox",
		ports.String("dir", w.dir),
		ports.Duration("debounce", w.debounce),
	)

	w.scan(ctx)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.track(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timerC:
			w.scan(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watcher error", ports.Err(err))
		}
	}
}

// track updates the seen set for event and reports whether a scan is due.
func (w *InboxWatcher) track(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(w.seen, name)
		return false
	case event.Op&fsnotify.Write != 0:
		delete(w.seen, name)
		return true
	case event.Op&fsnotify.Create != 0:
		return true
	default:
		return false
	}
}

// scan lists the inbox and hands over files not handled before.
func (w *InboxWatcher) scan(ctx context.Context) {
	files, err := w.source.List(ctx)
	if err != nil {
		w.logger.Error("list inbox", ports.Err(err))
		return
	}

	fresh := make([]domain.File, 0, len(files))
	for _, f := range files {
		if _, ok := w.seen[f.Name]; ok {
			continue
		}
		w.seen[f.Name] = struct{}{}
		fresh = append(fresh, f)
	}
	if len(fresh) == 0 {
		return
	}

	w.logger.Debug("inbox scan", ports.Int("new_files", len(fresh)))
	w.handler(ctx, fresh)
}
