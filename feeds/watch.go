package feeds

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/Miuzarte/StatsHUD/counter"
)

const WATCH_BUFFER = 256

// countedOps excludes chmod, editors touch it constantly.
const countedOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

type watch struct {
	path    string
	watcher *fsnotify.Watcher
	events  int
	closed  bool // event channel closed by fsnotify
}

// Watch counts filesystem events under paths, one watcher per open feed.
// The marker is the path to watch, it is meant for the FileIO category.
// Events are drained on Read so nothing runs between two samples.
type Watch struct {
	mu      sync.Mutex
	next    counter.Handle
	watches map[counter.Handle]*watch
}

func NewWatch() *Watch {
	return &Watch{watches: make(map[counter.Handle]*watch)}
}

func (w *Watch) Open(_ counter.Category, path string) (counter.Handle, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("watch %q: %w", path, err)
	}

	watcher, err := fsnotify.NewBufferedWatcher(WATCH_BUFFER)
	if err != nil {
		return 0, fmt.Errorf("failed to create watcher: %w", err)
	}
	err = watcher.Add(path)
	if err != nil {
		watcher.Close()
		return 0, fmt.Errorf("watch %q: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.next++
	w.watches[w.next] = &watch{path: path, watcher: watcher}
	return w.next, nil
}

func (w *Watch) Read(h counter.Handle) (float64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wt, ok := w.watches[h]
	if !ok || wt.closed {
		return 0, false
	}
	for {
		select {
		case event, ok := <-wt.watcher.Events:
			if !ok {
				wt.closed = true
				return 0, false
			}
			if event.Op&countedOps != 0 {
				wt.events++
			}

		case err, ok := <-wt.watcher.Errors:
			if !ok {
				wt.closed = true
				return 0, false
			}
			log.Warn().Str("path", wt.path).Err(err).Msg("fsnotify error")

		default:
			return float64(wt.events), true
		}
	}
}

func (w *Watch) Close(h counter.Handle) error {
	w.mu.Lock()
	wt, ok := w.watches[h]
	delete(w.watches, h)
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("watch handle %d: %w", h, counter.ErrClosed)
	}
	return wt.watcher.Close()
}

func (w *Watch) OpenHandles() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watches)
}
