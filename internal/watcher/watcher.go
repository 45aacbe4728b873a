// Package watcher reports changes inside the directory being displayed.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/koompi/file-manager/internal/constants"
	"github.com/koompi/file-manager/internal/logging"
)

var errStopped = errors.New("watcher stopped")

// DirectoryWatcher follows a single directory and calls onChange once per
// burst of filesystem events.
type DirectoryWatcher struct {
	fsw        *fsnotify.Watcher
	debounce   time.Duration
	onChange   func()
	mu         sync.Mutex // protects path and stopped
	path       string
	stopChan   chan struct{}
	changeChan chan struct{} // detected changes waiting to be coalesced
	stopped    bool
	wg         sync.WaitGroup
	log        *zap.Logger
}

// NewDirectoryWatcher creates a watcher. It watches nothing until Watch is
// called. debounce <= 0 uses the default window.
func NewDirectoryWatcher(debounce time.Duration, onChange func()) (*DirectoryWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = constants.WatcherDebounce
	}
	dw := &DirectoryWatcher{
		fsw:        fsw,
		debounce:   debounce,
		onChange:   onChange,
		stopChan:   make(chan struct{}),
		changeChan: make(chan struct{}, constants.WatcherBufferSize),
		log:        logging.Named("watcher"),
	}

	dw.wg.Add(2)
	go dw.detect()
	go dw.coalesce()
	return dw, nil
}

// Watch replaces the watched directory with path.
func (dw *DirectoryWatcher) Watch(path string) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.stopped {
		return errStopped
	}
	path = filepath.Clean(path)
	if path == dw.path {
		return nil
	}
	if dw.path != "" {
		_ = dw.fsw.Remove(dw.path)
		dw.path = ""
	}
	if err := dw.fsw.Add(path); err != nil {
		return err
	}
	dw.path = path
	dw.log.Debug("watching", zap.String("path", path))
	return nil
}

// Path returns the watched directory, or "" when idle.
func (dw *DirectoryWatcher) Path() string {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.path
}

// Close stops the watcher. Further calls are no-ops.
func (dw *DirectoryWatcher) Close() error {
	dw.mu.Lock()
	if dw.stopped {
		dw.mu.Unlock()
		return nil
	}
	dw.stopped = true
	dw.path = ""
	close(dw.stopChan)
	dw.mu.Unlock()

	err := dw.fsw.Close()
	dw.wg.Wait()
	return err
}

// detect forwards relevant fsnotify events to changeChan.
func (dw *DirectoryWatcher) detect() {
	defer dw.wg.Done()
	for {
		select {
		case ev, ok := <-dw.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			select {
			case dw.changeChan <- struct{}{}:
			default:
				// a change is already pending
			}
		case err, ok := <-dw.fsw.Errors:
			if !ok {
				return
			}
			dw.log.Debug("watch error", zap.Error(err))
		case <-dw.stopChan:
			return
		}
	}
}

// coalesce calls onChange once the debounce window after the first
// pending change has passed.
func (dw *DirectoryWatcher) coalesce() {
	defer dw.wg.Done()
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-dw.changeChan:
			if timer == nil {
				timer = time.NewTimer(dw.debounce)
				fire = timer.C
			}
		case <-fire:
			timer, fire = nil, nil
			if dw.onChange != nil {
				dw.onChange()
			}
		case <-dw.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevant drops attribute-only events.
func relevant(ev fsnotify.Event) bool {
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
