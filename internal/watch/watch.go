// package watch reloads the catalogue when the song order CSV changes on
// disk, so edits take effect without restarting the bridge.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a single file and invokes a callback after changes
// settle. Editors and spreadsheet apps write CSVs in several bursts, so
// events are debounced before the reload fires.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	logger   *log.Logger

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates a watcher for path. onChange runs on the watcher goroutine;
// it must be safe to call at any time.
func New(path string, debounce time.Duration, onChange func(), logger *log.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
}

// Start begins watching the file's directory. Watching the directory rather
// than the file survives the rename-and-replace saves most editors do.
func (w *Watcher) Start() error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(w.path)
	if err != nil {
		fsWatcher.Close()
		return err
	}

	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return err
	}

	w.fsWatcher = fsWatcher
	w.path = abs
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()

	w.logger.Info("watching catalogue file", "path", abs)
	return nil
}

// Stop shuts the watcher down and waits for the event goroutine to exit.
func (w *Watcher) Stop() {
	if w.fsWatcher == nil {
		return
	}
	close(w.done)
	w.wg.Wait()
	w.fsWatcher.Close()
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.logger.Info("catalogue file changed, reloading", "path", w.path)
			w.onChange()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// relevant filters directory events down to writes touching the watched
// file itself.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
