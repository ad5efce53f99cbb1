package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce is how long the file must stay quiet before it is reloaded.
// Editors often write a file in several steps.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a tuning file whenever it changes on disk. Valid tunings
// are sent on Updates, load and watch failures on Errors.
type Watcher struct {
	Updates chan Tuning
	Errors  chan error

	path    string
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching path. The parent directory is watched so that
// files replaced by rename are still picked up.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	w := &Watcher{
		Updates: make(chan Tuning, 4),
		Errors:  make(chan error, 4),
		path:    abs,
		watcher: fw,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Updates and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			timer.Reset(reloadDebounce)

		case <-timer.C:
			t, err := LoadTuning(w.path)
			if err != nil {
				w.sendErr(err)
				continue
			}
			w.sendTuning(t)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(fmt.Errorf("config: watch %s: %w", w.path, err))

		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.Errors <- err:
	case <-w.closeCh:
	}
}

func (w *Watcher) sendTuning(t Tuning) {
	select {
	case w.Updates <- t:
	case <-w.closeCh:
	}
}
