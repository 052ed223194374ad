// Package filewatch feeds a plain-text display file into the inbox.
// Writing two lines to the file is equivalent to sending them as a
// datagram; scripts that cannot open a socket just write the file.
package filewatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/internal/ports"
)

const (
	// staleAfter is how old the file may be at startup and still be
	// submitted. Events always refer to a fresh write.
	staleAfter = 60 * time.Second

	// debounceDelay coalesces the burst of events an editor or
	// redirect produces for one logical write.
	debounceDelay = 100 * time.Millisecond
)

// Watcher monitors one display file and submits its contents to the
// message sink whenever it is written.
type Watcher struct {
	path   string
	sink   ports.MessageSink
	logger ports.Logger
	now    func() time.Time

	mu       sync.Mutex
	debounce *time.Timer
	wg       sync.WaitGroup
}

// New creates a watcher for the given display file. The file does not
// have to exist yet; its directory is watched so later creation counts.
func New(path string, sink ports.MessageSink, logger ports.Logger) *Watcher {
	return &Watcher{
		path:   path,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Run watches the display file until the context is cancelled. A file
// already present and recently written at startup is submitted once
// before watching begins.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.submitIfFresh()

	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleSubmit()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watch error", ports.Err(err))
		}
	}
}

// scheduleSubmit (re)arms the debounce timer for one submission.
func (w *Watcher) scheduleSubmit() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil && w.debounce.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.debounce = time.AfterFunc(debounceDelay, func() {
		defer w.wg.Done()
		w.submit()
	})
}

func (w *Watcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil && w.debounce.Stop() {
		w.wg.Done()
	}
}

// submitIfFresh submits the file found at startup unless it predates
// the staleness cutoff, so a forgotten file from last week does not
// take over the display.
func (w *Watcher) submitIfFresh() {
	info, err := os.Stat(w.path)
	if err != nil {
		return
	}
	if w.now().Sub(info.ModTime()) > staleAfter {
		w.logger.Debug("ignoring stale display file", ports.String("path", w.path))
		return
	}
	w.submit()
}

func (w *Watcher) submit() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// The file may have been removed between event and read.
		w.logger.Debug("display file read failed", ports.Err(err))
		return
	}
	line1, line2, ok := domain.ParseDatagram(data, domain.MaxLineLength)
	if !ok {
		return
	}
	w.logger.Debug("display file accepted", ports.String("path", w.path))
	w.sink.Submit(line1, line2, w.now())
}
