package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
)

// scriptWatcher re-runs one script whenever it changes on disk.
type scriptWatcher struct {
	watcher  *fsnotify.Watcher
	path     string // absolute
	debounce time.Duration
	rerun    func()
	stdout   io.Writer
	stderr   io.Writer
}

func newScriptWatcher(path string, debounce time.Duration, rerun func(), stdout, stderr io.Writer) (*scriptWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &scriptWatcher{
		watcher:  fsWatcher,
		path:     absPath,
		debounce: debounce,
		rerun:    rerun,
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

// Run watches the script's directory, so editors that save by renaming are
// still seen, and blocks until ctx is done.
func (w *scriptWatcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logInfo("watching %s", w.path)

	w.rerun()

	// Trailing debounce: run once the file has been quiet for w.debounce
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logInfo("changed: %s", w.path)
			w.rerun()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logError("watcher error: %v", err)
		}
	}
}

// Close stops the watcher
func (w *scriptWatcher) Close() error {
	return w.watcher.Close()
}

func (w *scriptWatcher) logInfo(format string, args ...any) {
	fmt.Fprintf(w.stdout, "[WATCH] "+format+"\n", args...)
}

func (w *scriptWatcher) logError(format string, args ...any) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+format+"\n", args...)
}

// watchFile runs filename now and again after every change. Script errors
// are reported and watching continues.
func watchFile(ctx context.Context, filename string, debounce time.Duration, opts []monkey.Option, printResult bool, stdout, stderr io.Writer, diag *reporter) error {
	rerun := func() {
		// Errors are already reported; keep watching
		_ = executeFile(filename, opts, printResult, stdout, diag)
	}

	w, err := newScriptWatcher(filename, debounce, rerun, stdout, stderr)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx)
}
