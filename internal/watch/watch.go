// Package watch re-runs the harness when task files change.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wwwwwert/AlgorithmTesting/internal/core"
)

// debounceWindow collapses editor save bursts into one re-run.
const debounceWindow = 300 * time.Millisecond

// Run invokes runOnce, then blocks watching the task directory and invokes
// it again after every debounced change to the source, the checker or the
// tests. It returns when ctx is cancelled.
func Run(ctx context.Context, taskDir string, runOnce func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTargets(watcher, taskDir); err != nil {
		return err
	}

	runOnce()

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// New case directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				pending = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		case <-pending:
			timer = nil
			pending = nil
			runOnce()
		}
	}
}

// addTargets watches the task dir, the tests dir and every case directory.
func addTargets(watcher *fsnotify.Watcher, taskDir string) error {
	if err := watcher.Add(taskDir); err != nil {
		return fmt.Errorf("watch %s: %w", taskDir, err)
	}
	testsDir := filepath.Join(taskDir, core.TestsDir)
	entries, err := os.ReadDir(testsDir)
	if err != nil {
		// No tests yet; the task dir watch will see them appear.
		return nil
	}
	if err := watcher.Add(testsDir); err != nil {
		return fmt.Errorf("watch %s: %w", testsDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := watcher.Add(filepath.Join(testsDir, entry.Name())); err != nil {
			return fmt.Errorf("watch %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// relevant drops events for the artifact the harness writes itself; reacting
// to those would re-trigger forever after every compile.
func relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) == core.ArtifactFile {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}
