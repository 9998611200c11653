/*
DESCRIPTION
  watch.go provides Watch, which reports changes to a settings file.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the bursts of events produced by a single save.
const debounce = 200 * time.Millisecond

// Watch calls onChange each time the file at path is written, created or
// renamed into place, until ctx is cancelled. The parent directory is watched
// rather than the file itself so that atomic replacement is seen.
func Watch(ctx context.Context, path string, l logging.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return fmt.Errorf("could not resolve settings path: %w", err)
	}
	err = w.Add(filepath.Dir(abs))
	if err != nil {
		w.Close()
		return fmt.Errorf("could not watch settings dir: %w", err)
	}

	go func() {
		defer w.Close()
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					fire = time.After(debounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.Warning("settings watcher error", "error", err)
			case <-fire:
				fire = nil
				l.Info("settings file changed", "path", abs)
				onChange()
			}
		}
	}()
	return nil
}
