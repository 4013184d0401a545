package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/scope-mapper/constants"
)

type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // if true, emit surveys already on disk
	Debounce    time.Duration // coalesce rapid write bursts per survey
}

// StartWatcher emits a survey directory each time its scope.txt or ocr.json is
// created or written. Both channels close when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		logger.Error("watcher start failed: no roots provided")
		return nil, nil, errors.New("no roots provided")
	}
	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}

	addDir := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path != root && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && d.Name() == constants.ScopeFileName {
				select {
				case evCh <- filepath.Dir(path):
				default:
					logger.Warn("watcher backlog full, dropping initial survey", "dir", filepath.Dir(path))
				}
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r); err != nil {
			logger.Error("failed to add root directory", "root", r, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("failed to close watcher", "error", err)
			}
		}()

		pending := map[string]struct{}{}
		timer := time.NewTimer(time.Hour)
		timer.Stop()

		flush := func() {
			for dir := range pending {
				select {
				case evCh <- dir:
				default:
					logger.Warn("watcher backlog full, dropping survey", "dir", dir)
				}
				delete(pending, dir)
			}
		}

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op&fsnotify.Create == fsnotify.Create && !IsHidden(e.Name) {
					// New survey folders need their own watch; plain files fail Add and are ignored.
					_ = w.Add(e.Name)
				}
				if !isSurveyFile(e.Name) || e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				pending[filepath.Dir(e.Name)] = struct{}{}
				if cfg.Debounce > 0 {
					timer.Reset(cfg.Debounce)
				} else {
					flush()
				}
			case <-timer.C:
				flush()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

func isSurveyFile(path string) bool {
	switch filepath.Base(path) {
	case constants.ScopeFileName, constants.OCRFileName:
		return true
	}
	return false
}
