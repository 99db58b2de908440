package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/plyview/internal/config"
	"github.com/Faultbox/plyview/internal/logger"
)

// cmdWatch prints a geometry summary now and after every change to path,
// until ctx is cancelled. The parent directory is watched because many
// editors replace files instead of writing them in place.
func cmdWatch(ctx context.Context, cfg *config.Config, path string, w io.Writer) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	refresh := func() {
		runID := uuid.New()
		s, err := summarize(cfg, path)
		if err != nil {
			logger.Warn("decode failed", zap.Stringer("run", runID), zap.Error(err))
			return
		}
		logger.Info("decoded",
			zap.Stringer("run", runID),
			zap.String("path", path),
			zap.Int("vertices", s.Vertices))
		if err := emitSummary(cfg, s, w); err != nil {
			logger.Error("writing summary", zap.Error(err))
		}
	}

	refresh()

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("file changed", zap.String("op", ev.Op.String()))
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			refresh()
		}
	}
}
