// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package watch reports changes to the contents of a file.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is the time a file must be quiet before its contents are
// reported, if Options.Settle is zero.
const DefaultSettle = 100 * time.Millisecond

// Options are optional settings for File. A nil *Options provides defaults.
type Options struct {
	// Settle is how long to wait after the last change to the file before
	// reading it, so that a burst of writes is reported once.
	Settle time.Duration

	// Logger, if non-nil, receives logs of watcher activity.
	Logger *zap.Logger
}

func (o *Options) settle() time.Duration {
	if o == nil || o.Settle <= 0 {
		return DefaultSettle
	}
	return o.Settle
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// File watches the file at path and calls f with its contents each time they
// change, until ctx ends. It does not report the contents at the time File
// is called. Errors reading the file after a change are logged and skipped,
// since the file may be replaced in several steps.
//
// File returns nil when ctx ends, or an error if the watch cannot be set up.
func File(ctx context.Context, path string, opts *Options, f func(text string)) error {
	path = filepath.Clean(path)
	log := opts.logger().With(zap.String("path", path))

	last, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	// Watch the directory rather than the file, so that a file replaced by
	// renaming over it continues to be seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	settle := time.NewTimer(time.Hour)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			log.Debug("file changed", zap.Stringer("op", ev.Op))
			settle.Reset(opts.settle())

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))

		case <-settle.C:
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn("read failed", zap.Error(err))
				continue
			} else if string(data) == string(last) {
				continue
			}
			last = data
			f(string(data))
		}
	}
}
