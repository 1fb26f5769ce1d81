// Package watch re-runs a callback whenever one of a fixed set of files
// changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

var ErrWatcherClosed = errors.New("watcher closed")

// FileWatcher watches individual files. Their parent directories are watched
// so that files replaced by rename on save keep triggering.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	onChange func(ctx context.Context, path string)
	logger   zerolog.Logger
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(fw *FileWatcher) {
		fw.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(fw *FileWatcher) {
		fw.logger = logger
	}
}

// NewFileWatcher creates a watcher for files. onChange runs on the Start
// goroutine, so a slow callback delays later events instead of overlapping.
func NewFileWatcher(files []string, onChange func(ctx context.Context, path string), opts ...Option) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]bool, len(files)),
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(fw)
	}
	fw.logger = fw.logger.With().Str("component", "watch").Logger()

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		fw.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	return fw, nil
}

// Start blocks until ctx is done or the watcher is closed.
func (fw *FileWatcher) Start(ctx context.Context) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !fw.shouldTrigger(event) {
				continue
			}
			fw.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fw.onChange(ctx, pending)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			fw.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// shouldTrigger reports whether the event changes the content of a watched file.
func (fw *FileWatcher) shouldTrigger(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !fw.files[abs] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
