package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/okra-platform/typespec-go/internal/watch"
)

// FileWatcher runs until its context is cancelled.
type FileWatcher interface {
	Start(ctx context.Context) error
	Close() error
}

// WatcherFactory creates a watcher that calls onChange for changes to files.
type WatcherFactory func(files []string, onChange func(ctx context.Context, path string)) (FileWatcher, error)

// WatchDependencies for the watch command
type WatchDependencies struct {
	Generator      *GenerateCommand
	NewWatcher     WatcherFactory
	SignalNotifier SignalNotifier
	Output         Output
	Logger         zerolog.Logger
}

// WatchCommand re-runs the whole generation pass whenever the input changes.
type WatchCommand struct {
	deps WatchDependencies
}

// NewWatchCommand creates a new watch command with default dependencies
func NewWatchCommand(logger zerolog.Logger) *WatchCommand {
	return &WatchCommand{
		deps: WatchDependencies{
			Generator: NewGenerateCommand(logger),
			NewWatcher: func(files []string, onChange func(ctx context.Context, path string)) (FileWatcher, error) {
				return watch.NewFileWatcher(files, onChange, watch.WithLogger(logger))
			},
			SignalNotifier: &defaultSignalNotifier{},
			Output:         &defaultOutput{},
			Logger:         logger,
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (wc *WatchCommand) WithDependencies(deps WatchDependencies) *WatchCommand {
	wc.deps = deps
	return wc
}

// Execute runs an initial pass, then one pass per change until interrupted.
// Failed passes are reported and watching continues.
func (wc *WatchCommand) Execute(ctx context.Context, opts GenerateOptions) error {
	if opts.Input == "" {
		return ErrMissingInput
	}
	out := wc.deps.Output

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	wc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer wc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			out.Println("\n👋 Stopping watch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	watcher, err := wc.deps.NewWatcher([]string{opts.Input}, func(ctx context.Context, path string) {
		out.Printf("🔄 %s changed, regenerating\n", path)
		wc.pass(ctx, opts)
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.Input, err)
	}
	defer watcher.Close()

	wc.pass(ctx, opts)
	out.Printf("👀 Watching %s for changes\n", opts.Input)

	if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

func (wc *WatchCommand) pass(ctx context.Context, opts GenerateOptions) {
	if err := wc.deps.Generator.Execute(ctx, opts); err != nil {
		wc.deps.Logger.Error().Err(err).Str("input", opts.Input).Msg("generation failed")
		wc.deps.Output.Printf("❌ %v\n", err)
	}
}
