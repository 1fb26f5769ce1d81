package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldTrigger(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "petstore.yaml")

	fw, err := NewFileWatcher([]string{schema}, func(context.Context, string) {})
	require.NoError(t, err)
	defer fw.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to watched file", fsnotify.Event{Name: schema, Op: fsnotify.Write}, true},
		{"create of watched file", fsnotify.Event{Name: schema, Op: fsnotify.Create}, true},
		{"rename of watched file", fsnotify.Event{Name: schema, Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: schema, Op: fsnotify.Chmod}, false},
		{"sibling file", fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}, false},
		{"editor swap file", fsnotify.Event{Name: schema + ".swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Test: Only content changes of watched files trigger
			assert.Equal(t, tt.want, fw.shouldTrigger(tt.event))
		})
	}
}

func TestFileWatcher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Test: A burst of writes to the watched file runs onChange once, siblings are ignored
	dir := t.TempDir()
	schema := filepath.Join(dir, "petstore.yaml")
	require.NoError(t, os.WriteFile(schema, []byte("models: []\n"), 0644))

	var mu sync.Mutex
	var calls []string
	fw, err := NewFileWatcher([]string{schema}, func(_ context.Context, path string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, path)
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := make(chan error, 1)
	go func() {
		errChan <- fw.Start(ctx)
	}()
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(schema, []byte("models: []\n"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) >= 1
	}, 2*time.Second, 20*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	assert.Len(t, calls, 1)
	assert.Equal(t, filepath.Base(schema), filepath.Base(calls[0]))
	mu.Unlock()

	cancel()
	assert.ErrorIs(t, <-errChan, context.Canceled)
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	// Test: Watching a file in a missing directory fails up front
	_, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "missing", "schema.yaml")}, func(context.Context, string) {})
	assert.Error(t, err)
}

func TestFileWatcher_Close(t *testing.T) {
	fw, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "schema.yaml")}, func(context.Context, string) {})
	require.NoError(t, err)

	// Test: Close should not error
	assert.NoError(t, fw.Close())

	// Test: Double close should also be safe
	assert.NoError(t, fw.Close())

	// Test: Start after close reports the closed watcher
	assert.ErrorIs(t, fw.Start(context.Background()), ErrWatcherClosed)
}
