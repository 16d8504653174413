package inbox

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librahub/internal/domain"
)

type recordingAdder struct {
	mu     sync.Mutex
	inputs []domain.FileInput
	bodies []string
}

func (r *recordingAdder) AddTool(_ context.Context, input domain.FileInput) (domain.Tool, error) {
	body, err := io.ReadAll(input.Reader)
	if err != nil {
		return domain.Tool{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, input)
	r.bodies = append(r.bodies, string(body))
	return domain.Tool{ID: "tool_test", Name: input.Name}, nil
}

func (r *recordingAdder) snapshot() ([]domain.FileInput, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.FileInput(nil), r.inputs...), append([]string(nil), r.bodies...)
}

func TestWatcherAddsDroppedHTMLFiles(t *testing.T) {
	dir := t.TempDir()
	adder := &recordingAdder{}
	watcher := NewWatcher(dir, adder, zap.NewNop())
	watcher.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- watcher.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "planner.html"), []byte("<title>Planner</title>"), 0o600))

	require.Eventually(t, func() bool {
		inputs, _ := adder.snapshot()
		return len(inputs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	inputs, bodies := adder.snapshot()
	assert.Equal(t, "planner.html", inputs[0].Name)
	assert.Equal(t, domain.HTMLMediaType, inputs[0].MediaType)
	assert.Equal(t, "<title>Planner</title>", bodies[0])

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherRequiresDir(t *testing.T) {
	err := NewWatcher("", &recordingAdder{}, nil).Run(context.Background())
	require.Error(t, err)
}

func TestIsToolEvent(t *testing.T) {
	assert.True(t, isToolEvent(fsnotify.Event{Name: "a.html", Op: fsnotify.Create}))
	assert.True(t, isToolEvent(fsnotify.Event{Name: "a.HTM", Op: fsnotify.Write}))
	assert.False(t, isToolEvent(fsnotify.Event{Name: "a.html", Op: fsnotify.Remove}))
	assert.False(t, isToolEvent(fsnotify.Event{Name: "a.txt", Op: fsnotify.Create}))
}
