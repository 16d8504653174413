// Package inbox adds HTML files dropped into a watched directory as user tools.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"librahub/internal/domain"
	"librahub/internal/infra/telemetry"
)

const defaultDebounce = 200 * time.Millisecond

// Adder receives each dropped file.
type Adder interface {
	AddTool(ctx context.Context, input domain.FileInput) (domain.Tool, error)
}

type Watcher struct {
	dir      string
	adder    Adder
	logger   *zap.Logger
	debounce time.Duration
}

func NewWatcher(dir string, adder Adder, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		dir:      dir,
		adder:    adder,
		logger:   logger.Named("inbox"),
		debounce: defaultDebounce,
	}
}

// Run watches the directory until ctx is cancelled. Files that change again
// within the debounce window are added once.
func (w *Watcher) Run(ctx context.Context) error {
	if strings.TrimSpace(w.dir) == "" {
		return errors.New("inbox directory is required")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("ensure inbox dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create inbox watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch inbox dir: %w", err)
	}
	w.logger.Info("watching inbox", zap.String(telemetry.FieldPath, w.dir))

	pending := make(map[string]struct{})
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				w.logger.Warn("inbox watcher error", zap.Error(err))
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isToolEvent(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timerChan(timer):
			timer = nil
			w.flush(ctx, pending)
			pending = make(map[string]struct{})
		}
	}
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := w.addFile(ctx, path); err != nil {
			w.logger.Warn("inbox add failed", zap.String(telemetry.FieldPath, path), zap.Error(err))
		}
	}
}

func (w *Watcher) addFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer file.Close()

	tool, err := w.adder.AddTool(ctx, domain.FileInput{
		Name:      filepath.Base(path),
		MediaType: domain.HTMLMediaType,
		Reader:    file,
	})
	if err != nil {
		return err
	}
	w.logger.Info("inbox file added",
		zap.String(telemetry.FieldPath, path),
		telemetry.ToolIDField(tool.ID),
		telemetry.ToolNameField(tool.Name),
	)
	return nil
}

func isToolEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".html" || ext == ".htm"
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
