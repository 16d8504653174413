package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"librahub/internal/widget"
)

// FileSink writes each widget payload to a file read by native widget processes.
type FileSink struct {
	path   string
	logger *zap.Logger
}

// NewFileSink returns nil for an empty path: the host has no widget mechanism.
func NewFileSink(path string, logger *zap.Logger) *FileSink {
	if path == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSink{path: path, logger: logger.Named("widget-file")}
}

func (s *FileSink) Path() string {
	return s.path
}

// UpdateWidgets replaces the file atomically so readers never see a partial payload.
func (s *FileSink) UpdateWidgets(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure widget dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".widgets-*.json")
	if err != nil {
		return fmt.Errorf("create widget temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write widget payload: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync widget payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close widget payload: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace widget payload: %w", err)
	}
	s.logger.Debug("widget payload written", zap.String("path", s.path), zap.Int("bytes", len(payload)))
	return nil
}

// MultiSink fans a payload out to every sink.
type MultiSink []widget.Sink

// NewMultiSink drops nil sinks and returns nil when none remain.
func NewMultiSink(sinks ...widget.Sink) widget.Sink {
	var out MultiSink
	for _, sink := range sinks {
		if isNilSink(sink) {
			continue
		}
		out = append(out, sink)
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

func isNilSink(sink widget.Sink) bool {
	if sink == nil {
		return true
	}
	if fs, ok := sink.(*FileSink); ok && fs == nil {
		return true
	}
	return false
}

func (m MultiSink) UpdateWidgets(ctx context.Context, payload []byte) error {
	var errs []error
	for _, sink := range m {
		if err := sink.UpdateWidgets(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
