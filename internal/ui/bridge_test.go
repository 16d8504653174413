package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"librahub/internal/domain"
)

func TestWailsBridgeWithoutApp(t *testing.T) {
	bridge := NewWailsBridge(nil)

	bridge.RenderCatalog([]domain.Tool{{ID: "libraleads"}})
	bridge.ShowTool(domain.ToolView{ToolID: "libraleads"})
	bridge.ShowCatalog()
	bridge.Status(domain.StatusError, "oops")
	bridge.RequestFile(domain.FilePurposeAdd, "")
	require.NoError(t, bridge.UpdateWidgets(context.Background(), []byte("{}")))
}

func TestWailsBridgeUpdateWidgetsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWailsBridge(nil).UpdateWidgets(ctx, []byte("{}"))
	require.ErrorIs(t, err, context.Canceled)
}
