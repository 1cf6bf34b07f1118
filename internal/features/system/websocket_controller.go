package system

import (
	"go-pipeline/internal/state"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type WebSocketController struct {
	State  *state.AppState
	Logger *zap.Logger
}

func NewWebSocketController(appState *state.AppState, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		State:  appState,
		Logger: logger,
	}
}

// HandleSnapshotFeed pushes the snapshot version to the client whenever the
// published snapshot changes. The client re-fetches /api/data when the
// version moves; the feed itself never carries data.
func (h *WebSocketController) HandleSnapshotFeed(c *websocket.Conn) {
	sub := h.State.Subscribe()
	defer h.State.Unsubscribe(sub)

	if err := c.WriteJSON(map[string]uint64{"version": h.State.Version()}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case version, ok := <-sub:
			if !ok {
				return
			}
			if err := c.WriteJSON(map[string]uint64{"version": version}); err != nil {
				h.Logger.Debug("snapshot feed write failed", zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
