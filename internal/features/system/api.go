package system

import (
	"go-pipeline/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type SystemApi struct {
	WebSocket *WebSocketController
	Debug     *DebugController
}

func NewSystemApi(ws *WebSocketController, debug *DebugController) *SystemApi {
	return &SystemApi{
		WebSocket: ws,
		Debug:     debug,
	}
}

func (h *SystemApi) Setup(app *fiber.App) {
	app.Get("/api/ws", websocket.New(h.WebSocket.HandleSnapshotFeed))
	app.Get("/api/system/logs", middleware.AuthMiddleware(), h.Debug.GetLogs)
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
