package sync

import (
	"go-pipeline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	Controller *SyncController
}

func NewSyncApi(controller *SyncController) *SyncApi {
	return &SyncApi{
		Controller: controller,
	}
}

func (h *SyncApi) Setup(app *fiber.App) {
	group := app.Group("/api", middleware.AuthMiddleware())

	group.Get("/data", h.Controller.GetData)
	group.Post("/data/refresh", h.Controller.Refresh)
	group.Get("/pipeline", h.Controller.GetPipeline)
	group.Get("/last-actions", h.Controller.GetLastActions)
	group.Get("/reminders", h.Controller.GetReminders)
}
