package report

import (
	"go-pipeline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	Controller *ReportController
}

func NewReportApi(controller *ReportController) *ReportApi {
	return &ReportApi{
		Controller: controller,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	app.Get("/api/export", middleware.AuthMiddleware(), h.Controller.Export)
}
