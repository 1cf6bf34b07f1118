package mutation

import (
	"go-pipeline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MutationApi struct {
	Controller *MutationController
}

func NewMutationApi(controller *MutationController) *MutationApi {
	return &MutationApi{
		Controller: controller,
	}
}

func (h *MutationApi) Setup(app *fiber.App) {
	group := app.Group("/api", middleware.AuthMiddleware())

	group.Post("/leads", h.Controller.CreateLead)
	group.Put("/leads/:leadNo/company", h.Controller.EditCompany)
	group.Post("/contacts/:id/persons", h.Controller.AddPerson)
	group.Put("/contacts/:id", h.Controller.EditPerson)
	group.Patch("/contacts/:id/status", h.Controller.ChangeStatus)
	group.Post("/contacts/:id/follow-up", h.Controller.SaveFollowUp)
	group.Post("/contacts/:id/social-click", h.Controller.LogSocialClick)
	group.Delete("/contacts/:id", h.Controller.DeletePerson)
}
