package auth

import (
	"go-pipeline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
}

func NewAuthApi(controller *AuthController) *AuthApi {
	return &AuthApi{
		controller: controller,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	// Public routes
	app.Post("/api/auth/login", h.controller.Login)
	app.Get("/api/auth/login-lists", h.controller.GetLoginLists)

	// Session routes
	session := app.Group("/api/auth", middleware.AuthMiddleware())
	session.Post("/logout", h.controller.Logout)
	session.Get("/primary-salesperson", h.controller.GetPrimarySalesPerson)

	// Admin-only user management
	admin := app.Group("/api/users", middleware.AuthMiddleware(), middleware.RequireAdmin())
	admin.Get("/", h.controller.ListUsers)
	admin.Post("/", h.controller.AddUser)
	admin.Put("/", h.controller.UpdateUser)
	admin.Delete("/:userRow", h.controller.DeleteUser)
}
