package auth

import (
	"errors"
	"strconv"

	"go-pipeline/internal/middleware"
	"go-pipeline/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Service AuthService
}

func NewAuthController(service AuthService) *AuthController {
	return &AuthController{
		Service: service,
	}
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"` // store-side label, e.g. "Sales Person"
}

func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	token, role, err := ctrl.Service.Login(c.Context(), req.Name, req.Password, req.Role)
	if err != nil {
		status := fiber.StatusUnauthorized
		if errors.Is(err, ErrUnknownRole) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"name":  req.Name,
		"role":  role,
	})
}

func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	ctrl.Service.Logout()
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

func (ctrl *AuthController) GetLoginLists(c *fiber.Ctx) error {
	lists, err := ctrl.Service.FetchLoginLists(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": lists})
}

func (ctrl *AuthController) GetPrimarySalesPerson(c *fiber.Ctx) error {
	claims, ok := middleware.SessionFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No session"})
	}
	if claims.Role != string(models.RoleIntern) {
		return c.JSON(fiber.Map{"data": ""})
	}
	return c.JSON(fiber.Map{"data": ctrl.Service.PrimarySalesPerson(claims.Name)})
}

func (ctrl *AuthController) ListUsers(c *fiber.Ctx) error {
	users, err := ctrl.Service.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": users})
}

func (ctrl *AuthController) AddUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := ctrl.Service.AddUser(c.Context(), user); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User added successfully",
	})
}

func (ctrl *AuthController) UpdateUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := ctrl.Service.UpdateUser(c.Context(), user); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
	})
}

func (ctrl *AuthController) DeleteUser(c *fiber.Ctx) error {
	userRow, err := strconv.Atoi(c.Params("userRow"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user row",
		})
	}
	if err := ctrl.Service.DeleteUser(c.Context(), userRow); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
