package mutation

import (
	"errors"
	"strconv"

	"go-pipeline/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MutationController struct {
	Service MutationService
}

func NewMutationController(service MutationService) *MutationController {
	return &MutationController{
		Service: service,
	}
}

func (ctrl *MutationController) CreateLead(c *fiber.Ctx) error {
	var draft models.LeadDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	leadNo, err := ctrl.Service.CreateLead(c.Context(), draft)
	if err != nil {
		return mutationErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Lead created successfully",
		"data":    fiber.Map{"leadNo": leadNo},
	})
}

func (ctrl *MutationController) AddPerson(c *fiber.Ctx) error {
	contactID, err := parseContactID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact id",
		})
	}

	var person models.PersonFields
	if err := c.BodyParser(&person); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.AddPerson(c.Context(), contactID, person); err != nil {
		return mutationErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Person added successfully",
	})
}

func (ctrl *MutationController) EditPerson(c *fiber.Ctx) error {
	contactID, err := parseContactID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact id",
		})
	}

	var updated models.Contact
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	updated.ID = contactID

	if err := ctrl.Service.EditPerson(c.Context(), updated); err != nil {
		return mutationErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Contact updated successfully",
	})
}

func (ctrl *MutationController) EditCompany(c *fiber.Ctx) error {
	leadNo := c.Params("leadNo")

	var company models.CompanyFields
	if err := c.BodyParser(&company); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.EditCompany(c.Context(), leadNo, company); err != nil {
		return mutationErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Company updated successfully",
	})
}

func (ctrl *MutationController) ChangeStatus(c *fiber.Ctx) error {
	contactID, err := parseContactID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact id",
		})
	}

	var req StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.ChangeStatus(c.Context(), contactID, req.Status); err != nil {
		return mutationErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Status updated successfully",
	})
}

func (ctrl *MutationController) SaveFollowUp(c *fiber.Ctx) error {
	contactID, err := parseContactID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact id",
		})
	}

	var req FollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Action is required",
		})
	}
	if req.Details == "" {
		req.Details = "Quick Action: " + req.Action
	}

	if err := ctrl.Service.SaveFollowUp(c.Context(), contactID, req.Action, req.Details, req.FollowUpInput); err != nil {
		return mutationErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Follow-up saved successfully",
	})
}

func (ctrl *MutationController) LogSocialClick(c *fiber.Ctx) error {
	contactID, err := parseContactID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact id",
		})
	}

	var req SocialClickRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.LogSocialClick(c.Context(), contactID, req.Action, req.Details); err != nil {
		return mutationErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Action logged successfully",
	})
}

func (ctrl *MutationController) DeletePerson(c *fiber.Ctx) error {
	contactID, err := parseContactID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact id",
		})
	}

	if err := ctrl.Service.DeletePerson(c.Context(), contactID); err != nil {
		return mutationErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Contact deleted successfully",
	})
}

func parseContactID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// mutationErrorResponse surfaces every mutation failure to the caller: the
// user just took an action, so there is no silent-degrade mode here.
func mutationErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotLoggedIn):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrContactNotFound), errors.Is(err, ErrLeadNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
}
