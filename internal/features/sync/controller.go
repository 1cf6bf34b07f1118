package sync

import (
	"errors"
	"time"

	"go-pipeline/internal/features/projection"
	"go-pipeline/internal/middleware"
	"go-pipeline/internal/models"
	"go-pipeline/internal/remote"
	"go-pipeline/internal/state"

	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	Service SyncService
	State   *state.AppState
}

func NewSyncController(service SyncService, appState *state.AppState) *SyncController {
	return &SyncController{
		Service: service,
		State:   appState,
	}
}

// GetData runs a load (cache-then-refresh) and returns the published
// snapshot together with the derived views.
func (ctrl *SyncController) GetData(c *fiber.Ctx) error {
	showLoader := c.QueryBool("loader", true)

	result, err := ctrl.Service.Load(c.Context(), showLoader)
	if err != nil {
		return syncErrorResponse(c, err)
	}

	snapshot := ctrl.State.Snapshot()
	stages := projection.StageByLead(snapshot.FollowUpLogs)
	return c.JSON(fiber.Map{
		"data":    snapshot,
		"sync":    result,
		"version": ctrl.State.Version(),
		"stages":  stages,
	})
}

// Refresh forces a fetch regardless of cache state.
func (ctrl *SyncController) Refresh(c *fiber.Ctx) error {
	result, err := ctrl.Service.Load(c.Context(), false)
	if err != nil {
		return syncErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"sync":    result,
		"version": ctrl.State.Version(),
	})
}

// GetPipeline returns the derived stage per lead.
func (ctrl *SyncController) GetPipeline(c *fiber.Ctx) error {
	snapshot := ctrl.State.Snapshot()
	stages := projection.StageByLead(snapshot.FollowUpLogs)

	// Fill in the implicit Fresh stage for leads with no qualifying entry.
	seen := make(map[string]bool)
	for _, contact := range snapshot.Contacts {
		if contact.LeadNo != "" && !seen[contact.LeadNo] {
			seen[contact.LeadNo] = true
			if _, ok := stages[contact.LeadNo]; !ok {
				stages[contact.LeadNo] = models.StageFresh
			}
		}
	}
	return c.JSON(fiber.Map{"data": stages})
}

// GetReminders returns the overdue/upcoming follow-up lists for the
// logged-in user.
func (ctrl *SyncController) GetReminders(c *fiber.Ctx) error {
	claims, ok := middleware.SessionFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No session"})
	}
	snapshot := ctrl.State.Snapshot()
	lists := projection.Reminders(snapshot.Contacts, claims.Name, models.Role(claims.Role), time.Now())
	return c.JSON(fiber.Map{"data": lists})
}

// GetLastActions returns the latest log entry per lead.
func (ctrl *SyncController) GetLastActions(c *fiber.Ctx) error {
	snapshot := ctrl.State.Snapshot()
	return c.JSON(fiber.Map{"data": projection.LastActionByLead(snapshot.FollowUpLogs)})
}

func syncErrorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	if errors.Is(err, remote.ErrNotConfigured) {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
