package system

import (
	"go-pipeline/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct {
	Ring *logger.RingWriter
}

func NewDebugController(ring *logger.RingWriter) *DebugController {
	return &DebugController{
		Ring: ring,
	}
}

// GetLogs returns the most recent log entries, oldest first.
func (ctrl *DebugController) GetLogs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": ctrl.Ring.Recent(),
	})
}
