package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TuanPhamVN/CloudSentry/internal/pkg/syncengine"
)

// SyncController exposes sweep health and the manual sweep trigger.
type SyncController struct {
	engine *syncengine.Engine
}

func NewSyncController(engine *syncengine.Engine) *SyncController {
	return &SyncController{engine: engine}
}

// HandleStatus reports accumulated sweep counters from the cache.
func (sc *SyncController) HandleStatus(c *fiber.Ctx) error {
	stats, err := syncengine.SweepStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load sync stats"})
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// HandleTrigger runs a full due-account sweep inline and returns its result.
func (sc *SyncController) HandleTrigger(c *fiber.Ctx) error {
	res := sc.engine.SyncDueAccounts(c.Context(), time.Now())

	errMessages := make([]string, 0, len(res.Errors))
	for _, err := range res.Errors {
		errMessages = append(errMessages, err.Error())
	}
	return c.JSON(fiber.Map{
		"succeeded": res.Succeeded,
		"failed":    res.Failed,
		"errors":    errMessages,
	})
}
