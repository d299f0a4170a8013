package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/app/repository"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/notify"
)

// NotifyController manages per-user notification schedules and the manual
// trigger.
type NotifyController struct {
	factory   *repository.Factory
	scheduler *notify.Scheduler
}

func NewNotifyController(factory *repository.Factory, scheduler *notify.Scheduler) *NotifyController {
	return &NotifyController{factory: factory, scheduler: scheduler}
}

// HandleGetConfig returns a user's notification schedule. The RocketChat
// auth token is write-only and never echoed back.
func (nc *NotifyController) HandleGetConfig(c *fiber.Ctx) error {
	userID, err := notifyUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}

	cfg, err := nc.factory.GetRepositories().NotifyConfig.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No notify config for user"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load notify config"})
	}
	return c.JSON(cfg)
}

type putNotifyConfigRequest struct {
	NotifyHour     int    `json:"notify_hour"`
	NotifyMinute   int    `json:"notify_minute"`
	NotifyDays     int    `json:"notify_days"`
	Channel        string `json:"channel"`
	RoomID         string `json:"room_id"`
	AuthToken      string `json:"auth_token"`
	RocketUserID   string `json:"rocket_user_id"`
	TelegramChatID string `json:"telegram_chat_id"`
	Active         *bool  `json:"active"`
}

// HandlePutConfig creates or replaces a user's notification schedule.
func (nc *NotifyController) HandlePutConfig(c *fiber.Ctx) error {
	userID, err := notifyUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}

	var req putNotifyConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	days := req.NotifyDays
	if days == 0 {
		days = 3
	}
	channel := req.Channel
	if channel == "" {
		channel = models.ChannelRocketChat
	}

	cfg := &models.NotifyConfig{
		UserID:         userID,
		NotifyHour:     req.NotifyHour,
		NotifyMinute:   req.NotifyMinute,
		NotifyDays:     days,
		Channel:        channel,
		RoomID:         req.RoomID,
		AuthToken:      req.AuthToken,
		RocketUserID:   req.RocketUserID,
		TelegramChatID: req.TelegramChatID,
		Active:         active,
	}
	if err := cfg.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := nc.factory.GetRepositories().NotifyConfig.Upsert(cfg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save notify config"})
	}
	return c.JSON(cfg)
}

// HandleTrigger fires the user's notification immediately. The daily
// schedule is unaffected.
func (nc *NotifyController) HandleTrigger(c *fiber.Ctx) error {
	userID, err := notifyUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}

	if err := nc.scheduler.FireNow(c.Context(), userID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No notify config for user"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "delivery_failed", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Notification sent"})
}

func notifyUserID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	return uint(id), err
}
