package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/app/repository"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/providers"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/syncengine"
)

// AccountController exposes provider-account lifecycle operations.
type AccountController struct {
	factory  *repository.Factory
	registry *providers.Registry
	engine   *syncengine.Engine
}

func NewAccountController(factory *repository.Factory, registry *providers.Registry, engine *syncengine.Engine) *AccountController {
	return &AccountController{factory: factory, registry: registry, engine: engine}
}

type registerAccountRequest struct {
	UserID              uint    `json:"user_id"`
	Provider            string  `json:"provider"`
	Email               string  `json:"email"`
	Credential          string  `json:"credential"`
	BalanceLimit        float64 `json:"balance_limit"`
	RefreshIntervalDays int     `json:"refresh_interval_days"`
}

// HandleRegister creates a provider account. The (owner, provider, email)
// triple is unique; a repeat registration is rejected as a conflict.
func (ac *AccountController) HandleRegister(c *fiber.Ctx) error {
	var req registerAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if _, err := ac.registry.Get(req.Provider); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	repos := ac.factory.GetRepositories()
	if existing, err := repos.Account.GetByOwnerProviderEmail(req.UserID, req.Provider, req.Email); err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Account already registered for this owner"})
	}

	interval := req.RefreshIntervalDays
	if interval == 0 {
		interval = 1
	}

	account := &models.ProviderAccount{
		UserID:              req.UserID,
		Provider:            req.Provider,
		Email:               req.Email,
		Credential:          req.Credential,
		BalanceLimit:        req.BalanceLimit,
		RefreshIntervalDays: interval,
		Active:              true,
	}
	if err := account.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repos.Account.Create(account); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

// HandleList returns the caller's active accounts. Credentials never appear
// in the response.
func (ac *AccountController) HandleList(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing or invalid user_id"})
	}

	accounts, err := ac.factory.GetRepositories().Account.ListActiveByUser(uint(userID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list accounts"})
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

// HandleRotateCredential replaces an account's credential and clears its
// auth-failed flag so the next sweep picks it up again.
func (ac *AccountController) HandleRotateCredential(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid account id"})
	}

	var req struct {
		Credential string `json:"credential"`
	}
	if err := c.BodyParser(&req); err != nil || req.Credential == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing credential"})
	}

	if err := ac.factory.GetRepositories().Account.RotateCredential(id, req.Credential); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to rotate credential"})
	}
	return c.JSON(fiber.Map{"message": "Credential rotated"})
}

// HandleUpdateInterval changes how often the account is considered due.
func (ac *AccountController) HandleUpdateInterval(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid account id"})
	}

	var req struct {
		Days int `json:"days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	switch req.Days {
	case 1, 3, 7, 30:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "days must be one of 1, 3, 7, 30"})
	}

	if err := ac.factory.GetRepositories().Account.UpdateRefreshInterval(id, req.Days); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update interval"})
	}
	return c.JSON(fiber.Map{"message": "Refresh interval updated"})
}

// HandleDelete soft-deletes an account. Its resources stay in place but stop
// being refreshed.
func (ac *AccountController) HandleDelete(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid account id"})
	}

	if err := ac.factory.GetRepositories().Account.SoftDelete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete account"})
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}

// HandleTestConnection probes a credential without creating or touching any
// account.
func (ac *AccountController) HandleTestConnection(c *fiber.Ctx) error {
	var req struct {
		Provider   string `json:"provider"`
		Credential string `json:"credential"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	result := providers.TestConnection(c.Context(), ac.registry, req.Provider, req.Credential)
	return c.JSON(result)
}

// HandleSync runs an immediate sync for one account, bypassing the due check.
func (ac *AccountController) HandleSync(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid account id"})
	}

	if err := ac.engine.SyncAccountByID(c.Context(), id, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Account not found"})
		}
		var authErr *providers.AuthError
		if errors.As(err, &authErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "auth_failed", "message": "Credential rejected by provider; rotate it"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "sync_failed", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Account synced"})
}

// HandleListResources returns the stored inventory for one account.
func (ac *AccountController) HandleListResources(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid account id"})
	}

	resources, err := ac.factory.GetRepositories().Resource.ListByAccount(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list resources"})
	}
	return c.JSON(fiber.Map{"resources": resources})
}

func accountID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
