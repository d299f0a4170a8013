package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/app/repository"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/providers"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/syncengine"
)

type stubAdapter struct {
	name    string
	balance providers.Balance
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) FetchBalance(ctx context.Context, credential string) (providers.Balance, error) {
	return s.balance, nil
}

func (s *stubAdapter) FetchInventory(ctx context.Context, credential string) ([]providers.Resource, error) {
	return nil, nil
}

func newTestApp(t *testing.T) (*fiber.App, *repository.Factory) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ProviderAccount{},
		&models.ManagedResource{},
		&models.NotifyConfig{},
	))

	factory := repository.NewFactory(db)
	registry := providers.NewEmptyRegistry()
	registry.Register(&stubAdapter{name: models.ProviderBitLaunch, balance: providers.Balance{Amount: 20, Currency: "USD"}})
	engine := syncengine.NewEngine(factory, registry, nil)

	ac := NewAccountController(factory, registry, engine)

	app := fiber.New()
	app.Post("/api/v1/accounts", ac.HandleRegister)
	app.Get("/api/v1/accounts", ac.HandleList)
	app.Put("/api/v1/accounts/:id/interval", ac.HandleUpdateInterval)
	app.Delete("/api/v1/accounts/:id", ac.HandleDelete)
	app.Post("/api/v1/accounts/:id/sync", ac.HandleSync)

	return app, factory
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleRegisterAndList(t *testing.T) {
	app, _ := newTestApp(t)

	payload := map[string]interface{}{
		"user_id":               1,
		"provider":              "bitlaunch",
		"email":                 "ops@example.com",
		"credential":            "token-1",
		"refresh_interval_days": 3,
	}

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/accounts", payload))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Same owner, provider, email again is a conflict
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/accounts", payload))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/accounts?user_id=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Accounts []models.ProviderAccount `json:"accounts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Accounts, 1)
	assert.Equal(t, "ops@example.com", out.Accounts[0].Email)
	// Credential must never round-trip through the API
	assert.Empty(t, out.Accounts[0].Credential)
}

func TestHandleRegisterRejectsUnknownProvider(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/accounts", map[string]interface{}{
		"user_id":    1,
		"provider":   "linode",
		"email":      "ops@example.com",
		"credential": "token",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleUpdateInterval(t *testing.T) {
	app, factory := newTestApp(t)

	acc := &models.ProviderAccount{
		UserID: 1, Provider: models.ProviderBitLaunch, Email: "ops@example.com",
		Credential: "c", RefreshIntervalDays: 1, Active: true,
	}
	require.NoError(t, factory.GetRepositories().Account.Create(acc))

	resp, err := app.Test(jsonRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%d/interval", acc.ID), map[string]int{"days": 7}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%d/interval", acc.ID), map[string]int{"days": 5}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	reloaded, err := factory.GetRepositories().Account.GetByID(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.RefreshIntervalDays)
}

func TestHandleDeleteDeactivatesAccount(t *testing.T) {
	app, factory := newTestApp(t)

	acc := &models.ProviderAccount{
		UserID: 1, Provider: models.ProviderBitLaunch, Email: "ops@example.com",
		Credential: "c", RefreshIntervalDays: 1, Active: true,
	}
	require.NoError(t, factory.GetRepositories().Account.Create(acc))

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/accounts/%d", acc.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	accounts, err := factory.GetRepositories().Account.ListActiveByUser(1)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestHandleSyncUpdatesBalance(t *testing.T) {
	app, factory := newTestApp(t)

	acc := &models.ProviderAccount{
		UserID: 1, Provider: models.ProviderBitLaunch, Email: "ops@example.com",
		Credential: "c", RefreshIntervalDays: 1, Active: true,
	}
	require.NoError(t, factory.GetRepositories().Account.Create(acc))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/accounts/%d/sync", acc.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	reloaded, err := factory.GetRepositories().Account.GetByID(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, reloaded.Balance)
	assert.NotNil(t, reloaded.LastSyncedAt)
}
