package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/TuanPhamVN/CloudSentry/app/controllers"
)

type ApiRouter struct {
	accounts *controllers.AccountController
	notify   *controllers.NotifyController
	sync     *controllers.SyncController
}

func NewApiRouter(accounts *controllers.AccountController, notify *controllers.NotifyController, sync *controllers.SyncController) *ApiRouter {
	return &ApiRouter{accounts: accounts, notify: notify, sync: sync}
}

func (h *ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	v1.Post("/accounts", h.accounts.HandleRegister)
	v1.Get("/accounts", h.accounts.HandleList)
	v1.Post("/accounts/test", h.accounts.HandleTestConnection)
	v1.Put("/accounts/:id/credential", h.accounts.HandleRotateCredential)
	v1.Put("/accounts/:id/interval", h.accounts.HandleUpdateInterval)
	v1.Delete("/accounts/:id", h.accounts.HandleDelete)
	v1.Post("/accounts/:id/sync", h.accounts.HandleSync)
	v1.Get("/accounts/:id/resources", h.accounts.HandleListResources)

	v1.Get("/notify/:userId", h.notify.HandleGetConfig)
	v1.Put("/notify/:userId", h.notify.HandlePutConfig)
	v1.Post("/notify/:userId/trigger", h.notify.HandleTrigger)

	v1.Get("/sync/status", h.sync.HandleStatus)
	v1.Post("/sync/trigger", h.sync.HandleTrigger)
}
