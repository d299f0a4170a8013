package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/TuanPhamVN/CloudSentry/app/controllers"
	"github.com/TuanPhamVN/CloudSentry/app/repository"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/cache"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/database"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/env"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/notify"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/providers"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/rocketchat"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/router"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/scheduler"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/syncengine"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/telegram"
)

const (
	syncSweepInterval  = 10 * time.Minute
	notifyTickInterval = time.Minute
)

func main() {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	factory := repository.NewFactory(database.GetDB())
	registry := providers.NewRegistry()
	engine := syncengine.NewEngine(factory, registry, syncengine.NewRedisStats())

	gateway := notify.NewChatGateway(rocketchat.NewClient(), telegram.NewClient())
	dispatcher := notify.NewDispatcher(factory, gateway)
	notifyScheduler := notify.NewScheduler(factory, dispatcher)

	jobs := scheduler.NewService(
		scheduler.Job{
			Name:  "sync_due_accounts",
			Every: syncSweepInterval,
			Handler: func(ctx context.Context) {
				engine.SyncDueAccounts(ctx, time.Now())
			},
		},
		scheduler.Job{
			Name:  "notify_recipients",
			Every: notifyTickInterval,
			Handler: func(ctx context.Context) {
				notifyScheduler.Tick(ctx, time.Now())
			},
		},
	)
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName: "CloudSentry",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	router.InstallRouter(app, router.NewApiRouter(
		controllers.NewAccountController(factory, registry, engine),
		controllers.NewNotifyController(factory, notifyScheduler),
		controllers.NewSyncController(engine),
	))

	go func() {
		addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
		if err := app.Listen(addr); err != nil {
			log.Errorf("[App] Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("[App] Shutting down")
	jobs.Stop()
	if err := app.Shutdown(); err != nil {
		log.Errorf("[App] Shutdown error: %v", err)
	}
}
