package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lnking/lnking/app/repository"
	"github.com/lnking/lnking/internal/pkg/billing"
	"github.com/lnking/lnking/internal/pkg/cache"
	"github.com/lnking/lnking/internal/pkg/database"
	"github.com/lnking/lnking/internal/pkg/env"
	"github.com/lnking/lnking/internal/pkg/notify"
	"github.com/lnking/lnking/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())
	billing.InitializeService(database.GetDB())
	notify.Default()

	app := fiber.New(fiber.Config{
		BodyLimit: 1 << 20, // webhook payloads are small
	})

	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
