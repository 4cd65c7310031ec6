package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/database"
	"github.com/example/pixelcart/internal/handlers"
	"github.com/example/pixelcart/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		AppName:      cfg.BrandName,
		Views:        engine,
		ErrorHandler: handlers.NewErrorHandler(cfg.BrandName),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Static("/static", "./public")

	routes.Register(app, db, cfg)

	// Anything unrouted gets the rendered not-found page.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "page not found")
	})

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
