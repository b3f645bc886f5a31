package main

import (
	"secondhand_market/internal/api/router"

	_ "secondhand_market/docs"

	"github.com/gofiber/fiber/v2"
)

// 此程式用於init swagger
// swag init output ./docs
func main() {
	app := fiber.New()

	router.RegisterRoutes(app, nil, nil, nil, nil)
}
