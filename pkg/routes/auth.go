package routes

import (
	"github.com/DedS3t/cashflow-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(a *fiber.App) {
	route := a.Group("/user")
	route.Get("/cur", controllers.Cur)
}
