package routes

import (
	"github.com/DedS3t/cashflow-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

// RoomRoutes are the lobby endpoints reachable without a token.
func RoomRoutes(a *fiber.App, gc *controllers.GameController) {
	route := a.Group("/rooms")
	route.Post("/", gc.CreateRoom)
	route.Get("/", gc.GetAllAvailRooms)
	route.Get("/:id/verify", gc.VerifyRoom)
}

func GameRoutes(a *fiber.App, gc *controllers.GameController) {
	route := a.Group("/rooms/:id")
	route.Post("/start", gc.StartGame)
	route.Post("/roll", gc.Roll)
	route.Post("/deals/choose", gc.ChooseDeal)
	route.Post("/deals/resolve", gc.ResolveDeal)
	route.Post("/assets/transfer", gc.TransferAsset)
	route.Post("/assets/sell", gc.SellAsset)
	route.Post("/take-credit", gc.TakeCredit)
	route.Post("/payoff-credit", gc.PayoffCredit)
	route.Post("/transfer", gc.Transfer)
	route.Post("/charity", gc.Charity)
	route.Post("/end-turn", gc.EndTurn)
	route.Get("/game-state", gc.GameState)
	route.Get("/transactions", gc.Transactions)
}
