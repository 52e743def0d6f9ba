package controller

import (
	"github.com/benbeisheim/chessnote-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the REST API under /api and the board socket under /ws.
func RegisterRoutes(app *fiber.App, bc *BoardController, wsc *WebSocketController, wsConfig websocket.Config) {
	app.Use("/ws/*", middleware.EnsureClientID())
	app.Get("/ws/board/:boardId", middleware.WebSocketUpgrade(), websocket.New(wsc.HandleConnection, wsConfig))

	api := app.Group("/api", middleware.EnsureClientID())

	boardRoutes := api.Group("/board")
	boardRoutes.Post("/", bc.CreateBoard)
	boardRoutes.Get("/:boardId", bc.GetBoard)
	boardRoutes.Delete("/:boardId", bc.DeleteBoard)
	boardRoutes.Get("/:boardId/text", bc.GetText)
	boardRoutes.Put("/:boardId/text", bc.SetText)
	boardRoutes.Post("/:boardId/move", bc.Move)
	boardRoutes.Post("/:boardId/promotion", bc.Promote)
	boardRoutes.Get("/:boardId/board.svg", bc.RenderBoard)
}
