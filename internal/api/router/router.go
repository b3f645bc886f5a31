package router

import (
	"context"

	"secondhand_market/internal/api/handlers"
	chatapp "secondhand_market/internal/chat/app"
	"secondhand_market/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 注册所有路由
// @title Secondhand Market API
// @version 1.0
// @description API documentation for Secondhand Market
// @host localhost:8080
// @BasePath /
func RegisterRoutes(
	app *fiber.App,
	userHandler *handlers.UserHandler,
	itemHandler *handlers.ItemHandler,
	chatHandler *handlers.ChatHandler,
	chatWebsocket *chatapp.ChatWebsocketHandler,
) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	userRoutes := app.Group("/user")
	userRoutes.Post("/", userHandler.Register)
	userRoutes.Post("/login", userHandler.Login)
	userRoutes.Post("/refresh", userHandler.Refresh)

	userRoutes.Use(middlewares.JWTMiddleware())
	userRoutes.Get("/", userHandler.Me)
	userRoutes.Post("/logout", userHandler.Logout)
	userRoutes.Get("/likes", itemHandler.LikedItems)

	app.Get("/images/*", itemHandler.Image)

	categoryRoutes := app.Group("/categories")
	categoryRoutes.Get("/", itemHandler.Categories)

	categoryRoutes.Use(middlewares.JWTMiddleware())
	categoryRoutes.Post("/", itemHandler.CategoryCreate)
	categoryRoutes.Put("/:id", itemHandler.CategoryUpdate)
	categoryRoutes.Delete("/:id", itemHandler.CategoryDelete)

	itemRoutes := app.Group("/items")
	itemRoutes.Get("/", itemHandler.Search)
	itemRoutes.Get("/:id", itemHandler.Get)
	itemRoutes.Get("/:id/like/count", itemHandler.LikeCount)

	itemRoutes.Use(middlewares.JWTMiddleware())
	itemRoutes.Post("/", itemHandler.Create)
	itemRoutes.Put("/:id", itemHandler.Update)
	itemRoutes.Delete("/:id", itemHandler.Delete)
	itemRoutes.Post("/:id/like", itemHandler.Like)
	itemRoutes.Delete("/:id/like", itemHandler.Unlike)

	chatRoutes := app.Group("/chat", middlewares.JWTMiddleware())
	chatRoutes.Post("/rooms", chatHandler.CreateRoom)
	chatRoutes.Post("/create-room", chatHandler.CreateRoomByItem)
	chatRoutes.Get("/rooms/user/:userId", chatHandler.GetUserRooms)
	chatRoutes.Get("/count/user/:userId", chatHandler.GetUserRoomCount)
	chatRoutes.Get("/rooms/:roomId", chatHandler.GetRoom)
	chatRoutes.Delete("/rooms/:roomId", chatHandler.DeleteRoom)
	chatRoutes.Get("/rooms/:roomId/messages", chatHandler.GetRoomMessages)
	chatRoutes.Post("/rooms/:roomId/messages", chatHandler.SendMessage)
	chatRoutes.Post("/rooms/:roomId/read", chatHandler.MarkRead)

	wsRoutes := app.Group("/ws", middlewares.JWTMiddleware())
	wsRoutes.Get("/chat/:roomId", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))
}
