package router

import (
	"context"

	"chat_admin_service/internal/comm"
	"chat_admin_service/internal/inbox/app"
	"chat_admin_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 注册 inbox 相关的路由
// @title Chat Admin Service API
// @version 1.0
// @description API documentation for Chat Admin Service
// @host localhost:8080
// @BasePath /
func RegisterRoutes(r *fiber.App, inboxWebsocket *app.InboxWebsocketHandler, inboxHandler *app.InboxHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", comm.ConnectCheck)
	r.Post("/debug", comm.DebugLogFlag)

	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		inboxWebsocket.HandleConnection(context.Background(), c)
	}))

	r.Get("/rooms", inboxHandler.ListRooms)
	r.Get("/rooms/:id", inboxHandler.GetRoom)
	r.Get("/rooms/:id/typing", inboxHandler.ActiveTypers)

	r.Get("/rooms/:id/ai", inboxHandler.AIStatus)
	r.Put("/rooms/:id/ai", inboxHandler.SetAI)
	r.Post("/rooms/:id/ai/pause", inboxHandler.PauseAI)
	r.Post("/rooms/:id/ai/resume", inboxHandler.ResumeAI)

	r.Get("/media/:message_id", inboxHandler.MediaContent)
	r.Get("/media/:message_id/url", inboxHandler.MediaURL)
}
