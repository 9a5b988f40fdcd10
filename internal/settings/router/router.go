package router

import (
	"chat_admin_service/internal/comm"
	"chat_admin_service/internal/settings/app"
	"chat_admin_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册设定相关的路由
func RegisterRoutes(r *fiber.App, settingsHandler *app.SettingsHandler) {
	r.Get("/", comm.ConnectCheck)
	r.Post("/debug", comm.DebugLogFlag)

	r.Post("/admin/register", settingsHandler.Register)
	r.Post("/admin/login", settingsHandler.Login)

	r.Use(middlewares.JWTMiddleware())

	r.Get("/ai-config", settingsHandler.GetAIConfig)
	r.Put("/ai-config", settingsHandler.SaveAIConfig)
	r.Get("/ai-config/all", settingsHandler.ListAIConfigs)
	r.Delete("/ai-config/:id", settingsHandler.DeleteAIConfig)

	r.Get("/hours", settingsHandler.GetOperatingHours)
	r.Put("/hours", settingsHandler.SaveOperatingHours)
	r.Get("/hours/status", settingsHandler.Status)
}
