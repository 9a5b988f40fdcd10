package router

import (
	"chat_admin_service/internal/analytics/app"
	"chat_admin_service/internal/comm"
	"chat_admin_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册分析相关的路由
func RegisterRoutes(r *fiber.App, analyticsHandler *app.AnalyticsHandler) {
	r.Get("/", comm.ConnectCheck)
	r.Post("/debug", comm.DebugLogFlag)

	r.Use(middlewares.JWTMiddleware())

	r.Get("/report", analyticsHandler.Report)
	r.Get("/sales", analyticsHandler.Sales)
	r.Get("/customers", analyticsHandler.Customers)
	r.Get("/insights", analyticsHandler.Insights)
}
