package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"chat_admin_service/internal/analytics/app"
	"chat_admin_service/internal/analytics/repository"
	"chat_admin_service/internal/analytics/router"
	"chat_admin_service/pkg/config"
	"chat_admin_service/pkg/database"
	"chat_admin_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.AnalyticsService, config.EnvConfig.AnalyticsServiceLogPath)

	cfg := config.LoadConfig[config.Analytics](config.EnvConfig.AnalyticsService, config.EnvConfig.AnalyticsServiceYAMLPath)

	// 1. PostgreSQL (只讀訊息統計)
	sqlParams := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    sqlParams,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", sqlParams)),
			zap.Error(err),
		)
	}
	defer pool.Close()

	// 2. 初始化 Repository 與 UseCase
	statsRepo := repository.NewStatsRepository(pool)
	analyticsUC := app.NewAnalyticsUseCase(statsRepo)
	insightsUC := app.NewInsightsUseCase(openai.NewClient(cfg.OpenAI.APIKey), analyticsUC)

	// 3. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.AnalyticsServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
	}))

	// 注册路由
	router.RegisterRoutes(r, app.NewAnalyticsHandler(analyticsUC, insightsUC))

	// Listen
	port := ":" + cfg.Port
	log.Printf("Analytics Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
