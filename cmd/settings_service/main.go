package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"chat_admin_service/internal/settings/app"
	"chat_admin_service/internal/settings/domain"
	"chat_admin_service/internal/settings/repository"
	"chat_admin_service/internal/settings/router"
	"chat_admin_service/pkg/config"
	"chat_admin_service/pkg/database"
	"chat_admin_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.SettingsService, config.EnvConfig.SettingsServiceLogPath)

	cfg := config.LoadConfig[config.Settings](config.EnvConfig.SettingsService, config.EnvConfig.SettingsServiceYAMLPath)

	// 1. gorm PostgreSQL (設定與帳號)
	sqlParams := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	db, err := database.NewGormConnection(database.Connection{
		ConnectStr:    sqlParams,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect gorm err : %v", err))
	}

	if err := db.AutoMigrate(&domain.AIConfig{}, &domain.OperatingHours{}, &domain.AdminUser{}); err != nil {
		logger.Log.Fatal(fmt.Sprintf("auto migrate err : %v", err))
	}

	// 2. 初始化 Repository 與 UseCase
	configRepo := repository.NewAIConfigRepository(db)
	hoursRepo := repository.NewHoursRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	settingsUC := app.NewSettingsUseCase(configRepo, hoursRepo, adminRepo)

	// 3. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.SettingsServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
	}))

	// 注册路由
	router.RegisterRoutes(r, app.NewSettingsHandler(settingsUC))

	// Listen
	port := ":" + cfg.Port
	log.Printf("Settings Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
