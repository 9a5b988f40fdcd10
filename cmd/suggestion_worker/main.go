package main

import (
	"context"
	"fmt"
	"time"

	"chat_admin_service/internal/suggestion/app"
	"chat_admin_service/internal/suggestion/repository"
	"chat_admin_service/pkg/config"
	"chat_admin_service/pkg/database"
	"chat_admin_service/pkg/logger"

	inboxrepo "chat_admin_service/internal/inbox/repository"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.SuggestionWorker, config.EnvConfig.SuggestionWorkerLogPath)

	cfg := config.LoadConfig[config.SuggestionWorker](config.EnvConfig.SuggestionWorker, config.EnvConfig.SuggestionWorkerYAMLPath)

	ctx := context.Background()

	// 1. PostgreSQL (訊息與房間，與 inbox_service 共用)
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

	// 2. gorm (讀 AI 設定，settings_service 維護的表)
	gormDB, err := database.NewGormConnection(database.Connection{
		ConnectStr:    sqlParams,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect gorm err : %v", err))
	}

	// 3. Mongo (建議紀錄)
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// 4. Redis (push channel、AI 暫停狀態)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 5. RabbitMQ (工作佇列)
	rabbitConn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    cfg.Rabbit.URL,
		RetryCount:    cfg.Rabbit.RetryCount,
		RetryInterval: time.Duration(cfg.Rabbit.RetryInterval) * time.Second,
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect rabbitmq err : %v", err))
	}
	defer rabbitConn.Close()

	rabbitCh, err := database.GetRabbitMQChannelWithRetry(rabbitConn, cfg.Rabbit.RetryCount, time.Duration(cfg.Rabbit.RetryInterval)*time.Second)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("open rabbitmq channel err : %v", err))
	}
	rabbitRepo := database.NewRabbitRepository(rabbitCh)

	// 6. 初始化 Repository 與 UseCase
	configRepo := repository.NewAIConfigRepository(gormDB)
	suggestionRepo := repository.NewMongoSuggestionRepository(mongo.Database)
	msgRepo := inboxrepo.NewMessageRepository(pool)
	roomRepo := inboxrepo.NewRoomRepository(pool)
	pauseRepo := inboxrepo.NewPauseRepository(redisClient)
	push := inboxrepo.NewRedisPubSub(redisClient)

	aiClient := openai.NewClient(cfg.OpenAI.APIKey)
	suggestUC := app.NewSuggestUseCase(aiClient, configRepo, suggestionRepo, msgRepo, roomRepo, pauseRepo, push)

	// 7. 消費佇列直到行程被終止
	worker := app.NewWorker(rabbitRepo, cfg.Rabbit.Queue, suggestUC)
	logger.Log.Info(fmt.Sprintf("Suggestion Worker consuming queue [%s]", cfg.Rabbit.Queue))
	if err := worker.Run(ctx); err != nil {
		logger.Log.Fatal("worker stopped", zap.Error(err))
	}
}
