package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"chat_admin_service/internal/inbox/app"
	"chat_admin_service/internal/inbox/repository"
	"chat_admin_service/internal/inbox/router"
	"chat_admin_service/pkg/config"
	"chat_admin_service/pkg/database"
	"chat_admin_service/pkg/logger"
	testtool "chat_admin_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.InboxService, config.EnvConfig.InboxServiceLogPath)

	cfg := config.LoadConfig[config.Inbox](config.EnvConfig.InboxService, config.EnvConfig.InboxServiceYAMLPath)

	// 非 production 時開 pprof 方便看 goroutine 與記憶體
	testtool.StartPprof()

	ctx := context.Background()

	// 1. PostgreSQL (訊息與房間)
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

	// 2. Redis (Pub/Sub 推播、輸入中狀態、AI 暫停)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 3. Kafka (LINE webhook gateway 事件)
	reader := database.NewKafkaReader(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		GroupID:       cfg.Kafka.GroupID,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
	})
	defer reader.Close()

	// 4. RabbitMQ (AI 建議工作佇列)
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

	// 5. MinIO (LINE 媒體備份)
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minio err : %v", err))
	}

	// 6. 初始化 Repository
	msgRepo := repository.NewMessageRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	push := repository.NewRedisPubSub(redisClient)
	typingRepo := repository.NewTypingRepository(redisClient)
	pauseRepo := repository.NewPauseRepository(redisClient)
	mediaRepo := repository.NewMediaRepository(minioClient, cfg.Line.ChannelAccessToken)
	suggestQueue, err := repository.NewSuggestionQueue(rabbitRepo, cfg.Rabbit.Queue)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("declare suggestion queue err : %v", err))
	}

	// 7. 初始化 UseCase 與背景 worker
	messageUC := app.NewMessageUseCase(msgRepo, roomRepo, push, typingRepo, pauseRepo, suggestQueue, cfg.Feed)
	ingestWorker := app.NewIngestWorker(reader, msgRepo, roomRepo, push, pauseRepo, suggestQueue)
	go ingestWorker.Run(ctx)

	// 8. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.InboxServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
	}))

	// 注册路由
	router.RegisterRoutes(r, app.NewInboxWebsocketHandler(messageUC), app.NewInboxHandler(messageUC, mediaRepo))

	// Listen
	port := ":" + cfg.Port
	log.Printf("Inbox Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
