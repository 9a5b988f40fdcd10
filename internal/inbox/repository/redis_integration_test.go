package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/pkg/logger"
	testtool "chat_admin_service/pkg/test_tool"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var redisClient *redis.Client

// **TestMain 初始化測試環境**
func TestMain(m *testing.M) {
	ctx := context.Background()
	logger.SetNewNop()

	// **啟動 Redis**
	redisContainer, redisHost, redisPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:latest",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start Redis container: %v", err)
	}
	fmt.Printf("✅ Redis running at %s:%s\n", redisHost, redisPort)

	redisClient = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort),
		DB:   0,
	})

	code := m.Run()

	redisClient.Close()
	redisContainer.Terminate(ctx)
	os.Exit(code)
}

// 測試 push channel 發布訂閱
func TestRedisPubSub_PublishSubscribe(t *testing.T) {
	ctx := context.Background()
	pubsub := NewRedisPubSub(redisClient)

	sub, err := pubsub.Subscribe(ctx, "room-it")
	assert.NoError(t, err)
	defer sub.Close()

	event := domain.PushEvent{
		Type: domain.PushInsert,
		Message: domain.Message{
			ID:          "m1",
			RoomID:      "room-it",
			SenderID:    "cust-1",
			SenderRole:  domain.SenderCustomer,
			MessageType: domain.MessageText,
			Content:     "สวัสดีค่ะ",
			Status:      domain.StatusSent,
			CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		},
	}
	assert.NoError(t, pubsub.Publish(ctx, "room-it", event))

	select {
	case got := <-sub.Events():
		assert.Equal(t, domain.PushInsert, got.Type)
		assert.Equal(t, "m1", got.Message.ID)
		assert.Equal(t, "สวัสดีค่ะ", got.Message.Content)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for push event")
	}
}

// 測試不同房間的訂閱收不到彼此的事件
func TestRedisPubSub_RoomIsolation(t *testing.T) {
	ctx := context.Background()
	pubsub := NewRedisPubSub(redisClient)

	sub, err := pubsub.Subscribe(ctx, "room-a")
	assert.NoError(t, err)
	defer sub.Close()

	assert.NoError(t, pubsub.Publish(ctx, "room-b", domain.PushEvent{
		Type:    domain.PushInsert,
		Message: domain.Message{ID: "other", RoomID: "room-b"},
	}))

	select {
	case got := <-sub.Events():
		t.Fatalf("unexpected event from another room: %+v", got)
	case <-time.After(500 * time.Millisecond):
	}
}

// 測試打字狀態寫入與列出
func TestTypingRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewTypingRepository(redisClient)

	assert.NoError(t, repo.SetTyping(ctx, "room-typing", "agent-1", true))
	assert.NoError(t, repo.SetTyping(ctx, "room-typing", "agent-2", true))

	typers, err := repo.ActiveTypers(ctx, "room-typing")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"agent-1", "agent-2"}, typers)

	assert.NoError(t, repo.SetTyping(ctx, "room-typing", "agent-1", false))

	typers, err = repo.ActiveTypers(ctx, "room-typing")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"agent-2"}, typers)
}

// 測試 AI 暫停與恢復
func TestPauseRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewPauseRepository(redisClient)

	paused, _, err := repo.IsPaused(ctx, "room-pause")
	assert.NoError(t, err)
	assert.False(t, paused)

	assert.NoError(t, repo.Pause(ctx, "room-pause", time.Minute))

	paused, remaining, err := repo.IsPaused(ctx, "room-pause")
	assert.NoError(t, err)
	assert.True(t, paused)
	assert.Greater(t, remaining, 0)

	assert.NoError(t, repo.Resume(ctx, "room-pause"))

	paused, _, err = repo.IsPaused(ctx, "room-pause")
	assert.NoError(t, err)
	assert.False(t, paused)
}
