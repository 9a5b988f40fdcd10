package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"chat_admin_service/internal/suggestion/domain"
	"chat_admin_service/pkg/database"
	"chat_admin_service/pkg/logger"
	testtool "chat_admin_service/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var suggestionRepo SuggestionRepository

// **TestMain 初始化測試環境**
func TestMain(m *testing.M) {
	ctx := context.Background()
	logger.SetNewNop()

	// **啟動 MongoDB**
	mongoContainer, mongoHost, mongoPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "mongo:latest",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start MongoDB container: %v", err)
	}
	fmt.Printf("✅ MongoDB running at %s:%s\n", mongoHost, mongoPort)

	mongo, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s", mongoHost, mongoPort),
		RetryCount:    5,
		RetryInterval: 5,
	}, "test_suggestion_db")
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	suggestionRepo = NewMongoSuggestionRepository(mongo.Database)

	code := m.Run()

	mongo.Close(ctx)
	mongoContainer.Terminate(ctx)
	os.Exit(code)
}

// 測試建議記錄寫入與依房間查詢
func TestSuggestionRepository_SaveAndFindByRoom(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := suggestionRepo.Save(ctx, &domain.Suggestion{
			ID:           fmt.Sprintf("s%d", i),
			RoomID:       "room-1",
			MessageID:    fmt.Sprintf("m%d", i),
			CustomerText: "ยังมีของไหมคะ",
			Reply:        "มีค่ะ พร้อมส่งเลยค่ะ",
			Model:        "gpt-4o-mini",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		assert.NoError(t, err)
	}

	got, err := suggestionRepo.FindByRoom(ctx, "room-1", 2)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	// 新的在前
	assert.Equal(t, "s2", got[0].ID)
	assert.Equal(t, "s1", got[1].ID)
}

// 測試依訊息查詢
func TestSuggestionRepository_FindByMessage(t *testing.T) {
	ctx := context.Background()

	err := suggestionRepo.Save(ctx, &domain.Suggestion{
		ID:           "s-msg",
		RoomID:       "room-2",
		MessageID:    "m-msg",
		CustomerText: "ส่งกี่วันถึง",
		Reply:        "2-3 วันทำการค่ะ",
		Model:        "gpt-4o-mini",
		Fallback:     false,
		LatencyMs:    812,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	})
	assert.NoError(t, err)

	got, err := suggestionRepo.FindByMessage(ctx, "m-msg")
	assert.NoError(t, err)
	assert.Equal(t, "s-msg", got.ID)
	assert.Equal(t, "2-3 วันทำการค่ะ", got.Reply)
	assert.Equal(t, int64(812), got.LatencyMs)
}
