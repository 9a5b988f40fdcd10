package app

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"chat_admin_service/internal/settings/domain"
	"chat_admin_service/internal/settings/repository"
	"chat_admin_service/pkg/encrypt"
	"chat_admin_service/pkg/logger"
	"chat_admin_service/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func newTestSettingsUseCase() (*SettingsUseCase, *MockAIConfigRepository, *MockHoursRepository, *MockAdminRepository) {
	mockConfig := new(MockAIConfigRepository)
	mockHours := new(MockHoursRepository)
	mockAdmin := new(MockAdminRepository)
	uc := NewSettingsUseCase(mockConfig, mockHours, mockAdmin)
	return uc, mockConfig, mockHours, mockAdmin
}

// 測試登入簽發 token
func TestSettingsUseCase_Login(t *testing.T) {
	ctx := context.Background()
	uc, _, _, mockAdmin := newTestSettingsUseCase()

	orig := token.GenerateJWTFunc
	token.GenerateJWTFunc = func(adminID, role, issuer string) (string, error) {
		return "mock-token", nil
	}
	defer func() { token.GenerateJWTFunc = orig }()

	hashed, err := encrypt.HashPassword("Passw0rd!")
	assert.NoError(t, err)

	mockAdmin.On("FindByUsername", ctx, "boss").Return(&domain.AdminUser{
		ID: 1, Username: "boss", Password: hashed, Role: string(token.RoleAdmin),
	}, nil)

	got, err := uc.Login(ctx, "boss", "Passw0rd!")
	assert.NoError(t, err)
	assert.Equal(t, "mock-token", got)
}

// 測試密碼錯誤
func TestSettingsUseCase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	uc, _, _, mockAdmin := newTestSettingsUseCase()

	hashed, err := encrypt.HashPassword("Passw0rd!")
	assert.NoError(t, err)

	mockAdmin.On("FindByUsername", ctx, "boss").Return(&domain.AdminUser{
		ID: 1, Username: "boss", Password: hashed,
	}, nil)

	_, err = uc.Login(ctx, "boss", "wrong")
	assert.Error(t, err)
}

// 測試帳號重複註冊被拒
func TestSettingsUseCase_Register_Duplicate(t *testing.T) {
	ctx := context.Background()
	uc, _, _, mockAdmin := newTestSettingsUseCase()

	mockAdmin.On("FindByUsername", ctx, "boss").Return(&domain.AdminUser{ID: 1}, nil)

	err := uc.Register(ctx, "boss", "Passw0rd!", token.RoleAdmin)
	assert.Error(t, err)
	mockAdmin.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 測試 AI 設定寫入時 guidelines 被序列化
func TestSettingsUseCase_SaveAIConfig(t *testing.T) {
	ctx := context.Background()
	uc, mockConfig, _, _ := newTestSettingsUseCase()

	mockConfig.On("Save", ctx, mock.MatchedBy(func(cfg *domain.AIConfig) bool {
		var guidelines []string
		if err := json.Unmarshal([]byte(cfg.Guidelines), &guidelines); err != nil {
			return false
		}
		return cfg.BotName == "Nong Chat" && cfg.IsDefault &&
			len(guidelines) == 2 && guidelines[0] == "confirm stock first"
	})).Return(nil)

	out, err := uc.SaveAIConfig(ctx, AIConfigInput{
		Name:       "default",
		BotName:    "Nong Chat",
		Guidelines: []string{"confirm stock first", "no discounts over 10%"},
		IsDefault:  true,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"confirm stock first", "no discounts over 10%"}, out.Guidelines)
	mockConfig.AssertExpectations(t)
}

// 測試刪除生效中的設定被拒
func TestSettingsUseCase_DeleteAIConfig_Active(t *testing.T) {
	ctx := context.Background()
	uc, mockConfig, _, _ := newTestSettingsUseCase()

	mockConfig.On("FindByID", ctx, uint(7)).Return(&domain.AIConfig{ID: 7, IsDefault: true}, nil)

	err := uc.DeleteAIConfig(ctx, 7)
	assert.Error(t, err)
	mockConfig.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// 測試營業時間沒設定過時回傳空表
func TestSettingsUseCase_GetOperatingHours_Unset(t *testing.T) {
	ctx := context.Background()
	uc, _, mockHours, _ := newTestSettingsUseCase()

	mockHours.On("Get", ctx).Return(nil, repository.ErrNotFound)

	hours, schedule, err := uc.GetOperatingHours(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", hours.Timezone)
	assert.Equal(t, 0, schedule.OpenHours())
}

// 測試營業狀態判斷走設定的時區
func TestSettingsUseCase_IsOpenNow(t *testing.T) {
	ctx := context.Background()
	uc, _, mockHours, _ := newTestSettingsUseCase()

	schedule := domain.EmptySchedule()
	// 星期一 09-18（曼谷時間）
	for h := 9; h < 18; h++ {
		schedule.SetHour(time.Monday, h, true)
	}
	data, err := json.Marshal(schedule)
	assert.NoError(t, err)

	mockHours.On("Get", ctx).Return(&domain.OperatingHours{
		Enabled:  true,
		Timezone: "Asia/Bangkok",
		Schedule: string(data),
	}, nil)

	// 2025-06-02 03:30 UTC = 星期一 10:30 曼谷時間
	open, err := uc.IsOpenNow(ctx, time.Date(2025, 6, 2, 3, 30, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.True(t, open)

	// 2025-06-02 15:00 UTC = 星期一 22:00 曼谷時間
	open, err = uc.IsOpenNow(ctx, time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.False(t, open)
}

// 測試未啟用營業時間時一律視為營業中
func TestSettingsUseCase_IsOpenNow_Disabled(t *testing.T) {
	ctx := context.Background()
	uc, _, mockHours, _ := newTestSettingsUseCase()

	mockHours.On("Get", ctx).Return(&domain.OperatingHours{Enabled: false}, nil)

	open, err := uc.IsOpenNow(ctx, time.Now())
	assert.NoError(t, err)
	assert.True(t, open)
}
