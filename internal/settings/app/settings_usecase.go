package app

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"chat_admin_service/internal/settings/domain"
	"chat_admin_service/internal/settings/repository"
	"chat_admin_service/pkg"
	"chat_admin_service/pkg/encrypt"
	"chat_admin_service/pkg/logger"
	"chat_admin_service/pkg/token"

	"go.uber.org/zap"
)

// AIConfigInput AI 設定的讀寫格式，guidelines 在這層是陣列
type AIConfigInput struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	BotName       string   `json:"bot_name"`
	Personality   string   `json:"personality"`
	Guidelines    []string `json:"guidelines"`
	FallbackReply string   `json:"fallback_reply"`
	Model         string   `json:"model"`
	Temperature   float32  `json:"temperature"`
	MaxTokens     int      `json:"max_tokens"`
	ContextLimit  int      `json:"context_limit"`
	IsDefault     bool     `json:"is_default"`
}

// HoursInput 營業時間的寫入格式
type HoursInput struct {
	Enabled        bool            `json:"enabled"`
	Timezone       string          `json:"timezone"`
	Schedule       domain.Schedule `json:"schedule"`
	OfflineMessage string          `json:"offline_message"`
	Note           string          `json:"note"`
	UpdatedBy      string          `json:"updated_by"`
}

// SettingsUseCase 封裝 settings 對外提供的應用服務
type SettingsUseCase struct {
	configRepo repository.AIConfigRepository
	hoursRepo  repository.HoursRepository
	adminRepo  repository.AdminRepository
}

// NewSettingsUseCase 建立一個新的 SettingsUseCase
func NewSettingsUseCase(
	configRepo repository.AIConfigRepository,
	hoursRepo repository.HoursRepository,
	adminRepo repository.AdminRepository,
) *SettingsUseCase {
	return &SettingsUseCase{
		configRepo: configRepo,
		hoursRepo:  hoursRepo,
		adminRepo:  adminRepo,
	}
}

// Register 建立後台帳號
func (uc *SettingsUseCase) Register(ctx context.Context, username, password string, role token.RoleType) error {
	validRoles := []string{string(token.RoleAdmin), string(token.RoleAgent), string(token.RoleViewer)}
	if !pkg.Contains(validRoles, string(role)) {
		return errors.New("unknown role: " + string(role))
	}

	if _, err := uc.adminRepo.FindByUsername(ctx, username); err == nil {
		return errors.New("username already exists")
	}

	hashed, err := encrypt.HashPassword(password)
	if err != nil {
		return err
	}

	return uc.adminRepo.Create(ctx, &domain.AdminUser{
		Username:  username,
		Password:  hashed,
		Role:      string(role),
		CreatedAt: time.Now().UTC(),
	})
}

// Login 驗證帳密並簽發 JWT
func (uc *SettingsUseCase) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := uc.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		logger.Log.Error("login username not found", zap.String("username", username))
		return "", errors.New("invalid username or password")
	}

	if err := encrypt.CheckPassword(admin.Password, password); err != nil {
		logger.Log.Error("login password mismatch", zap.String("username", username))
		return "", errors.New("invalid username or password")
	}

	return token.GenerateJWTWrapper(strconv.FormatUint(uint64(admin.ID), 10), admin.Role)
}

// GetAIConfig 取目前生效的 AI 設定
func (uc *SettingsUseCase) GetAIConfig(ctx context.Context) (*AIConfigInput, error) {
	cfg, err := uc.configRepo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	return toInput(cfg), nil
}

// ListAIConfigs 列出所有 AI 設定
func (uc *SettingsUseCase) ListAIConfigs(ctx context.Context) ([]AIConfigInput, error) {
	configs, err := uc.configRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AIConfigInput, 0, len(configs))
	for i := range configs {
		out = append(out, *toInput(&configs[i]))
	}
	return out, nil
}

// SaveAIConfig 新增或更新 AI 設定
func (uc *SettingsUseCase) SaveAIConfig(ctx context.Context, in AIConfigInput) (*AIConfigInput, error) {
	guidelines, err := json.Marshal(in.Guidelines)
	if err != nil {
		return nil, err
	}

	cfg := &domain.AIConfig{
		ID:            in.ID,
		Name:          in.Name,
		BotName:       in.BotName,
		Personality:   in.Personality,
		Guidelines:    string(guidelines),
		FallbackReply: in.FallbackReply,
		Model:         in.Model,
		Temperature:   in.Temperature,
		MaxTokens:     in.MaxTokens,
		ContextLimit:  in.ContextLimit,
		IsDefault:     in.IsDefault,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := uc.configRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return toInput(cfg), nil
}

// DeleteAIConfig 刪除 AI 設定，生效中的設定不能刪
func (uc *SettingsUseCase) DeleteAIConfig(ctx context.Context, id uint) error {
	cfg, err := uc.configRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if cfg.IsDefault {
		return errors.New("cannot delete the active config")
	}
	return uc.configRepo.Delete(ctx, id)
}

// GetOperatingHours 取營業時間，沒設定過時回傳空表
func (uc *SettingsUseCase) GetOperatingHours(ctx context.Context) (*domain.OperatingHours, domain.Schedule, error) {
	hours, err := uc.hoursRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.OperatingHours{Timezone: "Asia/Bangkok"}, domain.EmptySchedule(), nil
		}
		return nil, domain.Schedule{}, err
	}

	var schedule domain.Schedule
	if hours.Schedule != "" {
		if err := json.Unmarshal([]byte(hours.Schedule), &schedule); err != nil {
			logger.Log.Error("schedule unmarshal err :", zap.String("err", err.Error()))
		}
	}
	return hours, schedule, nil
}

// SaveOperatingHours 寫入營業時間
func (uc *SettingsUseCase) SaveOperatingHours(ctx context.Context, in HoursInput) error {
	data, err := json.Marshal(in.Schedule)
	if err != nil {
		return err
	}

	hours, err := uc.hoursRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		hours = &domain.OperatingHours{}
	}

	hours.Enabled = in.Enabled
	hours.Timezone = in.Timezone
	hours.Schedule = string(data)
	hours.OfflineMessage = in.OfflineMessage
	hours.Note = in.Note
	hours.UpdatedBy = in.UpdatedBy
	hours.UpdatedAt = time.Now().UTC()
	return uc.hoursRepo.Save(ctx, hours)
}

// IsOpenNow 依設定時區判斷目前是否營業。
// 未啟用營業時間時一律視為營業中。
func (uc *SettingsUseCase) IsOpenNow(ctx context.Context, now time.Time) (bool, error) {
	hours, schedule, err := uc.GetOperatingHours(ctx)
	if err != nil {
		return false, err
	}
	if !hours.Enabled {
		return true, nil
	}

	loc, err := time.LoadLocation(hours.Timezone)
	if err != nil {
		logger.Log.Error("timezone load err :", zap.String("tz", hours.Timezone), zap.String("err", err.Error()))
		loc = time.UTC
	}
	return schedule.IsOpenAt(now.In(loc)), nil
}

func toInput(cfg *domain.AIConfig) *AIConfigInput {
	in := &AIConfigInput{
		ID:            cfg.ID,
		Name:          cfg.Name,
		BotName:       cfg.BotName,
		Personality:   cfg.Personality,
		FallbackReply: cfg.FallbackReply,
		Model:         cfg.Model,
		Temperature:   cfg.Temperature,
		MaxTokens:     cfg.MaxTokens,
		ContextLimit:  cfg.ContextLimit,
		IsDefault:     cfg.IsDefault,
	}
	if cfg.Guidelines != "" {
		if err := json.Unmarshal([]byte(cfg.Guidelines), &in.Guidelines); err != nil {
			logger.Log.Error("guidelines unmarshal err :", zap.String("err", err.Error()))
		}
	}
	return in
}
