package repository

import (
	"context"
	"encoding/json"
	"errors"

	"chat_admin_service/internal/suggestion/domain"
	"chat_admin_service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultModel 設定缺 model 時的後備
const defaultModel = "gpt-4o-mini"

// AIConfigRepository 讀取 settings service 維護的 AI 設定
type AIConfigRepository interface {
	// GetActive 取目前生效的設定，資料庫沒有時回傳內建預設
	GetActive(ctx context.Context) (*domain.AIConfig, error)
}

type aiConfigRepository struct {
	db *gorm.DB
}

// NewAIConfigRepository create a AIConfigRepository
func NewAIConfigRepository(db *gorm.DB) AIConfigRepository {
	return &aiConfigRepository{db: db}
}

type aiConfigRow struct {
	ID            uint    `gorm:"primaryKey"`
	BotName       string  `gorm:"column:bot_name"`
	Personality   string  `gorm:"column:personality"`
	Guidelines    string  `gorm:"column:guidelines"`
	FallbackReply string  `gorm:"column:fallback_reply"`
	Model         string  `gorm:"column:model"`
	Temperature   float32 `gorm:"column:temperature"`
	MaxTokens     int     `gorm:"column:max_tokens"`
	ContextLimit  int     `gorm:"column:context_limit"`
	IsDefault     bool    `gorm:"column:is_default"`
}

func (aiConfigRow) TableName() string {
	return "ai_configs"
}

func (r *aiConfigRepository) GetActive(ctx context.Context) (*domain.AIConfig, error) {
	var row aiConfigRow
	err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return builtinConfig(), nil
		}
		return nil, err
	}

	cfg := &domain.AIConfig{
		BotName:       row.BotName,
		Personality:   row.Personality,
		FallbackReply: row.FallbackReply,
		Model:         row.Model,
		Temperature:   row.Temperature,
		MaxTokens:     row.MaxTokens,
		ContextLimit:  row.ContextLimit,
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if row.Guidelines != "" {
		if err := json.Unmarshal([]byte(row.Guidelines), &cfg.Guidelines); err != nil {
			logger.Log.Error("ai config guidelines unmarshal err :", zap.String("err", err.Error()))
		}
	}
	return cfg, nil
}

func builtinConfig() *domain.AIConfig {
	return &domain.AIConfig{
		BotName:       "Assistant",
		Personality:   "polite and helpful shop assistant",
		FallbackReply: "ขออภัยค่ะ เดี๋ยวแอดมินมาตอบนะคะ",
		Model:         defaultModel,
	}
}
