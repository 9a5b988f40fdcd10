package domain

import "time"

// AIConfig AI 行為設定，guidelines 以 JSON 陣列存在文字欄位
type AIConfig struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"column:name" json:"name"`
	BotName       string    `gorm:"column:bot_name" json:"bot_name"`
	Personality   string    `gorm:"column:personality" json:"personality"`
	Guidelines    string    `gorm:"column:guidelines" json:"-"`
	FallbackReply string    `gorm:"column:fallback_reply" json:"fallback_reply"`
	Model         string    `gorm:"column:model" json:"model"`
	Temperature   float32   `gorm:"column:temperature" json:"temperature"`
	MaxTokens     int       `gorm:"column:max_tokens" json:"max_tokens"`
	ContextLimit  int       `gorm:"column:context_limit" json:"context_limit"`
	IsDefault     bool      `gorm:"column:is_default" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName gorm table name
func (AIConfig) TableName() string {
	return "ai_configs"
}

// OperatingHours 營業時間設定，schedule 以 JSON 存 7x24 格
type OperatingHours struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Enabled        bool      `gorm:"column:enabled" json:"enabled"`
	Timezone       string    `gorm:"column:timezone" json:"timezone"`
	Schedule       string    `gorm:"column:schedule" json:"-"`
	OfflineMessage string    `gorm:"column:offline_message" json:"offline_message"`
	Note           string    `gorm:"column:note" json:"note"`
	UpdatedBy      string    `gorm:"column:updated_by" json:"updated_by"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName gorm table name
func (OperatingHours) TableName() string {
	return "operating_hours"
}

// AdminUser 後台帳號
type AdminUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"column:username;uniqueIndex" json:"username"`
	Password  string    `gorm:"column:password" json:"-"`
	Role      string    `gorm:"column:role" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName gorm table name
func (AdminUser) TableName() string {
	return "admin_users"
}
