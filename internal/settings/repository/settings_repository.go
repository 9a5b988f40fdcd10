package repository

import (
	"context"
	"errors"

	"chat_admin_service/internal/settings/domain"

	"gorm.io/gorm"
)

// ErrNotFound 查無資料
var ErrNotFound = errors.New("record not found")

// AIConfigRepository definition AI 設定 store
type AIConfigRepository interface {
	GetDefault(ctx context.Context) (*domain.AIConfig, error)
	FindByID(ctx context.Context, id uint) (*domain.AIConfig, error)
	List(ctx context.Context) ([]domain.AIConfig, error)
	// Save 寫入設定，is_default 為 true 時其他設定的 default 會被清掉
	Save(ctx context.Context, cfg *domain.AIConfig) error
	Delete(ctx context.Context, id uint) error
}

// HoursRepository definition 營業時間 store，單列
type HoursRepository interface {
	Get(ctx context.Context) (*domain.OperatingHours, error)
	Save(ctx context.Context, hours *domain.OperatingHours) error
}

// AdminRepository definition 後台帳號 store
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
}

type aiConfigRepository struct {
	db *gorm.DB
}

// NewAIConfigRepository create a AIConfigRepository
func NewAIConfigRepository(db *gorm.DB) AIConfigRepository {
	return &aiConfigRepository{db: db}
}

func (r *aiConfigRepository) GetDefault(ctx context.Context) (*domain.AIConfig, error) {
	var cfg domain.AIConfig
	err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *aiConfigRepository) FindByID(ctx context.Context, id uint) (*domain.AIConfig, error) {
	var cfg domain.AIConfig
	err := r.db.WithContext(ctx).First(&cfg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *aiConfigRepository) List(ctx context.Context) ([]domain.AIConfig, error) {
	var configs []domain.AIConfig
	if err := r.db.WithContext(ctx).Order("id").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *aiConfigRepository) Save(ctx context.Context, cfg *domain.AIConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同時間只允許一份 default
		if cfg.IsDefault {
			if err := tx.Model(&domain.AIConfig{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(cfg).Error
	})
}

func (r *aiConfigRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.AIConfig{}, id).Error
}

type hoursRepository struct {
	db *gorm.DB
}

// NewHoursRepository create a HoursRepository
func NewHoursRepository(db *gorm.DB) HoursRepository {
	return &hoursRepository{db: db}
}

func (r *hoursRepository) Get(ctx context.Context) (*domain.OperatingHours, error) {
	var hours domain.OperatingHours
	err := r.db.WithContext(ctx).First(&hours).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &hours, nil
}

func (r *hoursRepository) Save(ctx context.Context, hours *domain.OperatingHours) error {
	return r.db.WithContext(ctx).Save(hours).Error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository create a AdminRepository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}
