package app

import (
	"context"

	"chat_admin_service/internal/settings/domain"

	"github.com/stretchr/testify/mock"
)

// MockAIConfigRepository Mock AIConfigRepository
type MockAIConfigRepository struct {
	mock.Mock
}

// GetDefault moke get default config
func (m *MockAIConfigRepository) GetDefault(ctx context.Context) (*domain.AIConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.AIConfig), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID moke find config by id
func (m *MockAIConfigRepository) FindByID(ctx context.Context, id uint) (*domain.AIConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.AIConfig), args.Error(1)
	}
	return nil, args.Error(1)
}

// List moke list configs
func (m *MockAIConfigRepository) List(ctx context.Context) ([]domain.AIConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.AIConfig), args.Error(1)
	}
	return nil, args.Error(1)
}

// Save moke save config
func (m *MockAIConfigRepository) Save(ctx context.Context, cfg *domain.AIConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// Delete moke delete config
func (m *MockAIConfigRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHoursRepository Mock HoursRepository
type MockHoursRepository struct {
	mock.Mock
}

// Get moke get operating hours
func (m *MockHoursRepository) Get(ctx context.Context) (*domain.OperatingHours, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.OperatingHours), args.Error(1)
	}
	return nil, args.Error(1)
}

// Save moke save operating hours
func (m *MockHoursRepository) Save(ctx context.Context, hours *domain.OperatingHours) error {
	args := m.Called(ctx, hours)
	return args.Error(0)
}

// MockAdminRepository Mock AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

// Create moke create admin
func (m *MockAdminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

// FindByUsername moke find admin by username
func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.AdminUser), args.Error(1)
	}
	return nil, args.Error(1)
}
