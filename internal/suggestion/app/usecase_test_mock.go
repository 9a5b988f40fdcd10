package app

import (
	"context"
	"time"

	inboxdomain "chat_admin_service/internal/inbox/domain"
	inboxrepo "chat_admin_service/internal/inbox/repository"
	"chat_admin_service/internal/suggestion/domain"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/mock"
)

// MockChatCompleter Mock openai client
type MockChatCompleter struct {
	mock.Mock
}

// CreateChatCompletion moke chat completion
func (m *MockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

// MockAIConfigRepository Mock AIConfigRepository
type MockAIConfigRepository struct {
	mock.Mock
}

// GetActive moke get active config
func (m *MockAIConfigRepository) GetActive(ctx context.Context) (*domain.AIConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.AIConfig), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSuggestionRepository Mock SuggestionRepository
type MockSuggestionRepository struct {
	mock.Mock
}

// Save moke save suggestion
func (m *MockSuggestionRepository) Save(ctx context.Context, s *domain.Suggestion) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// FindByRoom moke find suggestions by room
func (m *MockSuggestionRepository) FindByRoom(ctx context.Context, roomID string, limit int64) ([]domain.Suggestion, error) {
	args := m.Called(ctx, roomID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Suggestion), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByMessage moke find suggestion by message
func (m *MockSuggestionRepository) FindByMessage(ctx context.Context, messageID string) (*domain.Suggestion, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Suggestion), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMessageRepository Mock inbox MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// FetchPage moke fetch message page
func (m *MockMessageRepository) FetchPage(ctx context.Context, roomID string, before *time.Time, limit int) ([]inboxdomain.Message, error) {
	args := m.Called(ctx, roomID, before, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]inboxdomain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// Insert moke insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *inboxdomain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// UpdateStatus moke update message status
func (m *MockMessageRepository) UpdateStatus(ctx context.Context, messageID string, status inboxdomain.MessageStatus) error {
	args := m.Called(ctx, messageID, status)
	return args.Error(0)
}

// MarkAllRead moke mark all read
func (m *MockMessageRepository) MarkAllRead(ctx context.Context, roomID, readerID string) error {
	args := m.Called(ctx, roomID, readerID)
	return args.Error(0)
}

// MockRoomRepository Mock inbox RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

// Create moke create room
func (m *MockRoomRepository) Create(ctx context.Context, room *inboxdomain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

// FindByID moke find room by id
func (m *MockRoomRepository) FindByID(ctx context.Context, roomID string) (*inboxdomain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).(*inboxdomain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByCustomer moke find room by customer
func (m *MockRoomRepository) FindByCustomer(ctx context.Context, customerID string) (*inboxdomain.Room, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) != nil {
		return args.Get(0).(*inboxdomain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// List moke list rooms
func (m *MockRoomRepository) List(ctx context.Context) ([]inboxdomain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]inboxdomain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// SetAIEnabled moke set ai enabled
func (m *MockRoomRepository) SetAIEnabled(ctx context.Context, roomID string, enabled bool) error {
	args := m.Called(ctx, roomID, enabled)
	return args.Error(0)
}

// Touch moke touch room activity
func (m *MockRoomRepository) Touch(ctx context.Context, roomID string, at time.Time, incrementUnread bool) error {
	args := m.Called(ctx, roomID, at, incrementUnread)
	return args.Error(0)
}

// ResetUnread moke reset unread
func (m *MockRoomRepository) ResetUnread(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// MockPauseRepository Mock inbox PauseRepository
type MockPauseRepository struct {
	mock.Mock
}

// Pause moke pause ai
func (m *MockPauseRepository) Pause(ctx context.Context, roomID string, duration time.Duration) error {
	args := m.Called(ctx, roomID, duration)
	return args.Error(0)
}

// Resume moke resume ai
func (m *MockPauseRepository) Resume(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// IsPaused moke check paused
func (m *MockPauseRepository) IsPaused(ctx context.Context, roomID string) (bool, int, error) {
	args := m.Called(ctx, roomID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

// MockPushChannel Mock inbox PushChannel
type MockPushChannel struct {
	mock.Mock
}

// Publish moke publish push event
func (m *MockPushChannel) Publish(ctx context.Context, roomID string, event inboxdomain.PushEvent) error {
	args := m.Called(ctx, roomID, event)
	return args.Error(0)
}

// Subscribe moke subscribe room channel
func (m *MockPushChannel) Subscribe(ctx context.Context, roomID string) (inboxrepo.PushSubscription, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).(inboxrepo.PushSubscription), args.Error(1)
	}
	return nil, args.Error(1)
}
