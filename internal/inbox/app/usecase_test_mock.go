package app

import (
	"context"
	"io"
	"sync"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/internal/inbox/repository"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// FetchPage moke fetch message page
func (m *MockMessageRepository) FetchPage(ctx context.Context, roomID string, before *time.Time, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, roomID, before, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// Insert moke insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// UpdateStatus moke update message status
func (m *MockMessageRepository) UpdateStatus(ctx context.Context, messageID string, status domain.MessageStatus) error {
	args := m.Called(ctx, messageID, status)
	return args.Error(0)
}

// MarkAllRead moke mark all read
func (m *MockMessageRepository) MarkAllRead(ctx context.Context, roomID, readerID string) error {
	args := m.Called(ctx, roomID, readerID)
	return args.Error(0)
}

// MockRoomRepository Mock RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

// Create moke create room
func (m *MockRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

// FindByID moke find room by room id
func (m *MockRoomRepository) FindByID(ctx context.Context, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByCustomer moke find room by customer id
func (m *MockRoomRepository) FindByCustomer(ctx context.Context, customerID string) (*domain.Room, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// List moke list rooms
func (m *MockRoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Room), args.Error(1)
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

// MockPushChannel Mock PushChannel
type MockPushChannel struct {
	mock.Mock
}

// Publish moke publish push event
func (m *MockPushChannel) Publish(ctx context.Context, roomID string, event domain.PushEvent) error {
	args := m.Called(ctx, roomID, event)
	return args.Error(0)
}

// Subscribe moke subscribe room channel
func (m *MockPushChannel) Subscribe(ctx context.Context, roomID string) (repository.PushSubscription, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).(repository.PushSubscription), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeSubscription 測試用訂閱，events/errs 由測試直接塞
type fakeSubscription struct {
	events chan domain.PushEvent
	errs   chan error

	mu     sync.Mutex
	closed bool
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		events: make(chan domain.PushEvent, 16),
		errs:   make(chan error, 1),
	}
}

func (f *fakeSubscription) Events() <-chan domain.PushEvent { return f.events }

func (f *fakeSubscription) Errs() <-chan error { return f.errs }

func (f *fakeSubscription) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSubscription) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// MockTypingRepository Mock TypingRepository
type MockTypingRepository struct {
	mock.Mock
}

// SetTyping moke set typing
func (m *MockTypingRepository) SetTyping(ctx context.Context, roomID, userID string, isTyping bool) error {
	args := m.Called(ctx, roomID, userID, isTyping)
	return args.Error(0)
}

// ActiveTypers moke list active typers
func (m *MockTypingRepository) ActiveTypers(ctx context.Context, roomID string) ([]string, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPauseRepository Mock PauseRepository
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

// MockMediaRepository Mock MediaRepository
type MockMediaRepository struct {
	mock.Mock
}

// ArchiveURL moke archive url
func (m *MockMediaRepository) ArchiveURL(ctx context.Context, messageID string) (string, error) {
	args := m.Called(ctx, messageID)
	return args.String(0), args.Error(1)
}

// Open moke open media stream
func (m *MockMediaRepository) Open(ctx context.Context, messageID string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

// MockSuggestionQueue Mock SuggestionQueue
type MockSuggestionQueue struct {
	mock.Mock
}

// Enqueue moke enqueue suggestion job
func (m *MockSuggestionQueue) Enqueue(job domain.SuggestionJob) error {
	args := m.Called(job)
	return args.Error(0)
}
