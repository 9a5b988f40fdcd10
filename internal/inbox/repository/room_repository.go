package repository

import (
	"context"
	"errors"
	"time"

	"chat_admin_service/internal/inbox/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrRoomNotFound room id 不存在
var ErrRoomNotFound = errors.New("room not found")

// RoomRepository definition chat room store
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	FindByID(ctx context.Context, roomID string) (*domain.Room, error)
	// FindByCustomer 依客戶 ID 找對話串，找不到回傳 ErrRoomNotFound
	FindByCustomer(ctx context.Context, customerID string) (*domain.Room, error)
	// List 依最後活動時間排序列出所有房間
	List(ctx context.Context) ([]domain.Room, error)
	SetAIEnabled(ctx context.Context, roomID string, enabled bool) error
	// Touch 更新最後活動時間，incrementUnread 為 true 時未讀數 +1
	Touch(ctx context.Context, roomID string, at time.Time, incrementUnread bool) error
	ResetUnread(ctx context.Context, roomID string) error
}

type roomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository create a RoomRepository
func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &roomRepository{db: db}
}

const roomColumns = `id, customer_id, customer_name, channel, ai_enabled, unread_count, last_activity_at, created_at`

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chat_rooms(`+roomColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		room.ID, room.CustomerID, room.CustomerName, room.Channel,
		room.AIEnabled, room.UnreadCount, room.LastActivityAt, room.CreatedAt,
	)
	return err
}

func (r *roomRepository) FindByID(ctx context.Context, roomID string) (*domain.Room, error) {
	return r.findOne(ctx, "SELECT "+roomColumns+" FROM chat_rooms WHERE id = $1", roomID)
}

func (r *roomRepository) FindByCustomer(ctx context.Context, customerID string) (*domain.Room, error) {
	return r.findOne(ctx, "SELECT "+roomColumns+" FROM chat_rooms WHERE customer_id = $1", customerID)
}

func (r *roomRepository) findOne(ctx context.Context, queryStr string, arg interface{}) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, queryStr, arg)
	var room domain.Room
	err := row.Scan(
		&room.ID, &room.CustomerID, &room.CustomerName, &room.Channel,
		&room.AIEnabled, &room.UnreadCount, &room.LastActivityAt, &room.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+roomColumns+" FROM chat_rooms ORDER BY last_activity_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID, &room.CustomerID, &room.CustomerName, &room.Channel,
			&room.AIEnabled, &room.UnreadCount, &room.LastActivityAt, &room.CreatedAt,
		); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *roomRepository) SetAIEnabled(ctx context.Context, roomID string, enabled bool) error {
	_, err := r.db.Exec(ctx, "UPDATE chat_rooms SET ai_enabled = $1 WHERE id = $2", enabled, roomID)
	return err
}

func (r *roomRepository) Touch(ctx context.Context, roomID string, at time.Time, incrementUnread bool) error {
	queryStr := "UPDATE chat_rooms SET last_activity_at = $1"
	if incrementUnread {
		queryStr += ", unread_count = unread_count + 1"
	}
	queryStr += " WHERE id = $2"
	_, err := r.db.Exec(ctx, queryStr, at, roomID)
	return err
}

func (r *roomRepository) ResetUnread(ctx context.Context, roomID string) error {
	_, err := r.db.Exec(ctx, "UPDATE chat_rooms SET unread_count = 0 WHERE id = $1", roomID)
	return err
}
