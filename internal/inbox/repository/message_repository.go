package repository

import (
	"context"
	"fmt"
	"time"

	"chat_admin_service/internal/inbox/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// MessageRepository definition chat message store
type MessageRepository interface {
	// FetchPage 取 roomID 最新的 limit 筆訊息，newest-first。
	// before 非 nil 時只取嚴格早於 before 的訊息（向前翻頁）。
	FetchPage(ctx context.Context, roomID string, before *time.Time, limit int) ([]domain.Message, error)
	Insert(ctx context.Context, msg *domain.Message) error
	UpdateStatus(ctx context.Context, messageID string, status domain.MessageStatus) error
	// MarkAllRead 將 roomID 內非 readerID 發送且未讀的訊息改為已讀
	MarkAllRead(ctx context.Context, roomID, readerID string) error
}

type messageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository create a MessageRepository
func NewMessageRepository(db *pgxpool.Pool) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, room_id, sender_id, sender_role, message_type, content,
	media_url, media_type, media_size, thumbnail_url, sticker_id,
	status, delivered_at, read_at, created_at`

func (r *messageRepository) FetchPage(ctx context.Context, roomID string, before *time.Time, limit int) ([]domain.Message, error) {
	queryStr := "SELECT " + messageColumns + " FROM chat_messages WHERE room_id = $1"
	params := []interface{}{roomID}

	if before != nil {
		queryStr += " AND created_at < $2"
		params = append(params, *before)
	}
	queryStr += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(params)+1)
	params = append(params, limit)

	rows, err := r.db.Query(ctx, queryStr, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chat_messages(`+messageColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		msg.ID, msg.RoomID, msg.SenderID, msg.SenderRole, msg.MessageType, msg.Content,
		msg.MediaURL, msg.MediaType, msg.MediaSize, msg.ThumbnailURL, msg.StickerID,
		msg.Status, msg.DeliveredAt, msg.ReadAt, msg.CreatedAt,
	)
	return err
}

func (r *messageRepository) UpdateStatus(ctx context.Context, messageID string, status domain.MessageStatus) error {
	queryStr := "UPDATE chat_messages SET status = $1"
	switch status {
	case domain.StatusDelivered:
		queryStr += ", delivered_at = NOW()"
	case domain.StatusRead:
		queryStr += ", read_at = NOW()"
	}
	queryStr += " WHERE id = $2"

	_, err := r.db.Exec(ctx, queryStr, status, messageID)
	return err
}

func (r *messageRepository) MarkAllRead(ctx context.Context, roomID, readerID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE chat_messages SET status = $1, read_at = NOW()
		 WHERE room_id = $2 AND sender_id <> $3 AND status <> $1`,
		domain.StatusRead, roomID, readerID,
	)
	return err
}

func scanMessage(rows pgx.Rows) (domain.Message, error) {
	var m domain.Message
	err := rows.Scan(
		&m.ID, &m.RoomID, &m.SenderID, &m.SenderRole, &m.MessageType, &m.Content,
		&m.MediaURL, &m.MediaType, &m.MediaSize, &m.ThumbnailURL, &m.StickerID,
		&m.Status, &m.DeliveredAt, &m.ReadAt, &m.CreatedAt,
	)
	return m, err
}
