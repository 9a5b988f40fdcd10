package repository

import (
	"context"
	"time"

	"chat_admin_service/internal/analytics/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// StatsRepository definition 分析用的聚合查詢
type StatsRepository interface {
	// DailyVolume 期間內每日訊息量，依角色拆開
	DailyVolume(ctx context.Context, from, to time.Time) ([]domain.DailyVolume, error)
	Summary(ctx context.Context, from, to time.Time) (*domain.Summary, error)
	// CustomerTexts 期間內客戶的文字訊息，給關鍵字與情緒分析用
	CustomerTexts(ctx context.Context, from, to time.Time, limit int) ([]string, error)
	// SalesOverview 期間內付款單彙整
	SalesOverview(ctx context.Context, from, to time.Time) (*domain.SalesOverview, error)
	// CustomerSegments 期間內有發話的客戶，依房間建立時間分新舊客
	CustomerSegments(ctx context.Context, from, to time.Time, topLimit int) (*domain.CustomerSegments, error)
}

type statsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository create a StatsRepository
func NewStatsRepository(db *pgxpool.Pool) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) DailyVolume(ctx context.Context, from, to time.Time) ([]domain.DailyVolume, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day,
		       COUNT(*) FILTER (WHERE sender_role = 'customer'),
		       COUNT(*) FILTER (WHERE sender_role = 'agent'),
		       COUNT(*) FILTER (WHERE sender_role = 'ai')
		FROM chat_messages
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY day
		ORDER BY day`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volumes []domain.DailyVolume
	for rows.Next() {
		var v domain.DailyVolume
		if err := rows.Scan(&v.Date, &v.Customer, &v.Agent, &v.AI); err != nil {
			return nil, err
		}
		volumes = append(volumes, v)
	}
	return volumes, rows.Err()
}

func (r *statsRepository) Summary(ctx context.Context, from, to time.Time) (*domain.Summary, error) {
	summary := domain.Summary{From: from, To: to}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE sender_role = 'ai'),
		       COUNT(*) FILTER (WHERE sender_role = 'agent'),
		       COUNT(DISTINCT room_id)
		FROM chat_messages
		WHERE created_at >= $1 AND created_at < $2`, from, to).
		Scan(&summary.TotalMessages, &summary.AIMessages, &summary.AgentMessages, &summary.ActiveRooms)
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM chat_rooms").Scan(&summary.TotalRooms); err != nil {
		return nil, err
	}

	if replies := summary.AIMessages + summary.AgentMessages; replies > 0 {
		summary.AIReplyRate = float64(summary.AIMessages) / float64(replies)
	}
	return &summary, nil
}

func (r *statsRepository) CustomerTexts(ctx context.Context, from, to time.Time, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT content FROM chat_messages
		WHERE sender_role = 'customer'
		  AND message_type = 'text'
		  AND content <> ''
		  AND created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		texts = append(texts, s)
	}
	return texts, rows.Err()
}

func (r *statsRepository) SalesOverview(ctx context.Context, from, to time.Time) (*domain.SalesOverview, error) {
	var overview domain.SalesOverview

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'verified'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'verified'), 0)
		FROM payment_slips
		WHERE created_at >= $1 AND created_at < $2`, from, to).
		Scan(&overview.TotalSlips, &overview.VerifiedSlips, &overview.Revenue)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payment_slips
		WHERE status = 'verified' AND created_at >= $1 AND created_at < $2
		GROUP BY day
		ORDER BY day`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.DailyRevenue
		if err := rows.Scan(&d.Date, &d.Slips, &d.Amount); err != nil {
			return nil, err
		}
		overview.Daily = append(overview.Daily, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bankRows, err := r.db.Query(ctx, `
		SELECT bank, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payment_slips
		WHERE status = 'verified' AND created_at >= $1 AND created_at < $2
		GROUP BY bank
		ORDER BY COUNT(*) DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer bankRows.Close()

	for bankRows.Next() {
		var b domain.BankCount
		if err := bankRows.Scan(&b.Bank, &b.Count, &b.Amount); err != nil {
			return nil, err
		}
		overview.Banks = append(overview.Banks, b)
	}
	return &overview, bankRows.Err()
}

func (r *statsRepository) CustomerSegments(ctx context.Context, from, to time.Time, topLimit int) (*domain.CustomerSegments, error) {
	var segments domain.CustomerSegments

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE r.created_at >= $1),
		       COUNT(*) FILTER (WHERE r.created_at < $1)
		FROM chat_rooms r
		WHERE EXISTS (
			SELECT 1 FROM chat_messages m
			WHERE m.room_id = r.id
			  AND m.sender_role = 'customer'
			  AND m.created_at >= $1 AND m.created_at < $2
		)`, from, to).
		Scan(&segments.NewCustomers, &segments.ReturningCustomers)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.customer_name, COUNT(m.id)
		FROM chat_rooms r
		JOIN chat_messages m ON m.room_id = r.id
		WHERE m.sender_role = 'customer'
		  AND m.created_at >= $1 AND m.created_at < $2
		GROUP BY r.id, r.customer_name
		ORDER BY COUNT(m.id) DESC
		LIMIT $3`, from, to, topLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.TopCustomer
		if err := rows.Scan(&t.RoomID, &t.CustomerName, &t.Messages); err != nil {
			return nil, err
		}
		segments.Top = append(segments.Top, t)
	}
	return &segments, rows.Err()
}
