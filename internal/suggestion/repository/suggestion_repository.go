package repository

import (
	"context"

	"chat_admin_service/internal/suggestion/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SuggestionRepository definition AI 回覆記錄 store
type SuggestionRepository interface {
	Save(ctx context.Context, s *domain.Suggestion) error
	// FindByRoom 取房間最近 limit 筆記錄，新的在前
	FindByRoom(ctx context.Context, roomID string, limit int64) ([]domain.Suggestion, error)
	FindByMessage(ctx context.Context, messageID string) (*domain.Suggestion, error)
}

type suggestionRepository struct {
	coll *mongo.Collection
}

// NewMongoSuggestionRepository create a SuggestionRepository
func NewMongoSuggestionRepository(db *mongo.Database) SuggestionRepository {
	return &suggestionRepository{
		coll: db.Collection("ai_suggestions"),
	}
}

func (r *suggestionRepository) Save(ctx context.Context, s *domain.Suggestion) error {
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

func (r *suggestionRepository) FindByRoom(ctx context.Context, roomID string, limit int64) ([]domain.Suggestion, error) {
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var suggestions []domain.Suggestion
	if err := cursor.All(ctx, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (r *suggestionRepository) FindByMessage(ctx context.Context, messageID string) (*domain.Suggestion, error) {
	var s domain.Suggestion
	if err := r.coll.FindOne(ctx, bson.M{"message_id": messageID}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
