// File: database/repository/message/message.go
package messageRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/database"
	"consultly/models"
	"consultly/utils"
)

// MessageRepository persists the append-only per-consultation message log.
// Messages are never removed; soft deletion overwrites content and flags the
// row, preserving it for audit and ordering.
type MessageRepository interface {
	Insert(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	List(ctx context.Context, consultationID string, page, limit int) ([]models.Message, int64, error)
	UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error
	SoftDelete(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, consultationID, readerID string) (int64, error)
}

type mongoMessageRepo struct {
	coll *mongo.Collection
}

// NewMongoMessageRepo constructs a new MongoDB MessageRepository.
func NewMongoMessageRepo() MessageRepository {
	repo := &mongoMessageRepo{
		coll: database.DB().Collection("messages"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("message repo: failed to create indexes: %v", err)
	}
	return repo
}

func (r *mongoMessageRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "consultationId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("consultation_created_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	return err
}

func (r *mongoMessageRepo) Insert(ctx context.Context, msg *models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *mongoMessageRepo) GetByID(ctx context.Context, id string) (*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var msg models.Message
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&msg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}
	return &msg, nil
}

// List returns one page of messages, newest first, plus the total count for
// pagination.
func (r *mongoMessageRepo) List(ctx context.Context, consultationID string, page, limit int) ([]models.Message, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	filter := bson.M{"consultationId": consultationID}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, total, nil
}

func (r *mongoMessageRepo) UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"content": content, "editedAt": editedAt}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to edit message %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoMessageRepo) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"content": models.DeletedMessageContent,
		"deleted": true,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllRead stamps readAt on every unread message in the consultation not
// authored by the reader. Re-running it matches nothing, so it is idempotent.
func (r *mongoMessageRepo) MarkAllRead(ctx context.Context, consultationID, readerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"consultationId": consultationID,
		"senderId":       bson.M{"$ne": readerID},
		"readAt":         nil,
	}
	update := bson.M{"$set": bson.M{"readAt": time.Now().UTC()}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return res.ModifiedCount, nil
}
