// File: database/repository/notification/notification.go
package notificationRepo

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

// NotificationRepository persists notification records addressed to one
// recipient.
type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListForRecipient(ctx context.Context, identity models.Identity, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, identity models.Identity) (int64, error)
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo constructs a new MongoDB NotificationRepository.
func NewMongoNotificationRepo() NotificationRepository {
	repo := &mongoNotificationRepo{
		coll: database.DB().Collection("notifications"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("notification repo: failed to create indexes: %v", err)
	}
	return repo
}

func (r *mongoNotificationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "seekerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("seeker_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "advisorId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("advisor_created_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	return err
}

// recipientFilter scopes a query to one recipient identity.
func recipientFilter(identity models.Identity) bson.M {
	if identity.Role == models.RoleAdvisor {
		return bson.M{"advisorId": identity.SubjectID}
	}
	return bson.M{"seekerId": identity.SubjectID}
}

func (r *mongoNotificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepo) ListForRecipient(ctx context.Context, identity models.Identity, limit int) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, recipientFilter(identity), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *mongoNotificationRepo) MarkAllRead(ctx context.Context, identity models.Identity) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := recipientFilter(identity)
	filter["read"] = false
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}
