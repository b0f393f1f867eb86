// File: database/repository/consultation/consultation_mongo.go
package consultationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/models"
)

func (r *MongoConsultationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "seekerId", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("seeker_updated_idx"),
		},
		{
			Keys:    bson.D{{Key: "advisorId", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("advisor_updated_idx"),
		},
		{
			Keys:    bson.D{{Key: "seekerId", Value: 1}, {Key: "advisorId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("pair_status_idx"),
		},
		// One non-terminal consultation per (seeker, advisor) pair. The
		// in-transaction count check alone is not enough: snapshot-isolated
		// transactions inserting distinct documents do not conflict, so two
		// concurrent bookings for the same pair on different slots would
		// both commit. The unique partial index makes the second insert fail.
		{
			Keys: bson.D{{Key: "seekerId", Value: 1}, {Key: "advisorId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_pair").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{models.ConsultationPending, models.ConsultationActive}},
				}),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	return err
}

func (r *MongoConsultationRepo) GetByID(ctx context.Context, id string) (*models.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var consultation models.Consultation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&consultation); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch consultation %s: %w", id, err)
	}
	return &consultation, nil
}

func (r *MongoConsultationRepo) ListAll(ctx context.Context) ([]models.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	defer cursor.Close(ctx)

	consultations := []models.Consultation{}
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, fmt.Errorf("failed to decode consultations: %w", err)
	}
	return consultations, nil
}

func (r *MongoConsultationRepo) hasNonTerminal(ctx context.Context, seekerID, advisorID string) (bool, error) {
	filter := bson.M{
		"seekerId":  seekerID,
		"advisorId": advisorID,
		"status":    bson.M{"$in": []models.ConsultationStatus{models.ConsultationPending, models.ConsultationActive}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count active consultations: %w", err)
	}
	return count > 0, nil
}

func (r *MongoConsultationRepo) UpdateReview(ctx context.Context, id string, rating int, review string) (*models.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating":    rating,
		"review":    review,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var consultation models.Consultation
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&consultation); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record review for consultation %s: %w", id, err)
	}
	return &consultation, nil
}

func (r *MongoConsultationRepo) SetLastMessageAt(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"lastMessageAt": at, "updatedAt": at}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to update lastMessageAt for consultation %s: %w", id, err)
	}
	return nil
}
