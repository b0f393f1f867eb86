// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/models"
)

func (r *mongoSlotRepo) Create(ctx context.Context, slot *models.Slot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if slot.Duration == 0 {
		slot.Duration = int(slot.EndTime.Sub(slot.StartTime) / time.Minute)
	}
	slot.IsBooked = false
	slot.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	return nil
}

func (r *mongoSlotRepo) GetByID(ctx context.Context, slotID string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	if err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch slot %s: %w", slotID, err)
	}
	return &slot, nil
}

func (r *mongoSlotRepo) ListByAdvisor(ctx context.Context, advisorID string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"advisorId": advisorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for advisor %s: %w", advisorID, err)
	}
	defer cursor.Close(ctx)

	slots := []models.Slot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepo) ListAvailableByAdvisor(ctx context.Context, advisorID string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"advisorId": advisorID,
		"isBooked":  false,
		"startTime": bson.M{"$gt": time.Now().UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list available slots for advisor %s: %w", advisorID, err)
	}
	defer cursor.Close(ctx)

	slots := []models.Slot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepo) DeleteUnbooked(ctx context.Context, advisorID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": slotID, "advisorId": advisorID, "isBooked": false})
	if err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slotID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Reserve is the only path that flips isBooked true. The filter carries every
// precondition so reservation is one compare-and-swap: concurrent callers on
// the same slot see at most one match.
func (r *mongoSlotRepo) Reserve(ctx context.Context, slotID, advisorID string) (*models.Slot, error) {
	filter := bson.M{
		"id":        slotID,
		"advisorId": advisorID,
		"isBooked":  false,
		"startTime": bson.M{"$gt": time.Now().UTC()},
	}
	update := bson.M{"$set": bson.M{"isBooked": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.Slot
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to reserve slot %s: %w", slotID, err)
	}
	return &slot, nil
}

func (r *mongoSlotRepo) Release(ctx context.Context, slotID string) error {
	update := bson.M{"$set": bson.M{"isBooked": false}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": slotID}, update); err != nil {
		return fmt.Errorf("failed to release slot %s: %w", slotID, err)
	}
	return nil
}
