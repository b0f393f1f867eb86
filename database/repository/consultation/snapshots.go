// File: database/repository/consultation/snapshots.go
package consultationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"consultly/models"
)

// snapshotRow is the intermediate shape produced by the snapshot pipeline.
type snapshotRow struct {
	Consultation models.Consultation `bson:",inline"`
	SlotDocs     []models.Slot       `bson:"slotDocs"`
	LastMessage  []models.Message    `bson:"lastMessageDocs"`
	UnreadCount  int                 `bson:"unreadCount"`
}

// ListBySeeker returns the seeker's consultations joined with their slot,
// latest message, and unread count, newest activity first. This is the full
// state pushed to that seeker's subscriptions.
func (r *MongoConsultationRepo) ListBySeeker(ctx context.Context, seekerID string) ([]models.ConsultationSnapshot, error) {
	return r.listSnapshots(ctx, bson.M{"seekerId": seekerID}, seekerID)
}

// ListByAdvisor is the advisor-side counterpart of ListBySeeker.
func (r *MongoConsultationRepo) ListByAdvisor(ctx context.Context, advisorID string) ([]models.ConsultationSnapshot, error) {
	return r.listSnapshots(ctx, bson.M{"advisorId": advisorID}, advisorID)
}

func (r *MongoConsultationRepo) listSnapshots(ctx context.Context, match bson.M, readerID string) ([]models.ConsultationSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "updatedAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "slots",
			"localField":   "slotId",
			"foreignField": "id",
			"as":           "slotDocs",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "messages",
			"let":  bson.M{"cid": "$id"},
			"pipeline": mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": []interface{}{"$consultationId", "$$cid"}}}}},
				{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
				{{Key: "$limit", Value: 1}},
			},
			"as": "lastMessageDocs",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "messages",
			"let":  bson.M{"cid": "$id"},
			"pipeline": mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"$expr": bson.M{"$and": []interface{}{
					bson.M{"$eq": []interface{}{"$consultationId", "$$cid"}},
					bson.M{"$ne": []interface{}{"$senderId", readerID}},
					bson.M{"$lte": []interface{}{"$readAt", nil}},
				}}}}},
				{{Key: "$count", Value: "n"}},
			},
			"as": "unreadDocs",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"unreadCount": bson.M{"$ifNull": []interface{}{
				bson.M{"$arrayElemAt": []interface{}{"$unreadDocs.n", 0}}, 0,
			}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate consultation snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []snapshotRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode consultation snapshots: %w", err)
	}

	snapshots := make([]models.ConsultationSnapshot, 0, len(rows))
	for _, row := range rows {
		snap := models.ConsultationSnapshot{
			Consultation: row.Consultation,
			UnreadCount:  row.UnreadCount,
		}
		if len(row.SlotDocs) > 0 {
			slot := row.SlotDocs[0]
			snap.Slot = &slot
		}
		if len(row.LastMessage) > 0 {
			msg := row.LastMessage[0]
			snap.LastMessage = &msg
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
