// File: database/repository/consultation/transaction.go
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

// withTransaction runs txnFn inside a mongo session transaction, aborting on
// error.
func (r *MongoConsultationRepo) withTransaction(ctx context.Context, txnFn func(sc mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// BookTransactionally reserves the slot and creates the consultation as one
// atomic unit. The slot reserve is a conditional update, so out of any number
// of concurrent bookings for the same slot exactly one commits; the rest abort
// with slotRepo.ErrSlotUnavailable.
func (r *MongoConsultationRepo) BookTransactionally(ctx context.Context, consultation *models.Consultation, opening *models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	txnFn := func(sc mongo.SessionContext) error {
		duplicate, err := r.hasNonTerminal(sc, consultation.SeekerID, consultation.AdvisorID)
		if err != nil {
			return err
		}
		if duplicate {
			return ErrDuplicateActive
		}

		if _, err := r.slotRepo.Reserve(sc, consultation.SlotID, consultation.AdvisorID); err != nil {
			return err
		}

		if _, err := r.coll.InsertOne(sc, consultation); err != nil {
			// The unique_active_pair index rejects a concurrent booking for
			// the same pair that the count check above could not see.
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicateActive
			}
			return fmt.Errorf("insert consultation failed: %w", err)
		}

		if opening != nil {
			if _, err := r.msgColl.InsertOne(sc, opening); err != nil {
				return fmt.Errorf("insert opening message failed: %w", err)
			}
		}
		return nil
	}

	return r.withTransaction(ctx, txnFn)
}

// TransitionTransactionally compare-and-swaps status from->to, applies any
// extra field updates, and releases the slot when entering a terminal state.
func (r *MongoConsultationRepo) TransitionTransactionally(ctx context.Context, id string, from, to models.ConsultationStatus, set map[string]interface{}) (*models.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	fields := bson.M{
		"status":    to,
		"updatedAt": time.Now().UTC(),
	}
	for k, v := range set {
		fields[k] = v
	}

	var updated models.Consultation
	txnFn := func(sc mongo.SessionContext) error {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		filter := bson.M{"id": id, "status": from}
		if err := r.coll.FindOneAndUpdate(sc, filter, bson.M{"$set": fields}, opts).Decode(&updated); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrStatusConflict
			}
			return fmt.Errorf("transition update failed: %w", err)
		}

		if to.Terminal() {
			if err := r.slotRepo.Release(sc, updated.SlotID); err != nil {
				return err
			}
		}
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return &updated, nil
}
