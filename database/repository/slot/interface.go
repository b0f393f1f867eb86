// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"

	"consultly/database"
	"consultly/models"
	"consultly/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotUnavailable is returned when a reservation target is already booked,
// has started, or does not exist.
var ErrSlotUnavailable = errors.New("slot is unavailable")

// SlotRepository owns reservable slots. Reserve and Release must only be
// invoked from within the consultation engine's atomic operations; any
// read-then-write split outside a transaction reintroduces the double-booking
// race.
type SlotRepository interface {
	Create(ctx context.Context, slot *models.Slot) error
	GetByID(ctx context.Context, slotID string) (*models.Slot, error)
	ListByAdvisor(ctx context.Context, advisorID string) ([]models.Slot, error)
	ListAvailableByAdvisor(ctx context.Context, advisorID string) ([]models.Slot, error)
	DeleteUnbooked(ctx context.Context, advisorID, slotID string) error

	// Reserve atomically flips isBooked false->true for a future slot owned
	// by the advisor. It is a single conditional update; the passed context
	// may be a mongo session context so it participates in the caller's
	// transaction.
	Reserve(ctx context.Context, slotID, advisorID string) (*models.Slot, error)
	// Release idempotently clears isBooked.
	Release(ctx context.Context, slotID string) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	repo := &mongoSlotRepo{
		coll: database.DB().Collection("slots"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("slot repo: failed to create indexes: %v", err)
	}
	return repo
}
