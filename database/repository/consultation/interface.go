// File: database/repository/consultation/interface.go
package consultationRepo

import (
	"context"
	"errors"
	"time"

	"consultly/database"
	slotRepo "consultly/database/repository/slot"
	"consultly/models"
	"consultly/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateActive is returned when the seeker already has a
	// non-terminal consultation with the same advisor.
	ErrDuplicateActive = errors.New("seeker already has an active consultation with this advisor")
	// ErrStatusConflict is returned when a conditional status update matched
	// no document: the consultation was mutated concurrently or never
	// existed in the expected state.
	ErrStatusConflict = errors.New("consultation not in expected status")
)

// ConsultationRepository persists consultations. Booking and terminal
// transitions run as multi-document transactions so the slot flip and the
// consultation write commit or abort as one unit.
type ConsultationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Consultation, error)
	ListBySeeker(ctx context.Context, seekerID string) ([]models.ConsultationSnapshot, error)
	ListByAdvisor(ctx context.Context, advisorID string) ([]models.ConsultationSnapshot, error)
	ListAll(ctx context.Context) ([]models.Consultation, error)

	// BookTransactionally reserves the slot, verifies the seeker has no other
	// non-terminal consultation with the advisor, and inserts the
	// consultation (plus optional opening message) inside one transaction.
	BookTransactionally(ctx context.Context, consultation *models.Consultation, opening *models.Message) error

	// TransitionTransactionally performs a compare-and-swap on the status
	// field and, when the target is terminal, releases the slot in the same
	// transaction. Concurrent attempts from the same starting state cannot
	// both succeed.
	TransitionTransactionally(ctx context.Context, id string, from, to models.ConsultationStatus, set map[string]interface{}) (*models.Consultation, error)

	UpdateReview(ctx context.Context, id string, rating int, review string) (*models.Consultation, error)
	SetLastMessageAt(ctx context.Context, id string, at time.Time) error
}

// MongoConsultationRepo implements ConsultationRepository using MongoDB.
type MongoConsultationRepo struct {
	coll     *mongo.Collection
	msgColl  *mongo.Collection
	slotRepo slotRepo.SlotRepository
}

// NewMongoConsultationRepo constructs a ConsultationRepository bound to the
// given slot repository, which it drives inside its transactions.
func NewMongoConsultationRepo(slots slotRepo.SlotRepository) *MongoConsultationRepo {
	db := database.DB()
	repo := &MongoConsultationRepo{
		coll:     db.Collection("consultations"),
		msgColl:  db.Collection("messages"),
		slotRepo: slots,
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("consultation repo: failed to create indexes: %v", err)
	}
	return repo
}
