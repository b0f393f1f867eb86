// File: services/consultation/book.go
package consultation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	consultationRepo "consultly/database/repository/consultation"
	slotRepo "consultly/database/repository/slot"
	"consultly/models"
)

// Book reserves the slot and creates a PENDING consultation as one atomic
// unit: both succeed or both fail. An optional opening message seeds the
// conversation inside the same transaction.
func (s *DefaultConsultationService) Book(ctx context.Context, seekerID string, req models.BookConsultationRequest) (*models.Consultation, error) {
	slot, err := s.Slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}
	if slot.AdvisorID != req.AdvisorID {
		return nil, NewValidationError("slot does not belong to the requested advisor")
	}

	now := time.Now().UTC()
	consultation := &models.Consultation{
		ID:        uuid.New().String(),
		SeekerID:  seekerID,
		AdvisorID: req.AdvisorID,
		SlotID:    req.SlotID,
		Status:    models.ConsultationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var opening *models.Message
	if req.Message != "" {
		opening = &models.Message{
			ID:             uuid.New().String(),
			ConsultationID: consultation.ID,
			SenderID:       seekerID,
			Content:        req.Message,
			Type:           models.MessageTypeText,
			CreatedAt:      now,
		}
		consultation.LastMessageAt = &now
	}

	if err := s.Repo.BookTransactionally(ctx, consultation, opening); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotUnavailable):
			return nil, ErrSlotUnavailable
		case errors.Is(err, consultationRepo.ErrDuplicateActive):
			return nil, ErrDuplicateActive
		default:
			return nil, err
		}
	}

	s.Logger.Info("consultation booked",
		zap.String("consultationId", consultation.ID),
		zap.String("seekerId", seekerID),
		zap.String("advisorId", req.AdvisorID),
		zap.String("slotId", req.SlotID))

	// Post-commit side effects; none of these can un-book the slot.
	s.Broadcaster.PushToSeeker(ctx, seekerID)
	s.NotificationSvc.OnBooking(ctx, consultation)

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleConsultationReminder(consultation, slot.StartTime); err != nil {
			s.Logger.Warn("failed to schedule reminder",
				zap.String("consultationId", consultation.ID), zap.Error(err))
		}
	}

	return consultation, nil
}
