// File: services/consultation/interface.go
package consultation

import (
	"context"
	"time"

	"go.uber.org/zap"

	consultationRepo "consultly/database/repository/consultation"
	slotRepo "consultly/database/repository/slot"
	"consultly/models"
	"consultly/services/broadcast"
	"consultly/services/notification"
)

// ConsultationService owns the consultation state machine and orchestrates
// slot reservation and release as part of its transitions.
type ConsultationService interface {
	Book(ctx context.Context, seekerID string, req models.BookConsultationRequest) (*models.Consultation, error)
	Transition(ctx context.Context, consultationID string, actor models.Identity, req models.TransitionConsultationRequest) (*models.Consultation, error)
	Cancel(ctx context.Context, consultationID, seekerID, reason string) (*models.Consultation, error)
	RecordReview(ctx context.Context, consultationID, seekerID string, rating int, review string) (*models.Consultation, error)

	GetForParticipant(ctx context.Context, consultationID string, actor models.Identity) (*models.Consultation, error)
	SeekerSnapshot(ctx context.Context, seekerID string) ([]models.ConsultationSnapshot, error)
	AdvisorSnapshot(ctx context.Context, advisorID string) ([]models.ConsultationSnapshot, error)
	ListAll(ctx context.Context) ([]models.Consultation, error)
}

// ReminderScheduler enqueues a reminder ahead of the slot start. Nil-able:
// without a scheduler wired, bookings simply get no reminder.
type ReminderScheduler interface {
	ScheduleConsultationReminder(consultation *models.Consultation, startTime time.Time) error
}

// DefaultConsultationService implements ConsultationService.
type DefaultConsultationService struct {
	Repo            consultationRepo.ConsultationRepository
	Slots           slotRepo.SlotRepository
	Broadcaster     *broadcast.Broadcaster
	NotificationSvc notification.NotificationService
	Reminders       ReminderScheduler
	Logger          *zap.Logger
}

// SeekerSnapshot returns the full current state relevant to the seeker.
func (s *DefaultConsultationService) SeekerSnapshot(ctx context.Context, seekerID string) ([]models.ConsultationSnapshot, error) {
	return s.Repo.ListBySeeker(ctx, seekerID)
}

// AdvisorSnapshot returns the full current state relevant to the advisor.
func (s *DefaultConsultationService) AdvisorSnapshot(ctx context.Context, advisorID string) ([]models.ConsultationSnapshot, error) {
	return s.Repo.ListByAdvisor(ctx, advisorID)
}

// ListAll returns every consultation, newest activity first. Operator only.
func (s *DefaultConsultationService) ListAll(ctx context.Context) ([]models.Consultation, error) {
	return s.Repo.ListAll(ctx)
}
