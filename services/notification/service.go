// File: services/notification/service.go
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"consultly/models"
)

// OnBooking records a "new request" notification for the advisor and nudges
// their subscriptions. Invoked by the engine after the booking transaction
// commits.
func (s *DefaultNotificationService) OnBooking(ctx context.Context, consultation *models.Consultation) {
	recipient := models.Identity{SubjectID: consultation.AdvisorID, Role: models.RoleAdvisor}
	s.record(ctx, recipient, consultation,
		"New consultation request",
		"A seeker has requested a consultation with you.",
		models.NotificationTypeConsultation)
}

// OnTransition records a status-change notification for the non-acting
// participant and nudges their subscriptions.
func (s *DefaultNotificationService) OnTransition(ctx context.Context, consultation *models.Consultation, from, to models.ConsultationStatus, actor models.Identity) {
	recipient := models.Identity{SubjectID: consultation.SeekerID, Role: models.RoleSeeker}
	if actor.Role == models.RoleSeeker {
		recipient = models.Identity{SubjectID: consultation.AdvisorID, Role: models.RoleAdvisor}
	}

	status := strings.ToLower(string(to))
	s.record(ctx, recipient, consultation,
		fmt.Sprintf("Consultation %s", status),
		fmt.Sprintf("Your consultation has been %s.", status),
		models.NotificationTypeConsultation)
}

// OnReminder records an upcoming-session reminder for both participants.
func (s *DefaultNotificationService) OnReminder(ctx context.Context, consultation *models.Consultation) {
	body := "Your consultation starts soon."
	s.record(ctx, models.Identity{SubjectID: consultation.SeekerID, Role: models.RoleSeeker},
		consultation, "Upcoming consultation", body, models.NotificationTypeReminder)
	s.record(ctx, models.Identity{SubjectID: consultation.AdvisorID, Role: models.RoleAdvisor},
		consultation, "Upcoming consultation", body, models.NotificationTypeReminder)
}

func (s *DefaultNotificationService) List(ctx context.Context, recipient models.Identity) ([]models.Notification, error) {
	return s.Repo.ListForRecipient(ctx, recipient, 20)
}

func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, recipient models.Identity) (int64, error) {
	return s.Repo.MarkAllRead(ctx, recipient)
}

// record persists the notification, nudges the recipient's subscriptions,
// and fires the external push. All three are best-effort: a failed
// notification never rolls back the transition that caused it.
func (s *DefaultNotificationService) record(ctx context.Context, recipient models.Identity, consultation *models.Consultation, title, body, kind string) {
	n := &models.Notification{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   body,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}
	switch recipient.Role {
	case models.RoleSeeker:
		n.SeekerID = recipient.SubjectID
	case models.RoleAdvisor:
		n.AdvisorID = recipient.SubjectID
	}

	if err := s.Repo.Insert(ctx, n); err != nil {
		s.Logger.Error("failed to persist notification",
			zap.String("consultationId", consultation.ID), zap.Error(err))
	}

	if s.Broadcaster != nil {
		s.Broadcaster.PushTo(ctx, recipient)
	}

	if s.Push != nil {
		if err := s.Push.Push(ctx, recipient, title, body); err != nil {
			s.Logger.Warn("external push delivery failed",
				zap.String("consultationId", consultation.ID), zap.Error(err))
		}
	}
}
