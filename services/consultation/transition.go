// File: services/consultation/transition.go
package consultation

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	consultationRepo "consultly/database/repository/consultation"
	"consultly/models"
	"consultly/utils"
)

// transitionAllowed is the state-machine table: which actor role may move a
// consultation along which edge. Terminal states have no outbound edges.
func transitionAllowed(from, to models.ConsultationStatus, actorRole models.Role) bool {
	switch {
	case from == models.ConsultationPending && to == models.ConsultationActive:
		return actorRole == models.RoleAdvisor
	case from == models.ConsultationPending && to == models.ConsultationCancelled:
		return actorRole == models.RoleAdvisor || actorRole == models.RoleSeeker
	case from == models.ConsultationActive && to == models.ConsultationCompleted:
		return actorRole == models.RoleAdvisor
	case from == models.ConsultationActive && to == models.ConsultationCancelled:
		return actorRole == models.RoleAdvisor || actorRole == models.RoleSeeker
	}
	return false
}

// Transition moves the consultation to the target status on behalf of the
// actor. The status swap is conditional on the starting state, so concurrent
// attempts from the same state cannot both succeed; entering a terminal
// state releases the slot in the same transaction.
func (s *DefaultConsultationService) Transition(ctx context.Context, consultationID string, actor models.Identity, req models.TransitionConsultationRequest) (*models.Consultation, error) {
	if !req.Status.Valid() {
		return nil, NewValidationError("unknown consultation status")
	}

	current, err := s.getScoped(ctx, consultationID, actor)
	if err != nil {
		return nil, err
	}

	from := current.Status
	if !transitionAllowed(from, req.Status, actor.Role) {
		return nil, NewInvalidTransitionError(from, req.Status)
	}

	// A seeker cancelling a pending consultation goes through the
	// notice-window rule regardless of which endpoint they used.
	if actor.Role == models.RoleSeeker && from == models.ConsultationPending && req.Status == models.ConsultationCancelled {
		if err := s.checkCancellationNotice(ctx, current); err != nil {
			return nil, err
		}
	}

	set := map[string]interface{}{}
	if req.MeetingLink != "" && actor.Role == models.RoleAdvisor {
		set["meetingLink"] = req.MeetingLink
	}
	if req.Status == models.ConsultationCancelled {
		set["cancelledAt"] = time.Now().UTC()
	}

	updated, err := s.Repo.TransitionTransactionally(ctx, consultationID, from, req.Status, set)
	if err != nil {
		if errors.Is(err, consultationRepo.ErrStatusConflict) {
			// Lost the race: the consultation left `from` under us.
			return nil, NewInvalidTransitionError(from, req.Status)
		}
		return nil, err
	}

	s.Logger.Info("consultation transitioned",
		zap.String("consultationId", consultationID),
		zap.String("from", string(from)),
		zap.String("to", string(req.Status)),
		zap.String("actor", string(actor.Role)))

	s.NotificationSvc.OnTransition(ctx, updated, from, req.Status, actor)
	s.Broadcaster.PushTo(ctx, actor)

	return updated, nil
}

// Cancel is the seeker-side cancel: legal only while PENDING and with at
// least 24 hours of notice before the slot start.
func (s *DefaultConsultationService) Cancel(ctx context.Context, consultationID, seekerID, reason string) (*models.Consultation, error) {
	actor := models.Identity{SubjectID: seekerID, Role: models.RoleSeeker}
	current, err := s.getScoped(ctx, consultationID, actor)
	if err != nil {
		return nil, err
	}

	if current.Status != models.ConsultationPending {
		return nil, NewInvalidTransitionError(current.Status, models.ConsultationCancelled)
	}
	if err := s.checkCancellationNotice(ctx, current); err != nil {
		return nil, err
	}

	set := map[string]interface{}{
		"cancelledAt": time.Now().UTC(),
	}
	if reason != "" {
		set["cancelReason"] = reason
	}

	updated, err := s.Repo.TransitionTransactionally(ctx, consultationID, models.ConsultationPending, models.ConsultationCancelled, set)
	if err != nil {
		if errors.Is(err, consultationRepo.ErrStatusConflict) {
			return nil, NewInvalidTransitionError(current.Status, models.ConsultationCancelled)
		}
		return nil, err
	}

	s.Logger.Info("consultation cancelled by seeker",
		zap.String("consultationId", consultationID),
		zap.String("seekerId", seekerID))

	s.NotificationSvc.OnTransition(ctx, updated, models.ConsultationPending, models.ConsultationCancelled, actor)
	s.Broadcaster.PushToSeeker(ctx, seekerID)

	return updated, nil
}

// RecordReview stores the seeker's rating and review on a completed
// consultation.
func (s *DefaultConsultationService) RecordReview(ctx context.Context, consultationID, seekerID string, rating int, review string) (*models.Consultation, error) {
	if rating < 1 || rating > 5 {
		return nil, NewValidationError("rating must be between 1 and 5")
	}

	current, err := s.Repo.GetByID(ctx, consultationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if current.SeekerID != seekerID {
		return nil, NewValidationError("can only review your own consultations")
	}
	if current.Status != models.ConsultationCompleted {
		return nil, NewValidationError("can only review completed consultations")
	}

	return s.Repo.UpdateReview(ctx, consultationID, rating, review)
}

// GetForParticipant fetches the consultation, scoped to the requesting
// participant. Operators see everything; a non-participant gets NotFound.
func (s *DefaultConsultationService) GetForParticipant(ctx context.Context, consultationID string, actor models.Identity) (*models.Consultation, error) {
	return s.getScoped(ctx, consultationID, actor)
}

func (s *DefaultConsultationService) getScoped(ctx context.Context, consultationID string, actor models.Identity) (*models.Consultation, error) {
	current, err := s.Repo.GetByID(ctx, consultationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch actor.Role {
	case models.RoleSeeker:
		if current.SeekerID != actor.SubjectID {
			return nil, ErrNotFound
		}
	case models.RoleAdvisor:
		if current.AdvisorID != actor.SubjectID {
			return nil, ErrNotFound
		}
	case models.RoleOperator:
		// Operators may inspect any consultation.
	default:
		return nil, ErrNotFound
	}
	return current, nil
}

func (s *DefaultConsultationService) checkCancellationNotice(ctx context.Context, current *models.Consultation) error {
	slot, err := s.Slots.GetByID(ctx, current.SlotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// No slot to give notice for; let the cancel proceed.
			return nil
		}
		return err
	}
	if time.Now().After(slot.StartTime.Add(-utils.CancellationNotice)) {
		return ErrCancellationWindowExpired
	}
	return nil
}
