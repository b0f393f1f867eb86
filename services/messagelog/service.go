// File: services/messagelog/service.go
package messagelog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	consultationRepo "consultly/database/repository/consultation"
	messageRepo "consultly/database/repository/message"
	"consultly/models"
	"consultly/services/broadcast"
	"consultly/utils"
)

// MessageLogService is the append-only message log layered on top of the
// consultation lifecycle: appends are gated on the consultation being
// PENDING or ACTIVE, and mutations are bounded to the sender within a
// 5-minute window.
type MessageLogService interface {
	Append(ctx context.Context, consultationID string, sender models.Identity, content string) (*models.Message, error)
	Edit(ctx context.Context, messageID, requesterID, content string) (*models.Message, error)
	SoftDelete(ctx context.Context, messageID, requesterID string) (*models.Message, error)
	MarkRead(ctx context.Context, consultationID string, reader models.Identity) (int64, error)
	List(ctx context.Context, consultationID string, reader models.Identity, page, limit int) ([]models.Message, int64, error)
}

// DefaultMessageLogService implements MessageLogService.
type DefaultMessageLogService struct {
	Repo          messageRepo.MessageRepository
	Consultations consultationRepo.ConsultationRepository
	Broadcaster   *broadcast.Broadcaster
	Logger        *zap.Logger
}

// Append stores a message, updates the consultation's lastMessageAt, and
// publishes a fresh snapshot to the other participant.
func (s *DefaultMessageLogService) Append(ctx context.Context, consultationID string, sender models.Identity, content string) (*models.Message, error) {
	consultation, err := s.participantConsultation(ctx, consultationID, sender)
	if err != nil {
		return nil, err
	}
	if consultation.Status != models.ConsultationPending && consultation.Status != models.ConsultationActive {
		return nil, ErrConsultationNotActive
	}

	now := time.Now().UTC()
	msg := &models.Message{
		ID:             uuid.New().String(),
		ConsultationID: consultationID,
		SenderID:       sender.SubjectID,
		Content:        content,
		Type:           models.MessageTypeText,
		CreatedAt:      now,
	}
	if err := s.Repo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.Consultations.SetLastMessageAt(ctx, consultationID, now); err != nil {
		s.Logger.Warn("failed to update lastMessageAt",
			zap.String("consultationId", consultationID), zap.Error(err))
	}

	// Notify the other side; the sender already has the message.
	if sender.Role == models.RoleSeeker {
		s.Broadcaster.PushToAdvisor(ctx, consultation.AdvisorID)
	} else {
		s.Broadcaster.PushToSeeker(ctx, consultation.SeekerID)
	}

	return msg, nil
}

// Edit replaces the content of the requester's own message within the
// mutation window.
func (s *DefaultMessageLogService) Edit(ctx context.Context, messageID, requesterID, content string) (*models.Message, error) {
	msg, err := s.mutableMessage(ctx, messageID, requesterID)
	if err != nil {
		return nil, err
	}

	editedAt := time.Now().UTC()
	if err := s.Repo.UpdateContent(ctx, messageID, content, editedAt); err != nil {
		return nil, err
	}
	msg.Content = content
	msg.EditedAt = &editedAt
	return msg, nil
}

// SoftDelete overwrites the message content with the deletion marker and
// flags the row; it is never physically removed.
func (s *DefaultMessageLogService) SoftDelete(ctx context.Context, messageID, requesterID string) (*models.Message, error) {
	msg, err := s.mutableMessage(ctx, messageID, requesterID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SoftDelete(ctx, messageID); err != nil {
		return nil, err
	}
	msg.Content = models.DeletedMessageContent
	msg.Deleted = true
	return msg, nil
}

// MarkRead stamps every unread message in the consultation not authored by
// the reader. Idempotent.
func (s *DefaultMessageLogService) MarkRead(ctx context.Context, consultationID string, reader models.Identity) (int64, error) {
	if _, err := s.participantConsultation(ctx, consultationID, reader); err != nil {
		return 0, err
	}
	return s.Repo.MarkAllRead(ctx, consultationID, reader.SubjectID)
}

// List returns one page of the consultation's messages, newest first.
func (s *DefaultMessageLogService) List(ctx context.Context, consultationID string, reader models.Identity, page, limit int) ([]models.Message, int64, error) {
	if _, err := s.participantConsultation(ctx, consultationID, reader); err != nil {
		return nil, 0, err
	}
	return s.Repo.List(ctx, consultationID, page, limit)
}

// participantConsultation loads the consultation and verifies the identity
// participates in it. Non-participants get NotFound rather than Forbidden so
// the endpoint does not leak which consultations exist.
func (s *DefaultMessageLogService) participantConsultation(ctx context.Context, consultationID string, identity models.Identity) (*models.Consultation, error) {
	consultation, err := s.Consultations.GetByID(ctx, consultationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}

	switch identity.Role {
	case models.RoleSeeker:
		if consultation.SeekerID != identity.SubjectID {
			return nil, ErrConsultationNotFound
		}
	case models.RoleAdvisor:
		if consultation.AdvisorID != identity.SubjectID {
			return nil, ErrConsultationNotFound
		}
	default:
		return nil, ErrConsultationNotFound
	}
	return consultation, nil
}

// mutableMessage fetches the message and enforces the ownership and window
// rules shared by Edit and SoftDelete.
func (s *DefaultMessageLogService) mutableMessage(ctx context.Context, messageID, requesterID string) (*models.Message, error) {
	msg, err := s.Repo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if msg.SenderID != requesterID {
		return nil, ErrForbidden
	}
	if time.Since(msg.CreatedAt) > utils.MessageMutationWindow {
		return nil, ErrEditWindowExpired
	}
	return msg, nil
}
