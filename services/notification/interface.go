// File: services/notification/interface.go
package notification

import (
	"context"

	"go.uber.org/zap"

	notificationRepo "consultly/database/repository/notification"
	"consultly/models"
	"consultly/services/broadcast"
)

// PushProvider delivers a notification outside this process (mobile push,
// email). Delivery beyond the in-process broadcast is an external
// collaborator; the engine only needs this narrow surface.
type PushProvider interface {
	Push(ctx context.Context, recipient models.Identity, title, body string) error
}

// NotificationService records consultation events for the non-acting
// participant and nudges their open subscriptions.
type NotificationService interface {
	OnBooking(ctx context.Context, consultation *models.Consultation)
	OnTransition(ctx context.Context, consultation *models.Consultation, from, to models.ConsultationStatus, actor models.Identity)
	OnReminder(ctx context.Context, consultation *models.Consultation)
	List(ctx context.Context, recipient models.Identity) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, recipient models.Identity) (int64, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo        notificationRepo.NotificationRepository
	Broadcaster *broadcast.Broadcaster
	Push        PushProvider
	Logger      *zap.Logger
}

// LogPushProvider satisfies PushProvider without an external channel wired.
type LogPushProvider struct {
	Logger *zap.Logger
}

func (p *LogPushProvider) Push(_ context.Context, recipient models.Identity, title, _ string) error {
	p.Logger.Debug("push delivery skipped, no provider configured",
		zap.String("subject", recipient.SubjectID),
		zap.String("role", string(recipient.Role)),
		zap.String("title", title))
	return nil
}
