// File: services/broadcast/broadcaster.go
package broadcast

import (
	"context"

	"go.uber.org/zap"

	"consultly/models"
)

// Publisher is the hub surface mutating services depend on.
type Publisher interface {
	Publish(identity models.Identity, snapshot interface{})
}

// SnapshotSource produces the complete current state relevant to one
// identity. Implemented by the consultation engine.
type SnapshotSource interface {
	SeekerSnapshot(ctx context.Context, seekerID string) ([]models.ConsultationSnapshot, error)
	AdvisorSnapshot(ctx context.Context, advisorID string) ([]models.ConsultationSnapshot, error)
}

// Broadcaster fetches a subscriber's full state and hands it to the hub.
// Pushing complete snapshots rather than diffs makes the protocol
// self-healing across dropped connections.
type Broadcaster struct {
	Hub    Publisher
	Source SnapshotSource
	Logger *zap.Logger
}

// PushToSeeker publishes the seeker's current snapshot to all their open
// connections. Failures are logged, not propagated: a missed push is
// recovered by the subscriber's next fetch.
func (b *Broadcaster) PushToSeeker(ctx context.Context, seekerID string) {
	snapshot, err := b.Source.SeekerSnapshot(ctx, seekerID)
	if err != nil {
		b.Logger.Error("failed to build seeker snapshot",
			zap.String("seekerId", seekerID), zap.Error(err))
		return
	}
	b.Hub.Publish(models.Identity{SubjectID: seekerID, Role: models.RoleSeeker}, snapshot)
}

// PushToAdvisor publishes the advisor's current snapshot to all their open
// connections.
func (b *Broadcaster) PushToAdvisor(ctx context.Context, advisorID string) {
	snapshot, err := b.Source.AdvisorSnapshot(ctx, advisorID)
	if err != nil {
		b.Logger.Error("failed to build advisor snapshot",
			zap.String("advisorId", advisorID), zap.Error(err))
		return
	}
	b.Hub.Publish(models.Identity{SubjectID: advisorID, Role: models.RoleAdvisor}, snapshot)
}

// PushTo dispatches on the identity's role tag.
func (b *Broadcaster) PushTo(ctx context.Context, identity models.Identity) {
	switch identity.Role {
	case models.RoleSeeker:
		b.PushToSeeker(ctx, identity.SubjectID)
	case models.RoleAdvisor:
		b.PushToAdvisor(ctx, identity.SubjectID)
	}
}
