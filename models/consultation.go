package models

import "time"

// ConsultationStatus is the lifecycle state of a consultation.
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "PENDING"
	ConsultationActive    ConsultationStatus = "ACTIVE"
	ConsultationCompleted ConsultationStatus = "COMPLETED"
	ConsultationCancelled ConsultationStatus = "CANCELLED"
)

// Valid reports whether the status is a known lifecycle state.
func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationPending, ConsultationActive, ConsultationCompleted, ConsultationCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s ConsultationStatus) Terminal() bool {
	return s == ConsultationCompleted || s == ConsultationCancelled
}

// Consultation is a scheduled advisory session between a seeker and an
// advisor. Rows are never physically deleted; CANCELLED is a terminal status,
// not a removal.
type Consultation struct {
	ID            string             `bson:"id" json:"id"`
	SeekerID      string             `bson:"seekerId" json:"seekerId"`
	AdvisorID     string             `bson:"advisorId" json:"advisorId"`
	SlotID        string             `bson:"slotId" json:"slotId"`
	Status        ConsultationStatus `bson:"status" json:"status"`
	MeetingLink   string             `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	Rating        int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Review        string             `bson:"review,omitempty" json:"review,omitempty"`
	CancelReason  string             `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CancelledAt   *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	LastMessageAt *time.Time         `bson:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BookConsultationRequest defines the payload for a seeker reserving a slot.
// Message optionally seeds the conversation with an opening message.
type BookConsultationRequest struct {
	AdvisorID string `json:"advisorId" binding:"required"`
	SlotID    string `json:"slotId" binding:"required"`
	Message   string `json:"message"`
}

// TransitionConsultationRequest defines the payload for a status transition.
type TransitionConsultationRequest struct {
	Status      ConsultationStatus `json:"status" binding:"required"`
	MeetingLink string             `json:"meetingLink"`
}

// CancelConsultationRequest defines the payload for a seeker-side cancel.
type CancelConsultationRequest struct {
	Reason string `json:"reason"`
}

// ReviewConsultationRequest defines the payload for a post-completion review.
type ReviewConsultationRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}
