package models

import "time"

// Notification types.
const (
	NotificationTypeConsultation = "CONSULTATION"
	NotificationTypeMessage      = "MESSAGE"
	NotificationTypeReminder     = "REMINDER"
)

// Notification is a persisted record of a consultation event addressed to
// one recipient (seeker or advisor, never both).
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	Type      string    `bson:"type" json:"type"`
	Read      bool      `bson:"read" json:"read"`
	SeekerID  string    `bson:"seekerId,omitempty" json:"seekerId,omitempty"`
	AdvisorID string    `bson:"advisorId,omitempty" json:"advisorId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ReminderPayload is the asynq task payload for a scheduled consultation
// reminder.
type ReminderPayload struct {
	ConsultationID string `json:"consultationId"`
	StartTime      string `json:"startTime"`
}
