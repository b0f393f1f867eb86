package models

import "time"

// MessageType distinguishes message payload kinds.
type MessageType string

const (
	MessageTypeText MessageType = "TEXT"
)

// DeletedMessageContent replaces the content of a soft-deleted message. The
// row is kept for audit and ordering.
const DeletedMessageContent = "This message has been deleted"

// Message is one entry in a consultation's append-only message log.
type Message struct {
	ID             string      `bson:"id" json:"id"`
	ConsultationID string      `bson:"consultationId" json:"consultationId"`
	SenderID       string      `bson:"senderId" json:"senderId"`
	Content        string      `bson:"content" json:"content"`
	Type           MessageType `bson:"type" json:"type"`
	Deleted        bool        `bson:"deleted" json:"deleted"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
	EditedAt       *time.Time  `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
	ReadAt         *time.Time  `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

// SendMessageRequest defines the payload for appending a message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// EditMessageRequest defines the payload for editing a message.
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
