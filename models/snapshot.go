package models

// ConsultationSnapshot is the full per-consultation view pushed to
// subscribers. Pushes always carry complete state, never diffs, so a client
// that reconnects after missing pushes is made whole by the next one.
type ConsultationSnapshot struct {
	Consultation Consultation `bson:"consultation" json:"consultation"`
	Slot         *Slot        `bson:"slot,omitempty" json:"slot,omitempty"`
	LastMessage  *Message     `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	UnreadCount  int          `bson:"unreadCount,omitempty" json:"unreadCount,omitempty"`
}
