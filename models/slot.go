package models

import "time"

// Slot represents an advisor's reservable consultation window.
// IsBooked flips true only as part of a successful booking and back to false
// only when the owning consultation reaches a terminal status.
type Slot struct {
	ID        string    `bson:"id" json:"id"`
	AdvisorID string    `bson:"advisorId" json:"advisorId"`
	StartTime time.Time `bson:"startTime" json:"startTime"`
	EndTime   time.Time `bson:"endTime" json:"endTime"`
	Duration  int       `bson:"duration" json:"duration"` // minutes
	IsBooked  bool      `bson:"isBooked" json:"isBooked"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CreateSlotRequest defines the payload for an advisor publishing a new slot.
type CreateSlotRequest struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
}
