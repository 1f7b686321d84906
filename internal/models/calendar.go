package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarState is the process-wide on/off switch for door opening. A
// single document, mutated only by admin action and read by every
// door-open attempt.
type CalendarState struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Active    bool               `bson:"active" json:"active"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// DoorStatus is the per-user view of one calendar door, recomputed from
// the participation ledger on every request.
type DoorStatus struct {
	Day      int  `json:"day"`
	Opened   bool `json:"opened"`
	Openable bool `json:"openable"`
}
