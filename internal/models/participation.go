package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation records that a user has opened one calendar door. It is
// written before any prize draw, so a crashed request can never be retried
// for a second chance on the same day. Unique per (userId, day).
type Participation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Day       int                `bson:"day" json:"day"`
	Year      int                `bson:"year" json:"year"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
