package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reward is the append-only record of an awarded prize. A user holds at
// most one reward per day, enforced by the same (userId, day) uniqueness
// as Participation.
type Reward struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Day         int                `bson:"day" json:"day"`
	Year        int                `bson:"year" json:"year"`
	PrizeName   string             `bson:"prizeName" json:"prizeName"`
	Sponsor     string             `bson:"sponsor,omitempty" json:"sponsor,omitempty"`
	SponsorLink string             `bson:"sponsorLink,omitempty" json:"sponsorLink,omitempty"`
	QRFilename  string             `bson:"qrFilename,omitempty" json:"qrFilename,omitempty"`
	QRContent   string             `bson:"qrContent,omitempty" json:"qrContent,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
