package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PrizeEntry is one configured prize in the pool. Position preserves the
// admin-configured order; the entry at position 0 is the grand prize and is
// only drawable on the final calendar day.
type PrizeEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Position    int                `bson:"position" json:"position"`
	Name        string             `bson:"name" json:"name"`
	Total       int                `bson:"total" json:"total"`
	Remaining   int                `bson:"remaining" json:"remaining"`
	Sponsor     string             `bson:"sponsor,omitempty" json:"sponsor,omitempty"`
	SponsorLink string             `bson:"sponsorLink,omitempty" json:"sponsorLink,omitempty"`
}

// PoolStats is the aggregate view of the prize pool. Awarded is always
// recomputed as Total-Remaining, never stored.
type PoolStats struct {
	Entries   []PrizeEntry `json:"entries"`
	Total     int          `json:"total"`
	Remaining int          `json:"remaining"`
	Awarded   int          `json:"awarded"`
}
