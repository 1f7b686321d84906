package mongodb

import (
	"context"
	"time"

	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// calendarStateKey identifies the singleton state document.
const calendarStateKey = "calendar"

// CalendarRepository implements repositories.CalendarRepository
type CalendarRepository struct {
	collection *mongo.Collection
}

// NewCalendarRepository creates a new CalendarRepository
func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{
		collection: db.Collection("calendar_state"),
	}
}

// Get returns the persisted calendar state. A missing document reads as
// inactive.
func (r *CalendarRepository) Get(ctx context.Context) (*models.CalendarState, error) {
	var state models.CalendarState
	err := r.collection.FindOne(ctx, bson.M{"key": calendarStateKey}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return &models.CalendarState{Active: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Set persists the calendar state immediately (idempotent upsert)
func (r *CalendarRepository) Set(ctx context.Context, active bool, updatedBy string) error {
	update := bson.M{"$set": bson.M{
		"active":    active,
		"updatedAt": time.Now(),
		"updatedBy": updatedBy,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"key": calendarStateKey}, update, opts)
	return err
}
