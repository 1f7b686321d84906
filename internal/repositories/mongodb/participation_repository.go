package mongodb

import (
	"context"
	"time"

	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParticipationRepository implements repositories.ParticipationRepository
type ParticipationRepository struct {
	collection *mongo.Collection
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(db *mongo.Database) *ParticipationRepository {
	return &ParticipationRepository{
		collection: db.Collection("participations"),
	}
}

// EnsureIndexes creates the unique (userId, day, year) index that enforces
// the one-attempt-per-day guarantee at the storage layer.
func (r *ParticipationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "day", Value: 1},
			{Key: "year", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_user_day_year"),
	})
	return err
}

// Create appends a participation record
func (r *ParticipationRepository) Create(ctx context.Context, p *models.Participation) error {
	p.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrAlreadyParticipated
	}
	return err
}

// Exists reports whether the user has already opened the given door
func (r *ParticipationRepository) Exists(ctx context.Context, userID primitive.ObjectID, day, year int) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID, "day": day, "year": year})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByUser returns all participations of one user for a year
func (r *ParticipationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, year int) ([]*models.Participation, error) {
	opts := options.Find().SetSort(bson.M{"day": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "year": year}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participations []*models.Participation
	if err := cursor.All(ctx, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

// CountByDay aggregates per-door participation counts for one year
func (r *ParticipationRepository) CountByDay(ctx context.Context, year int) (map[int]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"year": year}}},
		{{Key: "$group", Value: bson.M{"_id": "$day", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Day   int   `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Day] = row.Count
	}
	return counts, nil
}

// DeleteAll clears the participation ledger (admin reset)
func (r *ParticipationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
