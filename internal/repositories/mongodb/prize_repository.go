package mongodb

import (
	"context"

	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PrizeRepository implements repositories.PrizeRepository
type PrizeRepository struct {
	collection *mongo.Collection
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *mongo.Database) *PrizeRepository {
	return &PrizeRepository{
		collection: db.Collection("prizes"),
	}
}

// EnsureIndexes creates the unique (name, sponsor) index that keys the pool
func (r *PrizeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: 1},
			{Key: "sponsor", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_name_sponsor"),
	})
	return err
}

// FindAll returns the pool ordered by configured position
func (r *PrizeRepository) FindAll(ctx context.Context) ([]models.PrizeEntry, error) {
	opts := options.Find().SetSort(bson.M{"position": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.PrizeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Replace swaps the whole pool for a new configuration
func (r *PrizeRepository) Replace(ctx context.Context, entries []models.PrizeEntry) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// DecrementRemaining is the pool's atomic check-and-decrement: the filter
// requires remaining > 0, so a race between two requests for the last unit
// resolves to exactly one success.
func (r *PrizeRepository) DecrementRemaining(ctx context.Context, name, sponsor string) (*models.PrizeEntry, error) {
	filter := bson.M{"name": name, "sponsor": sponsor, "remaining": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"remaining": -1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var entry models.PrizeEntry
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, repositories.ErrOutOfStock
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// IncrementRemaining returns one unit of stock, capped at the entry's total
func (r *PrizeRepository) IncrementRemaining(ctx context.Context, name, sponsor string) error {
	filter := bson.M{
		"name":    name,
		"sponsor": sponsor,
		"$expr":   bson.M{"$lt": bson.A{"$remaining", "$total"}},
	}
	update := bson.M{"$inc": bson.M{"remaining": 1}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrOutOfStock
	}
	return nil
}
