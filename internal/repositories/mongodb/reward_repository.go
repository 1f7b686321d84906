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

// RewardRepository implements repositories.RewardRepository
type RewardRepository struct {
	collection *mongo.Collection
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{
		collection: db.Collection("rewards"),
	}
}

// EnsureIndexes creates the unique (userId, day, year) index. A win only
// happens during a door open, so this mirrors the participation constraint.
func (r *RewardRepository) EnsureIndexes(ctx context.Context) error {
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

// Create appends a reward record
func (r *RewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	reward.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, reward)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrRewardConflict
	}
	return err
}

// FindByUser returns all rewards of one user, newest first
func (r *RewardRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rewards []*models.Reward
	if err := cursor.All(ctx, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

// FindByUserAndDay returns the reward for one door, if any
func (r *RewardRepository) FindByUserAndDay(ctx context.Context, userID primitive.ObjectID, day, year int) (*models.Reward, error) {
	var reward models.Reward
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "day": day, "year": year}).Decode(&reward)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// CountByUser counts all rewards ever held by the user, regardless of year
func (r *RewardRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// DeleteByUser removes all rewards of one user and returns the removed
// records so the caller can release the prizes back to the pool.
func (r *RewardRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error) {
	rewards, err := r.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rewards) == 0 {
		return nil, nil
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return nil, err
	}
	return rewards, nil
}

// DeleteAll clears the winner ledger (admin reset)
func (r *RewardRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
