package repositories

import (
	"context"
	"errors"

	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrAlreadyParticipated is returned by ParticipationRepository.Create when
// a record for the same (user, day) already exists. It is the storage-level
// backstop for the one-attempt-per-day guarantee.
var ErrAlreadyParticipated = errors.New("participation already recorded for this user and day")

// ErrRewardConflict is returned by RewardRepository.Create when the user
// already holds a reward for that day.
var ErrRewardConflict = errors.New("reward already recorded for this user and day")

// ErrOutOfStock is returned by PrizeRepository.DecrementRemaining when the
// conditional decrement matches no entry with stock left.
var ErrOutOfStock = errors.New("prize has no remaining stock")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByDisplayName(ctx context.Context, name string) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ParticipationRepository defines the interface for the participation ledger
type ParticipationRepository interface {
	// Create appends a participation record. A duplicate (userId, day, year)
	// insert fails with ErrAlreadyParticipated.
	Create(ctx context.Context, p *models.Participation) error
	Exists(ctx context.Context, userID primitive.ObjectID, day, year int) (bool, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, year int) ([]*models.Participation, error)
	// CountByDay returns how many users opened each door in the given year.
	CountByDay(ctx context.Context, year int) (map[int]int64, error)
	DeleteAll(ctx context.Context) error
}

// RewardRepository defines the interface for the winner ledger
type RewardRepository interface {
	// Create appends a reward record. A duplicate (userId, day, year)
	// insert fails with ErrRewardConflict.
	Create(ctx context.Context, reward *models.Reward) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error)
	FindByUserAndDay(ctx context.Context, userID primitive.ObjectID, day, year int) (*models.Reward, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error)
	DeleteAll(ctx context.Context) error
}

// PrizeRepository defines the interface for the prize pool ledger
type PrizeRepository interface {
	// FindAll returns the pool ordered by configured position.
	FindAll(ctx context.Context) ([]models.PrizeEntry, error)
	// Replace swaps the whole pool for a new configuration.
	Replace(ctx context.Context, entries []models.PrizeEntry) error
	// DecrementRemaining atomically decrements the remaining count of the
	// entry matching name+sponsor, but only while remaining > 0. No match
	// returns ErrOutOfStock.
	DecrementRemaining(ctx context.Context, name, sponsor string) (*models.PrizeEntry, error)
	// IncrementRemaining returns one unit of stock, capped at the entry's
	// total. No match returns ErrOutOfStock.
	IncrementRemaining(ctx context.Context, name, sponsor string) error
}

// CalendarRepository defines the interface for the calendar on/off state
type CalendarRepository interface {
	Get(ctx context.Context) (*models.CalendarState, error)
	Set(ctx context.Context, active bool, updatedBy string) error
}
