package services

import (
	"context"
	"fmt"

	"github.com/DO1FFE/adventskalender-backend/internal/artifact"
	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// UserService handles account lookups and deletion. Deletion releases the
// user's awarded prizes back to the pool and removes their proof tokens.
type UserService interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	DeleteAccount(ctx context.Context, id primitive.ObjectID) error
}

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceImpl handles user business logic
type UserServiceImpl struct {
	userRepo     repositories.UserRepository
	rewardRepo   repositories.RewardRepository
	prizeService PrizeService
	artifacts    *artifact.Store
}

// NewUserService creates a new UserServiceImpl
func NewUserService(
	userRepo repositories.UserRepository,
	rewardRepo repositories.RewardRepository,
	prizeService PrizeService,
	artifacts *artifact.Store,
) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:     userRepo,
		rewardRepo:   rewardRepo,
		prizeService: prizeService,
		artifacts:    artifacts,
	}
}

// GetUserByID returns one user
func (s *UserServiceImpl) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user, purges their rewards and returns the
// released prizes to the pool (capped at each entry's total).
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	rewards, err := s.rewardRepo.DeleteByUser(ctx, id)
	if err != nil {
		slog.Error("DeleteAccount: failed to remove rewards", "error", err, "userId", id)
		return fmt.Errorf("failed to remove rewards: %w", err)
	}

	if len(rewards) > 0 {
		s.prizeService.Release(ctx, rewards)
		for _, reward := range rewards {
			if reward.QRFilename == "" {
				continue
			}
			if err := s.artifacts.Remove(reward.QRFilename); err != nil {
				slog.Warn("DeleteAccount: failed to remove artifact", "error", err, "file", reward.QRFilename)
			}
		}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		slog.Error("DeleteAccount: failed to delete user", "error", err, "userId", id)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("Account deleted", "userId", id, "releasedRewards", len(rewards))
	return nil
}
