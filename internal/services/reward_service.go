package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/DO1FFE/adventskalender-backend/internal/artifact"
	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// RewardService exposes the winner ledger: reward listings, proof-token
// retrieval, the legacy winners-file import and the admin resets.
type RewardService interface {
	GetUserRewards(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error)
	// ArtifactPath returns the on-disk location of the proof token for one
	// won door, regenerating the file from the reward record when it is
	// missing.
	ArtifactPath(ctx context.Context, userID primitive.ObjectID, day, year int) (string, error)
	// ImportWinnersFile replays a legacy flat winners file into the ledger
	// and returns the number of rewards inserted. Lines already present
	// are skipped.
	ImportWinnersFile(ctx context.Context, r io.Reader) (int, error)
	ResetRewards(ctx context.Context) error
	PurgeArtifacts(ctx context.Context) error
}

// Compile-time check to ensure RewardServiceImpl implements RewardService
var _ RewardService = (*RewardServiceImpl)(nil)

// RewardServiceImpl handles winner ledger business logic
type RewardServiceImpl struct {
	rewardRepo repositories.RewardRepository
	userRepo   repositories.UserRepository
	artifacts  *artifact.Store
}

// NewRewardService creates a new RewardServiceImpl
func NewRewardService(
	rewardRepo repositories.RewardRepository,
	userRepo repositories.UserRepository,
	artifacts *artifact.Store,
) *RewardServiceImpl {
	return &RewardServiceImpl{
		rewardRepo: rewardRepo,
		userRepo:   userRepo,
		artifacts:  artifacts,
	}
}

// GetUserRewards returns all rewards of one user, newest first
func (s *RewardServiceImpl) GetUserRewards(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error) {
	rewards, err := s.rewardRepo.FindByUser(ctx, userID)
	if err != nil {
		slog.Error("Failed to load user rewards", "error", err, "userId", userID)
		return nil, fmt.Errorf("failed to load user rewards: %w", err)
	}
	return rewards, nil
}

// ArtifactPath locates (or regenerates) the proof token for a won door
func (s *RewardServiceImpl) ArtifactPath(ctx context.Context, userID primitive.ObjectID, day, year int) (string, error) {
	reward, err := s.rewardRepo.FindByUserAndDay(ctx, userID, day, year)
	if err != nil {
		return "", fmt.Errorf("no reward for day %d: %w", day, err)
	}

	filename := reward.QRFilename
	content := reward.QRContent
	if filename == "" {
		// Rewards imported from the legacy file carry no artifact fields.
		filename = artifact.Filename(userID.Hex(), day)
	}
	if content == "" {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("failed to load user for artifact: %w", err)
		}
		content = artifact.Content(day, user.DisplayName, reward.PrizeName, reward.Year)
	}

	if !s.artifacts.Exists(filename) {
		if err := s.artifacts.Write(filename, content); err != nil {
			slog.Error("Failed to regenerate artifact", "error", err, "userId", userID, "day", day)
			return "", err
		}
		slog.Info("Artifact regenerated from reward record", "userId", userID, "day", day)
	}
	return s.artifacts.Path(filename), nil
}

// ImportWinnersFile parses legacy winner lines of the form
//
//	<id>: <display name> - Tag <day> - <prize>[ - <year>]
//
// An existing account matched by display name takes precedence; otherwise a
// placeholder account is created so the reward stays attributable.
func (s *RewardServiceImpl) ImportWinnersFile(ctx context.Context, r io.Reader) (int, error) {
	imported := 0
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := parseWinnerLine(line)
		if err != nil {
			slog.Warn("ImportWinnersFile: skipping malformed line", "line", lineNo, "error", err)
			continue
		}

		userID, err := s.resolveImportUser(ctx, entry)
		if err != nil {
			return imported, err
		}

		reward := &models.Reward{
			UserID:    userID,
			Day:       entry.day,
			Year:      entry.year,
			PrizeName: entry.prize,
		}
		err = s.rewardRepo.Create(ctx, reward)
		if errors.Is(err, repositories.ErrRewardConflict) {
			continue // already imported
		}
		if err != nil {
			return imported, fmt.Errorf("failed to import winner line %d: %w", lineNo, err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, fmt.Errorf("failed to read winners file: %w", err)
	}

	slog.Info("Winners file imported", "rewards", imported)
	return imported, nil
}

type winnerLine struct {
	legacyID int
	name     string
	day      int
	year     int
	prize    string
}

func parseWinnerLine(line string) (*winnerLine, error) {
	idPart, rest, found := strings.Cut(line, ":")
	if !found {
		return nil, errors.New("missing ':' after legacy id")
	}
	legacyID, err := strconv.Atoi(strings.TrimSpace(idPart))
	if err != nil {
		return nil, fmt.Errorf("legacy id %q is not a number", strings.TrimSpace(idPart))
	}

	segments := strings.Split(strings.TrimSpace(rest), " - ")
	if len(segments) < 3 {
		return nil, errors.New("expected '<name> - Tag <day> - <prize>'")
	}

	dayPart := strings.TrimPrefix(segments[1], "Tag ")
	day, err := strconv.Atoi(strings.TrimSpace(dayPart))
	if err != nil {
		return nil, fmt.Errorf("day %q is not a number", dayPart)
	}

	prizeSegments := segments[2:]
	year := time.Now().Year()
	if len(prizeSegments) > 1 {
		if y, err := strconv.Atoi(prizeSegments[len(prizeSegments)-1]); err == nil && y >= 2000 {
			year = y
			prizeSegments = prizeSegments[:len(prizeSegments)-1]
		}
	}

	return &winnerLine{
		legacyID: legacyID,
		name:     strings.TrimSpace(segments[0]),
		day:      day,
		year:     year,
		prize:    strings.Join(prizeSegments, " - "),
	}, nil
}

// resolveImportUser prefers an existing account matched by display name and
// falls back to a placeholder account keyed by the legacy winner id.
func (s *RewardServiceImpl) resolveImportUser(ctx context.Context, entry *winnerLine) (primitive.ObjectID, error) {
	user, err := s.userRepo.FindByDisplayName(ctx, entry.name)
	if err == nil {
		return user.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return primitive.NilObjectID, fmt.Errorf("failed to match winner %q: %w", entry.name, err)
	}

	placeholder := &models.User{
		Email:       fmt.Sprintf("user-%d@example.invalid", entry.legacyID),
		DisplayName: entry.name,
		Role:        models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, placeholder); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create placeholder user for %q: %w", entry.name, err)
	}
	slog.Info("ImportWinnersFile: created placeholder user", "displayName", entry.name, "legacyId", entry.legacyID)
	return placeholder.ID, nil
}

// ResetRewards clears the winner ledger
func (s *RewardServiceImpl) ResetRewards(ctx context.Context) error {
	if err := s.rewardRepo.DeleteAll(ctx); err != nil {
		slog.Error("Failed to reset winner ledger", "error", err)
		return fmt.Errorf("failed to reset winner ledger: %w", err)
	}
	slog.Info("Winner ledger reset")
	return nil
}

// PurgeArtifacts deletes every stored proof token
func (s *RewardServiceImpl) PurgeArtifacts(ctx context.Context) error {
	if err := s.artifacts.Purge(); err != nil {
		slog.Error("Failed to purge artifacts", "error", err)
		return fmt.Errorf("failed to purge artifacts: %w", err)
	}
	slog.Info("Artifacts purged")
	return nil
}
