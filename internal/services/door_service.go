package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DO1FFE/adventskalender-backend/internal/artifact"
	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/odds"
	"github.com/DO1FFE/adventskalender-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// DoorService orchestrates the door-open transaction and the per-user
// calendar view.
type DoorService interface {
	// OpenDoor runs one door-open attempt. Expected game flow (already
	// opened, wrong day, inactive calendar, exhausted pool, a lost draw)
	// comes back as a DoorResult; a returned error means a persistence
	// failure on a win path and must surface as a server error, never as
	// a loss.
	OpenDoor(ctx context.Context, userID primitive.ObjectID, day int, now time.Time) (*models.DoorResult, error)
	// Calendar returns the 24 doors with per-user state, recomputed from
	// the participation ledger on every call.
	Calendar(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]models.DoorStatus, error)
	// ParticipationCounts returns how many users opened each door this
	// year (admin overview).
	ParticipationCounts(ctx context.Context, now time.Time) (map[int]int64, error)
	// ResetParticipations clears the participation ledger (admin reset).
	ResetParticipations(ctx context.Context) error
}

// Compile-time check to ensure DoorServiceImpl implements DoorService
var _ DoorService = (*DoorServiceImpl)(nil)

// DoorServiceImpl executes door-open attempts
type DoorServiceImpl struct {
	participationRepo repositories.ParticipationRepository
	rewardRepo        repositories.RewardRepository
	userRepo          repositories.UserRepository
	prizeService      PrizeService
	calendarService   CalendarService
	artifacts         *artifact.Store
	winHours          map[int]bool
	// randFloat is the uniform draw against the computed probability,
	// injectable in tests.
	randFloat func() float64
}

// NewDoorService creates a new DoorServiceImpl. winHours lists the hours of
// day during which a win may be awarded.
func NewDoorService(
	participationRepo repositories.ParticipationRepository,
	rewardRepo repositories.RewardRepository,
	userRepo repositories.UserRepository,
	prizeService PrizeService,
	calendarService CalendarService,
	artifacts *artifact.Store,
	winHours []int,
) *DoorServiceImpl {
	hours := make(map[int]bool, len(winHours))
	for _, h := range winHours {
		hours[h] = true
	}
	return &DoorServiceImpl{
		participationRepo: participationRepo,
		rewardRepo:        rewardRepo,
		userRepo:          userRepo,
		prizeService:      prizeService,
		calendarService:   calendarService,
		artifacts:         artifacts,
		winHours:          hours,
		randFloat:         rand.Float64,
	}
}

// OpenDoor runs the door-open state machine for one (user, day) attempt.
func (s *DoorServiceImpl) OpenDoor(ctx context.Context, userID primitive.ObjectID, day int, now time.Time) (*models.DoorResult, error) {
	result := &models.DoorResult{Day: day}

	// 1. Calendar gate: nothing is mutated on rejection.
	active, err := s.calendarService.IsActive(ctx)
	if err != nil {
		return nil, err
	}
	if !active {
		result.Outcome = models.OutcomeCalendarInactive
		return result, nil
	}
	if !s.calendarService.IsDoorUnlockable(active, day, now) {
		result.Outcome = models.OutcomeNotYetAvailable
		return result, nil
	}

	// 2. Fast-path eligibility check.
	opened, err := s.participationRepo.Exists(ctx, userID, day, now.Year())
	if err != nil {
		slog.Error("OpenDoor: failed to check participation", "error", err, "userId", userID, "day", day)
		return nil, fmt.Errorf("failed to check participation: %w", err)
	}
	if opened {
		result.Outcome = models.OutcomeAlreadyOpened
		return result, nil
	}

	// 3. Record participation. Point of no return for the day slot: even
	// if everything after fails, the user cannot retry today. The unique
	// index backstops concurrent duplicate clicks.
	participation := &models.Participation{UserID: userID, Day: day, Year: now.Year()}
	if err := s.participationRepo.Create(ctx, participation); err != nil {
		if errors.Is(err, repositories.ErrAlreadyParticipated) {
			result.Outcome = models.OutcomeAlreadyOpened
			return result, nil
		}
		slog.Error("OpenDoor: failed to record participation", "error", err, "userId", userID, "day", day)
		return nil, fmt.Errorf("failed to record participation: %w", err)
	}

	// 4. Odds evaluation.
	stats, err := s.prizeService.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.Remaining <= 0 {
		result.Outcome = models.OutcomePoolExhausted
		return result, nil
	}

	wonBefore, err := s.rewardRepo.CountByUser(ctx, userID)
	if err != nil {
		slog.Error("OpenDoor: failed to check win history", "error", err, "userId", userID)
		return nil, fmt.Errorf("failed to check win history: %w", err)
	}

	probability := odds.Probability(stats.Remaining, odds.RemainingDays(now), wonBefore > 0)
	if !s.winHours[now.Hour()] || s.randFloat() >= probability {
		result.Outcome = models.OutcomeLost
		return result, nil
	}

	// 5. Draw a prize. An empty draw after a positive odds check is a
	// loss, not an error: either the grand prize is still locked or a
	// concurrent request took the last unit.
	prize, err := s.prizeService.Draw(ctx, day)
	if err != nil {
		return nil, err
	}
	if prize == nil {
		slog.Info("OpenDoor: no eligible prize after positive odds check", "userId", userID, "day", day)
		result.Outcome = models.OutcomeLost
		result.Reserved = true
		return result, nil
	}

	// 6. Record the win. The prize is already decremented, so a failure
	// here must escalate: silently downgrading to a loss would drop an
	// awarded prize from the audit trail while it stays removed from
	// stock.
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		slog.Error("OpenDoor: failed to load user for won reward", "error", err, "userId", userID)
		return nil, fmt.Errorf("failed to load user for won reward: %w", err)
	}

	reward := &models.Reward{
		UserID:      userID,
		Day:         day,
		Year:        now.Year(),
		PrizeName:   prize.Name,
		Sponsor:     prize.Sponsor,
		SponsorLink: prize.SponsorLink,
		QRFilename:  artifact.Filename(userID.Hex(), day),
		QRContent:   artifact.Content(day, user.DisplayName, prize.Name, now.Year()),
	}
	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		slog.Error("OpenDoor: CRITICAL: prize decremented but reward not recorded",
			"error", err, "userId", userID, "day", day, "prize", prize.Name)
		return nil, fmt.Errorf("failed to record won reward: %w", err)
	}

	result.Outcome = models.OutcomeWon
	result.PrizeName = prize.Name
	result.Sponsor = prize.Sponsor
	result.SponsorLink = prize.SponsorLink

	// 7. Generate the proof token. Failure is logged and non-fatal, the
	// win already stands.
	if err := s.artifacts.Write(reward.QRFilename, reward.QRContent); err != nil {
		slog.Error("OpenDoor: failed to generate win artifact", "error", err, "userId", userID, "day", day)
		result.ArtifactPending = true
		return result, nil
	}
	result.ArtifactRef = reward.QRFilename

	slog.Info("Door opened with win", "userId", userID, "day", day, "prize", prize.Name)
	return result, nil
}

// Calendar derives the per-user door states from the participation ledger.
func (s *DoorServiceImpl) Calendar(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]models.DoorStatus, error) {
	active, err := s.calendarService.IsActive(ctx)
	if err != nil {
		return nil, err
	}

	participations, err := s.participationRepo.FindByUser(ctx, userID, now.Year())
	if err != nil {
		slog.Error("Calendar: failed to load participations", "error", err, "userId", userID)
		return nil, fmt.Errorf("failed to load participations: %w", err)
	}
	openedDays := make(map[int]bool, len(participations))
	for _, p := range participations {
		openedDays[p.Day] = true
	}

	doors := make([]models.DoorStatus, 0, odds.FinalDay)
	for day := 1; day <= odds.FinalDay; day++ {
		doors = append(doors, models.DoorStatus{
			Day:      day,
			Opened:   openedDays[day],
			Openable: s.calendarService.IsDoorUnlockable(active, day, now) && !openedDays[day],
		})
	}
	return doors, nil
}

// ParticipationCounts returns the per-door open counts for the current year
func (s *DoorServiceImpl) ParticipationCounts(ctx context.Context, now time.Time) (map[int]int64, error) {
	counts, err := s.participationRepo.CountByDay(ctx, now.Year())
	if err != nil {
		slog.Error("Failed to count participations", "error", err)
		return nil, fmt.Errorf("failed to count participations: %w", err)
	}
	return counts, nil
}

// ResetParticipations clears the participation ledger
func (s *DoorServiceImpl) ResetParticipations(ctx context.Context) error {
	if err := s.participationRepo.DeleteAll(ctx); err != nil {
		slog.Error("Failed to reset participation ledger", "error", err)
		return fmt.Errorf("failed to reset participation ledger: %w", err)
	}
	slog.Info("Participation ledger reset")
	return nil
}
