package services

import (
	"context"
	"fmt"
	"time"

	"github.com/DO1FFE/adventskalender-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// CalendarService is the process-wide gate deciding whether door opening is
// permitted at all today.
type CalendarService interface {
	IsActive(ctx context.Context) (bool, error)
	SetActive(ctx context.Context, active bool, updatedBy string) error
	// IsDoorUnlockable reports whether the given door may be opened today.
	// Pure with respect to its arguments; doors for past days stay closed
	// permanently and future days are not yet reachable.
	IsDoorUnlockable(active bool, day int, today time.Time) bool
}

// Compile-time check to ensure CalendarServiceImpl implements CalendarService
var _ CalendarService = (*CalendarServiceImpl)(nil)

// CalendarServiceImpl handles calendar gate logic
type CalendarServiceImpl struct {
	calendarRepo repositories.CalendarRepository
}

// NewCalendarService creates a new CalendarServiceImpl
func NewCalendarService(calendarRepo repositories.CalendarRepository) *CalendarServiceImpl {
	return &CalendarServiceImpl{calendarRepo: calendarRepo}
}

// IsActive reads the persisted on/off flag
func (s *CalendarServiceImpl) IsActive(ctx context.Context) (bool, error) {
	state, err := s.calendarRepo.Get(ctx)
	if err != nil {
		slog.Error("Failed to read calendar state", "error", err)
		return false, fmt.Errorf("failed to read calendar state: %w", err)
	}
	return state.Active, nil
}

// SetActive persists the on/off flag immediately
func (s *CalendarServiceImpl) SetActive(ctx context.Context, active bool, updatedBy string) error {
	if err := s.calendarRepo.Set(ctx, active, updatedBy); err != nil {
		slog.Error("Failed to update calendar state", "error", err, "active", active)
		return fmt.Errorf("failed to update calendar state: %w", err)
	}
	slog.Info("Calendar state updated", "active", active, "updatedBy", updatedBy)
	return nil
}

// IsDoorUnlockable reports whether door `day` may be opened on `today`
func (s *CalendarServiceImpl) IsDoorUnlockable(active bool, day int, today time.Time) bool {
	return active && today.Month() == time.December && today.Day() == day
}
