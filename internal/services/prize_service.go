package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/odds"
	"github.com/DO1FFE/adventskalender-backend/internal/pool"
	"github.com/DO1FFE/adventskalender-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// PrizeService owns the prize pool ledger: stats, draws, releases and the
// admin text-format configuration.
type PrizeService interface {
	Stats(ctx context.Context) (*models.PoolStats, error)
	// Draw atomically selects and decrements one prize for the given day,
	// weighted by remaining stock. It returns (nil, nil) when no entry is
	// eligible: the pool is exhausted, the reserved grand prize is still
	// locked, or every candidate lost its last unit to a concurrent draw.
	Draw(ctx context.Context, day int) (*models.PrizeEntry, error)
	// Release returns previously awarded prizes to the pool, capped at
	// each entry's total. Unmatched releases are logged and skipped.
	Release(ctx context.Context, rewards []*models.Reward)
	Configure(ctx context.Context, text string) ([]models.PrizeEntry, error)
	FormatPool(ctx context.Context) (string, error)
}

// drawPolicy tags how an entry participates in the daily draw.
type drawPolicy int

const (
	// policyOpen entries are drawable on any day.
	policyOpen drawPolicy = iota
	// policyReservedFinalDay entries are held back until the final door.
	policyReservedFinalDay
)

// policyFor assigns the draw policy by pool position: the first configured
// entry is the grand prize reserved for the final day.
func policyFor(position int) drawPolicy {
	if position == 0 {
		return policyReservedFinalDay
	}
	return policyOpen
}

// allows reports whether the policy admits a draw on the given day.
func (p drawPolicy) allows(day int) bool {
	if p == policyReservedFinalDay {
		return day == odds.FinalDay
	}
	return true
}

// Compile-time check to ensure PrizeServiceImpl implements PrizeService
var _ PrizeService = (*PrizeServiceImpl)(nil)

// PrizeServiceImpl handles prize pool business logic
type PrizeServiceImpl struct {
	prizeRepo repositories.PrizeRepository
	// intn is the random source for the weighted pick, injectable in tests.
	intn func(n int) int
}

// NewPrizeService creates a new PrizeServiceImpl
func NewPrizeService(prizeRepo repositories.PrizeRepository) *PrizeServiceImpl {
	return &PrizeServiceImpl{
		prizeRepo: prizeRepo,
		intn:      rand.Intn,
	}
}

// Stats returns the aggregate pool view, always recomputed from the
// current entries.
func (s *PrizeServiceImpl) Stats(ctx context.Context) (*models.PoolStats, error) {
	entries, err := s.prizeRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Failed to load prize pool", "error", err)
		return nil, fmt.Errorf("failed to load prize pool: %w", err)
	}

	stats := &models.PoolStats{Entries: entries}
	for _, e := range entries {
		stats.Total += e.Total
		stats.Remaining += e.Remaining
	}
	stats.Awarded = stats.Total - stats.Remaining
	return stats, nil
}

// Draw selects one prize weighted by remaining stock and commits the
// decrement as a single conditional update. When the chosen entry lost a
// race for its last unit, the next candidate is tried instead.
func (s *PrizeServiceImpl) Draw(ctx context.Context, day int) (*models.PrizeEntry, error) {
	entries, err := s.prizeRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Draw: failed to load prize pool", "error", err)
		return nil, fmt.Errorf("failed to load prize pool: %w", err)
	}

	candidates := make([]models.PrizeEntry, 0, len(entries))
	for _, e := range entries {
		if e.Remaining <= 0 {
			continue
		}
		if !policyFor(e.Position).allows(day) {
			continue
		}
		candidates = append(candidates, e)
	}

	for len(candidates) > 0 {
		idx := s.pickWeighted(candidates)
		chosen := candidates[idx]

		entry, err := s.prizeRepo.DecrementRemaining(ctx, chosen.Name, chosen.Sponsor)
		if err == nil {
			slog.Info("Prize drawn", "prize", entry.Name, "sponsor", entry.Sponsor, "remaining", entry.Remaining, "day", day)
			return entry, nil
		}
		if errors.Is(err, repositories.ErrOutOfStock) {
			// Lost the race for this entry's last unit, try the next one.
			slog.Warn("Draw: candidate out of stock, retrying", "prize", chosen.Name, "day", day)
			candidates = append(candidates[:idx], candidates[idx+1:]...)
			continue
		}
		slog.Error("Draw: failed to decrement prize", "error", err, "prize", chosen.Name)
		return nil, fmt.Errorf("failed to decrement prize %q: %w", chosen.Name, err)
	}

	return nil, nil
}

// pickWeighted picks a candidate index, each entry weighted by its
// remaining count.
func (s *PrizeServiceImpl) pickWeighted(candidates []models.PrizeEntry) int {
	totalWeight := 0
	for _, c := range candidates {
		totalWeight += c.Remaining
	}
	ticket := s.intn(totalWeight)
	for i, c := range candidates {
		ticket -= c.Remaining
		if ticket < 0 {
			return i
		}
	}
	return len(candidates) - 1
}

// Release returns awarded prizes to the pool. Matching is by name plus
// sponsor; a release that matches nothing, or an entry already at its
// total, is skipped and never invented as new inventory.
func (s *PrizeServiceImpl) Release(ctx context.Context, rewards []*models.Reward) {
	for _, reward := range rewards {
		err := s.prizeRepo.IncrementRemaining(ctx, reward.PrizeName, reward.Sponsor)
		if err != nil {
			slog.Warn("Release: could not return prize to pool, skipping",
				"error", err, "prize", reward.PrizeName, "sponsor", reward.Sponsor, "day", reward.Day)
		}
	}
}

// Configure parses and applies a new pool configuration. All-or-nothing:
// a validation error leaves the existing pool untouched.
func (s *PrizeServiceImpl) Configure(ctx context.Context, text string) ([]models.PrizeEntry, error) {
	entries, err := pool.Parse(text)
	if err != nil {
		return nil, err
	}
	if err := s.prizeRepo.Replace(ctx, entries); err != nil {
		slog.Error("Failed to store pool configuration", "error", err)
		return nil, fmt.Errorf("failed to store pool configuration: %w", err)
	}
	slog.Info("Prize pool configured", "entries", len(entries))
	return entries, nil
}

// FormatPool renders the current pool in the admin text format
func (s *PrizeServiceImpl) FormatPool(ctx context.Context) (string, error) {
	entries, err := s.prizeRepo.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load prize pool: %w", err)
	}
	return pool.Format(entries), nil
}
