package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRecomputesAwarded(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 0, Name: "Hauptpreis", Total: 1, Remaining: 1},
		models.PrizeEntry{Position: 1, Name: "Freigetränk", Total: 10, Remaining: 6},
	)
	s := NewPrizeService(repo)

	stats, err := s.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 11, stats.Total)
	assert.Equal(t, 7, stats.Remaining)
	assert.Equal(t, 4, stats.Awarded)
	assert.Len(t, stats.Entries, 2)
}

func TestDrawWeightedPick(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 1, Name: "Freigetränk", Total: 10, Remaining: 8},
		models.PrizeEntry{Position: 2, Name: "Gutschein", Total: 5, Remaining: 3},
	)
	s := NewPrizeService(repo)

	// Tickets 0..7 land on the first entry, 8..10 on the second.
	s.intn = func(n int) int {
		require.Equal(t, 11, n)
		return 8
	}

	entry, err := s.Draw(context.Background(), 5)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Gutschein", entry.Name)
	assert.Equal(t, 2, entry.Remaining)
	assert.Equal(t, 8, repo.remaining("Freigetränk"))
}

func TestDrawSkipsGrandPrizeBeforeFinalDay(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 0, Name: "Hauptpreis", Total: 1, Remaining: 1},
		models.PrizeEntry{Position: 1, Name: "Freigetränk", Total: 10, Remaining: 2},
	)
	s := NewPrizeService(repo)
	s.intn = func(n int) int {
		require.Equal(t, 2, n, "only the open entry may carry weight")
		return 0
	}

	entry, err := s.Draw(context.Background(), 12)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Freigetränk", entry.Name)
}

func TestDrawEmptyWhenOnlyGrandPrizeLeft(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 0, Name: "Hauptpreis", Total: 1, Remaining: 1},
	)
	s := NewPrizeService(repo)

	entry, err := s.Draw(context.Background(), 12)

	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, 1, repo.remaining("Hauptpreis"))
}

func TestDrawRetriesAfterLostRace(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 1, Name: "Freigetränk", Total: 10, Remaining: 2},
		models.PrizeEntry{Position: 2, Name: "Gutschein", Total: 5, Remaining: 3},
	)
	repo.failDecrementOnce = true
	s := NewPrizeService(repo)
	s.intn = func(n int) int { return 0 }

	entry, err := s.Draw(context.Background(), 5)

	require.NoError(t, err)
	require.NotNil(t, entry, "losing one race must fall through to the next candidate")
	assert.Equal(t, "Gutschein", entry.Name)
}

func TestDrawHardErrorEscalates(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 1, Name: "Freigetränk", Total: 10, Remaining: 2},
	)
	repo.decErr = errors.New("connection reset")
	s := NewPrizeService(repo)
	s.intn = func(n int) int { return 0 }

	entry, err := s.Draw(context.Background(), 5)

	require.Error(t, err)
	assert.Nil(t, entry)
}

func TestReleaseCapsAtTotalAndSkipsUnmatched(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 1, Name: "Freigetränk", Sponsor: "Cafe", Total: 10, Remaining: 9},
	)
	s := NewPrizeService(repo)

	s.Release(context.Background(), []*models.Reward{
		{PrizeName: "Freigetränk", Sponsor: "Cafe"},
		{PrizeName: "Freigetränk", Sponsor: "Cafe"}, // would exceed total
		{PrizeName: "Kinokarte", Sponsor: "Kino"},   // no longer configured
	})

	assert.Equal(t, 10, repo.remaining("Freigetränk"), "release never invents stock beyond the total")
}

func TestConfigureReplacesPool(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 0, Name: "Alt", Total: 1, Remaining: 1},
	)
	s := NewPrizeService(repo)

	entries, err := s.Configure(context.Background(), "Hauptpreis | Funkhaus=1\nFreigetränk | Cafe (https://cafe.example)=10/8\n")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Hauptpreis", entries[0].Name)
	assert.Equal(t, 0, entries[0].Position)
	assert.Equal(t, 8, entries[1].Remaining)
	assert.Equal(t, "https://cafe.example", entries[1].SponsorLink)
	assert.Equal(t, -1, repo.remaining("Alt"))
}

func TestConfigureValidationLeavesPoolUntouched(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 0, Name: "Alt", Total: 1, Remaining: 1},
	)
	s := NewPrizeService(repo)

	_, err := s.Configure(context.Background(), "=5\nFreigetränk=abc\n")

	require.Error(t, err)
	var verr *pool.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, repo.replaced, "a rejected configuration must not touch storage")
	assert.Equal(t, 1, repo.remaining("Alt"))
}

func TestFormatPoolRoundTrips(t *testing.T) {
	repo := newFakePrizeRepo(
		models.PrizeEntry{Position: 0, Name: "Hauptpreis", Sponsor: "Funkhaus", Total: 1, Remaining: 1},
		models.PrizeEntry{Position: 1, Name: "Gutschein", Total: 5, Remaining: 2},
	)
	s := NewPrizeService(repo)

	text, err := s.FormatPool(context.Background())
	require.NoError(t, err)

	parsed, err := pool.Parse(text)
	require.NoError(t, err)
	entries, _ := repo.FindAll(context.Background())
	assert.Equal(t, entries, parsed)
}
