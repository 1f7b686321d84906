package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetActivePersistsImmediately(t *testing.T) {
	repo := &fakeCalendarRepo{}
	s := NewCalendarService(repo)

	active, err := s.IsActive(context.Background())
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, s.SetActive(context.Background(), true, "admin@example.com"))

	active, err = s.IsActive(context.Background())
	require.NoError(t, err)
	assert.True(t, active)
}

func TestIsDoorUnlockable(t *testing.T) {
	s := NewCalendarService(&fakeCalendarRepo{})

	dec5 := time.Date(2023, time.December, 5, 9, 30, 0, 0, time.UTC)
	assert.True(t, s.IsDoorUnlockable(true, 5, dec5))
	assert.False(t, s.IsDoorUnlockable(false, 5, dec5), "inactive calendar locks every door")
	assert.False(t, s.IsDoorUnlockable(true, 4, dec5), "past doors stay closed")
	assert.False(t, s.IsDoorUnlockable(true, 6, dec5), "future doors are not reachable yet")

	nov5 := time.Date(2023, time.November, 5, 9, 30, 0, 0, time.UTC)
	assert.False(t, s.IsDoorUnlockable(true, 5, nov5), "nothing opens outside December")
}
