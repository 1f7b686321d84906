package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreWriteAndPurge(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name := Filename("652f1c2e9b1e8a0001a3b001", 5)
	require.NoError(t, store.Write(name, Content(5, "Tester", "Freigetränk", 2023)))
	assert.True(t, store.Exists(name))

	require.NoError(t, store.Purge())
	assert.False(t, store.Exists(name))
}

func TestContent(t *testing.T) {
	assert.Equal(t, "5-Tester-Freigetränk-2023", Content(5, "Tester", "Freigetränk", 2023))
}

func TestFilenameSanitizesSeparators(t *testing.T) {
	assert.Equal(t, "a_b_3.png", Filename("a/b", 3))
	assert.NotContains(t, Filename("../../etc", 1), "..")
}

func TestRemoveMissingFileIsNoError(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Remove("nope.png"))
}
