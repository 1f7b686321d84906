package services

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/DO1FFE/adventskalender-backend/internal/artifact"
	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRewardFixture(t *testing.T) (*RewardServiceImpl, *fakeRewardRepo, *fakeUserRepo, *artifact.Store) {
	t.Helper()
	store, err := artifact.NewStore(t.TempDir())
	require.NoError(t, err)
	rewards := newFakeRewardRepo()
	users := newFakeUserRepo()
	return NewRewardService(rewards, users, store), rewards, users, store
}

func TestArtifactPathRegeneratesMissingFile(t *testing.T) {
	s, rewards, users, store := newRewardFixture(t)

	user := &models.User{ID: primitive.NewObjectID(), DisplayName: "Tester"}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, rewards.Create(context.Background(), &models.Reward{
		UserID:     user.ID,
		Day:        7,
		Year:       2023,
		PrizeName:  "Gutschein",
		QRFilename: artifact.Filename(user.ID.Hex(), 7),
		QRContent:  artifact.Content(7, "Tester", "Gutschein", 2023),
	}))

	path, err := s.ArtifactPath(context.Background(), user.ID, 7, 2023)

	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err, "the file is recreated on demand")
	assert.True(t, store.Exists(artifact.Filename(user.ID.Hex(), 7)))
}

func TestArtifactPathFillsLegacyFields(t *testing.T) {
	// Rewards replayed from the legacy winners file carry no artifact
	// fields at all.
	s, rewards, users, _ := newRewardFixture(t)

	user := &models.User{ID: primitive.NewObjectID(), DisplayName: "Tester"}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, rewards.Create(context.Background(), &models.Reward{
		UserID:    user.ID,
		Day:       3,
		Year:      2022,
		PrizeName: "Kinokarte",
	}))

	path, err := s.ArtifactPath(context.Background(), user.ID, 3, 2022)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, artifact.Filename(user.ID.Hex(), 3)))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestArtifactPathWithoutReward(t *testing.T) {
	s, _, _, _ := newRewardFixture(t)

	_, err := s.ArtifactPath(context.Background(), primitive.NewObjectID(), 7, 2023)

	require.Error(t, err)
}

func TestImportWinnersFile(t *testing.T) {
	s, rewards, users, _ := newRewardFixture(t)

	existing := &models.User{ID: primitive.NewObjectID(), DisplayName: "Max Mustermann"}
	require.NoError(t, users.Create(context.Background(), existing))

	file := strings.Join([]string{
		"1: Max Mustermann - Tag 3 - Freigetränk",
		"2: Erika Beispiel - Tag 5 - Gutschein - 2022",
		"",
		"kaputt ohne doppelpunkt",
		"3: Hans Test - Tag 7 - Buch - Band 2 - 2022",
	}, "\n")

	imported, err := s.ImportWinnersFile(context.Background(), strings.NewReader(file))

	require.NoError(t, err)
	assert.Equal(t, 3, imported, "malformed and blank lines are skipped, not fatal")

	got, err := rewards.FindByUser(context.Background(), existing.ID)
	require.NoError(t, err)
	require.Len(t, got, 1, "a display-name match attaches to the existing account")
	assert.Equal(t, "Freigetränk", got[0].PrizeName)
	assert.Equal(t, 3, got[0].Day)

	erika, err := users.FindByDisplayName(context.Background(), "Erika Beispiel")
	require.NoError(t, err)
	assert.Equal(t, "user-2@example.invalid", erika.Email, "unknown winners get a placeholder account")
	erikaRewards, err := rewards.FindByUser(context.Background(), erika.ID)
	require.NoError(t, err)
	require.Len(t, erikaRewards, 1)
	assert.Equal(t, 2022, erikaRewards[0].Year)

	hans, err := users.FindByDisplayName(context.Background(), "Hans Test")
	require.NoError(t, err)
	hansRewards, err := rewards.FindByUser(context.Background(), hans.ID)
	require.NoError(t, err)
	require.Len(t, hansRewards, 1)
	assert.Equal(t, "Buch - Band 2", hansRewards[0].PrizeName, "the year suffix is optional, extra dashes belong to the prize")
}

func TestImportWinnersFileIsIdempotent(t *testing.T) {
	s, _, _, _ := newRewardFixture(t)
	file := "1: Max Mustermann - Tag 3 - Freigetränk - 2022\n"

	imported, err := s.ImportWinnersFile(context.Background(), strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	imported, err = s.ImportWinnersFile(context.Background(), strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 0, imported, "replaying the same file inserts nothing")
}

func TestResetRewardsAndPurgeArtifacts(t *testing.T) {
	s, rewards, _, store := newRewardFixture(t)

	userID := primitive.NewObjectID()
	require.NoError(t, rewards.Create(context.Background(), &models.Reward{UserID: userID, Day: 1, Year: 2023}))
	require.NoError(t, store.Write("x_1.png", "payload"))

	require.NoError(t, s.ResetRewards(context.Background()))
	require.NoError(t, s.PurgeArtifacts(context.Background()))

	got, err := rewards.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, store.Exists("x_1.png"))
}
