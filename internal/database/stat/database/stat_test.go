package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidad-games/impostor/internal/cache/cachelru"
	db "github.com/navidad-games/impostor/internal/database"
	"github.com/navidad-games/impostor/internal/database/stat/model"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	sDB, err := db.New(ctx, &db.Config{FilePath: filepath.Join(t.TempDir(), "stat.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sDB.Close(ctx) })

	cache, err := cachelru.NewLRU(16)
	require.NoError(t, err)
	return New(sDB, cache)
}

func record(playerID, category string, wasImpostor, impostorWon bool) model.Record {
	r := model.NewRecord(playerID)
	r.WasImpostor = wasImpostor
	r.ImpostorWon = impostorWon
	r.RoundsPlayed = 2
	r.Category = category
	r.PlayersNum = 4
	if wasImpostor == impostorWon {
		r.Conclusion = model.ConclusionWon
	}
	return r
}

func TestFetchByPlayerUnknown(t *testing.T) {
	sdb := testDB(t)

	_, err := sdb.FetchByPlayer("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddAndFetchProfile(t *testing.T) {
	sdb := testDB(t)

	require.NoError(t, sdb.Add(record("p1", "frutas", true, true)))
	require.NoError(t, sdb.Add(record("p1", "frutas", false, true)))
	require.NoError(t, sdb.Add(record("p1", "peces", false, false)))

	profile, err := sdb.FetchProfile("p1")
	require.NoError(t, err)

	assert.Equal(t, 3, profile.GamesPlayed)
	assert.Equal(t, 2, profile.GamesWon)
	assert.Equal(t, 1, profile.GamesLost)
	assert.Equal(t, 1, profile.TimesImpostor)
	assert.Equal(t, 1, profile.TimesImpostorWon)
	assert.InDelta(t, 2.0, profile.AverageRounds, 0.01)
	require.NotEmpty(t, profile.FavoriteCategories)
	assert.Equal(t, "frutas", profile.FavoriteCategories[0])
	assert.False(t, profile.LastPlayed.IsZero())
}

func TestRecordsIsolatedPerPlayer(t *testing.T) {
	sdb := testDB(t)

	require.NoError(t, sdb.Add(record("p1", "frutas", false, false)))
	require.NoError(t, sdb.Add(record("p2", "peces", true, false)))

	records, err := sdb.FetchByPlayer("p1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p1", records[0].PlayerID)
}

func TestCacheInvalidationOnAdd(t *testing.T) {
	sdb := testDB(t)

	require.NoError(t, sdb.Add(record("p1", "frutas", false, false)))
	first, err := sdb.FetchByPlayer("p1")
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, sdb.Add(record("p1", "frutas", false, true)))
	second, err := sdb.FetchByPlayer("p1")
	require.NoError(t, err)
	assert.Len(t, second, 2)
}
