package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidad-games/impostor/internal/catalog"
	"github.com/navidad-games/impostor/internal/game"
)

func testGameConfig() game.GameConfig {
	return game.DefaultConfig("Ana", []catalog.CategoryID{"frutas"})
}

func newTestSession(t *testing.T, r *Repository) game.GameSession {
	t.Helper()

	host := game.NewHostPlayer("Ana", 3, game.DeviceInfo{Platform: game.PlatformAndroid, DeviceName: "test"})
	s, err := r.CreateGameSession(testGameConfig(), host)
	require.NoError(t, err)
	return s
}

func TestCreateGameSessionRejectsInvalidConfig(t *testing.T) {
	r := NewRepository()

	config := testGameConfig()
	config.MaxLives = 0

	host := game.NewHostPlayer("Ana", 3, game.DeviceInfo{})
	_, err := r.CreateGameSession(config, host)

	assert.ErrorIs(t, err, game.ErrInvalidConfig)
	assert.Zero(t, r.Len())
}

func TestAddPlayerUntilFull(t *testing.T) {
	r := NewRepository()
	s := newTestSession(t, r)

	for i := 1; i < s.GameConfig.MaxPlayers; i++ {
		name := fmt.Sprintf("peer-%d", i)
		_, err := r.AddPlayer(s.ID, game.NewPeerPlayer(name, 3, game.DeviceInfo{}))
		require.NoError(t, err)
	}

	_, err := r.AddPlayer(s.ID, game.NewPeerPlayer("overflow", 3, game.DeviceInfo{}))
	assert.ErrorIs(t, err, game.ErrGameIsFull)

	got, err := r.GameSession(s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Players, s.GameConfig.MaxPlayers)
}

func TestAddPlayerAfterStartRejected(t *testing.T) {
	r := NewRepository()
	s := newTestSession(t, r)

	_, err := r.UpdateGameState(s.ID, game.GameStarted())
	require.NoError(t, err)

	_, err = r.AddPlayer(s.ID, game.NewPeerPlayer("late", 3, game.DeviceInfo{}))
	assert.ErrorIs(t, err, game.ErrGameAlreadyStarted)
}

func TestRemoveUnknownPlayerIsNoOp(t *testing.T) {
	r := NewRepository()
	s := newTestSession(t, r)

	got, err := r.RemovePlayer(s.ID, "nobody")
	require.NoError(t, err)
	assert.Len(t, got.Players, 1)
}

func TestSubmitVoteRejectsDuplicatePerRound(t *testing.T) {
	r := NewRepository()
	s := newTestSession(t, r)

	peer := game.NewPeerPlayer("Beto", 3, game.DeviceInfo{})
	_, err := r.AddPlayer(s.ID, peer)
	require.NoError(t, err)

	voter := s.Players[0].ID
	_, err = r.SubmitVote(s.ID, game.NewVote(voter, peer.ID, 1))
	require.NoError(t, err)

	_, err = r.SubmitVote(s.ID, game.NewVote(voter, peer.ID, 1))
	assert.ErrorIs(t, err, game.ErrVoteAlreadyCast)

	// A new round resets the restriction.
	_, err = r.SubmitVote(s.ID, game.NewVote(voter, peer.ID, 2))
	assert.NoError(t, err)
}

func TestSubmitVoteUnknownVoter(t *testing.T) {
	r := NewRepository()
	s := newTestSession(t, r)

	_, err := r.SubmitVote(s.ID, game.NewVote("ghost", s.Players[0].ID, 1))
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)
}

func TestUpdateSessionOverwritesReplica(t *testing.T) {
	r := NewRepository()
	s := newTestSession(t, r)

	s.CurrentRound = 3
	s.CurrentState = game.Voting(30)

	got, err := r.UpdateSession(s)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentRound)
	assert.Equal(t, game.StateVoting, got.CurrentState.Kind)
}

func TestUnknownGameID(t *testing.T) {
	r := NewRepository()

	_, err := r.GameSession("missing")
	assert.ErrorIs(t, err, game.ErrGameNotFound)

	_, err = r.UpdateGameState("missing", game.GameStarted())
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}

func TestSnapshotsDoNotShareState(t *testing.T) {
	r := NewRepository()
	s := newTestSession(t, r)

	s.Players[0].Name = "mutated"

	got, err := r.GameSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Players[0].Name)
}
