package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T, players int) GameSession {
	t.Helper()

	host := NewHostPlayer("Ana", 3, DeviceInfo{})
	s := NewGameSession(validConfig(), host)
	for i := 1; i < players; i++ {
		s.Players = append(s.Players, NewPeerPlayer("peer", 3, DeviceInfo{}))
	}
	return s
}

func TestAssignImpostorFlagsExactlyOne(t *testing.T) {
	s := testSession(t, 4)
	s.AssignImpostor(s.Players[2].ID)

	assert.Equal(t, s.Players[2].ID, s.ImpostorID)

	var flagged int
	for _, player := range s.Players {
		if player.IsImpostor {
			flagged++
		}
	}
	assert.Equal(t, 1, flagged)

	// Re-dealing moves the flag instead of accumulating it.
	s.AssignImpostor(s.Players[0].ID)
	assert.False(t, s.Players[2].IsImpostor)
	assert.True(t, s.Players[0].IsImpostor)
}

func TestDetermineWinnerImpostorEliminated(t *testing.T) {
	s := testSession(t, 4)
	s.AssignImpostor(s.Players[1].ID)

	for i := 0; i < 3; i++ {
		s.DecrementLives(s.ImpostorID)
	}

	winner, over := s.DetermineWinner()
	require.True(t, over)
	assert.Equal(t, WinnerAllies, winner.Kind)
	assert.Len(t, winner.Survivors, 3)
}

func TestDetermineWinnerAlliesWornDown(t *testing.T) {
	s := testSession(t, 3)
	s.AssignImpostor(s.Players[0].ID)

	// Knock one ally out; a lone ally cannot carry a vote.
	for i := 0; i < 3; i++ {
		s.DecrementLives(s.Players[1].ID)
	}

	winner, over := s.DetermineWinner()
	require.True(t, over)
	assert.Equal(t, WinnerImpostor, winner.Kind)
	assert.Equal(t, s.ImpostorID, winner.Impostor)
}

func TestDetermineWinnerGameContinues(t *testing.T) {
	s := testSession(t, 4)
	s.AssignImpostor(s.Players[0].ID)
	s.DecrementLives(s.Players[1].ID)

	_, over := s.DetermineWinner()
	assert.False(t, over)
}

func TestDecrementLivesStopsAtZero(t *testing.T) {
	s := testSession(t, 3)
	id := s.Players[1].ID

	for i := 0; i < 5; i++ {
		s.DecrementLives(id)
	}

	player, _ := s.FindPlayer(id)
	assert.Equal(t, 0, player.Lives)
	assert.False(t, player.IsAlive())
}

func TestWordForRoundWrapsAround(t *testing.T) {
	s := testSession(t, 3)
	s.SecretWords = []string{"uno", "dos", "tres"}

	word, ok := s.WordForRound(1)
	require.True(t, ok)
	assert.Equal(t, "uno", word)

	word, _ = s.WordForRound(4)
	assert.Equal(t, "uno", word)

	_, ok = s.WordForRound(0)
	assert.False(t, ok)
}

func TestHasAllVotedIgnoresDeadPlayers(t *testing.T) {
	s := testSession(t, 3)
	dead := s.Players[2].ID
	for i := 0; i < 3; i++ {
		s.DecrementLives(dead)
	}

	s.Votes = append(s.Votes,
		NewVote(s.Players[0].ID, s.Players[1].ID, 1),
		NewVote(s.Players[1].ID, s.Players[0].ID, 1),
	)

	assert.True(t, s.HasAllVoted(1))
	assert.False(t, s.HasAllVoted(2))
}

func TestCloneIsDeep(t *testing.T) {
	s := testSession(t, 3)
	s.SecretWords = []string{"uno"}
	s.Votes = []Vote{NewVote("a", "b", 1)}

	clone := s.Clone()
	clone.Players[0].Name = "otro"
	clone.SecretWords[0] = "dos"
	clone.Votes[0].Round = 9

	assert.Equal(t, "Ana", s.Players[0].Name)
	assert.Equal(t, "uno", s.SecretWords[0])
	assert.Equal(t, 1, s.Votes[0].Round)
}

func TestHostPlayerIsFirst(t *testing.T) {
	s := testSession(t, 4)

	host, ok := s.HostPlayer()
	require.True(t, ok)
	assert.Equal(t, s.Players[0].ID, host.ID)
	assert.True(t, host.IsHost)
}
