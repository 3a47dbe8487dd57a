package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidad-games/impostor/internal/catalog"
	"github.com/navidad-games/impostor/internal/event"
	"github.com/navidad-games/impostor/internal/game"
	"github.com/navidad-games/impostor/internal/session"
	"github.com/navidad-games/impostor/internal/transport"
)

func fastConfig() Config {
	return Config{
		HostName:           "Ana",
		DrawingTimeSeconds: 2,
		GuessTimeSeconds:   2,
		RoundResultDelay:   10 * time.Millisecond,
		TickInterval:       2 * time.Millisecond,
	}
}

func fastGameConfig() game.GameConfig {
	return game.GameConfig{
		HostName:              "Ana",
		MaxLives:              1,
		DiscussionTimeSeconds: 2,
		VotingTimeSeconds:     10,
		WordCategories:        []catalog.CategoryID{"frutas"},
		MinPlayers:            3,
		MaxPlayers:            4,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func sessionState(t *testing.T, r *Runner) game.GameSession {
	t.Helper()

	s, err := r.Session()
	require.NoError(t, err)
	return s
}

// buildLobby hosts a game and joins two peers over a loopback hub.
// Every device runs its own manager, as it would on its own phone.
func buildLobby(t *testing.T, ctx context.Context) (*Manager, *Runner, []*Runner) {
	t.Helper()

	hub := transport.NewHub()
	words := catalog.New()

	hostManager := NewManager(fastConfig(), words, nil)
	t.Cleanup(hostManager.Stop)

	host, err := hostManager.HostGame(ctx, hub.Node("host"), fastGameConfig(), game.DeviceInfo{Platform: game.PlatformLinux})
	require.NoError(t, err)

	var peers []*Runner
	for _, name := range []string{"Beto", "Carla"} {
		peerManager := NewManager(fastConfig(), words, nil)
		t.Cleanup(peerManager.Stop)
		node := hub.Node(name)

		var discovered []event.DiscoverableGame
		require.NoError(t, peerManager.Discover(ctx, node, func(g event.DiscoverableGame) {
			discovered = append(discovered, g)
		}))
		require.NotEmpty(t, discovered, "host must be discoverable")

		peer, err := peerManager.JoinGame(ctx, node, discovered[0], name, game.DeviceInfo{Platform: game.PlatformAndroid})
		require.NoError(t, err)
		peers = append(peers, peer)
	}

	waitFor(t, "full lobby", func() bool {
		return len(sessionState(t, host).Players) == 3
	})
	return hostManager, host, peers
}

func TestStartGameNeedsEnoughPlayers(t *testing.T) {
	ctx := context.Background()
	hub := transport.NewHub()
	manager := NewManager(fastConfig(), catalog.New(), nil)
	defer manager.Stop()

	host, err := manager.HostGame(ctx, hub.Node("host"), fastGameConfig(), game.DeviceInfo{})
	require.NoError(t, err)

	err = host.StartGame(ctx)
	assert.ErrorIs(t, err, game.ErrInvalidPlayerCount)
	assert.Equal(t, game.StateWaitingForPlayers, sessionState(t, host).CurrentState.Kind)
}

func TestStartGameDealsRolesAndWords(t *testing.T) {
	ctx := context.Background()
	_, host, peers := buildLobby(t, ctx)

	require.NoError(t, host.StartGame(ctx))

	s := sessionState(t, host)
	assert.Len(t, s.SecretWords, catalog.GridWordCount)
	assert.Equal(t, catalog.CategoryID("frutas"), s.SelectedCategory.ID)

	_, found := s.FindPlayer(s.ImpostorID)
	assert.True(t, found, "impostor must be a seated player")

	var flagged int
	for _, player := range s.Players {
		assert.Equal(t, 1, player.Lives)
		if player.IsImpostor {
			flagged++
		}
	}
	assert.Equal(t, 1, flagged)

	err := host.StartGame(ctx)
	assert.ErrorIs(t, err, game.ErrGameAlreadyStarted)

	// Peers converge on the same deal.
	waitFor(t, "peer replica sync", func() bool {
		replica := sessionState(t, peers[0])
		return len(replica.SecretWords) == catalog.GridWordCount && replica.ImpostorID == s.ImpostorID
	})
}

func TestFullRoundImpostorCaughtAndFailsGuess(t *testing.T) {
	ctx := context.Background()
	_, host, peers := buildLobby(t, ctx)

	require.NoError(t, host.StartGame(ctx))

	waitFor(t, "voting phase", func() bool {
		return sessionState(t, host).CurrentState.Kind == game.StateVoting
	})

	s := sessionState(t, host)
	impostor := s.ImpostorID
	word, ok := s.WordForRound(s.CurrentRound)
	require.True(t, ok)

	runners := append([]*Runner{host}, peers...)
	for _, r := range runners {
		require.NoError(t, r.Vote(ctx, impostor))
	}

	waitFor(t, "impostor guessing phase", func() bool {
		return sessionState(t, host).CurrentState.Kind == game.StateImpostorGuessing
	})

	var impostorRunner *Runner
	for _, r := range runners {
		if r.SelfID() == impostor {
			impostorRunner = r
		}
	}
	require.NotNil(t, impostorRunner)
	require.NotEqual(t, "definitivamente-no", word)
	require.NoError(t, impostorRunner.Guess(ctx, "definitivamente-no"))

	waitFor(t, "game end", func() bool {
		return sessionState(t, host).CurrentState.Kind == game.StateGameEnded
	})

	s = sessionState(t, host)
	require.NotNil(t, s.CurrentState.Winner)
	assert.Equal(t, game.WinnerAllies, s.CurrentState.Winner.Kind)
}

func TestCorrectGuessSavesImpostor(t *testing.T) {
	ctx := context.Background()
	_, host, peers := buildLobby(t, ctx)

	require.NoError(t, host.StartGame(ctx))

	waitFor(t, "voting phase", func() bool {
		return sessionState(t, host).CurrentState.Kind == game.StateVoting
	})

	s := sessionState(t, host)
	impostor := s.ImpostorID
	word, _ := s.WordForRound(s.CurrentRound)

	runners := append([]*Runner{host}, peers...)
	for _, r := range runners {
		require.NoError(t, r.Vote(ctx, impostor))
	}

	waitFor(t, "impostor guessing phase", func() bool {
		return sessionState(t, host).CurrentState.Kind == game.StateImpostorGuessing
	})

	var impostorRunner *Runner
	for _, r := range runners {
		if r.SelfID() == impostor {
			impostorRunner = r
		}
	}
	require.NotNil(t, impostorRunner)
	require.NoError(t, impostorRunner.Guess(ctx, word))

	waitFor(t, "round result", func() bool {
		kind := sessionState(t, host).CurrentState.Kind
		return kind == game.StateRoundResult || kind == game.StateWordReveal
	})

	s = sessionState(t, host)
	for _, player := range s.Players {
		if player.ID == impostor {
			assert.Equal(t, 1, player.Lives, "a correct guess keeps the impostor's life")
		}
	}
}

func TestHostDuplicateVoteRejected(t *testing.T) {
	ctx := context.Background()
	_, host, peers := buildLobby(t, ctx)

	require.NoError(t, host.StartGame(ctx))
	waitFor(t, "voting phase", func() bool {
		return sessionState(t, host).CurrentState.Kind == game.StateVoting
	})

	target := peers[0].SelfID()
	require.NoError(t, host.Vote(ctx, target))

	err := host.Vote(ctx, target)
	assert.ErrorIs(t, err, game.ErrVoteAlreadyCast)
}

func TestVoteOutsideVotingRejected(t *testing.T) {
	ctx := context.Background()
	_, host, peers := buildLobby(t, ctx)

	err := host.Vote(ctx, peers[0].SelfID())
	assert.ErrorIs(t, err, game.ErrInvalidGameState)
}

func TestTieVotesEndRoundWithoutElimination(t *testing.T) {
	ctx := context.Background()
	_, host, peers := buildLobby(t, ctx)

	require.NoError(t, host.StartGame(ctx))
	waitFor(t, "voting phase", func() bool {
		return sessionState(t, host).CurrentState.Kind == game.StateVoting
	})

	// Three players, three different targets: no majority.
	runners := append([]*Runner{host}, peers...)
	for i, r := range runners {
		target := runners[(i+1)%len(runners)].SelfID()
		require.NoError(t, r.Vote(ctx, target))
	}

	waitFor(t, "round resolution", func() bool {
		kind := sessionState(t, host).CurrentState.Kind
		return kind == game.StateRoundResult || kind == game.StateWordReveal
	})

	s := sessionState(t, host)
	for _, player := range s.Players {
		assert.Equal(t, 1, player.Lives, "a tie must not cost lives")
	}
}

func TestKickRemovesPeerFromRoster(t *testing.T) {
	ctx := context.Background()
	_, host, peers := buildLobby(t, ctx)

	require.NoError(t, host.Kick(ctx, peers[0].SelfID()))

	waitFor(t, "roster shrink", func() bool {
		return len(sessionState(t, host).Players) == 2
	})

	s := sessionState(t, host)
	_, found := s.FindPlayer(peers[0].SelfID())
	assert.False(t, found)
}

func TestRepeatedHostSnapshotLeavesReplicaUnchanged(t *testing.T) {
	ctx := context.Background()
	hub := transport.NewHub()

	host := game.NewHostPlayer("Ana", 1, game.DeviceInfo{})
	repo := session.NewRepository()
	snapshot, err := repo.CreateGameSession(fastGameConfig(), host)
	require.NoError(t, err)
	snapshot.AssignImpostor(host.ID)
	snapshot.SecretWords = []string{"manzana", "pera"}
	snapshot.CurrentRound = 1

	peerRepo := session.NewRepository()
	peer := newRunner(RolePeer, fastConfig(), game.GameConfig{}, peerRepo,
		catalog.New(), hub.Node("peer"), nil, snapshot.ID, "peer-id")

	started := event.GameStarted(snapshot)
	require.NoError(t, peer.onHostEvent(ctx, started))
	once, err := peerRepo.GameSession(snapshot.ID)
	require.NoError(t, err)

	require.NoError(t, peer.onHostEvent(ctx, started))
	twice, err := peerRepo.GameSession(snapshot.ID)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, host.ID, twice.ImpostorID)
	assert.Equal(t, []string{"manzana", "pera"}, twice.SecretWords)
}
