package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidad-games/impostor/internal/catalog"
	"github.com/navidad-games/impostor/internal/game"
)

func catalogStub() catalog.Category {
	return catalog.Category{
		ID:         "animales_domesticos",
		Name:       "Animales Domésticos",
		Words:      []string{"perro", "gato"},
		Difficulty: catalog.DifficultyEasy,
	}
}

func testConfig(discussionSeconds int) Config {
	return Config{
		Game: game.GameConfig{
			MaxLives:              3,
			DiscussionTimeSeconds: discussionSeconds,
			VotingTimeSeconds:     30,
			MinPlayers:            game.MinPlayers,
			MaxPlayers:            game.MaxPlayers,
		},
		TickInterval: 2 * time.Millisecond,
	}
}

func collect(t *testing.T, m *Machine, until func(Event) bool) []Event {
	t.Helper()

	var events []Event
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-m.Events():
			events = append(events, ev)
			if until(ev) {
				return events
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event, got %d so far", len(events))
		}
	}
}

func TestMachineRejectsInvalidTransition(t *testing.T) {
	m := New(testConfig(60))

	err := m.TransitionTo(context.Background(), game.Voting(30))

	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrInvalidGameState)
	assert.Equal(t, game.StateWaitingForPlayers, m.Current().Kind)

	select {
	case ev := <-m.Events():
		t.Fatalf("rejected transition emitted event %+v", ev)
	default:
	}
}

func TestMachineRejectsEveryPairOutsideTable(t *testing.T) {
	kinds := []game.StateKind{
		game.StateWaitingForPlayers,
		game.StateGameStarted,
		game.StateWordReveal,
		game.StateDiscussion,
		game.StateDrawing,
		game.StateVoting,
		game.StateImpostorGuessing,
		game.StateRoundResult,
		game.StateGameEnded,
	}

	for _, from := range kinds {
		for _, to := range kinds {
			if Allowed(from, to) {
				continue
			}

			// A slow tick keeps countdowns from advancing mid-check.
			slow := testConfig(0)
			slow.TickInterval = time.Minute

			m := New(slow)
			m.Apply(context.Background(), game.GameState{Kind: from})
			<-m.Events()

			err := m.TransitionTo(context.Background(), game.GameState{Kind: to})
			require.Errorf(t, err, "%s -> %s must be rejected", from, to)
			assert.Equal(t, from, m.Current().Kind)
			m.Stop()
		}
	}
}

func TestVotingCountdownTicksThenExpires(t *testing.T) {
	m := New(testConfig(0))
	ctx := context.Background()

	m.Apply(ctx, game.Discussion())
	<-m.Events()

	require.NoError(t, m.TransitionTo(ctx, game.Voting(5)))

	events := collect(t, m, func(ev Event) bool { return ev.Kind == EventTimerExpired })

	require.Equal(t, EventStateChanged, events[0].Kind)
	assert.Equal(t, game.StateVoting, events[0].To)

	var remaining []int
	for _, ev := range events[1 : len(events)-1] {
		require.Equal(t, EventTimerUpdate, ev.Kind)
		assert.Equal(t, game.PhaseVoting, ev.Phase)
		remaining = append(remaining, ev.Remaining)
	}
	assert.Equal(t, []int{5, 4, 3, 2, 1}, remaining)

	last := events[len(events)-1]
	assert.Equal(t, game.PhaseVoting, last.Phase)
}

func TestWordRevealAdvancesToDiscussion(t *testing.T) {
	m := New(testConfig(0))
	ctx := context.Background()

	require.NoError(t, m.TransitionTo(ctx, game.WordReveal("perro", catalogStub())))

	events := collect(t, m, func(ev Event) bool {
		return ev.Kind == EventStateChanged && ev.To == game.StateDiscussion
	})

	var ticks, expired int
	for _, ev := range events {
		switch ev.Kind {
		case EventTimerUpdate:
			require.Equal(t, game.PhaseWordReveal, ev.Phase)
			ticks++
		case EventTimerExpired:
			require.Equal(t, game.PhaseWordReveal, ev.Phase)
			expired++
		}
	}
	assert.Equal(t, WordRevealSeconds, ticks)
	assert.Equal(t, 1, expired)
	assert.Equal(t, game.StateDiscussion, m.Current().Kind)
}

func TestTransitionCancelsRunningCountdown(t *testing.T) {
	m := New(testConfig(0))
	ctx := context.Background()

	m.Apply(ctx, game.Discussion())
	require.NoError(t, m.TransitionTo(ctx, game.Voting(600)))

	outcome := game.RoundOutcome{Kind: game.OutcomeNoMajority, Impostor: "imp"}
	require.NoError(t, m.TransitionTo(ctx, game.RoundResult(outcome)))
	m.Stop()

	assert.Equal(t, game.StateRoundResult, m.Current().Kind)

	time.Sleep(20 * time.Millisecond)
	for {
		select {
		case ev := <-m.Events():
			assert.NotEqual(t, EventTimerExpired, ev.Kind, "cancelled countdown must not expire")
		default:
			return
		}
	}
}

func TestChurnedCountdownsGoQuiet(t *testing.T) {
	m := New(testConfig(0))
	ctx := context.Background()

	// Arm and immediately replace a long countdown many times; every
	// replaced countdown must stop ticking, none may survive the churn.
	outcome := game.RoundOutcome{Kind: game.OutcomeNoMajority, Impostor: "imp"}
	for i := 0; i < 50; i++ {
		m.Apply(ctx, game.Voting(1000))
		m.Apply(ctx, game.RoundResult(outcome))
	}
	m.Stop()

	time.Sleep(10 * time.Millisecond)
	for drained := false; !drained; {
		select {
		case <-m.Events():
		default:
			drained = true
		}
	}

	quiet := time.After(40 * time.Millisecond)
	for {
		select {
		case ev := <-m.Events():
			t.Fatalf("countdown still running after cancellation: %+v", ev)
		case <-quiet:
			return
		}
	}
}

func TestApplyOverwritesWithoutTableCheck(t *testing.T) {
	m := New(testConfig(0))
	ctx := context.Background()

	m.Apply(ctx, game.ImpostorGuessing("imp", 0))
	ev := <-m.Events()

	assert.Equal(t, EventStateChanged, ev.Kind)
	assert.Equal(t, game.StateImpostorGuessing, m.Current().Kind)
	assert.Equal(t, game.PlayerID("imp"), m.Current().Impostor)
}
