// Package state drives the round lifecycle: it validates transitions
// against a closed table and runs the per-phase countdown. Session
// mutation on expiry (tallies, next drawer) belongs to the caller.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/navidad-games/impostor/internal/game"
)

// WordRevealSeconds is fixed; the other phases take their duration from
// the game config or the state payload.
const WordRevealSeconds = 10

var transitions = map[game.StateKind][]game.StateKind{
	game.StateWaitingForPlayers: {game.StateGameStarted, game.StateWordReveal},
	game.StateGameStarted:       {game.StateWordReveal, game.StateWaitingForPlayers},
	game.StateWordReveal:        {game.StateDiscussion, game.StateDrawing, game.StateGameEnded},
	game.StateDiscussion:        {game.StateDrawing, game.StateVoting, game.StateGameEnded},
	game.StateDrawing:           {game.StateDiscussion, game.StateVoting, game.StateGameEnded},
	game.StateVoting:            {game.StateImpostorGuessing, game.StateRoundResult, game.StateGameEnded},
	game.StateImpostorGuessing:  {game.StateRoundResult, game.StateGameEnded},
	game.StateRoundResult:       {game.StateWordReveal, game.StateGameEnded, game.StateWaitingForPlayers},
	game.StateGameEnded:         {game.StateWaitingForPlayers},
}

// Allowed reports whether from -> to is in the transition table.
func Allowed(from, to game.StateKind) bool {
	for _, kind := range transitions[from] {
		if kind == to {
			return true
		}
	}
	return false
}

type EventKind uint8

const (
	EventStateChanged EventKind = iota + 1
	EventTimerUpdate
	EventTimerExpired
)

type Event struct {
	Kind      EventKind
	From      game.StateKind
	To        game.StateKind
	Remaining int
	Phase     game.TimedPhase
}

type Config struct {
	Game game.GameConfig

	// TickInterval shortens the countdown in tests; zero means 1s.
	TickInterval time.Duration
}

func New(config Config) *Machine {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	return &Machine{
		config:  config,
		current: game.WaitingForPlayers(),
		events:  make(chan Event, 256),
	}
}

// Machine holds the current state and the single timer slot. Starting a
// new countdown always cancels and awaits the previous one, so ticks
// from two countdowns never interleave.
type Machine struct {
	mtx     sync.Mutex
	config  Config
	current game.GameState
	timer   *countdown
	events  chan Event
}

type countdown struct {
	cancel chan struct{}
	done   chan struct{}
	once   sync.Once
}

// stop cancels the countdown and waits for its goroutine to finish.
func (c *countdown) stop() {
	c.once.Do(func() { close(c.cancel) })
	<-c.done
}

func (m *Machine) Current() game.GameState {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.current
}

func (m *Machine) Events() <-chan Event {
	return m.events
}

// TransitionTo validates the transition, swaps the state, emits
// StateChanged and arms the phase countdown. A rejected transition
// leaves the current state untouched.
func (m *Machine) TransitionTo(ctx context.Context, next game.GameState) error {
	m.mtx.Lock()
	current := m.current
	if !Allowed(current.Kind, next.Kind) {
		m.mtx.Unlock()
		return game.InvalidTransition(current.Kind, next.Kind)
	}
	m.current = next
	timer := m.timer
	m.timer = nil
	m.mtx.Unlock()

	if timer != nil {
		timer.stop()
	}

	m.emit(Event{Kind: EventStateChanged, From: current.Kind, To: next.Kind})
	m.arm(ctx, next)
	return nil
}

// Apply overwrites the state without consulting the transition table.
// Replica application only: peers must mirror whatever the host says,
// and re-applying the same state is harmless.
func (m *Machine) Apply(ctx context.Context, next game.GameState) {
	m.mtx.Lock()
	current := m.current
	m.current = next
	timer := m.timer
	m.timer = nil
	m.mtx.Unlock()

	if timer != nil {
		timer.stop()
	}

	m.emit(Event{Kind: EventStateChanged, From: current.Kind, To: next.Kind})
	m.arm(ctx, next)
}

// Stop cancels any running countdown. Safe to call repeatedly.
func (m *Machine) Stop() {
	m.mtx.Lock()
	timer := m.timer
	m.timer = nil
	m.mtx.Unlock()

	if timer != nil {
		timer.stop()
	}
}

func (m *Machine) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		// A reader this far behind has abandoned the stream.
	}
}

func (m *Machine) arm(ctx context.Context, st game.GameState) {
	seconds, phase, ok := timerSpec(m.config.Game, st)
	if !ok {
		return
	}

	c := &countdown{cancel: make(chan struct{}), done: make(chan struct{})}
	m.mtx.Lock()
	if m.current.Kind != st.Kind || m.timer != nil {
		// A racing transition swapped the state between the caller's
		// unlock and here; its countdown serves.
		m.mtx.Unlock()
		return
	}
	m.timer = c
	m.mtx.Unlock()

	go m.run(ctx, c, seconds, phase)
}

func timerSpec(config game.GameConfig, st game.GameState) (int, game.TimedPhase, bool) {
	switch st.Kind {
	case game.StateWordReveal:
		return WordRevealSeconds, game.PhaseWordReveal, true
	case game.StateDiscussion:
		return config.DiscussionTimeSeconds, game.PhaseDiscussion, config.DiscussionTimeSeconds > 0
	case game.StateDrawing:
		return st.RemainingTime, game.PhaseDrawing, st.RemainingTime > 0
	case game.StateVoting:
		seconds := st.RemainingTime
		if seconds <= 0 {
			seconds = config.VotingTimeSeconds
		}
		return seconds, game.PhaseVoting, seconds > 0
	case game.StateImpostorGuessing:
		return st.RemainingTime, game.PhaseImpostorGuess, st.RemainingTime > 0
	}
	return 0, "", false
}

func (m *Machine) run(ctx context.Context, c *countdown, seconds int, phase game.TimedPhase) {
	ticker := time.NewTicker(m.config.TickInterval)
	defer ticker.Stop()

	for remaining := seconds; remaining > 0; remaining-- {
		m.emit(Event{Kind: EventTimerUpdate, Remaining: remaining, Phase: phase})
		select {
		case <-ticker.C:
		case <-c.cancel:
			close(c.done)
			return
		case <-ctx.Done():
			close(c.done)
			return
		}
	}

	m.emit(Event{Kind: EventTimerExpired, Phase: phase})

	// Mark finished before any expiry transition: TransitionTo stops
	// the previous countdown, which is this one.
	close(c.done)
	m.expire(ctx, phase)
}

// expire runs the phase's automatic follow-up. Only the word reveal
// advances by itself; every other phase needs the orchestration layer
// to mutate the session first.
func (m *Machine) expire(ctx context.Context, phase game.TimedPhase) {
	if phase == game.PhaseWordReveal {
		_ = m.TransitionTo(ctx, game.Discussion())
	}
}
