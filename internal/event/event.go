// Package event defines the wire protocol shared by every device: a
// JSON envelope with a type discriminator and one variant payload.
// Decoding is tolerant: unknown keys are ignored and absent keys take
// their zero values, so field additions never break older encodings.
package event

import (
	"time"

	"github.com/navidad-games/impostor/internal/game"
)

type Type string

const (
	TypePlayerJoined            Type = "PLAYER_JOINED"
	TypePlayerLeft              Type = "PLAYER_LEFT"
	TypePlayerKicked            Type = "PLAYER_KICKED"
	TypeGameStateChanged        Type = "GAME_STATE_CHANGED"
	TypePlayerDrawing           Type = "PLAYER_DRAWING"
	TypeVoteCast                Type = "VOTE_CAST"
	TypeImpostorGuessSubmitted  Type = "IMPOSTOR_GUESS_SUBMITTED"
	TypeRoundEnded              Type = "ROUND_ENDED"
	TypeGameEnded               Type = "GAME_ENDED"
	TypePlayerDisconnected      Type = "PLAYER_DISCONNECTED"
	TypeConnectionStatusChanged Type = "CONNECTION_STATUS_CHANGED"
	TypeGameDiscovered          Type = "GAME_DISCOVERED"
	TypeGameConfigUpdated       Type = "GAME_CONFIG_UPDATED"
	TypeTimerUpdate             Type = "TIMER_UPDATE"
	TypeGameStarted             Type = "GAME_STARTED"
)

type ConnectionStatus string

const (
	StatusDisconnected     ConnectionStatus = "DISCONNECTED"
	StatusConnecting       ConnectionStatus = "CONNECTING"
	StatusConnected        ConnectionStatus = "CONNECTED"
	StatusHostDisconnected ConnectionStatus = "HOST_DISCONNECTED"
	StatusError            ConnectionStatus = "ERROR"
)

// ConnectionInfo carries what a peer needs to open a link to a host.
type ConnectionInfo struct {
	ConnectionType game.ConnectionType `json:"connectionType"`
	Address        string              `json:"address"`
	Port           int                 `json:"port,omitempty"`
}

// DiscoverableGame is a joinable game reconstructed from advertisements.
type DiscoverableGame struct {
	GameID         game.GameID    `json:"gameId"`
	HostName       string         `json:"hostName"`
	PlayerCount    int            `json:"playerCount"`
	MaxPlayers     int            `json:"maxPlayers"`
	StateKind      game.StateKind `json:"stateKind"`
	ConnectionInfo ConnectionInfo `json:"connectionInfo"`
}

func (g DiscoverableGame) CanJoin() bool {
	return g.PlayerCount < g.MaxPlayers && g.StateKind == game.StateWaitingForPlayers
}

// Event is the envelope. Type selects which payload field is set.
type Event struct {
	Type      Type        `json:"type"`
	GameID    game.GameID `json:"gameId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`

	Player   *game.Player        `json:"player,omitempty"`
	PlayerID game.PlayerID       `json:"playerId,omitempty"`
	State    *game.GameState     `json:"state,omitempty"`
	Drawing  *game.Drawing       `json:"drawing,omitempty"`
	Vote     *game.Vote          `json:"vote,omitempty"`
	Guess    *game.ImpostorGuess `json:"guess,omitempty"`
	Outcome  *game.RoundOutcome  `json:"outcome,omitempty"`
	Winner   *game.Winner        `json:"winner,omitempty"`
	Status   ConnectionStatus    `json:"status,omitempty"`
	Game     *DiscoverableGame   `json:"game,omitempty"`
	Config   *game.GameConfig    `json:"config,omitempty"`
	Session  *game.GameSession   `json:"session,omitempty"`

	// TimerUpdate
	Remaining int             `json:"remaining,omitempty"`
	Phase     game.TimedPhase `json:"phase,omitempty"`

	// Round stamps votes, drawings and guesses so receivers can drop
	// late arrivals from a prior round.
	Round int `json:"round,omitempty"`
}

func newEvent(t Type, gameID game.GameID) Event {
	return Event{Type: t, GameID: gameID, Timestamp: time.Now()}
}

func PlayerJoined(gameID game.GameID, player game.Player) Event {
	ev := newEvent(TypePlayerJoined, gameID)
	ev.Player = &player
	return ev
}

func PlayerLeft(gameID game.GameID, playerID game.PlayerID) Event {
	ev := newEvent(TypePlayerLeft, gameID)
	ev.PlayerID = playerID
	return ev
}

func PlayerKicked(gameID game.GameID, playerID game.PlayerID) Event {
	ev := newEvent(TypePlayerKicked, gameID)
	ev.PlayerID = playerID
	return ev
}

func GameStateChanged(gameID game.GameID, state game.GameState) Event {
	ev := newEvent(TypeGameStateChanged, gameID)
	ev.State = &state
	return ev
}

func PlayerDrawing(gameID game.GameID, drawing game.Drawing) Event {
	ev := newEvent(TypePlayerDrawing, gameID)
	ev.Drawing = &drawing
	ev.Round = drawing.Round
	return ev
}

func VoteCast(gameID game.GameID, vote game.Vote) Event {
	ev := newEvent(TypeVoteCast, gameID)
	ev.Vote = &vote
	ev.Round = vote.Round
	return ev
}

func ImpostorGuessSubmitted(gameID game.GameID, guess game.ImpostorGuess) Event {
	ev := newEvent(TypeImpostorGuessSubmitted, gameID)
	ev.Guess = &guess
	ev.Round = guess.Round
	return ev
}

func RoundEnded(gameID game.GameID, round int, outcome game.RoundOutcome) Event {
	ev := newEvent(TypeRoundEnded, gameID)
	ev.Outcome = &outcome
	ev.Round = round
	return ev
}

func GameEnded(gameID game.GameID, winner game.Winner) Event {
	ev := newEvent(TypeGameEnded, gameID)
	ev.Winner = &winner
	return ev
}

func PlayerDisconnected(gameID game.GameID, playerID game.PlayerID) Event {
	ev := newEvent(TypePlayerDisconnected, gameID)
	ev.PlayerID = playerID
	return ev
}

func ConnectionStatusChanged(gameID game.GameID, status ConnectionStatus) Event {
	ev := newEvent(TypeConnectionStatusChanged, gameID)
	ev.Status = status
	return ev
}

func GameDiscovered(discovered DiscoverableGame) Event {
	ev := newEvent(TypeGameDiscovered, discovered.GameID)
	ev.Game = &discovered
	return ev
}

func GameConfigUpdated(gameID game.GameID, config game.GameConfig) Event {
	ev := newEvent(TypeGameConfigUpdated, gameID)
	ev.Config = &config
	return ev
}

func TimerUpdate(gameID game.GameID, remaining int, phase game.TimedPhase) Event {
	ev := newEvent(TypeTimerUpdate, gameID)
	ev.Remaining = remaining
	ev.Phase = phase
	return ev
}

func GameStarted(session game.GameSession) Event {
	ev := newEvent(TypeGameStarted, session.ID)
	ev.Session = &session
	return ev
}
