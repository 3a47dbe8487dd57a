package game

import "github.com/navidad-games/impostor/internal/catalog"

// StateKind discriminates the GameState union on the wire and in the
// transition table. The set is closed; switch statements over it are
// expected to cover every kind.
type StateKind string

const (
	StateWaitingForPlayers StateKind = "WAITING_FOR_PLAYERS"
	StateGameStarted       StateKind = "GAME_STARTED"
	StateWordReveal        StateKind = "WORD_REVEAL"
	StateDiscussion        StateKind = "DISCUSSION"
	StateDrawing           StateKind = "DRAWING"
	StateVoting            StateKind = "VOTING"
	StateImpostorGuessing  StateKind = "IMPOSTOR_GUESSING"
	StateRoundResult       StateKind = "ROUND_RESULT"
	StateGameEnded         StateKind = "GAME_ENDED"
)

// GameState is a tagged union; Kind selects which payload fields apply.
type GameState struct {
	Kind StateKind `json:"kind"`

	// WordReveal
	Word     string           `json:"word,omitempty"`
	Category catalog.Category `json:"category,omitempty"`

	// Drawing
	CurrentDrawer PlayerID `json:"currentDrawer,omitempty"`

	// Drawing, Voting, ImpostorGuessing
	RemainingTime int `json:"remainingTime,omitempty"`

	// ImpostorGuessing
	Impostor PlayerID `json:"impostor,omitempty"`

	// RoundResult
	Result *RoundOutcome `json:"result,omitempty"`

	// GameEnded
	Winner *Winner `json:"winner,omitempty"`
}

func WaitingForPlayers() GameState {
	return GameState{Kind: StateWaitingForPlayers}
}

func GameStarted() GameState {
	return GameState{Kind: StateGameStarted}
}

func WordReveal(word string, category catalog.Category) GameState {
	return GameState{Kind: StateWordReveal, Word: word, Category: category}
}

func Discussion() GameState {
	return GameState{Kind: StateDiscussion}
}

func DrawingTurn(drawer PlayerID, remainingTime int) GameState {
	return GameState{Kind: StateDrawing, CurrentDrawer: drawer, RemainingTime: remainingTime}
}

func Voting(remainingTime int) GameState {
	return GameState{Kind: StateVoting, RemainingTime: remainingTime}
}

func ImpostorGuessing(impostor PlayerID, remainingTime int) GameState {
	return GameState{Kind: StateImpostorGuessing, Impostor: impostor, RemainingTime: remainingTime}
}

func RoundResult(result RoundOutcome) GameState {
	return GameState{Kind: StateRoundResult, Result: &result}
}

func GameEnded(winner Winner) GameState {
	return GameState{Kind: StateGameEnded, Winner: &winner}
}

// TimedPhase names the countdown a timer-bearing state runs.
type TimedPhase string

const (
	PhaseWordReveal    TimedPhase = "WORD_REVEAL"
	PhaseDiscussion    TimedPhase = "DISCUSSION"
	PhaseDrawing       TimedPhase = "DRAWING"
	PhaseVoting        TimedPhase = "VOTING"
	PhaseImpostorGuess TimedPhase = "IMPOSTOR_GUESS"
)

type OutcomeKind string

const (
	// OutcomeImpostorCaught: the impostor was voted out. SavedByGuess
	// marks whether they kept their life by guessing the word.
	OutcomeImpostorCaught OutcomeKind = "IMPOSTOR_CAUGHT"
	// OutcomeImpostorNotCaught: an ally was wrongly eliminated.
	OutcomeImpostorNotCaught OutcomeKind = "IMPOSTOR_NOT_CAUGHT"
	// OutcomeImpostorWon: the impostor won the round outright.
	OutcomeImpostorWon OutcomeKind = "IMPOSTOR_WON"
	// OutcomeNoMajority: the vote tied, nobody was eliminated.
	OutcomeNoMajority OutcomeKind = "NO_MAJORITY"
)

type RoundOutcome struct {
	Kind         OutcomeKind `json:"kind"`
	Impostor     PlayerID    `json:"impostor,omitempty"`
	Eliminated   PlayerID    `json:"eliminated,omitempty"`
	SavedByGuess bool        `json:"savedByGuess,omitempty"`
}

type WinnerKind string

const (
	WinnerImpostor WinnerKind = "IMPOSTOR_WINS"
	WinnerAllies   WinnerKind = "ALLIES_WIN"
)

type Winner struct {
	Kind      WinnerKind `json:"kind"`
	Impostor  PlayerID   `json:"impostor,omitempty"`
	Survivors []PlayerID `json:"survivors,omitempty"`
}

func ImpostorWins(impostor PlayerID) Winner {
	return Winner{Kind: WinnerImpostor, Impostor: impostor}
}

func AlliesWin(survivors []PlayerID) Winner {
	return Winner{Kind: WinnerAllies, Survivors: survivors}
}
