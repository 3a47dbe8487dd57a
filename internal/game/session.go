package game

import (
	"time"

	"github.com/navidad-games/impostor/internal/catalog"
)

// GameSession is the aggregate root. The host's copy is authoritative;
// peers hold a replica that is fully overwritten by received events.
type GameSession struct {
	ID               GameID           `json:"id"`
	GameConfig       GameConfig       `json:"gameConfig"`
	Players          []Player         `json:"players"` // join order, host first
	CurrentState     GameState        `json:"currentState"`
	CurrentRound     int              `json:"currentRound"`
	TotalRounds      int              `json:"totalRounds"`
	ImpostorID       PlayerID         `json:"impostorId"`
	SecretWords      []string         `json:"secretWords"` // 24 entries, 6x4 grid
	SelectedCategory catalog.Category `json:"selectedCategory"`
	Votes            []Vote           `json:"votes"`
	Drawings         []Drawing        `json:"drawings"`
	Guesses          []ImpostorGuess  `json:"guesses"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func NewGameSession(config GameConfig, host Player) GameSession {
	now := time.Now()
	return GameSession{
		ID:           NewGameID(),
		GameConfig:   config,
		Players:      []Player{host},
		CurrentState: WaitingForPlayers(),
		CurrentRound: 1,
		TotalRounds:  1,
		ImpostorID:   host.ID, // placeholder until roles are dealt
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *GameSession) FindPlayer(id PlayerID) (Player, bool) {
	for _, player := range s.Players {
		if player.ID == id {
			return player, true
		}
	}
	return Player{}, false
}

func (s *GameSession) HostPlayer() (Player, bool) {
	for _, player := range s.Players {
		if player.IsHost {
			return player, true
		}
	}
	return Player{}, false
}

func (s *GameSession) CanStart() bool {
	return len(s.Players) >= s.GameConfig.MinPlayers &&
		s.CurrentState.Kind == StateWaitingForPlayers
}

func (s *GameSession) AlivePlayers() []Player {
	var alive []Player
	for _, player := range s.Players {
		if player.IsAlive() {
			alive = append(alive, player)
		}
	}
	return alive
}

func (s *GameSession) AliveAllies() []Player {
	var allies []Player
	for _, player := range s.AlivePlayers() {
		if player.ID != s.ImpostorID {
			allies = append(allies, player)
		}
	}
	return allies
}

func (s *GameSession) ImpostorAlive() bool {
	player, ok := s.FindPlayer(s.ImpostorID)
	return ok && player.IsAlive()
}

// ShouldEnd is true when the impostor is gone or at most one ally remains.
func (s *GameSession) ShouldEnd() bool {
	return !s.ImpostorAlive() || len(s.AliveAllies()) <= 1
}

// DetermineWinner resolves the game-level winner; ok is false while the
// game may continue.
func (s *GameSession) DetermineWinner() (Winner, bool) {
	if !s.ShouldEnd() {
		return Winner{}, false
	}

	if !s.ImpostorAlive() {
		allies := s.AliveAllies()
		survivors := make([]PlayerID, 0, len(allies))
		for _, ally := range allies {
			survivors = append(survivors, ally.ID)
		}
		return AlliesWin(survivors), true
	}

	return ImpostorWins(s.ImpostorID), true
}

// WordForRound picks the round's secret word from the dealt grid.
func (s *GameSession) WordForRound(round int) (string, bool) {
	if len(s.SecretWords) == 0 || round < 1 {
		return "", false
	}
	return s.SecretWords[(round-1)%len(s.SecretWords)], true
}

// VotesForRound filters the vote log; late votes from prior rounds never
// participate in the current tally.
func (s *GameSession) VotesForRound(round int) []Vote {
	var votes []Vote
	for _, vote := range s.Votes {
		if vote.Round == round {
			votes = append(votes, vote)
		}
	}
	return votes
}

// HasAllVoted reports whether every alive player voted this round.
func (s *GameSession) HasAllVoted(round int) bool {
	voted := make(map[PlayerID]bool)
	for _, vote := range s.VotesForRound(round) {
		voted[vote.VoterID] = true
	}
	for _, player := range s.AlivePlayers() {
		if !voted[player.ID] {
			return false
		}
	}
	return true
}

// AssignImpostor deals the role: sets ImpostorID and the per-player flag.
func (s *GameSession) AssignImpostor(id PlayerID) {
	s.ImpostorID = id
	for i := range s.Players {
		s.Players[i].IsImpostor = s.Players[i].ID == id
	}
}

// DecrementLives takes one life from the player, stopping at zero.
func (s *GameSession) DecrementLives(id PlayerID) {
	for i := range s.Players {
		if s.Players[i].ID == id && s.Players[i].Lives > 0 {
			s.Players[i].Lives--
			return
		}
	}
}

// Touch bumps UpdatedAt; every repository mutation goes through it.
func (s *GameSession) Touch() {
	s.UpdatedAt = time.Now()
}

// Clone deep-copies the aggregate so observers never share slices with
// the canonical copy.
func (s *GameSession) Clone() GameSession {
	c := *s
	c.Players = append([]Player(nil), s.Players...)
	c.SecretWords = append([]string(nil), s.SecretWords...)
	c.Votes = append([]Vote(nil), s.Votes...)
	c.Drawings = append([]Drawing(nil), s.Drawings...)
	c.Guesses = append([]ImpostorGuess(nil), s.Guesses...)
	return c
}
