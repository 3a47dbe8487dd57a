// Package session keeps the live game sessions in memory. The host is
// the single source of truth; peers hold replicas refreshed through
// UpdateSession.
package session

import (
	"sync"

	"github.com/navidad-games/impostor/internal/game"
)

func NewRepository() *Repository {
	return &Repository{sessions: map[game.GameID]*game.GameSession{}}
}

type Repository struct {
	mtx      sync.RWMutex
	sessions map[game.GameID]*game.GameSession
}

// CreateGameSession registers a fresh session with the host as the only
// player and returns a snapshot of it.
func (r *Repository) CreateGameSession(config game.GameConfig, host game.Player) (game.GameSession, error) {
	if err := config.Validate(); err != nil {
		return game.GameSession{}, err
	}

	s := game.NewGameSession(config, host)

	r.mtx.Lock()
	r.sessions[s.ID] = &s
	r.mtx.Unlock()

	return s.Clone(), nil
}

func (r *Repository) GameSession(id game.GameID) (game.GameSession, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return game.GameSession{}, game.ErrGameNotFound
	}
	return s.Clone(), nil
}

// AddPlayer appends a joiner. Join order is preserved so the host stays
// first; duplicate ids are rejected before the capacity check.
func (r *Repository) AddPlayer(id game.GameID, player game.Player) (game.GameSession, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return game.GameSession{}, game.ErrGameNotFound
	}
	if _, exists := s.FindPlayer(player.ID); exists {
		return game.GameSession{}, game.ErrUnexpected.WithDetailf("player %s already joined", player.ID)
	}
	if len(s.Players) >= s.GameConfig.MaxPlayers {
		return game.GameSession{}, game.ErrGameIsFull
	}
	if s.CurrentState.Kind != game.StateWaitingForPlayers {
		return game.GameSession{}, game.ErrGameAlreadyStarted
	}

	s.Players = append(s.Players, player)
	s.Touch()
	return s.Clone(), nil
}

// RemovePlayer drops a player from the roster. Removing an unknown
// player is a no-op: disconnects and kicks race, and both sides may
// report the same departure.
func (r *Repository) RemovePlayer(id game.GameID, playerID game.PlayerID) (game.GameSession, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return game.GameSession{}, game.ErrGameNotFound
	}

	for i, player := range s.Players {
		if player.ID == playerID {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			s.Touch()
			break
		}
	}
	return s.Clone(), nil
}

func (r *Repository) UpdateGameState(id game.GameID, state game.GameState) (game.GameSession, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return game.GameSession{}, game.ErrGameNotFound
	}

	s.CurrentState = state
	s.Touch()
	return s.Clone(), nil
}

// UpdateSession overwrites the stored session wholesale. Peers use it
// to mirror the host's snapshot; the session must already exist.
func (r *Repository) UpdateSession(updated game.GameSession) (game.GameSession, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.sessions[updated.ID]; !ok {
		return game.GameSession{}, game.ErrGameNotFound
	}

	clone := updated.Clone()
	clone.Touch()
	r.sessions[updated.ID] = &clone
	return clone.Clone(), nil
}

// InstallSession stores a session received from a host, replacing any
// previous replica with the same id.
func (r *Repository) InstallSession(s game.GameSession) game.GameSession {
	clone := s.Clone()

	r.mtx.Lock()
	r.sessions[clone.ID] = &clone
	r.mtx.Unlock()

	return clone.Clone()
}

// SubmitVote records a vote, rejecting a second vote by the same player
// in the same round.
func (r *Repository) SubmitVote(id game.GameID, vote game.Vote) (game.GameSession, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return game.GameSession{}, game.ErrGameNotFound
	}
	if _, ok := s.FindPlayer(vote.VoterID); !ok {
		return game.GameSession{}, game.ErrPlayerNotFound
	}

	for _, cast := range s.Votes {
		if cast.Round == vote.Round && cast.VoterID == vote.VoterID {
			return game.GameSession{}, game.ErrVoteAlreadyCast
		}
	}

	s.Votes = append(s.Votes, vote)
	s.Touch()
	return s.Clone(), nil
}

func (r *Repository) SubmitDrawing(id game.GameID, drawing game.Drawing) (game.GameSession, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return game.GameSession{}, game.ErrGameNotFound
	}
	if _, ok := s.FindPlayer(drawing.PlayerID); !ok {
		return game.GameSession{}, game.ErrPlayerNotFound
	}

	s.Drawings = append(s.Drawings, drawing)
	s.Touch()
	return s.Clone(), nil
}

func (r *Repository) SubmitGuess(id game.GameID, guess game.ImpostorGuess) (game.GameSession, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return game.GameSession{}, game.ErrGameNotFound
	}

	s.Guesses = append(s.Guesses, guess)
	s.Touch()
	return s.Clone(), nil
}

// Delete forgets a session. Unknown ids are ignored.
func (r *Repository) Delete(id game.GameID) {
	r.mtx.Lock()
	delete(r.sessions, id)
	r.mtx.Unlock()
}

func (r *Repository) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.sessions)
}
