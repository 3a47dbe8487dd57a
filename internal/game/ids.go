package game

import "github.com/google/uuid"

// PlayerID is an opaque unique player identifier, fixed once assigned.
type PlayerID string

// GameID is an opaque unique game identifier, fixed once assigned.
type GameID string

func NewPlayerID() PlayerID {
	return PlayerID(uuid.NewString())
}

func NewGameID() GameID {
	return GameID(uuid.NewString())
}
