package model

import (
	"time"

	"github.com/google/uuid"
)

type Conclusion string

const (
	ConclusionWon  Conclusion = "won"
	ConclusionLost Conclusion = "lost"
)

func NewRecord(playerID string) Record {
	return Record{ID: uuid.New(), PlayerID: playerID, Conclusion: ConclusionLost, CreatedAt: time.Now()}
}

// Record is one player's result for one finished game.
type Record struct {
	ID       uuid.UUID `json:"-"`
	PlayerID string    `json:"playerId"`

	Conclusion   Conclusion `json:"conclusion"`
	WasImpostor  bool       `json:"wasImpostor"`
	ImpostorWon  bool       `json:"impostorWon"`
	RoundsPlayed int        `json:"roundsPlayed"`
	Category     string     `json:"category"`
	PlayersNum   int        `json:"playersNum"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Profile is the aggregation shown to the player.
type Profile struct {
	GamesPlayed        int
	GamesWon           int
	GamesLost          int
	TimesImpostor      int
	TimesImpostorWon   int
	AverageRounds      float64
	FavoriteCategories []string
	LastPlayed         time.Time
}

func (p Profile) WinRate() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return float64(p.GamesWon) / float64(p.GamesPlayed) * 100
}

func (p Profile) ImpostorWinRate() float64 {
	if p.TimesImpostor == 0 {
		return 0
	}
	return float64(p.TimesImpostorWon) / float64(p.TimesImpostor) * 100
}
