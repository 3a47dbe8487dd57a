package game

import "github.com/navidad-games/impostor/internal/catalog"

const (
	MinPlayers = 3
	MaxPlayers = 12
)

// GameConfig is the immutable per-game configuration chosen by the host.
type GameConfig struct {
	HostName              string               `json:"hostName"`
	MaxLives              int                  `json:"maxLives"`
	DiscussionTimeSeconds int                  `json:"discussionTimeSeconds"`
	VotingTimeSeconds     int                  `json:"votingTimeSeconds"`
	WordCategories        []catalog.CategoryID `json:"wordCategories"`
	MinPlayers            int                  `json:"minPlayers"`
	MaxPlayers            int                  `json:"maxPlayers"`
}

func (c GameConfig) Validate() error {
	switch {
	case c.MaxLives <= 0:
		return ErrInvalidConfig.WithDetailf("maxLives = %d", c.MaxLives)
	case c.DiscussionTimeSeconds <= 0:
		return ErrInvalidTimeSettings.WithDetailf("discussionTimeSeconds = %d", c.DiscussionTimeSeconds)
	case c.VotingTimeSeconds <= 0:
		return ErrInvalidTimeSettings.WithDetailf("votingTimeSeconds = %d", c.VotingTimeSeconds)
	case len(c.WordCategories) == 0:
		return ErrNoCategoriesSelected
	case c.MinPlayers < MinPlayers || c.MinPlayers > c.MaxPlayers || c.MaxPlayers > MaxPlayers:
		return ErrInvalidConfig.WithDetailf("players %d..%d outside %d..%d", c.MinPlayers, c.MaxPlayers, MinPlayers, MaxPlayers)
	}
	return nil
}

func (c GameConfig) IsValid() bool {
	return c.Validate() == nil
}

// CanStart reports whether a lobby of the given size may begin a game.
func (c GameConfig) CanStart(playerCount int) bool {
	return c.IsValid() && playerCount >= c.MinPlayers
}

// DefaultConfig is the casual preset.
func DefaultConfig(hostName string, categories []catalog.CategoryID) GameConfig {
	return GameConfig{
		HostName:              hostName,
		MaxLives:              3,
		DiscussionTimeSeconds: 180,
		VotingTimeSeconds:     60,
		WordCategories:        categories,
		MinPlayers:            MinPlayers,
		MaxPlayers:            8,
	}
}

// QuickConfig is the preset for faster games.
func QuickConfig(hostName string, categories []catalog.CategoryID) GameConfig {
	return GameConfig{
		HostName:              hostName,
		MaxLives:              2,
		DiscussionTimeSeconds: 120,
		VotingTimeSeconds:     45,
		WordCategories:        categories,
		MinPlayers:            MinPlayers,
		MaxPlayers:            6,
	}
}
