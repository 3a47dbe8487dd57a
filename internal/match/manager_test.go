package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/navidad-games/impostor/internal/catalog"
	"github.com/navidad-games/impostor/internal/event"
	"github.com/navidad-games/impostor/internal/game"
	"github.com/navidad-games/impostor/internal/transport"
)

// scanStub replays a fixed advertisement stream, the way a BLE scan
// reports the same host over and over.
type scanStub struct {
	transport.Transport
	sightings []event.DiscoverableGame
}

func (s *scanStub) Start(ctx context.Context) error { return nil }

func (s *scanStub) Discover(ctx context.Context, found func(event.DiscoverableGame)) error {
	for _, g := range s.sightings {
		found(g)
	}
	return nil
}

func TestDiscoverDedupsByGameIDLatestWins(t *testing.T) {
	first := event.DiscoverableGame{
		GameID:      "g1",
		HostName:    "Ana",
		PlayerCount: 1,
		MaxPlayers:  4,
		StateKind:   game.StateWaitingForPlayers,
	}
	grown := first
	grown.PlayerCount = 2
	started := grown
	started.StateKind = game.StateGameStarted

	other := event.DiscoverableGame{
		GameID:      "g2",
		HostName:    "Beto",
		PlayerCount: 3,
		MaxPlayers:  8,
		StateKind:   game.StateWaitingForPlayers,
	}

	tr := &scanStub{sightings: []event.DiscoverableGame{
		first, first, other, grown, other, grown, started,
	}}

	manager := NewManager(fastConfig(), catalog.New(), nil)
	defer manager.Stop()

	var listed []event.DiscoverableGame
	require.NoError(t, manager.Discover(context.Background(), tr, func(g event.DiscoverableGame) {
		listed = append(listed, g)
	}))

	require.Equal(t, []event.DiscoverableGame{first, other, grown, started}, listed)
}
