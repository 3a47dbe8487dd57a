// Package transport moves serialized game events between the host and
// its peers. Implementations own discovery, link setup and frame-level
// fragmentation; callers only see whole events.
package transport

import (
	"context"
	"encoding/json"

	"github.com/navidad-games/impostor/internal/event"
	"github.com/navidad-games/impostor/internal/game"
)

// Inbound is a decoded event together with the peer that sent it. From
// is the transport-level address, not a player id.
type Inbound struct {
	From  string
	Event event.Event
}

type Transport interface {
	// Start brings the adapter up. It must be called before any other
	// method and is idempotent.
	Start(ctx context.Context) error

	// Advertise makes the game discoverable until StopAdvertising or
	// Close is called.
	Advertise(ctx context.Context, ad Advertisement) error
	StopAdvertising()

	// Discover reports joinable games until StopDiscovery or Close.
	// Each game is reported once per sighting; dedup is the caller's.
	Discover(ctx context.Context, found func(event.DiscoverableGame)) error
	StopDiscovery()

	// Connect opens a link to a host. Peer side only.
	Connect(ctx context.Context, info event.ConnectionInfo) error

	// Broadcast fans an event out to every connected peer. Host side
	// only. A send failure to one peer does not stop the others.
	Broadcast(ctx context.Context, ev event.Event) error

	// Send delivers an event to the host. Peer side only.
	Send(ctx context.Context, ev event.Event) error

	Receive() <-chan Inbound
	ConnectedPeers() []string

	Close() error
}

// Advertisement is the payload packed into discovery beacons. It must
// stay small: BLE service data leaves little room.
type Advertisement struct {
	GameID      game.GameID    `json:"g"`
	HostName    string         `json:"h"`
	PlayerCount int            `json:"p"`
	MaxPlayers  int            `json:"m"`
	StateKind   game.StateKind `json:"s"`
}

func (a Advertisement) Encode() ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, game.ErrSerialization.WithCause(err)
	}
	return data, nil
}

func DecodeAdvertisement(data []byte) (Advertisement, error) {
	var a Advertisement
	if err := json.Unmarshal(data, &a); err != nil {
		return Advertisement{}, game.ErrSerialization.WithCause(err)
	}
	if a.GameID == "" {
		return Advertisement{}, game.ErrSerialization.WithDetailf("advertisement without game id")
	}
	return a, nil
}

// Discoverable converts an advertisement into the lobby-facing view.
func (a Advertisement) Discoverable(info event.ConnectionInfo) event.DiscoverableGame {
	return event.DiscoverableGame{
		GameID:         a.GameID,
		HostName:       a.HostName,
		PlayerCount:    a.PlayerCount,
		MaxPlayers:     a.MaxPlayers,
		StateKind:      a.StateKind,
		ConnectionInfo: info,
	}
}
