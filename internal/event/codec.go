package event

import (
	"encoding/json"

	"github.com/navidad-games/impostor/internal/game"
)

var validTypes = map[Type]struct{}{
	TypePlayerJoined: {}, TypePlayerLeft: {}, TypePlayerKicked: {},
	TypeGameStateChanged: {}, TypePlayerDrawing: {}, TypeVoteCast: {},
	TypeImpostorGuessSubmitted: {}, TypeRoundEnded: {}, TypeGameEnded: {},
	TypePlayerDisconnected: {}, TypeConnectionStatusChanged: {},
	TypeGameDiscovered: {}, TypeGameConfigUpdated: {}, TypeTimerUpdate: {},
	TypeGameStarted: {},
}

// Marshal encodes an event as the UTF-8 JSON wire form.
func Marshal(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, game.ErrSerialization.WithCause(err)
	}
	return data, nil
}

// Unmarshal decodes the wire form. Unknown event types fail so a newer
// peer cannot corrupt an older replica; unknown fields are ignored.
func Unmarshal(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, game.ErrSerialization.WithCause(err)
	}
	if _, ok := validTypes[ev.Type]; !ok {
		return Event{}, game.ErrSerialization.WithDetailf("unknown event type %q", ev.Type)
	}
	return ev, nil
}
