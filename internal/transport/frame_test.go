package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidad-games/impostor/internal/game"
)

func TestFragmentSingleChunk(t *testing.T) {
	payload := []byte(`{"type":"VOTE_CAST"}`)

	frames, err := Fragment(7, payload)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	assert.LessOrEqual(t, len(frames[0]), MaxFrameSize)
	assert.Equal(t, byte(7), frames[0][0])
	assert.Equal(t, byte(0), frames[0][1])
	assert.Equal(t, byte(1), frames[0][2])
	assert.Equal(t, payload, frames[0][4:])
}

func TestFragmentReassembleRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0xab}, 3*chunkSize+17)

	frames, err := Fragment(1, payload)
	require.NoError(t, err)
	require.Len(t, frames, 4)
	for _, frame := range frames {
		assert.LessOrEqual(t, len(frame), MaxFrameSize)
	}

	r := NewReassembler()
	for i, frame := range frames[:len(frames)-1] {
		got, err := r.Feed(frame)
		require.NoError(t, err, "chunk %d", i)
		assert.Nil(t, got)
	}

	got, err := r.Feed(frames[len(frames)-1])
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFragmentRejectsOversizePayload(t *testing.T) {
	_, err := Fragment(1, make([]byte, MaxPayloadBytes+1))
	assert.ErrorIs(t, err, game.ErrMessageSendFailed)
}

func TestReassemblerRestartsOnNewSequence(t *testing.T) {
	first, err := Fragment(1, bytes.Repeat([]byte{1}, 2*chunkSize))
	require.NoError(t, err)
	second, err := Fragment(2, []byte("fresh"))
	require.NoError(t, err)

	r := NewReassembler()
	_, err = r.Feed(first[0])
	require.NoError(t, err)

	// The interrupted sequence is abandoned, the new one completes.
	got, err := r.Feed(second[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)
}

func TestReassemblerRejectsMidSequenceStart(t *testing.T) {
	frames, err := Fragment(5, bytes.Repeat([]byte{1}, 2*chunkSize))
	require.NoError(t, err)

	r := NewReassembler()
	_, err = r.Feed(frames[1])
	assert.ErrorIs(t, err, game.ErrSerialization)
}
