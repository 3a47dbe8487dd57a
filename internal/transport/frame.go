package transport

import (
	"github.com/navidad-games/impostor/internal/game"
)

// Wire framing. A characteristic write carries at most MaxFrameSize
// bytes, so events are split into numbered chunks:
//
//	byte 0  sequence id, shared by all chunks of one event
//	byte 1  chunk index
//	byte 2  chunk count
//	byte 3  flags, reserved
//
// Chunks of one sequence arrive in order on a single link; interleaved
// sequences from the same sender are not supported and reset reassembly.
const (
	MaxFrameSize = 512
	headerSize   = 4
	chunkSize    = MaxFrameSize - headerSize

	// MaxPayloadBytes bounds a whole event. Drawings dominate; paths
	// beyond this must be thinned by the sender.
	MaxPayloadBytes = 16 * 1024

	maxChunks = MaxPayloadBytes/chunkSize + 1
)

// Fragment splits payload into wire frames under one sequence id.
func Fragment(seq byte, payload []byte) ([][]byte, error) {
	if len(payload) == 0 {
		return nil, game.ErrSerialization.WithDetailf("empty payload")
	}
	if len(payload) > MaxPayloadBytes {
		return nil, game.ErrMessageSendFailed.WithDetailf("payload %d bytes exceeds %d", len(payload), MaxPayloadBytes)
	}

	count := (len(payload) + chunkSize - 1) / chunkSize
	frames := make([][]byte, 0, count)
	for idx := 0; idx < count; idx++ {
		start := idx * chunkSize
		end := start + chunkSize
		if end > len(payload) {
			end = len(payload)
		}

		frame := make([]byte, headerSize, headerSize+end-start)
		frame[0] = seq
		frame[1] = byte(idx)
		frame[2] = byte(count)
		frames = append(frames, append(frame, payload[start:end]...))
	}
	return frames, nil
}

// Reassembler rebuilds payloads from one sender's frames. Not safe for
// concurrent use; keep one per link.
type Reassembler struct {
	seq    byte
	count  int
	next   int
	buf    []byte
	active bool
}

func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Feed consumes one frame. It returns the full payload once the last
// chunk of a sequence lands, nil otherwise. A frame that does not
// continue the current sequence drops the partial payload and starts
// over from that frame.
func (r *Reassembler) Feed(frame []byte) ([]byte, error) {
	if len(frame) <= headerSize {
		return nil, game.ErrSerialization.WithDetailf("frame %d bytes, need more than %d", len(frame), headerSize)
	}
	if len(frame) > MaxFrameSize {
		return nil, game.ErrSerialization.WithDetailf("frame %d bytes exceeds %d", len(frame), MaxFrameSize)
	}

	seq, idx, count := frame[0], int(frame[1]), int(frame[2])
	if count == 0 || idx >= count || count > maxChunks {
		return nil, game.ErrSerialization.WithDetailf("bad chunk header idx=%d count=%d", idx, count)
	}

	if !r.active || seq != r.seq || idx != r.next {
		if idx != 0 {
			r.reset()
			return nil, game.ErrSerialization.WithDetailf("sequence %d resumed at chunk %d", seq, idx)
		}
		r.seq = seq
		r.count = count
		r.next = 0
		r.buf = r.buf[:0]
		r.active = true
	}

	r.buf = append(r.buf, frame[headerSize:]...)
	r.next++
	if len(r.buf) > MaxPayloadBytes {
		r.reset()
		return nil, game.ErrSerialization.WithDetailf("reassembled payload exceeds %d bytes", MaxPayloadBytes)
	}

	if r.next < r.count {
		return nil, nil
	}

	payload := append([]byte(nil), r.buf...)
	r.reset()
	return payload, nil
}

func (r *Reassembler) reset() {
	r.active = false
	r.buf = r.buf[:0]
	r.next = 0
	r.count = 0
}
