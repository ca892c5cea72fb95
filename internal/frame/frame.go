// Package frame implements framing: SYNC correlation with rotation
// disambiguation (SymSync), and the FrameEncoder/FrameDecoder pair that
// turn whole byte blobs into an on-wire symbol stream and back.
package frame

import (
	"fmt"
	"log"

	"github.com/cwsl/ampkt/internal/sym"
)

// MaxPayloadBytes is the largest payload the wire format's 16-bit LEN
// field can express.
const MaxPayloadBytes = 65535

// maxQueuedSymbols bounds FrameEncoder's pending-symbol queue to roughly
// two maximum-size frames worth of symbols, so a slow downstream
// (back-pressured QamMod) cannot make the queue grow without bound.
const maxQueuedSymbols = 2 * (32 + 8 + 4*MaxPayloadBytes)

// FrameEncoder is message-in (whole byte blobs), stream-out (Symbol). It
// holds a FIFO of pending optional symbols built from each incoming blob:
// two SYNC sequences, the big-endian LEN, then the payload bytes each
// expanded to 4 symbols.
type FrameEncoder struct {
	queue []sym.Symbol

	// OnDrop, if set, is called when an incoming blob is dropped because
	// the encoder's queue is full. Full frames are dropped whole, with a
	// warning, rather than partially encoded.
	OnDrop func(payloadLen int)
	// OnEncoded, if set, is called once a blob has been fully queued.
	OnEncoded func(payloadLen int)
}

// NewFrameEncoder creates an empty encoder.
func NewFrameEncoder() *FrameEncoder {
	return &FrameEncoder{}
}

// PushFrame is the message handler: on an incoming byte blob, enqueue the
// full frame. Rejecting payloads over MaxPayloadBytes is the caller's
// responsibility; PushFrame still guards against it defensively.
func (e *FrameEncoder) PushFrame(data []byte) {
	if len(data) > MaxPayloadBytes {
		log.Printf("frame: refusing to encode %d-byte payload (max %d)", len(data), MaxPayloadBytes)
		return
	}

	needed := 32 + 8 + 4*len(data)
	if len(e.queue)+needed > maxQueuedSymbols {
		log.Printf("frame: encoder queue full (%d pending symbols), dropping %d-byte frame", len(e.queue), len(data))
		if e.OnDrop != nil {
			e.OnDrop(len(data))
		}
		return
	}

	e.pushSync()
	e.pushSync()
	e.pushByte(byte(len(data) >> 8))
	e.pushByte(byte(len(data)))
	for _, b := range data {
		e.pushByte(b)
	}

	if e.OnEncoded != nil {
		e.OnEncoded(len(data))
	}
}

func (e *FrameEncoder) pushSync() {
	for _, s := range SYNC {
		e.queue = append(e.queue, sym.Some(s))
	}
}

func (e *FrameEncoder) pushByte(b byte) {
	for _, s := range sym.SymsFromByte(b) {
		e.queue = append(e.queue, sym.Some(s))
	}
}

// Work fills out from the pending queue: an empty queue emits all None
// (idle) and reports a full fill; otherwise it fills as many slots as
// the queue has symbols for and reports that count, except when the
// queue empties exactly one slot short of filling out, in which case it
// over-reports a full fill even though the final slot was never
// written. That quirk is deliberately preserved rather than smoothed
// over, since downstream accounting already tolerates it.
func (e *FrameEncoder) Work(out []sym.Symbol) (produced int) {
	if len(e.queue) == 0 {
		for i := range out {
			out[i] = sym.None
		}
		return len(out)
	}

	i := 0
	for ; i < len(out); i++ {
		if len(e.queue) == 0 {
			break
		}
		out[i] = e.queue[0]
		e.queue = e.queue[1:]
	}
	if len(e.queue) == 0 {
		e.queue = nil
	}

	if i == len(out) {
		return len(out)
	}
	if i == len(out)-1 {
		return len(out)
	}
	return i
}

type frameState int

const (
	stateSync frameState = iota
	stateSz
	stateData
)

// FrameDecoder is stream-in (Symbol), message-out (byte blob). PushSym
// takes present symbols only; callers skip None slots before feeding it
// (as the RX graph's decoder stage does). It drives a Sync/Sz/Data state
// machine.
type FrameDecoder struct {
	ss       *SymSync
	state    frameState
	rotation int
	szDec    u16Decoder
	frameSz  uint16
	data     []byte
	dataDec  byteDecoder

	// OnRotation, if set, is called each time SymSync reports a fresh
	// rotation lock.
	OnRotation func(rotation int)
	// OnFrame, if set, is called with the payload length each time a
	// frame is fully decoded.
	OnFrame func(payloadLen int)
}

// NewFrameDecoder creates a decoder in its initial Sync state.
func NewFrameDecoder() *FrameDecoder {
	d := &FrameDecoder{ss: NewSymSync()}
	d.reset()
	return d
}

func (d *FrameDecoder) reset() {
	d.state = stateSync
	d.data = d.data[:0]
	d.frameSz = 0
	d.szDec.reset()
	d.dataDec.reset()
}

// PushSym feeds one present symbol through the decoder and returns a
// completed payload, if this symbol finished one. A SYNC match is
// honored in every state, including mid-Data: a fresh preamble always
// resynchronizes the decoder, even if it interrupts a frame in
// progress.
func (d *FrameDecoder) PushSym(s sym.Sym) []byte {
	if r, matched := d.ss.Push(s); matched {
		d.rotation = r
		d.reset()
		d.state = stateSz
		if d.OnRotation != nil {
			d.OnRotation(r)
		}
		return nil
	}

	s = s.Sub(d.rotation)

	switch d.state {
	case stateSync:
		return nil

	case stateSz:
		if v, ok := d.szDec.push(s); ok {
			d.frameSz = v
			d.state = stateData
			if d.frameSz == 0 {
				payload := []byte{}
				d.reset()
				if d.OnFrame != nil {
					d.OnFrame(0)
				}
				return payload
			}
		}
		return nil

	case stateData:
		if b, ok := d.dataDec.push(s); ok {
			d.data = append(d.data, b)
			if len(d.data) == int(d.frameSz) {
				payload := make([]byte, len(d.data))
				copy(payload, d.data)
				d.reset()
				if d.OnFrame != nil {
					d.OnFrame(len(payload))
				}
				return payload
			}
		}
		return nil

	default:
		panic(fmt.Sprintf("frame: unreachable decoder state %d", d.state))
	}
}
