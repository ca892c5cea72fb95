package pipeline

import (
	"testing"

	"github.com/cwsl/ampkt/internal/frame"
	"github.com/cwsl/ampkt/internal/qam"
	"github.com/cwsl/ampkt/internal/sym"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeToSamples drains enc fully (enough slots for the whole queued
// frame) and modulates the result to baseband samples at the given sps.
func encodeToSamples(t *testing.T, enc *frame.FrameEncoder, symCount, sps int) []complex64 {
	t.Helper()
	syms := make([]sym.Symbol, symCount)
	enc.Work(syms)

	mod, err := qam.NewQamMod(sps)
	require.NoError(t, err)
	samples := make([]complex64, symCount*sps)
	_, produced := mod.Work(syms, samples)
	return samples[:produced]
}

// decodeFromSamples demodulates samples, keeps one symbol per sps samples
// (the middle sample of each symbol period, standing in for ClockSync's
// decimation), and feeds those to a fresh FrameDecoder, returning every
// delivered payload in order.
func decodeFromSamples(samples []complex64, sps int) [][]byte {
	demod := &qam.QamDemod{}
	dec := frame.NewFrameDecoder()

	syms := make([]sym.Symbol, len(samples))
	demod.Work(samples, syms)

	var frames [][]byte
	for i := sps / 2; i < len(syms); i += sps {
		s := syms[i]
		if !s.Present {
			continue
		}
		if payload := dec.PushSym(s.Sym); payload != nil {
			frames = append(frames, payload)
		}
	}
	return frames
}

func TestE2ELoopbackNoChannel(t *testing.T) {
	assert := assert.New(t)

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	enc := frame.NewFrameEncoder()
	enc.PushFrame(payload)

	symCount := 32 + 8 + 4*len(payload)
	samples := encodeToSamples(t, enc, symCount, 10)

	frames := decodeFromSamples(samples, 10)
	require.Len(t, frames, 1)
	assert.Equal(payload, frames[0])
}

func TestE2ERotationByOneQuadrant(t *testing.T) {
	assert := assert.New(t)

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	enc := frame.NewFrameEncoder()
	enc.PushFrame(payload)

	symCount := 32 + 8 + 4*len(payload)
	samples := encodeToSamples(t, enc, symCount, 10)

	// Multiply every sample by i: a 90 degree constellation rotation.
	rotated := make([]complex64, len(samples))
	for i, s := range samples {
		rotated[i] = s * complex(float32(0), float32(1))
	}

	frames := decodeFromSamples(rotated, 10)
	require.Len(t, frames, 1)
	assert.Equal(payload, frames[0])
}

func TestE2EIdleStream(t *testing.T) {
	dec := frame.NewFrameDecoder()
	for i := 0; i < 10000; i++ {
		payload := dec.PushSym(sym.A) // non-sync symbol run, never a match
		assert.Nil(t, payload)
	}
}

func TestE2EConcatenatedFrames(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	enc := frame.NewFrameEncoder()
	enc.PushFrame([]byte{0x01})
	enc.PushFrame([]byte{0x02, 0x03})

	symCount := (32 + 8 + 4*1) + (32 + 8 + 4*2)
	samples := encodeToSamples(t, enc, symCount, 10)

	frames := decodeFromSamples(samples, 10)
	require.Len(frames, 2)
	assert.Equal([]byte{0x01}, frames[0])
	assert.Equal([]byte{0x02, 0x03}, frames[1])
}

func TestE2ENoiseSquelch(t *testing.T) {
	assert := assert.New(t)

	demod := &qam.QamDemod{}
	dec := frame.NewFrameDecoder()

	zeros := make([]complex64, 1000)
	syms := make([]sym.Symbol, len(zeros))
	demod.Work(zeros, syms)

	for _, s := range syms {
		assert.False(s.Present, "FrameDecoder ignores None inputs, so squelched samples never reach it")
		if !s.Present {
			continue
		}
		assert.Nil(dec.PushSym(s.Sym))
	}
}

func TestE2EEmptyFrame(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	enc := frame.NewFrameEncoder()
	enc.PushFrame(nil)

	symCount := 32 + 8
	samples := encodeToSamples(t, enc, symCount, 10)

	frames := decodeFromSamples(samples, 10)
	require.Len(frames, 1)
	assert.Empty(frames[0])
}
