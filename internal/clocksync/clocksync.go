// Package clocksync implements Gardner-style symbol-timing recovery: a
// decimator that emits one sample per sps±δ input samples, nudging δ
// toward the symbol peak using a decision-directed error computed from an
// adjacent 3-sample window.
package clocksync

import "fmt"

// ClockSync recovers symbol timing from an oversampled complex baseband
// stream. Its countdown and 3-sample window live for the life of the
// block; the countdown is reloaded and the window cleared after every
// error computation, and nothing else resets them.
type ClockSync struct {
	sps     int
	errGain float32

	n      int
	window [3]complex64
}

// New builds a ClockSync for the given nominal samples-per-symbol and
// loop gain. sps must be at least 4; callers should treat a lower value
// as fatal at startup.
func New(sps int, errGain float32) (*ClockSync, error) {
	if sps < 4 {
		return nil, fmt.Errorf("clocksync: sps must be >= 4, got %d", sps)
	}
	return &ClockSync{sps: sps, errGain: errGain, n: sps}, nil
}

// calcError computes the Gardner-like error from the captured window and
// clamps it to ±sps/2.
func (c *ClockSync) calcError() float32 {
	maxDelta := float32(c.sps) / 2.0

	x0 := real(c.window[0])
	x1 := real(c.window[1])
	x2 := real(c.window[2])

	e := (x2 - x0) * x1 * c.errGain

	if e < -maxDelta {
		e = -maxDelta
	} else if e > maxDelta {
		e = maxDelta
	}
	return e
}

// pushSample advances the countdown by one input sample and returns the
// sample to emit, if this one lands on an emission boundary (n == 1).
func (c *ClockSync) pushSample(s complex64) (out complex64, emit bool) {
	c.n--

	switch c.n {
	case 2:
		c.window[0] = s
	case 1:
		c.window[1] = s
		out, emit = s, true
	case 0:
		c.window[2] = s
		e := c.calcError()
		c.window = [3]complex64{}
		c.n = c.sps + roundToInt(e)
	}

	return out, emit
}

func roundToInt(f float32) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}

// Work decimates in into out, consuming one input sample per loop tick
// and producing roughly one output sample per sps input samples.
// Consumed and produced are reported independently, tolerating partial
// fills at slice boundaries.
func (c *ClockSync) Work(in []complex64, out []complex64) (consumed, produced int) {
	oi := 0
	for ii := 0; ii < len(in) && oi < len(out); ii++ {
		consumed++
		if s, emit := c.pushSample(in[ii]); emit {
			out[oi] = s
			oi++
			produced++
		}
	}
	return consumed, produced
}
