// Package carriersync implements a decision-directed, Costas-loop-style
// carrier-phase tracker: it rotates each incoming baseband sample by its
// running phase estimate, decides the sign of the rotated in-phase and
// quadrature components, and nudges the phase estimate toward zero error.
package carriersync

import "math"

// CarrierSync tracks and removes a slowly-varying carrier phase offset
// from a stream of already timing-recovered baseband samples. Phase
// persists across calls to Work; it is never reset mid-session.
type CarrierSync struct {
	loopGain float32
	phase    float32
}

// New builds a CarrierSync with the given loop gain.
func New(loopGain float32) *CarrierSync {
	return &CarrierSync{loopGain: loopGain}
}

func sign(f float32) float32 {
	if f < 0 {
		return -1
	}
	return 1
}

// calcError returns the decision-directed phase error for an already
// phase-rotated sample s: e = sgn(Q)*I - sgn(I)*Q.
func calcError(s complex64) float32 {
	i := real(s)
	q := imag(s)
	return sign(q)*i - sign(i)*q
}

// rotate applies a rotation of +phase to s (undoing the tracked carrier
// offset).
func rotate(s complex64, phase float32) complex64 {
	c := complex64(complex(float32(math.Cos(float64(phase))), float32(math.Sin(float64(phase)))))
	return s * c
}

// wrap normalizes phase into (-2*pi, 2*pi]; it does not fold all the way
// into (-pi, pi].
func wrap(phase float32) float32 {
	const twoPi = 2 * math.Pi
	for phase > twoPi {
		phase -= twoPi
	}
	for phase <= -twoPi {
		phase += twoPi
	}
	return phase
}

// pushSample rotates one sample by the current phase estimate, updates
// the phase from the decision-directed error, and returns the corrected
// sample.
func (c *CarrierSync) pushSample(s complex64) complex64 {
	out := rotate(s, c.phase)
	e := calcError(out)
	c.phase = wrap(c.phase + c.loopGain*e)
	return out
}

// Work phase-corrects every available input sample, one for one.
func (c *CarrierSync) Work(in []complex64, out []complex64) int {
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = c.pushSample(in[i])
	}
	return n
}

// Phase returns the current tracked phase offset, in radians. Exposed for
// diagnostics and metrics.
func (c *CarrierSync) Phase() float32 {
	return c.phase
}
