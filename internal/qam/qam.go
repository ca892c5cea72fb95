// Package qam implements the modulator and slicer that sit between the
// symbol domain and the baseband complex-sample domain.
package qam

import (
	"fmt"
	"math/cmplx"

	"github.com/cwsl/ampkt/internal/sym"
)

// MinSPS is the minimum samples-per-symbol oversampling ratio allowed.
const MinSPS = 4

// SquelchThreshold is the magnitude below which a sample is treated as
// silence/no-symbol.
const SquelchThreshold = 0.1

// QamMod upsamples a Symbol stream to complex baseband samples: each
// input symbol becomes exactly SPS identical samples — the constellation
// point, or zero for an idle (None) slot.
type QamMod struct {
	SPS int
}

// NewQamMod validates sps and returns a modulator, or an error if sps is
// below MinSPS. Callers should treat this as fatal at startup.
func NewQamMod(sps int) (*QamMod, error) {
	if sps < MinSPS {
		return nil, fmt.Errorf("qam: sps must be >= %d, got %d", MinSPS, sps)
	}
	return &QamMod{SPS: sps}, nil
}

// Work consumes whole symbols from in and writes SPS samples per symbol
// into out, consuming a symbol only when a full SPS-sized chunk of out
// remains. consumed is derived as produced/sps so accounting never
// understates how many input symbols were actually turned into samples.
func (m *QamMod) Work(in []sym.Symbol, out []complex64) (consumedSyms, producedSamples int) {
	n := len(out) / m.SPS
	if n > len(in) {
		n = len(in)
	}

	for i := 0; i < n; i++ {
		var v complex64
		if in[i].Present {
			v = in[i].Sym.Point()
		}
		base := i * m.SPS
		for j := 0; j < m.SPS; j++ {
			out[base+j] = v
		}
	}

	producedSamples = n * m.SPS
	consumedSyms = producedSamples / m.SPS
	return consumedSyms, producedSamples
}

// QamDemod hard-decision slices baseband samples into symbols. It is a
// stateless per-sample map.
type QamDemod struct {
	// OnSquelch, if set, is called for every sample that falls below
	// SquelchThreshold and is therefore decided as None.
	OnSquelch func()
}

// Decide maps one baseband sample to a Symbol.
func (d *QamDemod) Decide(s complex64) sym.Symbol {
	mag := cmplx.Abs(complex128(s))
	if mag < SquelchThreshold {
		if d.OnSquelch != nil {
			d.OnSquelch()
		}
		return sym.None
	}
	return sym.Some(sym.FromAngle(cmplx.Phase(complex128(s))))
}

// Work maps every available input sample to an output symbol, one for
// one, and returns the number processed.
func (d *QamDemod) Work(in []complex64, out []sym.Symbol) int {
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = d.Decide(in[i])
	}
	return n
}
