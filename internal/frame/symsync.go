package frame

import "github.com/cwsl/ampkt/internal/sym"

// SYNC is the fixed 16-symbol preamble, transmitted twice back-to-back
// at the start of every frame.
var SYNC = [16]sym.Sym{
	sym.A, sym.B, sym.A, sym.C, sym.A, sym.D, sym.B, sym.D,
	sym.A, sym.C, sym.B, sym.B, sym.A, sym.B, sym.D, sym.C,
}

// SymSync is a sliding 16-symbol correlator over the decoded symbol
// stream. It recognizes SYNC under any of the four 90°-rotation
// ambiguities simultaneously, returning the rotation that matched.
type SymSync struct {
	rotations map[uint32]int
	reg       uint32
}

// NewSymSync builds the four target words (one per rotation) at
// construction time; the lookup table is immutable for the life of the
// instance.
func NewSymSync() *SymSync {
	rotations := make(map[uint32]int, 4)

	for r := 0; r < 4; r++ {
		var w uint32
		for _, s := range SYNC {
			w = (w << 2) | uint32(sym.Bits(s.Add(r)))
		}
		rotations[w] = r
	}

	return &SymSync{rotations: rotations}
}

// Push shifts s into the 32-bit register and checks it against the
// rotation table, returning the matched rotation if the register now
// equals one of the four SYNC encodings.
func (ss *SymSync) Push(s sym.Sym) (rotation int, matched bool) {
	ss.reg = (ss.reg << 2) | uint32(sym.Bits(s))
	r, ok := ss.rotations[ss.reg]
	return r, ok
}
