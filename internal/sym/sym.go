// Package sym implements the 4-ary symbol algebra used by the QAM packet
// radio link: the constellation alphabet, its rotation group, and the
// mapping to and from baseband constellation points and raw bits.
package sym

import "math"

// Sym is one of the four constellation points. The bit-pair encoding is
// fixed: A=00, B=01, C=10, D=11.
type Sym uint8

const (
	A Sym = iota
	B
	C
	D
)

// N is the constellation half-amplitude: points sit at (±N, ±N).
const N = 0.3

// bits returns the 2-bit encoding of s.
func (s Sym) bits() uint8 {
	return uint8(s) & 0x3
}

// fromNibble recovers a Sym from its low 2 bits.
func fromNibble(n uint8) Sym {
	return Sym(n & 0x3)
}

// inc applies one quarter-turn of the rotation group: A->C->D->B->A. With
// the Point mapping below this turns the constellation by -90 degrees
// (clockwise).
func (s Sym) inc() Sym {
	switch s {
	case A:
		return C
	case B:
		return A
	case C:
		return D
	default: // D
		return B
	}
}

// dec applies the inverse quarter-turn (+90 degrees, counter-clockwise,
// with the Point mapping): the exact inverse of inc.
func (s Sym) dec() Sym {
	switch s {
	case A:
		return B
	case B:
		return D
	case C:
		return A
	default: // D
		return C
	}
}

// Add rotates s forward by n (mod 4) applications of inc.
func (s Sym) Add(n int) Sym {
	switch n & 0x3 {
	case 0:
		return s
	case 1:
		return s.inc()
	case 2:
		return s.inc().inc()
	default:
		return s.inc().inc().inc()
	}
}

// Sub rotates s backward by n (mod 4) applications of dec. Sub is the
// exact inverse of Add: s.Add(n).Sub(n) == s for all s, n.
func (s Sym) Sub(n int) Sym {
	switch n & 0x3 {
	case 0:
		return s
	case 1:
		return s.dec()
	case 2:
		return s.dec().dec()
	default:
		return s.dec().dec().dec()
	}
}

// String renders the symbol as its letter name, for logging.
func (s Sym) String() string {
	switch s {
	case A:
		return "A"
	case B:
		return "B"
	case C:
		return "C"
	case D:
		return "D"
	default:
		return "?"
	}
}

// Point returns the baseband constellation point for s as a complex64
// pair of 32-bit floats. Gray-free mapping: A=(+,+), B=(-,+), C=(+,-),
// D=(-,-).
func (s Sym) Point() complex64 {
	switch s {
	case A:
		return complex(float32(N), float32(N))
	case B:
		return complex(float32(-N), float32(N))
	case C:
		return complex(float32(N), float32(-N))
	default: // D
		return complex(float32(-N), float32(-N))
	}
}

// Symbol is a stream element: an optional Sym. Present == false denotes
// "no symbol this slot" — idle/padding on the TX symbol stream, or a
// squelched slot on the RX side.
type Symbol struct {
	Sym     Sym
	Present bool
}

// Some wraps s as a present symbol.
func Some(s Sym) Symbol {
	return Symbol{Sym: s, Present: true}
}

// None is the absent symbol.
var None = Symbol{}

// FromAngle hard-decides a symbol from the argument (radians) of a
// non-squelched baseband sample. Quadrant boundaries:
//
//	0    <  arg <  pi/2  -> A
//	pi/2 <= arg <= pi    -> B
//	-pi/2 < arg <= 0     -> C
//	-pi  <= arg <= -pi/2 -> D
func FromAngle(arg float64) Sym {
	const halfPi = math.Pi / 2
	switch {
	case arg > 0 && arg < halfPi:
		return A
	case arg >= halfPi && arg <= math.Pi:
		return B
	case arg > -halfPi && arg <= 0:
		return C
	default: // -pi <= arg <= -pi/2
		return D
	}
}

// SymsFromByte expands a byte into its 4 symbols, most significant bit
// pair first: bits [7:6], [5:4], [3:2], [1:0].
func SymsFromByte(b byte) [4]Sym {
	return [4]Sym{
		fromNibble(b >> 6),
		fromNibble(b >> 4),
		fromNibble(b >> 2),
		fromNibble(b),
	}
}

// Bits exposes the raw 2-bit encoding (exported for the byte accumulator in
// package frame, which packs 4 of these per byte).
func Bits(s Sym) uint8 {
	return s.bits()
}
