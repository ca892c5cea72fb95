package frame

import "github.com/cwsl/ampkt/internal/sym"

// byteDecoder packs symbols 2 bits at a time, most-significant pair
// first, completing a byte after 4 symbols — the inverse of
// sym.SymsFromByte.
type byteDecoder struct {
	cur        byte
	bitsPushed uint8
}

func (b *byteDecoder) push(s sym.Sym) (byte, bool) {
	b.cur |= sym.Bits(s)
	b.bitsPushed += 2

	if b.bitsPushed == 8 {
		ret := b.cur
		b.reset()
		return ret, true
	}

	b.cur <<= 2
	return 0, false
}

func (b *byteDecoder) reset() {
	b.cur = 0
	b.bitsPushed = 0
}

// u16Decoder assembles two decoded bytes into a big-endian uint16 (used
// for the frame's LEN field).
type u16Decoder struct {
	bd      byteDecoder
	high    byte
	hasHigh bool
}

func (u *u16Decoder) push(s sym.Sym) (uint16, bool) {
	b, ok := u.bd.push(s)
	if !ok {
		return 0, false
	}

	if u.hasHigh {
		u.hasHigh = false
		return uint16(u.high)<<8 | uint16(b), true
	}

	u.high = b
	u.hasHigh = true
	return 0, false
}

func (u *u16Decoder) reset() {
	u.hasHigh = false
	u.bd.reset()
}
