package frame

import (
	"testing"

	"github.com/cwsl/ampkt/internal/sym"
	"github.com/stretchr/testify/assert"
)

func runSync(t *testing.T, ss *SymSync, rot func(sym.Sym) sym.Sym) (int, bool) {
	t.Helper()
	var (
		gotRotation int
		gotMatched  bool
	)
	for i, s := range SYNC {
		r, matched := ss.Push(rot(s))
		if i < len(SYNC)-1 {
			assert.False(t, matched, "unexpected early match at symbol %d", i)
			continue
		}
		gotRotation, gotMatched = r, matched
	}
	return gotRotation, gotMatched
}

func TestSymSyncRotations(t *testing.T) {
	assert := assert.New(t)

	for rotation := 0; rotation < 4; rotation++ {
		rotation := rotation
		r, matched := runSync(t, NewSymSync(), func(s sym.Sym) sym.Sym { return s.Add(rotation) })
		assert.True(matched, "rotation %d should match on the 16th symbol", rotation)
		assert.Equal(rotation, r)
	}
}

func TestSymSyncWithPreamble(t *testing.T) {
	assert := assert.New(t)

	ss := NewSymSync()
	ss.Push(sym.A)
	ss.Push(sym.B)
	ss.Push(sym.D)
	ss.Push(sym.A)

	r, matched := runSync(t, ss, func(s sym.Sym) sym.Sym { return s.Add(3) })
	assert.True(matched)
	assert.Equal(3, r)
}

func TestSymSyncNoSpuriousMatchOnNonSync(t *testing.T) {
	assert := assert.New(t)

	ss := NewSymSync()
	// A run of the same symbol should never correlate with SYNC, which
	// contains all four letters.
	for i := 0; i < 1000; i++ {
		_, matched := ss.Push(sym.A)
		assert.False(matched)
	}
}
