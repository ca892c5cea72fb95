package qam

import (
	"testing"

	"github.com/cwsl/ampkt/internal/sym"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQamModRejectsLowSPS(t *testing.T) {
	_, err := NewQamMod(3)
	require.Error(t, err)
}

func TestQamModUpsamplesIdenticalSamples(t *testing.T) {
	assert := assert.New(t)

	mod, err := NewQamMod(4)
	require := require.New(t)
	require.NoError(err)

	in := []sym.Symbol{sym.Some(sym.A), sym.None}
	out := make([]complex64, 8)

	consumed, produced := mod.Work(in, out)
	assert.Equal(2, consumed)
	assert.Equal(8, produced)

	for i := 0; i < 4; i++ {
		assert.Equal(sym.A.Point(), out[i])
	}
	for i := 4; i < 8; i++ {
		assert.Equal(complex64(0), out[i])
	}
}

func TestQamModConsumedIsProducedOverSPS(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	mod, err := NewQamMod(10)
	require.NoError(err)

	in := []sym.Symbol{sym.Some(sym.A), sym.Some(sym.B), sym.Some(sym.C)}
	out := make([]complex64, 25) // room for 2 full symbols, not 3

	consumed, produced := mod.Work(in, out)
	assert.Equal(20, produced)
	assert.Equal(produced/mod.SPS, consumed)
	assert.Equal(2, consumed)
}

func TestQamDemodSquelch(t *testing.T) {
	assert := assert.New(t)

	var squelched int
	d := &QamDemod{OnSquelch: func() { squelched++ }}

	got := d.Decide(complex(0, 0))
	assert.False(got.Present)
	assert.Equal(1, squelched)
}

func TestQamDemodQuadrants(t *testing.T) {
	assert := assert.New(t)

	d := &QamDemod{}
	cases := []struct {
		in   complex64
		want sym.Sym
	}{
		{complex(0.3, 0.3), sym.A},
		{complex(-0.3, 0.3), sym.B},
		{complex(0.3, -0.3), sym.C},
		{complex(-0.3, -0.3), sym.D},
	}
	for _, c := range cases {
		got := d.Decide(c.in)
		assert.True(got.Present)
		assert.Equal(c.want, got.Sym)
	}
}
