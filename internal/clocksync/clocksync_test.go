package clocksync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsLowSPS(t *testing.T) {
	_, err := New(3, 1.0)
	require.Error(t, err)
}

// windowError feeds the first two window samples through pushSample at the
// n==2/1 boundaries, places the third in the slot the n==0 push would fill,
// and returns the error pushSample would compute there, independent of the
// surrounding Work loop. (The n==0 push itself clears the window right
// after computing the error, so the error cannot be read back after it.)
func windowError(t *testing.T, sps int, x0, x1, x2 float32) float32 {
	t.Helper()
	c, err := New(sps, 1.0)
	require.NoError(t, err)

	// Drive n down to 3 first (sps-3 throwaway samples), so the next two
	// pushes are the ones that land on the n==2/1 window-capture boundaries.
	for i := 0; i < sps-3; i++ {
		c.pushSample(0)
	}
	c.pushSample(complex(x0, 0))
	c.pushSample(complex(x1, 0))
	c.window[2] = complex(x2, 0)
	return c.calcError()
}

func TestErrConvergenceAscending(t *testing.T) {
	e := windowError(t, 10, 0.1, 0.2, 0.3)
	assert.Greater(t, e, float32(0))
}

func TestErrConvergenceDescending(t *testing.T) {
	e := windowError(t, 10, 0.3, 0.2, 0.1)
	assert.Less(t, e, float32(0))
}

func TestErrConvergenceAscendingBelowZero(t *testing.T) {
	e := windowError(t, 10, -0.1, -0.2, -0.3)
	assert.Greater(t, e, float32(0))
}

func TestErrConvergenceDescendingAsymmetric(t *testing.T) {
	e := windowError(t, 10, -0.5, -0.3, -0.2)
	assert.Less(t, e, float32(0))
}

func TestErrConvergenceSymmetricIsZero(t *testing.T) {
	assert.Zero(t, windowError(t, 10, 0.3, 0.4, 0.3))
	assert.Zero(t, windowError(t, 10, -0.3, -0.4, -0.3))
}

func TestWorkEmitsOnePerSPS(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	c, err := New(4, 0.0) // zero gain: no loop correction, pure decimation
	require.NoError(err)

	in := make([]complex64, 16)
	for i := range in {
		in[i] = complex(float32(i), 0)
	}
	out := make([]complex64, 16)

	consumed, produced := c.Work(in, out)
	assert.Equal(16, consumed)
	assert.Equal(4, produced)
}

func TestWorkClampsLargeError(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	c, err := New(4, 1000.0) // huge gain forces clamping
	require.NoError(err)

	in := make([]complex64, 4)
	in[0] = complex(1, 0)
	in[1] = complex(1, 0)
	in[2] = complex(1, 0)
	out := make([]complex64, 4)

	c.Work(in, out)
	assert.LessOrEqual(c.n, 4+4/2)
	assert.GreaterOrEqual(c.n, 4-4/2)
}
