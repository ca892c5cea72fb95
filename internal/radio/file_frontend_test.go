package radio

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFrontEndRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "capture.cf32")

	sink, err := CreateFileSink(path)
	require.NoError(err)

	want := []complex64{complex(0.3, 0.3), complex(-0.3, 0.3), complex(0.3, -0.3)}
	n, err := sink.WriteSamples(want)
	require.NoError(err)
	assert.Equal(len(want), n)
	require.NoError(sink.Close())

	src, err := OpenFileSource(path)
	require.NoError(err)
	defer src.Close()

	got := make([]complex64, len(want))
	n, err = src.ReadSamples(got)
	assert.True(err == nil || err == io.EOF)
	assert.Equal(len(want), n)
	assert.Equal(want, got)
}

func TestFileFrontEndReadReportsEOF(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "empty.cf32")
	sink, err := CreateFileSink(path)
	require.NoError(err)
	require.NoError(sink.Close())

	src, err := OpenFileSource(path)
	require.NoError(err)
	defer src.Close()

	buf := make([]complex64, 4)
	n, err := src.ReadSamples(buf)
	require.Error(err)
	require.Equal(0, n)
}
