package tap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeTapCrossWiredLoopback(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	a := NewPipeTap()
	b := NewPipeTap()
	a.OnWrite = b.Deliver
	b.OnWrite = a.Deliver

	require.NoError(a.WriteBlob([]byte("hello")))

	got, err := b.ReadBlob()
	require.NoError(err)
	assert.Equal([]byte("hello"), got)
}

func TestPipeTapReadBlocksUntilDeliver(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tp := NewPipeTap()
	done := make(chan []byte, 1)
	go func() {
		blob, err := tp.ReadBlob()
		require.NoError(err)
		done <- blob
	}()

	time.Sleep(10 * time.Millisecond)
	tp.Deliver([]byte("world"))

	select {
	case got := <-done:
		assert.Equal([]byte("world"), got)
	case <-time.After(time.Second):
		t.Fatal("ReadBlob never returned")
	}
}

func TestPipeTapCloseUnblocksRead(t *testing.T) {
	assert := assert.New(t)

	tp := NewPipeTap()
	done := make(chan error, 1)
	go func() {
		_, err := tp.ReadBlob()
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	tp.Close()

	select {
	case err := <-done:
		assert.ErrorIs(err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("ReadBlob never unblocked on Close")
	}
}

func TestPipeTapWriteAfterCloseErrors(t *testing.T) {
	tp := NewPipeTap()
	tp.Close()
	assert.ErrorIs(t, tp.WriteBlob([]byte("x")), ErrClosed)
}
