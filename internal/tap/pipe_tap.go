package tap

import (
	"errors"
	"sync"
)

// ErrClosed is returned by ReadBlob/WriteBlob after Close.
var ErrClosed = errors.New("tap: closed")

// PipeTap is an in-memory duplex endpoint for tests and non-Linux
// development: blobs are arbitrary payloads, with no Ethernet-frame
// constraint. Two PipeTaps can be cross-wired so that one side's
// WriteBlob feeds the other's ReadBlob, modelling a loopback link
// without a real kernel tap device.
type PipeTap struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  [][]byte
	closed bool

	// OnWrite, if set, receives every blob passed to WriteBlob. Set it
	// to a peer PipeTap's Deliver to cross-wire a loopback link.
	OnWrite func([]byte)
}

// NewPipeTap returns a PipeTap with an empty inbound queue.
func NewPipeTap() *PipeTap {
	t := &PipeTap{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Deliver enqueues a blob for a future ReadBlob call, as if it had
// arrived from the peer side of the link.
func (t *PipeTap) Deliver(blob []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.queue = append(t.queue, blob)
	t.cond.Signal()
}

// ReadBlob blocks until a blob has been delivered or the tap is closed.
func (t *PipeTap) ReadBlob() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.queue) == 0 && !t.closed {
		t.cond.Wait()
	}
	if len(t.queue) == 0 {
		return nil, ErrClosed
	}
	blob := t.queue[0]
	t.queue = t.queue[1:]
	return blob, nil
}

// WriteBlob hands blob to OnWrite, if set; otherwise it is dropped. Set
// OnWrite to Deliver on the peer PipeTap to cross-wire a loopback link.
func (t *PipeTap) WriteBlob(blob []byte) error {
	t.mu.Lock()
	closed := t.closed
	onWrite := t.OnWrite
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if onWrite != nil {
		onWrite(blob)
	}
	return nil
}

// Close wakes any blocked ReadBlob and marks the tap closed.
func (t *PipeTap) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.cond.Broadcast()
	return nil
}
