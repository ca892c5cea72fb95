// Package flow implements the small dataflow scheduler the pipeline blocks
// run under: typed stream edges carrying samples, message edges carrying
// byte blobs, and a work-function contract with explicit consumed/produced
// accounting and cooperative, non-reentrant scheduling.
package flow

import (
	"sync"

	"github.com/google/uuid"
)

// Stream is a FIFO edge between exactly one producer and one consumer
// block. It is a bounded queue: writers block (by way of reporting zero
// room) once Capacity is reached, and consumers see nothing until the
// producer has written. There is no reordering and no duplication.
type Stream[T any] struct {
	// ID uniquely identifies this edge for metrics/debug labels — the
	// teacher tags sessions and clients with a uuid the same way.
	ID uuid.UUID

	mu       sync.Mutex
	buf      []T
	capacity int
	finished bool
	notify   chan struct{}
}

// NewStream creates a stream edge with the given element capacity.
func NewStream[T any](capacity int) *Stream[T] {
	return &Stream[T]{
		ID:       uuid.New(),
		capacity: capacity,
		notify:   make(chan struct{}, 1),
	}
}

// Wake returns the channel the scheduler selects on to learn that this
// edge may now have work available (room for a writer, or data for a
// reader).
func (s *Stream[T]) Wake() <-chan struct{} {
	return s.notify
}

func (s *Stream[T]) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Peek returns a view of the currently buffered, unread elements. The
// returned slice is only valid until the next Consume or Write call on
// this stream; a block's Work function must not retain it.
func (s *Stream[T]) Peek() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// Consume drops the first n elements of the unread buffer, as having been
// processed by the reading block.
func (s *Stream[T]) Consume(n int) {
	s.mu.Lock()
	if n > 0 {
		s.buf = s.buf[n:]
		if len(s.buf) == 0 {
			s.buf = nil
		}
	}
	s.mu.Unlock()
	if n > 0 {
		s.wake()
	}
}

// Room reports how many elements the writer may currently append.
func (s *Stream[T]) Room() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity - len(s.buf)
}

// Write appends as many of items as fit in the remaining capacity and
// reports how many were accepted. A partial write is the producer's
// signal to retry the remainder on its next Work call.
func (s *Stream[T]) Write(items []T) int {
	s.mu.Lock()
	n := s.capacity - len(s.buf)
	if n > len(items) {
		n = len(items)
	}
	if n > 0 {
		s.buf = append(s.buf, items[:n]...)
	}
	s.mu.Unlock()
	if n > 0 {
		s.wake()
	}
	return n
}

// Finish marks the stream as having no further writes coming, once its
// current contents are drained. A consumer that observes Finished() with
// an empty Peek() has reached end of stream.
func (s *Stream[T]) Finish() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	s.wake()
}

// Finished reports whether the producer has called Finish.
func (s *Stream[T]) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Drained reports whether the stream is finished and fully consumed.
func (s *Stream[T]) Drained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished && len(s.buf) == 0
}
