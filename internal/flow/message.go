package flow

import "sync"

// Msg is a discrete message posted on a message edge. A nil Msg is the
// terminal "Null" post a block emits on its message outputs once it has
// finished (§4.8).
type Msg = []byte

// MessagePort is a message edge: zero or more handlers subscribed to
// receive posts, invoked in the order they were posted by the producing
// block (§5 "posts within one handler/work call appear in the order
// emitted"). A message edge has no queue and no capacity limit, so a
// producer never waits for room on it; Post runs every handler
// synchronously on the producer's goroutine and returns only once all of
// them have returned, so a slow handler slows the producer.
type MessagePort struct {
	mu       sync.Mutex
	handlers []func(Msg)
}

// Subscribe registers a handler to be invoked, in registration order, for
// every message posted on this port.
func (p *MessagePort) Subscribe(h func(Msg)) {
	p.mu.Lock()
	p.handlers = append(p.handlers, h)
	p.mu.Unlock()
}

// Post delivers msg to every subscribed handler, in subscription order.
func (p *MessagePort) Post(msg Msg) {
	p.mu.Lock()
	handlers := make([]func(Msg), len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.Unlock()
	for _, h := range handlers {
		h(msg)
	}
}
