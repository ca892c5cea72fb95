// Package radio defines the front-end contract plus the two concrete
// adapters this repo ships: a multicast-RTP network front-end and a raw
// cf32-file front-end. The core pipeline imports only the interfaces
// below — never net or file I/O directly.
package radio

import "io"

// Source produces a stream of complex baseband samples. ReadSamples
// fills buf and returns how many complex samples were read; it follows
// io.Reader's "n before err" contract.
type Source interface {
	ReadSamples(buf []complex64) (n int, err error)
	io.Closer
}

// Sink consumes the same complex baseband stream a Source produces.
type Sink interface {
	WriteSamples(buf []complex64) (n int, err error)
	io.Closer
}

// Params carries the startup-only radio parameters: gain and frequency
// are set once and never retuned.
type Params struct {
	SampleRate int
	TXGain     float64
	RXGain     float64
	TXFreq     float64
	RXFreq     float64
}
