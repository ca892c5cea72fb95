// Package pipeline wires the core DSP blocks (FrameEncoder, QamMod,
// ClockSync, CarrierSync, QamDemod, FrameDecoder) into two directed
// graphs, using the internal/flow scheduler contract for backpressure
// between stream edges and MessagePorts for the message edges that
// break the TX/RX dependency cycle through the tap.
package pipeline

import (
	"github.com/cwsl/ampkt/internal/flow"
	"github.com/cwsl/ampkt/internal/frame"
	"github.com/cwsl/ampkt/internal/qam"
	"github.com/cwsl/ampkt/internal/radio"
	"github.com/cwsl/ampkt/internal/sym"
)

// TX is the transmit graph: [byte-blob source] -msg-> FrameEncoder -sym->
// QamMod -cpx-> [radio sink].
type TX struct {
	Encoder *frame.FrameEncoder
	Mod     *qam.QamMod
	FrameIn flow.MessagePort

	symStream    *flow.Stream[sym.Symbol]
	sampleStream *flow.Stream[complex64]
}

// NewTX builds a TX graph for the given samples-per-symbol. bufSymbols
// and bufSamples size the bounded ring buffers between blocks.
func NewTX(sps, bufSymbols, bufSamples int) (*TX, error) {
	mod, err := qam.NewQamMod(sps)
	if err != nil {
		return nil, err
	}
	tx := &TX{
		Encoder:      frame.NewFrameEncoder(),
		Mod:          mod,
		symStream:    flow.NewStream[sym.Symbol](bufSymbols),
		sampleStream: flow.NewStream[complex64](bufSamples),
	}
	tx.FrameIn.Subscribe(func(m flow.Msg) {
		if m == nil {
			return
		}
		tx.Encoder.PushFrame(m)
	})
	return tx, nil
}

func (tx *TX) encoderWork() (bool, error) {
	room := tx.symStream.Room()
	if room == 0 {
		return false, nil
	}
	buf := make([]sym.Symbol, room)
	produced := tx.Encoder.Work(buf)
	tx.symStream.Write(buf[:produced])
	return false, nil
}

func (tx *TX) modWork() (bool, error) {
	in := tx.symStream.Peek()
	if len(in) == 0 {
		return false, nil
	}
	room := tx.sampleStream.Room()
	if room == 0 {
		return false, nil
	}
	out := make([]complex64, room)
	consumed, produced := tx.Mod.Work(in, out)
	tx.symStream.Consume(consumed)
	tx.sampleStream.Write(out[:produced])
	return false, nil
}

func (tx *TX) sinkWork(sink radio.Sink) flow.WorkFunc {
	return func() (bool, error) {
		buf := tx.sampleStream.Peek()
		if len(buf) == 0 {
			return false, nil
		}
		n, err := sink.WriteSamples(buf)
		if err != nil {
			return false, err
		}
		tx.sampleStream.Consume(n)
		return false, nil
	}
}

// Runners returns the flow.Runner set driving this TX graph against the
// given radio sink, ready to hand to flow.Run.
func (tx *TX) Runners(sink radio.Sink) []*flow.Runner {
	return []*flow.Runner{
		{Name: "tx.encoder", Work: tx.encoderWork, Wakes: []<-chan struct{}{tx.symStream.Wake()}},
		{Name: "tx.mod", Work: tx.modWork, Wakes: []<-chan struct{}{tx.symStream.Wake(), tx.sampleStream.Wake()}},
		{Name: "tx.sink", Work: tx.sinkWork(sink), Wakes: []<-chan struct{}{tx.sampleStream.Wake()}},
	}
}
