package pipeline

import (
	"github.com/cwsl/ampkt/internal/carriersync"
	"github.com/cwsl/ampkt/internal/clocksync"
	"github.com/cwsl/ampkt/internal/flow"
	"github.com/cwsl/ampkt/internal/frame"
	"github.com/cwsl/ampkt/internal/qam"
	"github.com/cwsl/ampkt/internal/radio"
	"github.com/cwsl/ampkt/internal/sym"
)

// RX is the receive graph: [radio source] -cpx-> ClockSync -cpx->
// CarrierSync -cpx-> QamDemod -sym-> FrameDecoder -msg-> [byte-blob sink].
type RX struct {
	Clock   *clocksync.ClockSync
	Carrier *carriersync.CarrierSync
	Demod   *qam.QamDemod
	Decoder *frame.FrameDecoder
	FrameOut flow.MessagePort

	// TapClockSync and TapCarrierSync, if set, receive a copy of the
	// samples produced by ClockSync and CarrierSync respectively, for
	// offline inspection of the timing and phase loops.
	TapClockSync   radio.Sink
	TapCarrierSync radio.Sink

	rawStream     *flow.Stream[complex64]
	clockedStream *flow.Stream[complex64]
	carrierStream *flow.Stream[complex64]
	symStream     *flow.Stream[sym.Symbol]
}

// RXBufs sizes the bounded edges between RX stages.
type RXBufs struct {
	Raw, Clocked, Carrier, Sym int
}

// DefaultRXBufs returns reasonable edge capacities scaled to sps.
func DefaultRXBufs(sps int) RXBufs {
	return RXBufs{Raw: 64 * sps, Clocked: 64, Carrier: 64, Sym: 256}
}

// NewRX builds an RX graph.
func NewRX(sps int, errGain, carrierLoopGain float32, bufs RXBufs) (*RX, error) {
	clk, err := clocksync.New(sps, errGain)
	if err != nil {
		return nil, err
	}
	rx := &RX{
		Clock:         clk,
		Carrier:       carriersync.New(carrierLoopGain),
		Demod:         &qam.QamDemod{},
		Decoder:       frame.NewFrameDecoder(),
		rawStream:     flow.NewStream[complex64](bufs.Raw),
		clockedStream: flow.NewStream[complex64](bufs.Clocked),
		carrierStream: flow.NewStream[complex64](bufs.Carrier),
		symStream:     flow.NewStream[sym.Symbol](bufs.Sym),
	}
	return rx, nil
}

func (rx *RX) sourceWork(src radio.Source) flow.WorkFunc {
	return func() (bool, error) {
		room := rx.rawStream.Room()
		if room == 0 {
			return false, nil
		}
		buf := make([]complex64, room)
		n, err := src.ReadSamples(buf)
		if n > 0 {
			rx.rawStream.Write(buf[:n])
		}
		if err != nil {
			return false, err
		}
		return false, nil
	}
}

func (rx *RX) clockWork() (bool, error) {
	in := rx.rawStream.Peek()
	if len(in) == 0 {
		return false, nil
	}
	room := rx.clockedStream.Room()
	if room == 0 {
		return false, nil
	}
	out := make([]complex64, room)
	consumed, produced := rx.Clock.Work(in, out)
	rx.rawStream.Consume(consumed)
	rx.clockedStream.Write(out[:produced])
	if rx.TapClockSync != nil && produced > 0 {
		rx.TapClockSync.WriteSamples(out[:produced])
	}
	return false, nil
}

func (rx *RX) carrierWork() (bool, error) {
	in := rx.clockedStream.Peek()
	if len(in) == 0 {
		return false, nil
	}
	room := rx.carrierStream.Room()
	if room == 0 {
		return false, nil
	}
	out := make([]complex64, room)
	n := rx.Carrier.Work(in, out)
	rx.clockedStream.Consume(n)
	rx.carrierStream.Write(out[:n])
	if rx.TapCarrierSync != nil && n > 0 {
		rx.TapCarrierSync.WriteSamples(out[:n])
	}
	return false, nil
}

func (rx *RX) demodWork() (bool, error) {
	in := rx.carrierStream.Peek()
	if len(in) == 0 {
		return false, nil
	}
	room := rx.symStream.Room()
	if room == 0 {
		return false, nil
	}
	out := make([]sym.Symbol, room)
	n := rx.Demod.Work(in, out)
	rx.carrierStream.Consume(n)
	rx.symStream.Write(out[:n])
	return false, nil
}

func (rx *RX) decoderWork() (bool, error) {
	in := rx.symStream.Peek()
	if len(in) == 0 {
		return false, nil
	}
	for _, s := range in {
		if !s.Present {
			continue
		}
		if payload := rx.Decoder.PushSym(s.Sym); payload != nil {
			rx.FrameOut.Post(payload)
		}
	}
	rx.symStream.Consume(len(in))
	return false, nil
}

// Runners returns the flow.Runner set driving this RX graph against the
// given radio source.
func (rx *RX) Runners(src radio.Source) []*flow.Runner {
	return []*flow.Runner{
		{Name: "rx.source", Work: rx.sourceWork(src), Wakes: []<-chan struct{}{rx.rawStream.Wake()}},
		{Name: "rx.clock", Work: rx.clockWork, Wakes: []<-chan struct{}{rx.rawStream.Wake(), rx.clockedStream.Wake()}},
		{Name: "rx.carrier", Work: rx.carrierWork, Wakes: []<-chan struct{}{rx.clockedStream.Wake(), rx.carrierStream.Wake()}},
		{Name: "rx.demod", Work: rx.demodWork, Wakes: []<-chan struct{}{rx.carrierStream.Wake(), rx.symStream.Wake()}},
		{Name: "rx.decoder", Work: rx.decoderWork, Wakes: []<-chan struct{}{rx.symStream.Wake()}},
	}
}
