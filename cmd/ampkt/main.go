// Command ampkt runs a full bidirectional link: one tap device feeds
// both directions, TX and RX graphs running concurrently, joined
// through the tap's message edges rather than stream edges so the
// TX/RX dependency cycle never deadlocks.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwsl/ampkt/internal/config"
	"github.com/cwsl/ampkt/internal/flow"
	"github.com/cwsl/ampkt/internal/metrics"
	"github.com/cwsl/ampkt/internal/pipeline"
	"github.com/cwsl/ampkt/internal/radio"
	"github.com/cwsl/ampkt/internal/tap"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	debug := flag.Bool("debug", false, "set logging.debug in the configuration")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("ampkt: loading config: %v", err)
		}
	}
	cfg.Logging.Debug = cfg.Logging.Debug || *debug
	if err := cfg.Validate(); err != nil {
		log.Fatalf("ampkt: invalid configuration: %v", err)
	}

	dev, err := openTap(cfg.Tap)
	if err != nil {
		log.Fatalf("ampkt: acquiring tap device: %v", err)
	}
	defer dev.Close()

	source, sink, err := openFrontEnd(cfg.Radio)
	if err != nil {
		log.Fatalf("ampkt: acquiring radio front-end: %v", err)
	}
	defer source.Close()
	defer sink.Close()

	reg := metrics.New()
	if cfg.Prometheus.Enabled {
		go reg.Serve(cfg.Prometheus.Listen)
	}

	tx, err := pipeline.NewTX(cfg.Pipeline.SPS, 4096, 65536)
	if err != nil {
		log.Fatalf("ampkt: building TX graph: %v", err)
	}
	tx.Encoder.OnEncoded = reg.OnEncoded
	tx.Encoder.OnDrop = reg.OnDrop

	rx, err := pipeline.NewRX(cfg.Pipeline.SPS, cfg.Pipeline.ErrGain, cfg.Pipeline.CarrierLoopGain, pipeline.DefaultRXBufs(cfg.Pipeline.SPS))
	if err != nil {
		log.Fatalf("ampkt: building RX graph: %v", err)
	}
	rx.Decoder.OnFrame = reg.OnFrame
	rx.Decoder.OnRotation = reg.OnRotation
	rx.Demod.OnSquelch = reg.OnSquelch

	// Message edges, not stream edges, join the tap to the two framers:
	// this is what breaks the TX/RX dependency cycle.
	rx.FrameOut.Subscribe(func(blob []byte) {
		if blob == nil {
			return
		}
		if err := dev.WriteBlob(blob); err != nil {
			log.Printf("ampkt: tap write error: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("ampkt: shutting down")
		cancel()
	}()

	runners := append(tx.Runners(sink), rx.Runners(source)...)
	go flow.Run(ctx, runners)

	for {
		blob, err := dev.ReadBlob()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("ampkt: tap read error: %v", err)
			continue
		}
		tx.FrameIn.Post(blob)
	}
}

func openTap(cfg config.TapConfig) (tap.Device, error) {
	if cfg.Mode == "linux" {
		return tap.NewLinuxTap(cfg.Name)
	}
	return tap.NewPipeTap(), nil
}

func openFrontEnd(cfg config.RadioConfig) (radio.Source, radio.Sink, error) {
	if cfg.Mode == "net" {
		src, err := radio.NewNetSource(cfg.MulticastAddr, cfg.Interface)
		if err != nil {
			return nil, nil, err
		}
		sink, err := radio.NewNetSink(cfg.MulticastAddr, 0)
		if err != nil {
			src.Close()
			return nil, nil, err
		}
		return src, sink, nil
	}
	src, err := radio.OpenFileSource(cfg.InFile)
	if err != nil {
		return nil, nil, err
	}
	sink, err := radio.CreateFileSink(cfg.OutFile)
	if err != nil {
		src.Close()
		return nil, nil, err
	}
	return src, sink, nil
}
