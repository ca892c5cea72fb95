// Command ampkt-tx runs the TX-only half of the link: a tap device
// feeds whole Ethernet frames into FrameEncoder/QamMod, which drives a
// radio sink.
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
			log.Fatalf("ampkt-tx: loading config: %v", err)
		}
	}
	cfg.Logging.Debug = cfg.Logging.Debug || *debug
	if err := cfg.Validate(); err != nil {
		log.Fatalf("ampkt-tx: invalid configuration: %v", err)
	}

	dev, err := openTap(cfg.Tap)
	if err != nil {
		log.Fatalf("ampkt-tx: acquiring tap device: %v", err)
	}
	defer dev.Close()

	sink, err := openSink(cfg.Radio)
	if err != nil {
		log.Fatalf("ampkt-tx: acquiring radio sink: %v", err)
	}
	defer sink.Close()

	reg := metrics.New()
	if cfg.Prometheus.Enabled {
		go reg.Serve(cfg.Prometheus.Listen)
	}

	tx, err := pipeline.NewTX(cfg.Pipeline.SPS, 4096, 65536)
	if err != nil {
		log.Fatalf("ampkt-tx: building TX graph: %v", err)
	}
	tx.Encoder.OnEncoded = reg.OnEncoded
	tx.Encoder.OnDrop = reg.OnDrop

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("ampkt-tx: shutting down")
		cancel()
	}()

	go flow.Run(ctx, tx.Runners(sink))

	for {
		blob, err := dev.ReadBlob()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("ampkt-tx: tap read error: %v", err)
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

func openSink(cfg config.RadioConfig) (radio.Sink, error) {
	if cfg.Mode == "net" {
		return radio.NewNetSink(cfg.MulticastAddr, 0)
	}
	return radio.CreateFileSink(cfg.OutFile)
}
