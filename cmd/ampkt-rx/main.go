// Command ampkt-rx runs the RX-only half of the link: a radio source
// feeds ClockSync/CarrierSync/QamDemod/FrameDecoder, whose delivered
// frames are written out to a tap device. Optional
// -tap-clock-sync/-tap-carrier-sync flags capture the intermediate
// baseband stream at those two stages to a cf32 file, for link
// debugging.
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
	tapClockSyncFile := flag.String("tap-clock-sync", "", "optional cf32 capture of the ClockSync output")
	tapCarrierSyncFile := flag.String("tap-carrier-sync", "", "optional cf32 capture of the CarrierSync output")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("ampkt-rx: loading config: %v", err)
		}
	}
	cfg.Logging.Debug = cfg.Logging.Debug || *debug
	if err := cfg.Validate(); err != nil {
		log.Fatalf("ampkt-rx: invalid configuration: %v", err)
	}

	dev, err := openTap(cfg.Tap)
	if err != nil {
		log.Fatalf("ampkt-rx: acquiring tap device: %v", err)
	}
	defer dev.Close()

	source, err := openSource(cfg.Radio)
	if err != nil {
		log.Fatalf("ampkt-rx: acquiring radio source: %v", err)
	}
	defer source.Close()

	reg := metrics.New()
	if cfg.Prometheus.Enabled {
		go reg.Serve(cfg.Prometheus.Listen)
	}

	rx, err := pipeline.NewRX(cfg.Pipeline.SPS, cfg.Pipeline.ErrGain, cfg.Pipeline.CarrierLoopGain, pipeline.DefaultRXBufs(cfg.Pipeline.SPS))
	if err != nil {
		log.Fatalf("ampkt-rx: building RX graph: %v", err)
	}
	rx.Decoder.OnFrame = reg.OnFrame
	rx.Decoder.OnRotation = reg.OnRotation
	rx.Demod.OnSquelch = reg.OnSquelch

	if *tapClockSyncFile != "" {
		f, err := radio.CreateFileSink(*tapClockSyncFile)
		if err != nil {
			log.Printf("ampkt-rx: opening clock-sync tap: %v", err)
		} else {
			defer f.Close()
			rx.TapClockSync = f
			log.Printf("ampkt-rx: capturing ClockSync output to %s", *tapClockSyncFile)
		}
	}
	if *tapCarrierSyncFile != "" {
		f, err := radio.CreateFileSink(*tapCarrierSyncFile)
		if err != nil {
			log.Printf("ampkt-rx: opening carrier-sync tap: %v", err)
		} else {
			defer f.Close()
			rx.TapCarrierSync = f
			log.Printf("ampkt-rx: capturing CarrierSync output to %s", *tapCarrierSyncFile)
		}
	}

	rx.FrameOut.Subscribe(func(blob []byte) {
		if blob == nil {
			return
		}
		if err := dev.WriteBlob(blob); err != nil {
			log.Printf("ampkt-rx: tap write error: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("ampkt-rx: shutting down")
		cancel()
	}()

	flow.Run(ctx, rx.Runners(source))
}

func openTap(cfg config.TapConfig) (tap.Device, error) {
	if cfg.Mode == "linux" {
		return tap.NewLinuxTap(cfg.Name)
	}
	return tap.NewPipeTap(), nil
}

func openSource(cfg config.RadioConfig) (radio.Source, error) {
	if cfg.Mode == "net" {
		return radio.NewNetSource(cfg.MulticastAddr, cfg.Interface)
	}
	return radio.OpenFileSource(cfg.InFile)
}
