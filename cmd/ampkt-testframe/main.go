// Command ampkt-testframe periodically transmits one fixed test frame,
// for link bring-up and bit-error-rate checks without a tap interface.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwsl/ampkt/internal/config"
	"github.com/cwsl/ampkt/internal/flow"
	"github.com/cwsl/ampkt/internal/pipeline"
	"github.com/cwsl/ampkt/internal/radio"
)

var testFramePayload = []byte("AMPKT TEST FRAME 0123456789ABCDEF")

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	outFile := flag.String("out", "", "cf32 output file (overrides config)")
	period := flag.Duration("period", time.Second, "interval between test frames")
	debug := flag.Bool("debug", false, "set logging.debug in the configuration")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("ampkt-testframe: loading config: %v", err)
		}
	}
	if *outFile != "" {
		cfg.Radio.OutFile = *outFile
	}
	cfg.Logging.Debug = cfg.Logging.Debug || *debug
	if err := cfg.Validate(); err != nil {
		log.Fatalf("ampkt-testframe: invalid configuration: %v", err)
	}

	sink, err := radio.CreateFileSink(cfg.Radio.OutFile)
	if err != nil {
		log.Fatalf("ampkt-testframe: opening sink: %v", err)
	}
	defer sink.Close()

	tx, err := pipeline.NewTX(cfg.Pipeline.SPS, 4096, 65536)
	if err != nil {
		log.Fatalf("ampkt-testframe: building TX graph: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("ampkt-testframe: shutting down")
		cancel()
	}()

	runners := tx.Runners(sink)
	go flow.Run(ctx, runners)

	ticker := time.NewTicker(*period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tx.FrameIn.Post(testFramePayload)
			log.Printf("ampkt-testframe: sent test frame")
		}
	}
}
