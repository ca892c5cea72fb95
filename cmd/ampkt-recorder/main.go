// Command ampkt-recorder captures raw front-end samples to a cf32 file
// for later offline analysis or replay.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwsl/ampkt/internal/config"
	"github.com/cwsl/ampkt/internal/radio"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	outFile := flag.String("out", "capture.cf32", "cf32 output file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("ampkt-recorder: loading config: %v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("ampkt-recorder: invalid configuration: %v", err)
	}

	var source radio.Source
	var err error
	if cfg.Radio.Mode == "net" {
		source, err = radio.NewNetSource(cfg.Radio.MulticastAddr, cfg.Radio.Interface)
	} else {
		source, err = radio.OpenFileSource(cfg.Radio.InFile)
	}
	if err != nil {
		log.Fatalf("ampkt-recorder: acquiring radio source: %v", err)
	}
	defer source.Close()

	sink, err := radio.CreateFileSink(*outFile)
	if err != nil {
		log.Fatalf("ampkt-recorder: creating %s: %v", *outFile, err)
	}
	defer sink.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		<-sigCh
		close(stop)
	}()

	buf := make([]complex64, 4096)
	var total int
	lastLog := time.Now()
	for {
		select {
		case <-stop:
			log.Printf("ampkt-recorder: stopped after %d samples", total)
			return
		default:
		}

		n, err := source.ReadSamples(buf)
		if n > 0 {
			if _, werr := sink.WriteSamples(buf[:n]); werr != nil {
				log.Printf("ampkt-recorder: write error: %v", werr)
			}
			total += n
		}
		if err != nil {
			log.Printf("ampkt-recorder: read error: %v", err)
			return
		}
		if time.Since(lastLog) > 5*time.Second {
			log.Printf("ampkt-recorder: captured %d samples", total)
			lastLog = time.Now()
		}
	}
}
