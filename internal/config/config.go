// Package config loads and validates the startup configuration for the
// ampkt binaries: radio parameters, tap device selection, pipeline
// tuning, and the Prometheus/logging surface.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwsl/ampkt/internal/qam"
)

// MaxFrameBytes is the largest payload PushFrame will accept: LEN is a
// 16-bit field.
const MaxFrameBytes = 65535

// RadioConfig describes the front-end used for I/Q samples.
type RadioConfig struct {
	// Mode selects the front-end adapter: "net" (multicast RTP) or
	// "file" (cf32 capture/replay).
	Mode string `yaml:"mode"`

	// Net front-end.
	MulticastAddr string `yaml:"multicast_addr"`
	Interface     string `yaml:"interface"`

	// File front-end.
	InFile  string `yaml:"in_file"`
	OutFile string `yaml:"out_file"`

	SampleRate int     `yaml:"samp_rate"`
	TXGain     float64 `yaml:"tx_gain"`
	RXGain     float64 `yaml:"rx_gain"`
	TXFreq     float64 `yaml:"tx_freq"`
	RXFreq     float64 `yaml:"rx_freq"`
}

// TapConfig describes the OS network tap endpoint.
type TapConfig struct {
	// Mode selects "linux" (real TUNSETIFF tap) or "pipe" (in-memory
	// duplex, for tests and non-Linux development).
	Mode string `yaml:"mode"`
	Name string `yaml:"name"`
}

// PipelineConfig holds the core DSP parameters.
type PipelineConfig struct {
	SPS     int     `yaml:"sps"`
	ErrGain float32 `yaml:"err_gain"`
	// CarrierLoopGain feeds CarrierSync's constructor; defaults to 1.0.
	CarrierLoopGain float32 `yaml:"carrier_loop_gain"`
}

// PrometheusConfig controls the metrics HTTP surface.
type PrometheusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig controls verbosity.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Config is the top-level startup configuration, loaded from a single
// YAML file grouping each subsystem's settings.
type Config struct {
	Radio      RadioConfig      `yaml:"radio"`
	Tap        TapConfig        `yaml:"tap"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default returns the baseline parameter set used when no config file
// overrides a field.
func Default() Config {
	return Config{
		Radio: RadioConfig{
			Mode:       "file",
			SampleRate: 800000,
		},
		Tap: TapConfig{
			Mode: "pipe",
			Name: "ampkt0",
		},
		Pipeline: PipelineConfig{
			SPS:             10,
			ErrGain:         20.0,
			CarrierLoopGain: 1.0,
		},
		Prometheus: PrometheusConfig{
			Enabled: true,
			Listen:  ":9120",
		},
	}
}

// Load reads and parses a YAML configuration file, starting from
// Default() so unset fields retain their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate enforces the checks that should be fatal at startup: sps below
// qam.MinSPS and the radio/tap mode settings. Frame length is not checked
// here; FrameEncoder.PushFrame refuses payloads over
// frame.MaxPayloadBytes at call time.
func (c Config) Validate() error {
	if c.Pipeline.SPS < qam.MinSPS {
		return fmt.Errorf("config: pipeline.sps must be >= %d, got %d", qam.MinSPS, c.Pipeline.SPS)
	}
	switch c.Radio.Mode {
	case "net", "file":
	default:
		return fmt.Errorf("config: radio.mode must be \"net\" or \"file\", got %q", c.Radio.Mode)
	}
	switch c.Tap.Mode {
	case "linux", "pipe":
	default:
		return fmt.Errorf("config: tap.mode must be \"linux\" or \"pipe\", got %q", c.Tap.Mode)
	}
	if c.Radio.Mode == "net" && c.Radio.MulticastAddr == "" {
		return fmt.Errorf("config: radio.multicast_addr required when radio.mode is \"net\"")
	}
	if c.Radio.Mode == "file" && c.Radio.InFile == "" && c.Radio.OutFile == "" {
		return fmt.Errorf("config: radio.in_file or radio.out_file required when radio.mode is \"file\"")
	}
	return nil
}
