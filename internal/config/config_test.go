package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsLowSPS(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.SPS = 2
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownRadioMode(t *testing.T) {
	cfg := Default()
	cfg.Radio.Mode = "usb"
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresMulticastAddrForNetMode(t *testing.T) {
	cfg := Default()
	cfg.Radio.Mode = "net"
	cfg.Radio.MulticastAddr = ""
	assert.Error(t, cfg.Validate())

	cfg.Radio.MulticastAddr = "239.1.2.3:5004"
	assert.NoError(t, cfg.Validate())
}

func TestLoadParsesYAMLOverDefaults(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "ampkt.yaml")
	contents := `
pipeline:
  sps: 20
  err_gain: 5.0
radio:
  mode: net
  multicast_addr: 239.1.2.3:5004
`
	require.NoError(os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(err)

	assert.Equal(20, cfg.Pipeline.SPS)
	assert.Equal(float32(5.0), cfg.Pipeline.ErrGain)
	assert.Equal("net", cfg.Radio.Mode)
	assert.Equal(800000, cfg.Radio.SampleRate, "unset fields keep their default")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
