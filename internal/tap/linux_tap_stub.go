//go:build !linux

package tap

import "fmt"

// LinuxTap is unavailable on non-Linux platforms; use PipeTap instead.
type LinuxTap struct{}

// NewLinuxTap always fails outside Linux.
func NewLinuxTap(name string) (*LinuxTap, error) {
	return nil, fmt.Errorf("tap: Linux tap devices are not supported on this platform")
}

func (t *LinuxTap) ReadBlob() ([]byte, error)    { return nil, fmt.Errorf("tap: unsupported") }
func (t *LinuxTap) WriteBlob(blob []byte) error  { return fmt.Errorf("tap: unsupported") }
func (t *LinuxTap) Close() error                 { return nil }
func (t *LinuxTap) Name() string                 { return "" }
