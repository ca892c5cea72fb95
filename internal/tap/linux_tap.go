//go:build linux

package tap

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// maxEthernetFrame bounds one blob on the tap device: a single Ethernet
// frame, MTU <= 1500, no packet-info prefix.
const maxEthernetFrame = 1500 + 14 // payload + header, generous upper bound

const (
	ifNameSize = 16
	tunDevice  = "/dev/net/tun"
)

// ifReq mirrors struct ifreq as used by the TUNSETIFF ioctl.
type ifReq struct {
	name  [ifNameSize]byte
	flags uint16
	_     [22]byte // pad to sizeof(struct ifreq)
}

// LinuxTap opens a real Linux tap device via the TUNSETIFF ioctl
// (IFF_TAP | IFF_NO_PI): open the device, ioctl to configure it, then
// plain read/write.
type LinuxTap struct {
	file *os.File
	name string
}

// NewLinuxTap creates (or attaches to) a tap interface named name. An
// empty name lets the kernel assign one.
func NewLinuxTap(name string) (*LinuxTap, error) {
	f, err := os.OpenFile(tunDevice, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("tap: opening %s: %w", tunDevice, err)
	}

	var req ifReq
	copy(req.name[:], name)
	req.flags = unix.IFF_TAP | unix.IFF_NO_PI

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(unix.TUNSETIFF), uintptr(unsafe.Pointer(&req))); errno != 0 {
		f.Close()
		return nil, fmt.Errorf("tap: TUNSETIFF: %w", errno)
	}

	actual := string(req.name[:])
	if i := indexByte(actual, 0); i >= 0 {
		actual = actual[:i]
	}

	return &LinuxTap{file: f, name: actual}, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// Name returns the kernel-assigned or requested interface name.
func (t *LinuxTap) Name() string { return t.name }

// ReadBlob reads exactly one Ethernet frame.
func (t *LinuxTap) ReadBlob() ([]byte, error) {
	buf := make([]byte, maxEthernetFrame)
	n, err := t.file.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("tap: read: %w", err)
	}
	return buf[:n], nil
}

// WriteBlob writes exactly one Ethernet frame.
func (t *LinuxTap) WriteBlob(blob []byte) error {
	if _, err := t.file.Write(blob); err != nil {
		return fmt.Errorf("tap: write: %w", err)
	}
	return nil
}

// Close releases the tap file descriptor.
func (t *LinuxTap) Close() error {
	return t.file.Close()
}
