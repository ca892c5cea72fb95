// Package tap provides the OS network tap duplex endpoint: a byte-blob
// channel where each blob is one Ethernet frame on a real tap device, or
// an arbitrary payload on test deployments.
package tap

import "io"

// Device is a duplex byte-blob endpoint. ReadBlob returns exactly one
// blob per call (one Ethernet frame on a tap device); WriteBlob writes
// exactly one blob.
type Device interface {
	ReadBlob() ([]byte, error)
	WriteBlob([]byte) error
	io.Closer
}
