package radio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// bytesPerSample is the on-disk size of one interleaved float32 I or Q
// component.
const bytesPerSample = 4

// FileFrontEnd is the cf32 capture/replay adapter: raw interleaved
// float32 I,Q pairs, no header. It satisfies both Source (reading a
// capture for replay) and Sink (writing a capture).
type FileFrontEnd struct {
	f *os.File
}

// OpenFileSource opens path for reading as a replay source.
func OpenFileSource(path string) (*FileFrontEnd, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("radio: opening %s: %w", path, err)
	}
	return &FileFrontEnd{f: f}, nil
}

// CreateFileSink creates (truncating) path for writing a capture.
func CreateFileSink(path string) (*FileFrontEnd, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("radio: creating %s: %w", path, err)
	}
	return &FileFrontEnd{f: f}, nil
}

// ReadSamples reads up to len(buf) complex samples, each as two
// little-endian float32s (I, Q). Returns io.EOF (unwrapped, straight from
// os.File.Read) once the file is exhausted, with the same partial-read
// contract as os.File.Read.
func (fe *FileFrontEnd) ReadSamples(buf []complex64) (int, error) {
	raw := make([]byte, len(buf)*2*bytesPerSample)
	n, err := fe.f.Read(raw)
	full := n / (2 * bytesPerSample)
	for i := 0; i < full; i++ {
		off := i * 2 * bytesPerSample
		ii := math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
		q := math.Float32frombits(binary.LittleEndian.Uint32(raw[off+bytesPerSample:]))
		buf[i] = complex(ii, q)
	}
	return full, err
}

// WriteSamples appends len(buf) complex samples to the file as
// interleaved little-endian float32 pairs.
func (fe *FileFrontEnd) WriteSamples(buf []complex64) (int, error) {
	raw := make([]byte, len(buf)*2*bytesPerSample)
	for i, s := range buf {
		off := i * 2 * bytesPerSample
		binary.LittleEndian.PutUint32(raw[off:], math.Float32bits(real(s)))
		binary.LittleEndian.PutUint32(raw[off+bytesPerSample:], math.Float32bits(imag(s)))
	}
	n, err := fe.f.Write(raw)
	if err != nil {
		return n / (2 * bytesPerSample), err
	}
	return len(buf), nil
}

// Close closes the underlying file.
func (fe *FileFrontEnd) Close() error {
	return fe.f.Close()
}
