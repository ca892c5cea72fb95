package radio

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"

	"github.com/pion/rtp"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// netBytesPerSample mirrors bytesPerSample; kept separate so the RTP
// payload framing can change independently of the on-disk format.
const netBytesPerSample = 4

const rtpClockRate = 800000 // matches the default pipeline sample rate

// NetSource receives RTP-framed I/Q samples from a multicast UDP group:
// join the group, then read and unmarshal RTP packets carrying cf32
// payloads.
type NetSource struct {
	conn  *net.UDPConn
	pc    *ipv4.PacketConn
	group *net.UDPAddr
	iface *net.Interface
	seq   uint16
	have  bool
}

// NewNetSource joins the multicast group at addr (e.g. "239.1.2.3:5004")
// on the named interface ("" for the default).
func NewNetSource(addr, ifaceName string) (*NetSource, error) {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("radio: resolving %s: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: udpAddr.Port})
	if err != nil {
		return nil, fmt.Errorf("radio: listening on port %d: %w", udpAddr.Port, err)
	}

	if err := setReuseAddr(conn); err != nil {
		conn.Close()
		return nil, err
	}

	pc := ipv4.NewPacketConn(conn)

	var iface *net.Interface
	if ifaceName != "" {
		iface, err = net.InterfaceByName(ifaceName)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("radio: interface %s: %w", ifaceName, err)
		}
	}

	group := &net.UDPAddr{IP: udpAddr.IP}
	if err := pc.JoinGroup(iface, group); err != nil {
		conn.Close()
		return nil, fmt.Errorf("radio: joining multicast group %s: %w", udpAddr.IP, err)
	}

	return &NetSource{conn: conn, pc: pc, group: group, iface: iface}, nil
}

// setReuseAddr allows several processes to bind the same multicast port.
func setReuseAddr(conn *net.UDPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("radio: SyscallConn: %w", err)
	}
	var sockErr error
	err = raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return fmt.Errorf("radio: Control: %w", err)
	}
	return sockErr
}

// ReadSamples reads one RTP packet and decodes its payload as
// interleaved big-endian float32 I,Q pairs into buf, returning how many
// complex samples were decoded. A packet larger than len(buf) samples is
// truncated; transient read errors are the caller's concern to log and
// retry rather than abort.
func (s *NetSource) ReadSamples(buf []complex64) (int, error) {
	raw := make([]byte, 1500)
	n, err := s.conn.Read(raw)
	if err != nil {
		return 0, fmt.Errorf("radio: reading multicast packet: %w", err)
	}

	var pkt rtp.Packet
	if err := pkt.Unmarshal(raw[:n]); err != nil {
		return 0, fmt.Errorf("radio: unmarshaling RTP packet: %w", err)
	}
	s.seq, s.have = pkt.SequenceNumber, true

	samples := len(pkt.Payload) / (2 * netBytesPerSample)
	if samples > len(buf) {
		samples = len(buf)
	}
	for i := 0; i < samples; i++ {
		off := i * 2 * netBytesPerSample
		ii := math.Float32frombits(binary.BigEndian.Uint32(pkt.Payload[off:]))
		q := math.Float32frombits(binary.BigEndian.Uint32(pkt.Payload[off+netBytesPerSample:]))
		buf[i] = complex(ii, q)
	}
	return samples, nil
}

// LastSequence returns the sequence number of the most recently read
// RTP packet, for diagnostics (e.g. detecting drops).
func (s *NetSource) LastSequence() (seq uint16, ok bool) {
	return s.seq, s.have
}

// Close leaves the multicast group and closes the socket.
func (s *NetSource) Close() error {
	s.pc.LeaveGroup(s.iface, s.group)
	return s.conn.Close()
}

// NetSink sends RTP-framed I/Q samples to a multicast UDP group.
type NetSink struct {
	conn *net.UDPConn
	seq  uint16
	ssrc uint32
}

// NewNetSink prepares to send to the multicast group at addr.
func NewNetSink(addr string, ssrc uint32) (*NetSink, error) {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("radio: resolving %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp4", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("radio: dialing %s: %w", addr, err)
	}
	return &NetSink{conn: conn, ssrc: ssrc}, nil
}

// WriteSamples packs buf as one RTP packet (big-endian interleaved
// float32 I,Q) and sends it to the multicast group.
func (s *NetSink) WriteSamples(buf []complex64) (int, error) {
	payload := make([]byte, len(buf)*2*netBytesPerSample)
	for i, v := range buf {
		off := i * 2 * netBytesPerSample
		binary.BigEndian.PutUint32(payload[off:], math.Float32bits(real(v)))
		binary.BigEndian.PutUint32(payload[off+netBytesPerSample:], math.Float32bits(imag(v)))
	}

	pkt := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    111,
			SequenceNumber: s.seq,
			Timestamp:      uint32(rtpClockRate),
			SSRC:           s.ssrc,
		},
		Payload: payload,
	}
	s.seq++

	raw, err := pkt.Marshal()
	if err != nil {
		return 0, fmt.Errorf("radio: marshaling RTP packet: %w", err)
	}
	if _, err := s.conn.Write(raw); err != nil {
		return 0, fmt.Errorf("radio: writing multicast packet: %w", err)
	}
	return len(buf), nil
}

// Close closes the underlying socket.
func (s *NetSink) Close() error {
	return s.conn.Close()
}
