// Package netio implements the tracker's UDP ingress and egress: a
// receiver goroutine blocking on reads with a bounded timeout so shutdown
// stays responsive, and a synchronous sender used from the processing
// loop.
package netio

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

const readTimeout = 200 * time.Millisecond

// Receiver reads UDP datagrams from a bound socket and delivers them on a
// channel, checking a running flag on every read timeout so it exits
// promptly on shutdown rather than blocking forever on an idle socket.
type Receiver struct {
	conn    *net.UDPConn
	bufSize int
	log     zerolog.Logger
}

func NewReceiver(ip string, port, bufSize int, log zerolog.Logger) (*Receiver, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("netio: listen %s:%d: %w", ip, port, err)
	}
	if bufSize > 0 {
		_ = conn.SetReadBuffer(bufSize)
	}
	return &Receiver{conn: conn, bufSize: bufSize, log: log}, nil
}

// Run reads datagrams until running reports false, delivering each payload
// on out. Closes out before returning.
func (r *Receiver) Run(running func() bool, out chan<- []byte) {
	defer close(out)
	buf := make([]byte, 65536)
	for running() {
		r.conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if running() {
				r.log.Warn().Err(err).Msg("udp receive error")
			}
			continue
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		select {
		case out <- payload:
		default:
			r.log.Warn().Msg("dropped dwell: processing queue full")
		}
	}
}

func (r *Receiver) Close() error { return r.conn.Close() }

// Addr returns the receiver's bound local address, useful when it was
// constructed with an ephemeral port.
func (r *Receiver) Addr() *net.UDPAddr { return r.conn.LocalAddr().(*net.UDPAddr) }

// Sender writes UDP datagrams to a fixed destination.
type Sender struct {
	conn *net.UDPConn
}

func NewSender(ip string, port, bufSize int) (*Sender, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("netio: dial %s:%d: %w", ip, port, err)
	}
	if bufSize > 0 {
		_ = conn.SetWriteBuffer(bufSize)
	}
	return &Sender{conn: conn}, nil
}

func (s *Sender) Send(payload []byte) error {
	_, err := s.conn.Write(payload)
	return err
}

func (s *Sender) Close() error { return s.conn.Close() }
