// Package loopback implements an in-process and TCP slcan.Transport,
// used for testing the core against a peer without any serial hardware.
package loopback

import (
	"net"
	"sync"
	"time"

	goslcan "github.com/slcanio/goslcan"
)

func init() {
	goslcan.RegisterTransport("loop", Dial)
	goslcan.RegisterTransport("tcp", Dial)
}

// Transport wraps a net.Conn (a real TCP socket or one end of a
// net.Pipe) and satisfies slcan.Transport. A background goroutine pumps
// bytes off the connection into a buffer so BytesAvailable can report a
// non-blocking count, something net.Conn has no direct equivalent for.
type Transport struct {
	conn net.Conn

	mu      sync.Mutex
	buf     []byte
	readErr error

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to addr over TCP and wraps the connection. It matches
// slcan.Opener so it can be registered directly; baudrate and rtscts are
// accepted for interface compatibility and ignored.
func Dial(addr string, baudrate int, rtscts bool, timeout time.Duration) (goslcan.Transport, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
	return New(conn), nil
}

// New wraps an already-connected net.Conn, such as one half of a
// net.Pipe(), as a Transport.
func New(conn net.Conn) *Transport {
	t := &Transport{conn: conn}
	go t.pump()
	return t
}

// Pair returns two linked Transports backed by net.Pipe, for tests that
// need a bus and its peer without any network or hardware.
func Pair() (a, b *Transport) {
	c1, c2 := net.Pipe()
	return New(c1), New(c2)
}

func (t *Transport) pump() {
	tmp := make([]byte, 4096)
	for {
		n, err := t.conn.Read(tmp)
		if n > 0 {
			t.mu.Lock()
			t.buf = append(t.buf, tmp[:n]...)
			t.mu.Unlock()
		}
		if err != nil {
			t.mu.Lock()
			t.readErr = err
			t.mu.Unlock()
			return
		}
	}
}

func (t *Transport) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

// Flush is a no-op: writes to conn are not buffered by this transport.
func (t *Transport) Flush() error {
	return nil
}

func (t *Transport) BytesAvailable() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) == 0 && t.readErr != nil {
		return 0, t.readErr
	}
	return len(t.buf), nil
}

func (t *Transport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := copy(p, t.buf)
	t.buf = t.buf[n:]
	if n == 0 && t.readErr != nil {
		return 0, t.readErr
	}
	return n, nil
}

// SetTimeout is a no-op: the pump goroutine drains the connection
// continuously rather than under a per-call deadline.
func (t *Transport) SetTimeout(timeout time.Duration) error {
	return nil
}

func (t *Transport) ResetInputBuffer() error {
	t.mu.Lock()
	t.buf = t.buf[:0]
	t.mu.Unlock()
	return nil
}

// Fd is unsupported: net.Conn does not generally expose a descriptor
// without duplicating it.
func (t *Transport) Fd() (int, bool) {
	return 0, false
}

func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
