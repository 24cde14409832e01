//go:build linux

// Package serialport implements slcan.Transport over a real tty, the
// production transport for USB-CDC and RS232 SLCAN adapters.
package serialport

import (
	"time"

	serial "github.com/daedaluz/goserial"
	goslcan "github.com/slcanio/goslcan"
	"golang.org/x/sys/unix"
)

func init() {
	goslcan.RegisterTransport("tty", Dial)
}

var standardBauds = map[int]serial.CFlag{
	50:      serial.B50,
	75:      serial.B75,
	110:     serial.B110,
	134:     serial.B134,
	150:     serial.B150,
	200:     serial.B200,
	300:     serial.B300,
	600:     serial.B600,
	1200:    serial.B1200,
	1800:    serial.B1800,
	2400:    serial.B2400,
	4800:    serial.B4800,
	9600:    serial.B9600,
	19200:   serial.B19200,
	38400:   serial.B38400,
	57600:   serial.B57600,
	115200:  serial.B115200,
	230400:  serial.B230400,
	460800:  serial.B460800,
	500000:  serial.B500000,
	576000:  serial.B576000,
	921600:  serial.B921600,
	1000000: serial.B1000000,
	1152000: serial.B1152000,
	1500000: serial.B1500000,
	2000000: serial.B2000000,
}

// Transport drives a tty through github.com/daedaluz/goserial, using
// golang.org/x/sys/unix's TIOCINQ ioctl for BytesAvailable since the
// port type exposes no such call itself.
type Transport struct {
	port    *serial.Port
	timeout time.Duration
}

// Dial opens path as a raw serial port at baudrate and matches
// slcan.Opener so it can be registered directly.
func Dial(path string, baudrate int, rtscts bool, timeout time.Duration) (goslcan.Transport, error) {
	opts := serial.NewOptions()
	if timeout >= 0 {
		opts.SetReadTimeout(timeout)
	}
	port, err := serial.Open(path, opts)
	if err != nil {
		return nil, err
	}

	attrs, err := port.GetAttr2()
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	attrs.MakeRaw()
	if cflag, ok := standardBauds[baudrate]; ok {
		attrs.SetSpeed(cflag)
	} else {
		attrs.SetCustomSpeed(uint32(baudrate))
	}
	if rtscts {
		attrs.Cflag |= serial.CRTSCTS
	}
	if err := port.SetAttr2(serial.TCSANOW, attrs); err != nil {
		_ = port.Close()
		return nil, err
	}

	return &Transport{port: port, timeout: timeout}, nil
}

func (t *Transport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

func (t *Transport) Flush() error {
	return t.port.Drain()
}

func (t *Transport) BytesAvailable() (int, error) {
	return unix.IoctlGetInt(t.port.Fd(), unix.TIOCINQ)
}

func (t *Transport) Read(p []byte) (int, error) {
	return t.port.Read(p)
}

func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.timeout = timeout
	t.port.SetReadTimeout(timeout)
	return nil
}

func (t *Transport) ResetInputBuffer() error {
	return t.port.Flush(serial.TCIFLUSH)
}

func (t *Transport) Fd() (int, bool) {
	fd := t.port.Fd()
	if fd < 0 {
		return 0, false
	}
	return fd, true
}

func (t *Transport) Close() error {
	return t.port.Close()
}
