package slcan

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Bus is the public SLCAN adapter contract: construct, send, recv,
// shutdown, flush, fileno. It owns the transport and the framer's byte
// buffer, is single-threaded and blocking, and is not safe for concurrent
// use — callers needing that wrap it in their own mutex, the same
// division of labor as a BusManager sitting above a bus implementation.
type Bus struct {
	transport Transport
	framer    *framer

	state      state
	listenOnly bool
	timeout    time.Duration
	shutdown   bool
}

// Open opens channel (a transport URL, optionally "scheme://path@baud")
// and brings the adapter up per Options, ending in stateOpenNormal or
// stateOpenListenOnly. The scheme defaults to "tty"; transports register
// themselves against a scheme with RegisterTransport.
func Open(channel string, opts Options) (*Bus, error) {
	if channel == "" {
		return nil, configErrorf("channel must not be empty")
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	scheme, path, baud, err := splitChannel(channel)
	if err != nil {
		return nil, err
	}
	if baud != 0 {
		opts.TTYBaudrate = baud
	}

	open, ok := transportRegistry[scheme]
	if !ok {
		return nil, dependencyMissingErrorf("no transport registered for scheme %q (build without platform support, or forgot a blank import)", scheme)
	}
	transport, err := open(path, opts.TTYBaudrate, opts.RTSCTS, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: opening channel %q: %w", ErrInitialization, channel, err)
	}

	time.Sleep(opts.SleepAfterOpen)

	return newBus(transport, opts)
}

// New wraps an already-open Transport (e.g. a loopback transport in
// tests, or one built by a caller directly) and runs the same
// configure-then-open sequence as Open.
func New(transport Transport, opts Options) (*Bus, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return newBus(transport, opts)
}

func newBus(transport Transport, opts Options) (*Bus, error) {
	b := &Bus{
		transport:  transport,
		framer:     newFramer(transport),
		listenOnly: opts.ListenOnly,
		timeout:    opts.Timeout,
	}

	fail := func(err error) (*Bus, error) {
		_ = transport.Close()
		return nil, err
	}

	if err := transport.SetTimeout(opts.Timeout); err != nil {
		return fail(initErrorf("setting initial timeout: %v", err))
	}

	// Close is idempotent on the wire; issuing it unconditionally gets us
	// into a known state regardless of what the adapter was doing before.
	if err := b.writeLine("C"); err != nil {
		return fail(initErrorf("closing channel before configuration: %v", err))
	}

	switch {
	case opts.Timing.FD != nil:
		if err := b.writeLine(opts.Timing.FD.Nominal.command('P')); err != nil {
			return fail(initErrorf("writing nominal FD timing: %v", err))
		}
		if err := b.writeLine(opts.Timing.FD.Data.command('p')); err != nil {
			return fail(initErrorf("writing data-phase FD timing: %v", err))
		}
	case opts.Timing.Classical != nil:
		if err := b.writeLine(opts.Timing.Classical.command()); err != nil {
			return fail(initErrorf("writing BTR timing: %v", err))
		}
	case opts.Bitrate != 0:
		cmd, err := presetBitrateCommand(opts.Bitrate)
		if err != nil {
			return fail(err)
		}
		if err := b.writeLine(cmd); err != nil {
			return fail(initErrorf("writing bitrate preset: %v", err))
		}
	}

	if opts.ListenOnly {
		if err := b.writeLine("L"); err != nil {
			return fail(initErrorf("opening listen-only: %v", err))
		}
		b.state = stateOpenListenOnly
	} else {
		if err := b.writeLine("O"); err != nil {
			return fail(initErrorf("opening: %v", err))
		}
		b.state = stateOpenNormal
	}

	log.Debugf("slcan: channel open, listenOnly=%v", b.listenOnly)
	return b, nil
}

// writeLine writes cmd plus the line terminator and flushes. The
// adapter's reply, if any, is left on the wire to be picked up as routine
// framer noise by the next Recv — construction does not block waiting
// for an ack.
func (b *Bus) writeLine(cmd string) error {
	if _, err := b.transport.Write([]byte(cmd + "\r")); err != nil {
		return err
	}
	return b.transport.Flush()
}

// Send encodes and writes msg. If timeout is non-nil and differs from the
// transport's current timeout, the transport's timeout is updated first —
// a documented side effect on shared transport state, not a per-call
// option.
func (b *Bus) Send(msg Message, timeout *time.Duration) error {
	if b.state == stateClosed {
		return fmt.Errorf("%w: %w: send", ErrOperation, ErrChannelClosed)
	}
	encoded, err := EncodeFrame(msg)
	if err != nil {
		return err
	}
	if timeout != nil && *timeout != b.timeout {
		if err := b.transport.SetTimeout(*timeout); err != nil {
			return opErrorf("updating transport timeout: %v", err)
		}
		b.timeout = *timeout
	}
	if err := b.writeLine(encoded); err != nil {
		return opErrorf("writing frame: %v", err)
	}
	return nil
}

// Recv reads the next response and, if it decodes as a frame, returns it.
// It returns (nil, false, nil) on a timeout or on any response that isn't
// a frame notification — an adapter error reply (\a), a command echo, or
// a malformed line are all "no message", never an error. The second
// return value is always false: this core performs no filtering.
func (b *Bus) Recv(timeout *time.Duration) (*Message, bool, error) {
	effective := b.timeout
	if timeout != nil {
		effective = *timeout
	}
	response, ok, err := b.framer.read(effective)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	msg, decoded := DecodeFrame(response)
	if !decoded {
		log.Debugf("slcan: discarding non-frame response %q", response)
		return nil, false, nil
	}
	return &msg, false, nil
}

// Flush discards buffered-but-unterminated framer bytes and resets the
// transport's input buffer.
func (b *Bus) Flush() error {
	b.framer.reset()
	if err := b.transport.ResetInputBuffer(); err != nil {
		return opErrorf("resetting input buffer: %v", err)
	}
	return nil
}

// Shutdown closes the channel and the transport. It is safe to call more
// than once; only the first call does anything.
func (b *Bus) Shutdown() error {
	if b.shutdown {
		return nil
	}
	b.shutdown = true
	writeErr := b.writeLine("C")
	b.state = stateClosed
	closeErr := b.transport.Close()
	if writeErr != nil {
		return opErrorf("writing close command: %v", writeErr)
	}
	if closeErr != nil {
		return opErrorf("closing transport: %v", closeErr)
	}
	return nil
}

// Fileno delegates to the transport, reporting ok=false when the
// transport has no file descriptor to report.
func (b *Bus) Fileno() (fd int, ok bool) {
	return b.transport.Fd()
}

// GetVersion writes "V" and parses a well-formed "Vhhss\r" reply into
// (hw, sw). ok is false on timeout or a malformed reply.
func (b *Bus) GetVersion(timeout *time.Duration) (hw, sw int, ok bool, err error) {
	if err := b.writeLine("V"); err != nil {
		return 0, 0, false, opErrorf("writing version query: %v", err)
	}
	response, gotResponse, err := b.readQueryResponse(timeout)
	if err != nil || !gotResponse {
		return 0, 0, false, err
	}
	if len(response) != 6 || response[0] != 'V' {
		return 0, 0, false, nil
	}
	hwVal, hwOK := parseDecimalPair(response[1:3])
	swVal, swOK := parseDecimalPair(response[3:5])
	if !hwOK || !swOK {
		return 0, 0, false, nil
	}
	return hwVal, swVal, true, nil
}

// GetSerialNumber writes "N" and parses a well-formed "Nxxxx\r" reply.
// The four-character serial number is response[1:5] — everything between
// the leading 'N' and the trailing terminator.
func (b *Bus) GetSerialNumber(timeout *time.Duration) (serial string, ok bool, err error) {
	if err := b.writeLine("N"); err != nil {
		return "", false, opErrorf("writing serial number query: %v", err)
	}
	response, gotResponse, err := b.readQueryResponse(timeout)
	if err != nil || !gotResponse {
		return "", false, err
	}
	if len(response) != 6 || response[0] != 'N' {
		return "", false, nil
	}
	return response[1:5], true, nil
}

func (b *Bus) readQueryResponse(timeout *time.Duration) (string, bool, error) {
	effective := b.timeout
	if timeout != nil {
		effective = *timeout
	}
	return b.framer.read(effective)
}

func parseDecimalPair(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
