package slcan

import "time"

// Transport is the byte-oriented full-duplex stream the core drives: a
// serial/TTY port in production, a TCP loopback in tests (see
// pkg/transport/loopback), or a real tty (see pkg/transport/serialport).
// The core never assumes more than this interface; cyclic scheduling,
// reconnection, and thread-safety belong to callers layered above Bus.
type Transport interface {
	// Write sends p verbatim (the caller is responsible for any line
	// terminator) and returns once the bytes have been handed to the
	// driver; it does not imply Flush.
	Write(p []byte) (int, error)

	// Flush blocks until previously written bytes have left the host.
	Flush() error

	// BytesAvailable reports how many bytes can be read without
	// blocking, without consuming them. Used by the line framer to
	// avoid a per-byte read syscall on every poll iteration.
	BytesAvailable() (int, error)

	// Read fills p with already-available bytes and returns immediately;
	// it must not block for longer than the transport's configured read
	// timeout.
	Read(p []byte) (int, error)

	// SetTimeout updates the transport's read/write deadline. A Bus.Send
	// call with an explicit timeout argument calls this when it differs
	// from the transport's current setting — a documented side effect on
	// shared transport state, not a per-call option.
	SetTimeout(timeout time.Duration) error

	// ResetInputBuffer discards any bytes the transport has buffered
	// but not yet delivered to Read.
	ResetInputBuffer() error

	// Fd returns the transport's file descriptor, if it has one.
	Fd() (fd int, ok bool)

	// Close releases the transport. Calling it more than once must be
	// safe.
	Close() error
}

// Unbounded, passed as a read timeout, means "wait indefinitely for a
// terminator".
const Unbounded time.Duration = -1
