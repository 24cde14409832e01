package slcan

import "time"

// state is the session lifecycle: bit-timing/bitrate/FD commands are
// legal only in stateClosed; data transmission is legal only in the two
// open states.
type state int

const (
	stateClosed state = iota
	stateOpenNormal
	stateOpenListenOnly
)

// Options configures Open/New. Setting Bitrate together with
// Timing.Classical is a configuration error; Timing.FD, when set, takes
// precedence over Bitrate.
type Options struct {
	// TTYBaudrate is the serial baudrate, overridden by a "@baud" suffix
	// on the channel string passed to Open.
	TTYBaudrate int

	// Bitrate selects one of the ten preset bitrates in bit/s. Zero means
	// unset.
	Bitrate int

	// Timing, if either field is non-nil, configures explicit bit timing
	// instead of a preset (see the Bitrate rules on Options above).
	Timing Timing

	// SleepAfterOpen is how long Open waits after opening the transport
	// and before writing any command — some USB-serial bridges discard
	// bytes sent during enumeration.
	SleepAfterOpen time.Duration

	// RTSCTS enables hardware flow control on the underlying transport.
	RTSCTS bool

	// ListenOnly opens the channel with 'L' instead of 'O': the adapter
	// never transmits, not even acknowledgements.
	ListenOnly bool

	// Timeout is the transport's default read timeout, and the default
	// Recv timeout when a caller passes nil.
	Timeout time.Duration
}

// DefaultOptions returns the adapter's documented defaults.
func DefaultOptions() Options {
	return Options{
		TTYBaudrate:    115200,
		SleepAfterOpen: 2 * time.Second,
		Timeout:        time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	if o.TTYBaudrate == 0 {
		o.TTYBaudrate = 115200
	}
	if o.SleepAfterOpen == 0 {
		o.SleepAfterOpen = 2 * time.Second
	}
	if o.Timeout == 0 {
		o.Timeout = time.Millisecond
	}
	return o
}

func (o Options) validate() error {
	if err := o.Timing.validate(); err != nil {
		return err
	}
	if o.Bitrate != 0 {
		if o.Timing.Classical != nil {
			return configErrorf("bitrate and explicit BTR timing are mutually exclusive")
		}
		if _, err := presetBitrateCommand(o.Bitrate); err != nil {
			return err
		}
	}
	return nil
}
