package slcan

import (
	"strings"
	"time"
)

// Opener opens a Transport for path (already stripped of any "scheme://"
// prefix and "@baud" suffix) at the given baudrate.
type Opener func(path string, baudrate int, rtscts bool, timeout time.Duration) (Transport, error)

var transportRegistry = make(map[string]Opener)

// RegisterTransport makes an Opener available under scheme for Open.
// Transport packages call this from an init(), the same registry pattern
// used for interface drivers elsewhere in this module family. The
// default scheme, used when a channel carries no "scheme://" prefix, is
// "tty".
func RegisterTransport(scheme string, open Opener) {
	transportRegistry[scheme] = open
}

func splitChannel(channel string) (scheme, path string, baudrate int, err error) {
	scheme = "tty"
	rest := channel
	if idx := strings.Index(rest, "://"); idx >= 0 {
		scheme = rest[:idx]
		rest = rest[idx+len("://"):]
	}
	if idx := strings.LastIndex(rest, "@"); idx >= 0 {
		baudStr := rest[idx+1:]
		n, convErr := parseBaud(baudStr)
		if convErr != nil {
			return "", "", 0, configErrorf("invalid baudrate suffix %q in channel %q", baudStr, channel)
		}
		rest = rest[:idx]
		baudrate = n
	}
	return scheme, rest, baudrate, nil
}

func parseBaud(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, configErrorf("empty baudrate")
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, configErrorf("non-numeric baudrate %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
