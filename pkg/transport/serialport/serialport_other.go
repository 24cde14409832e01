//go:build !linux

package serialport

import (
	"time"

	goslcan "github.com/slcanio/goslcan"
)

func init() {
	goslcan.RegisterTransport("tty", Dial)
}

// Dial reports ErrDependencyMissing on non-Linux builds: the termios2
// and TIOCINQ ioctls this package relies on are Linux-specific.
func Dial(path string, baudrate int, rtscts bool, timeout time.Duration) (goslcan.Transport, error) {
	return nil, goslcan.ErrDependencyMissing
}
