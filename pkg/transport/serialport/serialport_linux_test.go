//go:build linux

package serialport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardBaudsCoversCommonRates(t *testing.T) {
	for _, baud := range []int{9600, 19200, 38400, 57600, 115200, 230400, 500000, 1000000} {
		_, ok := standardBauds[baud]
		assert.True(t, ok, "missing mapping for %d", baud)
	}
}

func TestDialUnknownPathFails(t *testing.T) {
	_, err := Dial("/dev/does-not-exist-slcan-test", 115200, false, 0)
	assert.Error(t, err)
}
