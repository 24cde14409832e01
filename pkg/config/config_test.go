package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
)

func loadString(t *testing.T, body string) map[string]Profile {
	t.Helper()
	cfg, err := ini.Load([]byte(body))
	require.NoError(t, err)
	profiles, err := fromFile(cfg)
	require.NoError(t, err)
	return profiles
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	profiles := loadString(t, `
[DEFAULT]
baudrate = 115200

[can0]
channel = tty:///dev/ttyUSB0
bitrate = 500000
listen_only = true

[can1]
channel = loop://localhost:18888
baudrate = 921600
rtscts = true
timeout_ms = 5
`)

	require.Contains(t, profiles, "can0")
	can0 := profiles["can0"]
	assert.Equal(t, "tty:///dev/ttyUSB0", can0.Channel)
	assert.Equal(t, 500000, can0.Options.Bitrate)
	assert.True(t, can0.Options.ListenOnly)
	assert.Equal(t, 115200, can0.Options.TTYBaudrate)

	require.Contains(t, profiles, "can1")
	can1 := profiles["can1"]
	assert.Equal(t, 921600, can1.Options.TTYBaudrate)
	assert.True(t, can1.Options.RTSCTS)
	assert.Equal(t, 5*time.Millisecond, can1.Options.Timeout)
}

func TestLoadRejectsMissingChannel(t *testing.T) {
	cfg, err := ini.Load([]byte("[can0]\nbitrate = 500000\n"))
	require.NoError(t, err)
	_, err = fromFile(cfg)
	assert.Error(t, err)
}

func TestLoadRejectsBadBitrate(t *testing.T) {
	cfg, err := ini.Load([]byte("[can0]\nchannel = tty:///dev/ttyUSB0\nbitrate = not-a-number\n"))
	require.NoError(t, err)
	_, err = fromFile(cfg)
	assert.Error(t, err)
}
