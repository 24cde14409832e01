package loopback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairRoundTrip(t *testing.T) {
	a, b := Pair()
	defer a.Close()
	defer b.Close()

	n, err := a.Write([]byte("T1230000\r"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	require.NoError(t, a.Flush())

	deadline := time.Now().Add(time.Second)
	for {
		avail, err := b.BytesAvailable()
		require.NoError(t, err)
		if avail >= 9 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for bytes to arrive")
		}
		time.Sleep(time.Millisecond)
	}

	buf := make([]byte, 9)
	n, err = b.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "T1230000\r", string(buf[:n]))
}

func TestResetInputBufferDropsUnread(t *testing.T) {
	a, b := Pair()
	defer a.Close()
	defer b.Close()

	_, err := a.Write([]byte("T1230000\r"))
	require.NoError(t, err)

	deadline := time.Now().Add(time.Second)
	for {
		avail, err := b.BytesAvailable()
		require.NoError(t, err)
		if avail > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for bytes to arrive")
		}
		time.Sleep(time.Millisecond)
	}

	require.NoError(t, b.ResetInputBuffer())
	avail, err := b.BytesAvailable()
	require.NoError(t, err)
	assert.Zero(t, avail)
}

func TestFdUnsupported(t *testing.T) {
	a, b := Pair()
	defer a.Close()
	defer b.Close()

	_, ok := a.Fd()
	assert.False(t, ok)
}

func TestCloseIsIdempotent(t *testing.T) {
	a, b := Pair()
	defer b.Close()

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
}
