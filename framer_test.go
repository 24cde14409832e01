package slcan

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a minimal in-memory Transport for exercising the
// framer without any real I/O.
type fakeTransport struct {
	mu      sync.Mutex
	buf     []byte
	written []byte
}

func (f *fakeTransport) feed(p []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf = append(f.buf, p...)
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, p...)
	return len(p), nil
}
func (f *fakeTransport) Flush() error { return nil }

func (f *fakeTransport) BytesAvailable() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buf), nil
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := copy(p, f.buf)
	f.buf = f.buf[n:]
	return n, nil
}

func (f *fakeTransport) SetTimeout(time.Duration) error { return nil }
func (f *fakeTransport) ResetInputBuffer() error        { return nil }
func (f *fakeTransport) Fd() (int, bool)                { return 0, false }
func (f *fakeTransport) Close() error                   { return nil }

func TestFramerReadsOneResponsePerTerminator(t *testing.T) {
	tr := &fakeTransport{}
	f := newFramer(tr)
	tr.feed([]byte("t1230000\rt4560000\r"))

	first, ok, err := f.read(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t1230000\r", first)

	second, ok, err := f.read(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t4560000\r", second)
}

func TestFramerTimesOutWithoutData(t *testing.T) {
	tr := &fakeTransport{}
	f := newFramer(tr)

	start := time.Now()
	_, ok, err := f.read(20 * time.Millisecond)
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestFramerAcceptsErrorTerminator(t *testing.T) {
	tr := &fakeTransport{}
	f := newFramer(tr)
	tr.feed([]byte("\a"))

	response, ok, err := f.read(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "\a", response)
}

func TestFramerResetDiscardsBufferedBytes(t *testing.T) {
	tr := &fakeTransport{}
	f := newFramer(tr)
	tr.feed([]byte("t1230000"))

	// Pull the unterminated bytes into the framer's own buffer without
	// yet completing a response.
	_, ok, err := f.read(20 * time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok)
	require.NotEmpty(t, f.buf)

	f.reset()
	assert.Empty(t, f.buf)
}

func TestFramerUnboundedWaitsForTerminator(t *testing.T) {
	tr := &fakeTransport{}
	f := newFramer(tr)

	go func() {
		time.Sleep(10 * time.Millisecond)
		tr.feed([]byte("t0000000\r"))
	}()

	response, ok, err := f.read(Unbounded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t0000000\r", response)
}
