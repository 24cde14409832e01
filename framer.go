package slcan

import "time"

// pollInterval bounds the framer's busy-wait between BytesAvailable
// polls. 1ms keeps CPU use low while staying well under sub-frame
// latency at 1Mbit/s classical CAN traffic.
const pollInterval = time.Millisecond

// terminator bytes: CR ends a successful response (including a received
// frame notification), BEL ends an adapter-reported error response.
const (
	termOK    = '\r'
	termError = '\a'
)

// framer segments the transport's byte stream into terminator-delimited
// responses. It owns a single buffer; it is not safe for concurrent use
// and is not reentrant.
type framer struct {
	transport Transport
	buf       []byte
}

func newFramer(t Transport) *framer {
	return &framer{transport: t}
}

// read returns the next complete response, or ok=false if timeout elapses
// first. A negative timeout (Unbounded) waits indefinitely.
func (f *framer) read(timeout time.Duration) (response string, ok bool, err error) {
	deadline := time.Now().Add(timeout)
	for {
		if idx := f.findTerminator(); idx >= 0 {
			response = string(f.buf[:idx+1])
			f.buf = append([]byte(nil), f.buf[idx+1:]...)
			return response, true, nil
		}
		if timeout >= 0 && !time.Now().Before(deadline) {
			return "", false, nil
		}

		n, err := f.transport.BytesAvailable()
		if err != nil {
			return "", false, opErrorf("polling transport: %v", err)
		}
		if n > 0 {
			chunk := make([]byte, n)
			read, err := f.transport.Read(chunk)
			if err != nil {
				return "", false, opErrorf("reading transport: %v", err)
			}
			f.buf = append(f.buf, chunk[:read]...)
			continue
		}
		time.Sleep(pollInterval)
	}
}

func (f *framer) findTerminator() int {
	for i, b := range f.buf {
		if b == termOK || b == termError {
			return i
		}
	}
	return -1
}

// reset discards any buffered, not-yet-terminated bytes.
func (f *framer) reset() {
	f.buf = f.buf[:0]
}
