package slcan

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	maxStandardID = 0x7FF
	maxExtendedID = 0x1FFFFFFF
)

// EncodeFrame renders m as the ASCII SLCAN command that transmits it,
// without the trailing line terminator (the transport writer appends
// that, see Bus.writeLine).
func EncodeFrame(m Message) (string, error) {
	if m.IsRemoteFrame && m.IsFD {
		return "", opErrorf("a remote frame cannot also be a CAN-FD frame")
	}

	var idStr string
	if m.IsExtendedID {
		if m.ArbitrationID > maxExtendedID {
			return "", opErrorf("extended arbitration id %#x exceeds 29 bits", m.ArbitrationID)
		}
		idStr = fmt.Sprintf("%08X", m.ArbitrationID)
	} else {
		if m.ArbitrationID > maxStandardID {
			return "", opErrorf("standard arbitration id %#x exceeds 11 bits", m.ArbitrationID)
		}
		idStr = fmt.Sprintf("%03X", m.ArbitrationID)
	}

	if m.IsRemoteFrame {
		prefix := byte('r')
		if m.IsExtendedID {
			prefix = 'R'
		}
		if m.DLC > 8 {
			return "", opErrorf("remote frame dlc %d exceeds 8", m.DLC)
		}
		return fmt.Sprintf("%c%s%d", prefix, idStr, m.DLC), nil
	}

	if m.IsFD {
		var prefix byte
		switch {
		case m.IsExtendedID && m.BitrateSwitch:
			prefix = 'B'
		case m.IsExtendedID:
			prefix = 'D'
		case m.BitrateSwitch:
			prefix = 'b'
		default:
			prefix = 'd'
		}
		nibble := encodeFDLength(int(m.DLC))
		// Right-pad to the nibble's canonical length: a caller that
		// under-supplies data for the maximum size still gets a
		// well-formed 'F' frame on the wire.
		canonical := decodeFDLength(nibble)
		payload := make([]byte, canonical)
		copy(payload, m.Data)
		return fmt.Sprintf("%c%s%c%s", prefix, idStr, nibble, strings.ToUpper(hex.EncodeToString(payload))), nil
	}

	if m.DLC > 8 {
		return "", opErrorf("dlc %d exceeds 8", m.DLC)
	}
	prefix := byte('t')
	if m.IsExtendedID {
		prefix = 'T'
	}
	payload := make([]byte, m.DLC)
	copy(payload, m.Data)
	return fmt.Sprintf("%c%s%d%s", prefix, idStr, m.DLC, strings.ToUpper(hex.EncodeToString(payload))), nil
}

// DecodeFrame interprets a single framer response (terminator included or
// not) as a received CAN/CAN-FD frame. It reports ok=false for anything
// that isn't a frame notification: a bare terminator, a command echo, an
// adapter error response, or a malformed/truncated line. A leading 'x'
// is accepted as an alias for 'T' on receive only.
func DecodeFrame(response string) (msg Message, ok bool) {
	body := response
	if n := len(body); n > 0 && (body[n-1] == '\r' || body[n-1] == '\a') {
		body = body[:n-1]
	}
	if len(body) == 0 {
		return Message{}, false
	}

	now := time.Now()
	switch body[0] {
	case 't':
		return decodeClassical(body, false, false, now)
	case 'T', 'x':
		return decodeClassical(body, true, false, now)
	case 'r':
		return decodeClassical(body, false, true, now)
	case 'R':
		return decodeClassical(body, true, true, now)
	case 'd':
		return decodeFD(body, false, false, now)
	case 'D':
		return decodeFD(body, true, false, now)
	case 'b':
		return decodeFD(body, false, true, now)
	case 'B':
		return decodeFD(body, true, true, now)
	default:
		return Message{}, false
	}
}

func decodeClassical(body string, extended, remote bool, ts time.Time) (Message, bool) {
	idLen := 3
	if extended {
		idLen = 8
	}
	// 1 prefix byte + idLen hex digits + 1 decimal dlc digit
	if len(body) < 1+idLen+1 {
		return Message{}, false
	}
	id, err := parseHexID(body[1 : 1+idLen])
	if err != nil {
		return Message{}, false
	}
	dlc := body[1+idLen]
	if dlc < '0' || dlc > '9' {
		return Message{}, false
	}
	dlcVal := uint8(dlc - '0')
	msg := Message{
		ArbitrationID: id,
		IsExtendedID:  extended,
		IsRemoteFrame: remote,
		DLC:           dlcVal,
		Timestamp:     ts,
	}
	if remote {
		return msg, true
	}
	dataStart := 1 + idLen + 1
	dataEnd := dataStart + int(dlcVal)*2
	if len(body) < dataEnd {
		return Message{}, false
	}
	data, err := hex.DecodeString(body[dataStart:dataEnd])
	if err != nil {
		return Message{}, false
	}
	msg.Data = data
	return msg, true
}

func decodeFD(body string, extended, brs bool, ts time.Time) (Message, bool) {
	idLen := 3
	if extended {
		idLen = 8
	}
	if len(body) < 1+idLen+1 {
		return Message{}, false
	}
	id, err := parseHexID(body[1 : 1+idLen])
	if err != nil {
		return Message{}, false
	}
	dlcVal := uint8(decodeFDLength(body[1+idLen]))
	dataStart := 1 + idLen + 1
	dataEnd := dataStart + int(dlcVal)*2
	if len(body) < dataEnd {
		return Message{}, false
	}
	data, err := hex.DecodeString(body[dataStart:dataEnd])
	if err != nil {
		return Message{}, false
	}
	return Message{
		ArbitrationID: id,
		IsExtendedID:  extended,
		IsFD:          true,
		BitrateSwitch: brs,
		DLC:           dlcVal,
		Data:          data,
		Timestamp:     ts,
	}, true
}

func parseHexID(s string) (uint32, error) {
	var id uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		var v uint32
		switch {
		case c >= '0' && c <= '9':
			v = uint32(c - '0')
		case c >= 'A' && c <= 'F':
			v = uint32(c-'A') + 10
		case c >= 'a' && c <= 'f':
			v = uint32(c-'a') + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q", c)
		}
		id = id<<4 | v
	}
	return id, nil
}
