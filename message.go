package slcan

import "time"

// Message is the in-memory representation of a CAN or CAN-FD frame, as
// accepted by Bus.Send and returned by Bus.Recv.
type Message struct {
	ArbitrationID uint32
	IsExtendedID  bool
	IsRemoteFrame bool
	IsFD          bool
	BitrateSwitch bool
	DLC           uint8
	Data          []byte
	Timestamp     time.Time
}

// canFDLengths maps each of the sixteen CAN-FD DLC nibbles to its payload
// byte count: 0..8 as in classical CAN 2.0, then the seven FD-only sizes
// 12..64. Every other length is not representable on the wire.
var canFDLengths = [16]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

// decodeFDLength maps a CAN-FD DLC nibble (hex digit, case-insensitive) to
// a byte count. Unrecognized nibbles fall through to 64, mirroring the
// dialect's own decode_hex_dlc: an implementer wiring a new adapter should
// confirm this defensive fallback matches their hardware.
func decodeFDLength(nibble byte) int {
	switch {
	case nibble >= '0' && nibble <= '9':
		return canFDLengths[nibble-'0']
	case nibble >= 'a' && nibble <= 'f':
		return canFDLengths[10+int(nibble-'a')]
	case nibble >= 'A' && nibble <= 'F':
		return canFDLengths[10+int(nibble-'A')]
	default:
		return 64
	}
}

// encodeFDLength maps a byte count to its CAN-FD DLC nibble. Lengths that
// aren't one of the seven FD-only sizes (or 0..8) encode as 'F', same
// as the reference dialect.
func encodeFDLength(n int) byte {
	if n >= 0 && n <= 8 {
		return "0123456789ABCDEF"[n]
	}
	for nibble := 9; nibble < 16; nibble++ {
		if canFDLengths[nibble] == n {
			return "0123456789ABCDEF"[nibble]
		}
	}
	return 'F'
}

// IsCanonicalFDLength reports whether n is one of the lengths a CAN-FD
// frame's data may legally have.
func IsCanonicalFDLength(n int) bool {
	for _, l := range canFDLengths {
		if l == n {
			return true
		}
	}
	return false
}
