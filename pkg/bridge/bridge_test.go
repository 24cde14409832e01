package bridge

import (
	"testing"

	sockcan "github.com/brutella/can"
	"github.com/stretchr/testify/assert"

	goslcan "github.com/slcanio/goslcan"
)

func TestToSocketCANStandardFrame(t *testing.T) {
	frame := toSocketCAN(goslcan.Message{ArbitrationID: 0x123, DLC: 3, Data: []byte{1, 2, 3}})
	assert.Equal(t, uint32(0x123), frame.ID)
	assert.Equal(t, uint8(3), frame.Length)
	assert.Equal(t, [8]byte{1, 2, 3, 0, 0, 0, 0, 0}, frame.Data)
}

func TestToSocketCANExtendedRemoteFrame(t *testing.T) {
	frame := toSocketCAN(goslcan.Message{
		ArbitrationID: 0x1ABCDEF,
		IsExtendedID:  true,
		IsRemoteFrame: true,
		DLC:           0,
	})
	assert.NotZero(t, frame.ID&effFlag)
	assert.NotZero(t, frame.ID&rtrFlag)
	assert.Equal(t, uint32(0x1ABCDEF), frame.ID&effMask)
}

func TestFromSocketCANExtendedFrame(t *testing.T) {
	in := sockcan.Frame{ID: 0x321 | effFlag, Length: 2, Data: [8]byte{9, 8}}
	msg := fromSocketCAN(in)
	assert.True(t, msg.IsExtendedID)
	assert.Equal(t, uint32(0x321), msg.ArbitrationID)
	assert.Equal(t, []byte{9, 8}, msg.Data)
}

func TestFromSocketCANStandardMasksID(t *testing.T) {
	in := sockcan.Frame{ID: 0x123, Length: 0}
	msg := fromSocketCAN(in)
	assert.False(t, msg.IsExtendedID)
	assert.Equal(t, uint32(0x123), msg.ArbitrationID)
}
