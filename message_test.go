package slcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassicalDLCRoundTrip(t *testing.T) {
	for n := 0; n <= 8; n++ {
		nibble := encodeFDLength(n)
		assert.Equal(t, n, decodeFDLength(nibble), "dlc %d", n)
	}
}

func TestCanonicalFDLengthRoundTrip(t *testing.T) {
	for _, n := range canFDLengths {
		nibble := encodeFDLength(n)
		assert.Equal(t, n, decodeFDLength(nibble), "length %d", n)
		assert.True(t, IsCanonicalFDLength(n))
	}
}

func TestIsCanonicalFDLengthRejectsArbitrary(t *testing.T) {
	assert.False(t, IsCanonicalFDLength(9))
	assert.False(t, IsCanonicalFDLength(13))
	assert.False(t, IsCanonicalFDLength(63))
}

func TestEncodeFDLengthFallsBackToF(t *testing.T) {
	assert.Equal(t, byte('F'), encodeFDLength(9))
	assert.Equal(t, byte('F'), encodeFDLength(100))
}

func TestDecodeFDLengthUnknownNibbleFallsBackTo64(t *testing.T) {
	assert.Equal(t, 64, decodeFDLength('z'))
}

func TestDecodeFDLengthCaseInsensitive(t *testing.T) {
	assert.Equal(t, decodeFDLength('a'), decodeFDLength('A'))
	assert.Equal(t, decodeFDLength('f'), decodeFDLength('F'))
}
