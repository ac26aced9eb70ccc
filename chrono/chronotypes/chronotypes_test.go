package chronotypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeEmptyIsSentinel(t *testing.T) {
	assert.Equal(t, Sentinel, Encode3Bit(nil))
	assert.Empty(t, Decode3Bit(Sentinel))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{0},
		{7},
		{0, 0, 0},
		{4, 6, 3, 5, 6, 3, 5, 2, 1, 0},
		{0, 3, 5, 4, 3, 0},
		{2, 4, 1, 1, 7, 5, 4, 4, 1, 4, 0, 3, 5, 5, 3, 0},
	}
	for _, digits := range cases {
		assert.Equal(t, digits, Decode3Bit(Encode3Bit(digits)), "digits %v", digits)
	}
}

func TestEncodeLeadingZerosSurvive(t *testing.T) {
	// 1 000 011 in binary
	assert.Equal(t, uint64(0b1000011), Encode3Bit([]byte{0, 3}))
	assert.Equal(t, []byte{0, 3}, Decode3Bit(0b1000011))
}

func TestEncodeMasksDigits(t *testing.T) {
	assert.Equal(t, Encode3Bit([]byte{1}), Encode3Bit([]byte{9}))
}

func TestFormatDigits(t *testing.T) {
	assert.Equal(t, "4,6,3,5,6,3,5,2,1,0", FormatDigits([]byte{4, 6, 3, 5, 6, 3, 5, 2, 1, 0}))
	assert.Equal(t, "", FormatDigits(nil))
}

func TestRegisters(t *testing.T) {
	r := Registers{729, 3, 5}
	assert.Equal(t, uint64(729), r.A())
	assert.Equal(t, uint64(3), r.B())
	assert.Equal(t, uint64(5), r.C())
	assert.Equal(t, 21, MaxDigits)
}
