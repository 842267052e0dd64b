package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var long = []byte{0x2a, 0xac, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

func TestUintBEPadded(t *testing.T) {
	assert.Equal(t, uint64(0), UintBEPadded([]byte{0}))
	assert.Equal(t, uint64(255), UintBEPadded([]byte{0xff}))
	assert.Equal(t, uint64(0), UintBEPadded(nil))
	assert.Equal(t, uint64(0x0102), UintBEPadded([]byte{0x01, 0x02}))
	// Over-long input keeps the leading eight bytes.
	assert.Equal(t, uint64(3075114120563916799), UintBEPadded(long))
}

func TestUint32EndBE(t *testing.T) {
	assert.Equal(t, uint32(0), Uint32EndBE([]byte{0}))
	assert.Equal(t, uint32(255), Uint32EndBE([]byte{0xff}))
	assert.Equal(t, uint32(2902458367), Uint32EndBE([]byte{0x2a, 0xac, 0xff, 0xff, 0xff}))
}

func TestUint64EndBE(t *testing.T) {
	assert.Equal(t, uint64(0), Uint64EndBE([]byte{0}))
	assert.Equal(t, uint64(255), Uint64EndBE([]byte{0xff}))
	assert.Equal(t, uint64(12465963768561532927), Uint64EndBE(long))
}

func TestExactWidth(t *testing.T) {
	v16, err := Uint16BE([]byte{0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint16(256), v16)

	v32, err := Uint32BE([]byte{0x00, 0x00, 0x03, 0xc9})
	require.NoError(t, err)
	assert.Equal(t, uint32(969), v32)

	_, err = Uint16BE([]byte{0x01})
	assert.ErrorIs(t, err, ErrConversion)
	_, err = Uint32BE([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	assert.ErrorIs(t, err, ErrConversion)
}
