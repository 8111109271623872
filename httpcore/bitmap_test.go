package httpcore

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBMPHeader(t *testing.T) {
	planar := make([]byte, ImageSize*ImageSize*3)
	for i := range planar {
		planar[i] = byte(i)
	}

	out, err := encodeBMP(ImageSize, ImageSize, planar)
	require.NoError(t, err)

	assert.Equal(t, byte('B'), out[0])
	assert.Equal(t, byte('M'), out[1])
	assert.Equal(t, uint32(len(out)), binary.LittleEndian.Uint32(out[2:6]))
	assert.Equal(t, uint32(bmpPixelOffset), binary.LittleEndian.Uint32(out[10:14]))
	assert.Equal(t, uint32(ImageSize), binary.LittleEndian.Uint32(out[18:22]))
	assert.Equal(t, uint32(ImageSize), binary.LittleEndian.Uint32(out[22:26]))
	assert.Equal(t, uint16(bmpBitsPerPixel), binary.LittleEndian.Uint16(out[28:30]))
}

func TestEncodeBMPPixelOrderIsBGR(t *testing.T) {
	planeSize := ImageSize * ImageSize
	planar := make([]byte, planeSize*3)
	for i := 0; i < planeSize; i++ {
		planar[i] = 0xAA              // red plane
		planar[planeSize+i] = 0xBB    // green plane
		planar[2*planeSize+i] = 0xCC  // blue plane
	}

	out, err := encodeBMP(ImageSize, ImageSize, planar)
	require.NoError(t, err)

	pixel := out[bmpPixelOffset : bmpPixelOffset+3]
	assert.Equal(t, []byte{0xCC, 0xBB, 0xAA}, pixel)
}

func TestEncodeBMPRejectsWrongLength(t *testing.T) {
	_, err := encodeBMP(ImageSize, ImageSize, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidPlanarData)
}
