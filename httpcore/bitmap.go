package httpcore

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrInvalidPlanarData is returned by encodeBMP when the input does not
// contain exactly width*height*3 bytes.
var ErrInvalidPlanarData = errors.New("planar pixel data has the wrong length")

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpPixelOffset    = bmpFileHeaderSize + bmpInfoHeaderSize
	bmpBitsPerPixel   = 24
)

// encodeBMP builds an uncompressed 24-bit BMP from three separate,
// row-major color planes (red, then green, then blue, each width*height
// bytes), the layout a CIFAR-style record stores its pixels in. BMP
// rows are bottom-up and padded to a 4-byte boundary; the rest of the
// format is a plain BITMAPFILEHEADER + BITMAPINFOHEADER.
func encodeBMP(width, height int, planar []byte) ([]byte, error) {
	planeSize := width * height
	if len(planar) != planeSize*3 {
		return nil, ErrInvalidPlanarData
	}

	rowSize := width * 3
	padding := (4 - rowSize%4) % 4
	dataSize := (rowSize + padding) * height
	fileSize := bmpPixelOffset + dataSize

	buf := make([]byte, 0, fileSize)

	buf = append(buf, 'B', 'M')
	buf = binary.LittleEndian.AppendUint32(buf, uint32(fileSize))
	buf = binary.LittleEndian.AppendUint32(buf, 0) // reserved
	buf = binary.LittleEndian.AppendUint32(buf, uint32(bmpPixelOffset))

	buf = binary.LittleEndian.AppendUint32(buf, bmpInfoHeaderSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(width))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(height))
	buf = binary.LittleEndian.AppendUint16(buf, 1) // color planes
	buf = binary.LittleEndian.AppendUint16(buf, bmpBitsPerPixel)
	buf = binary.LittleEndian.AppendUint32(buf, 0) // no compression
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))
	buf = binary.LittleEndian.AppendUint32(buf, 2835) // ~72 DPI
	buf = binary.LittleEndian.AppendUint32(buf, 2835)
	buf = binary.LittleEndian.AppendUint32(buf, 0) // palette colors
	buf = binary.LittleEndian.AppendUint32(buf, 0) // important colors

	rOff, gOff, bOff := 0, planeSize, planeSize*2
	for y := height - 1; y >= 0; y-- {
		rowStart := y * width
		for x := 0; x < width; x++ {
			idx := rowStart + x
			buf = append(buf, planar[bOff+idx], planar[gOff+idx], planar[rOff+idx])
		}
		for i := 0; i < padding; i++ {
			buf = append(buf, 0)
		}
	}

	return buf, nil
}
