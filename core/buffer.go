// Package core holds the pixel buffer and the in-place transforms that
// operate on it: grayscale conversion, colour masking and image differencing.
package core

import (
	"bytes"
	"fmt"
	"math"
)

// Buffer is an 8-bit-per-channel raster stored as one contiguous,
// interleaved byte plane of Width*Height*Channels bytes.
type Buffer struct {
	pix      []uint8
	width    int
	height   int
	channels int
}

// New allocates a zeroed buffer with the given dimensions.
func New(width, height, channels int) (*Buffer, error) {
	size, err := planeSize(width, height, channels)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		pix:      make([]uint8, size),
		width:    width,
		height:   height,
		channels: channels,
	}, nil
}

// FromBytes wraps pix as a buffer. The buffer takes ownership of pix; the
// caller must not keep writing to it.
func FromBytes(width, height, channels int, pix []uint8) (*Buffer, error) {
	size, err := planeSize(width, height, channels)
	if err != nil {
		return nil, err
	}
	if len(pix) != size {
		return nil, fmt.Errorf("%w: %dx%dx%d needs %d bytes, got %d",
			ErrInvalidDimensions, width, height, channels, size, len(pix))
	}
	return &Buffer{pix: pix, width: width, height: height, channels: channels}, nil
}

func planeSize(width, height, channels int) (int, error) {
	if width < 0 || height < 0 || channels < 0 {
		return 0, fmt.Errorf("%w: %dx%dx%d", ErrInvalidDimensions, width, height, channels)
	}
	if width > math.MaxInt32 || height > math.MaxInt32 || channels > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %dx%dx%d", ErrInvalidDimensions, width, height, channels)
	}
	size := width
	for _, d := range [...]int{height, channels} {
		if d != 0 && size > math.MaxInt/d {
			return 0, fmt.Errorf("%w: %dx%dx%d overflows", ErrInvalidDimensions, width, height, channels)
		}
		size *= d
	}
	return size, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Channels returns the number of interleaved channels per pixel.
func (b *Buffer) Channels() int { return b.channels }

// Size returns the length of the byte plane.
func (b *Buffer) Size() int { return len(b.pix) }

// Bytes returns the byte plane. Writes through the slice mutate the buffer.
func (b *Buffer) Bytes() []uint8 { return b.pix }

// Pixel returns the channel bytes of the pixel at (x, y), or nil when the
// position is outside the buffer.
func (b *Buffer) Pixel(x, y int) []uint8 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height || b.channels == 0 {
		return nil
	}
	off := (y*b.width + x) * b.channels
	return b.pix[off : off+b.channels : off+b.channels]
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{pix: pix, width: b.width, height: b.height, channels: b.channels}
}

// Equal reports whether both buffers have the same dimensions and bytes.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.width == other.width && b.height == other.height &&
		b.channels == other.channels && bytes.Equal(b.pix, other.pix)
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return fmt.Sprintf("%dx%dx%d (%d bytes)", b.width, b.height, b.channels, len(b.pix))
}
