package core

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Relative luminance weights.
const (
	lumaR float32 = 0.2126
	lumaG float32 = 0.7152
	lumaB float32 = 0.0722
)

// requireColor reports ErrUnsupportedChannelCount for buffers that have no
// R, G and B channels to work with.
func (b *Buffer) requireColor(op string) error {
	if b.channels >= 3 {
		return nil
	}
	log.Warn().
		Str("op", op).
		Int("channels", b.channels).
		Msg("buffer has less than 3 channels, it will not be processed")
	return fmt.Errorf("%s: %w: %d", op, ErrUnsupportedChannelCount, b.channels)
}

// Grayscale replaces every pixel with (R+G+B)/Channels, written to all of
// the pixel's channels. On RGBA buffers the divisor is 4 and alpha is
// overwritten with the gray value as well.
func (b *Buffer) Grayscale() (*Buffer, error) {
	if err := b.requireColor("grayscale"); err != nil {
		return b, err
	}
	c := b.channels
	for i := 0; i+c <= len(b.pix); i += c {
		g := uint8((int(b.pix[i]) + int(b.pix[i+1]) + int(b.pix[i+2])) / c)
		px := b.pix[i : i+c]
		for k := range px {
			px[k] = g
		}
	}
	return b, nil
}

// GrayscaleLuminance replaces R, G and B with the truncated relative
// luminance 0.2126R + 0.7152G + 0.0722B. Channels past the third, such as
// alpha, are left as they are.
func (b *Buffer) GrayscaleLuminance() (*Buffer, error) {
	if err := b.requireColor("grayscale luminance"); err != nil {
		return b, err
	}
	c := b.channels
	for i := 0; i+c <= len(b.pix); i += c {
		l := float32(lumaR*float32(b.pix[i])) +
			float32(lumaG*float32(b.pix[i+1])) +
			float32(lumaB*float32(b.pix[i+2]))
		g := uint8(l)
		b.pix[i], b.pix[i+1], b.pix[i+2] = g, g, g
	}
	return b, nil
}

// ColorMask scales the R, G and B channels by the given factors. Products
// are truncated toward zero and wrap modulo 256 instead of saturating.
func (b *Buffer) ColorMask(red, green, blue float32) (*Buffer, error) {
	if err := b.requireColor("color mask"); err != nil {
		return b, err
	}
	c := b.channels
	for i := 0; i+c <= len(b.pix); i += c {
		b.pix[i] = scaleWrap(b.pix[i], red)
		b.pix[i+1] = scaleWrap(b.pix[i+1], green)
		b.pix[i+2] = scaleWrap(b.pix[i+2], blue)
	}
	return b, nil
}

func scaleWrap(v uint8, f float32) uint8 {
	return uint8(int64(float32(v) * f))
}
