// Package impro loads and saves pixel buffers as PNG, JPEG, BMP or TGA
// files and wraps the steganography codec with text and QR-code payloads.
//
// The transforms themselves live in package core and the embedding
// protocol in package stego.
package impro

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/bmp"

	"impro/core"
	"impro/stego"
)

var (
	// ErrUnknownFormat is returned by Save for file names without one of
	// the .png, .jpg, .bmp or .tga suffixes.
	ErrUnknownFormat = errors.New("unknown image format")
	// ErrDecodeFailure wraps every error met while reading an image file.
	ErrDecodeFailure = errors.New("decode failed")
	// ErrEncodeFailure wraps every error met while writing an image file.
	ErrEncodeFailure = errors.New("encode failed")
	// ErrDimensionMismatch is returned by Compare for buffers of different
	// width, height or channel count.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Codec reads and writes image files and embeds payloads in them.
type Codec struct {
	JPEGQuality int                  // 1..100
	QRLevel     qrcode.RecoveryLevel // error correction of regenerated QR codes
	QRSize      int                  // edge length in pixels of regenerated QR codes
}

// NewCodec returns a codec writing JPEG at quality 100 and rendering
// 256x256 QR codes with medium error correction.
func NewCodec() *Codec {
	return &Codec{
		JPEGQuality: 100,
		QRLevel:     qrcode.Medium,
		QRSize:      256,
	}
}

// Result is an extracted payload.
type Result struct {
	Message []byte
	// ImageBytes holds a PNG rendering of Message when it was extracted as
	// a QR code.
	ImageBytes []byte
}

// Text returns the message as a string.
func (r *Result) Text() string { return string(r.Message) }

// Load decodes the image at path. PNG, JPEG and BMP are detected by
// content; anything no registered decoder claims is tried as TGA.
func (c *Codec) Load(path string) (*core.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		buf, terr := readTGA(bytes.NewReader(data))
		if terr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, terr)
		}
		log.Debug().Str("path", path).Str("format", "tga").Stringer("buffer", buf).Msg("read image")
		return buf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}

	buf, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}
	log.Debug().Str("path", path).Str("format", format).Stringer("buffer", buf).Msg("read image")
	return buf, nil
}

// Save encodes buf to path in the format picked by FormatOf. Unknown
// suffixes return ErrUnknownFormat and no file is created.
func (c *Codec) Save(buf *core.Buffer, path string) (err error) {
	format := FormatOf(path)
	if format == Unknown {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	var img image.Image
	if format == TGA {
		err = checkTGA(buf)
	} else {
		img, err = ToImage(buf)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncodeFailure, path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailure, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrEncodeFailure, cerr)
		}
	}()

	switch format {
	case PNG:
		err = png.Encode(f, img)
	case JPEG:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: c.JPEGQuality})
	case BMP:
		err = bmp.Encode(f, img)
	case TGA:
		err = writeTGA(f, buf)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncodeFailure, path, err)
	}
	log.Debug().Str("path", path).Stringer("format", format).Stringer("buffer", buf).Msg("wrote image")
	return nil
}

// EmbedText hides text in buf.
func (c *Codec) EmbedText(buf *core.Buffer, text string) error {
	return c.embed(buf, []byte(text))
}

// EmbedQRCode hides the content of a QR code in buf. Only the content is
// stored; ExtractQRCode renders the code again on the way out.
//
// The stored bytes are identical to EmbedText's: the length header carries
// no payload type, so nothing in buf says the message is a QR code. The
// reader has to know that out of band and call ExtractQRCode itself.
func (c *Codec) EmbedQRCode(buf *core.Buffer, content string) error {
	return c.embed(buf, []byte(content))
}

func (c *Codec) embed(buf *core.Buffer, payload []byte) error {
	log.Debug().
		Int("capacity_bytes", stego.Capacity(buf)).
		Int("payload_bytes", len(payload)).
		Msg("embedding")
	return stego.Encode(buf, payload)
}

// Extract recovers the message hidden in buf.
func (c *Codec) Extract(buf *core.Buffer) (*Result, error) {
	msg, err := stego.Extract(buf)
	if err != nil {
		return nil, err
	}
	return &Result{Message: msg}, nil
}

// ExtractQRCode recovers the message hidden in buf and renders it as a QR
// code PNG. When rendering fails the message is still returned.
func (c *Codec) ExtractQRCode(buf *core.Buffer) (*Result, error) {
	res, err := c.Extract(buf)
	if err != nil {
		return nil, err
	}
	qrPng, err := qrcode.Encode(res.Text(), c.QRLevel, c.QRSize)
	if err != nil {
		log.Warn().Err(err).Msg("failed to regenerate QR image")
		return res, nil
	}
	res.ImageBytes = qrPng
	return res, nil
}
