package impro

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"impro/core"
)

// Uncompressed Truevision TGA.
const (
	tgaHeaderSize = 18

	tgaTrueColor = 2
	tgaGray      = 3

	tgaTopLeft = 0x20
)

var errTGA = errors.New("tga: unsupported file")

type tgaHeader struct {
	IDLength     uint8
	ColorMapType uint8
	ImageType    uint8
	ColorMap     [5]uint8
	XOrigin      uint16
	YOrigin      uint16
	Width        uint16
	Height       uint16
	Depth        uint8
	Descriptor   uint8
}

// writeTGA writes buf as an uncompressed TGA with bottom-left origin. Gray
// and gray+alpha buffers become type 3 images, RGB and RGBA type 2.
func writeTGA(w io.Writer, buf *core.Buffer) error {
	if err := checkTGA(buf); err != nil {
		return err
	}
	c := buf.Channels()

	hasAlpha := c == 2 || c == 4
	hdr := tgaHeader{
		ImageType: tgaTrueColor,
		Width:     uint16(buf.Width()),
		Height:    uint16(buf.Height()),
		Depth:     uint8(c * 8),
	}
	if c < 3 {
		hdr.ImageType = tgaGray
	}
	if hasAlpha {
		hdr.Descriptor = 8
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}

	row := make([]uint8, buf.Width()*c)
	for y := buf.Height() - 1; y >= 0; y-- {
		src := buf.Bytes()[y*len(row) : (y+1)*len(row)]
		copy(row, src)
		if c >= 3 {
			swapRB(row, c)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// checkTGA reports whether buf can be stored as a TGA file.
func checkTGA(buf *core.Buffer) error {
	if c := buf.Channels(); c < 1 || c > 4 {
		return fmt.Errorf("%w: %d", core.ErrUnsupportedChannelCount, c)
	}
	if buf.Width() > 0xFFFF || buf.Height() > 0xFFFF {
		return fmt.Errorf("tga: %dx%d exceeds 65535x65535", buf.Width(), buf.Height())
	}
	return nil
}

// readTGA decodes an uncompressed type 2 or type 3 TGA.
func readTGA(r io.Reader) (*core.Buffer, error) {
	var hdr tgaHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("tga: header: %w", err)
	}
	if hdr.ColorMapType != 0 {
		return nil, fmt.Errorf("%w: colour-mapped", errTGA)
	}

	var c int
	switch {
	case hdr.ImageType == tgaTrueColor && (hdr.Depth == 24 || hdr.Depth == 32):
		c = int(hdr.Depth / 8)
	case hdr.ImageType == tgaGray && (hdr.Depth == 8 || hdr.Depth == 16):
		c = int(hdr.Depth / 8)
	default:
		return nil, fmt.Errorf("%w: type %d, %d bpp", errTGA, hdr.ImageType, hdr.Depth)
	}

	if _, err := io.CopyN(io.Discard, r, int64(hdr.IDLength)); err != nil {
		return nil, fmt.Errorf("tga: image id: %w", err)
	}

	buf, err := core.New(int(hdr.Width), int(hdr.Height), c)
	if err != nil {
		return nil, err
	}
	stride := buf.Width() * c
	for i := 0; i < buf.Height(); i++ {
		y := buf.Height() - 1 - i
		if hdr.Descriptor&tgaTopLeft != 0 {
			y = i
		}
		row := buf.Bytes()[y*stride : (y+1)*stride]
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("tga: row %d: %w", i, err)
		}
		if c >= 3 {
			swapRB(row, c)
		}
	}
	return buf, nil
}

// swapRB converts between RGB(A) and the BGR(A) order TGA stores.
func swapRB(row []uint8, c int) {
	for i := 0; i+c <= len(row); i += c {
		row[i], row[i+2] = row[i+2], row[i]
	}
}
