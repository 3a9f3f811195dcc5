package impro

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"impro/core"
)

// FromImage copies src into a pixel buffer with the channel count the file
// would naturally carry: 1 for gray images, 3 for opaque colour images and
// 4 otherwise.
func FromImage(src image.Image) (*core.Buffer, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	rect := image.Rect(0, 0, w, h)

	switch m := src.(type) {
	case *image.Gray:
		return core.FromBytes(w, h, 1, packRows(m.Pix, m.Stride, w, h, 1, m.PixOffset(b.Min.X, b.Min.Y)))
	case *image.Gray16:
		gray := image.NewGray(rect)
		draw.Draw(gray, rect, src, b.Min, draw.Src)
		return core.FromBytes(w, h, 1, gray.Pix)
	case *image.NRGBA:
		pix := packRows(m.Pix, m.Stride, w, h, 4, m.PixOffset(b.Min.X, b.Min.Y))
		if m.Opaque() {
			return core.FromBytes(w, h, 3, dropAlpha(pix))
		}
		return core.FromBytes(w, h, 4, pix)
	case *image.RGBA:
		if m.Opaque() {
			pix := packRows(m.Pix, m.Stride, w, h, 4, m.PixOffset(b.Min.X, b.Min.Y))
			return core.FromBytes(w, h, 3, dropAlpha(pix))
		}
	}

	// Everything else goes through the generic colour model conversion.
	nrgba := image.NewNRGBA(rect)
	draw.Draw(nrgba, rect, src, b.Min, draw.Src)
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return core.FromBytes(w, h, 3, dropAlpha(nrgba.Pix))
	}
	return core.FromBytes(w, h, 4, nrgba.Pix)
}

// packRows copies the visible rows of a strided plane into a tight one.
func packRows(pix []uint8, stride, w, h, bpp, start int) []uint8 {
	out := make([]uint8, w*h*bpp)
	row := w * bpp
	for y := 0; y < h; y++ {
		s := start + y*stride
		copy(out[y*row:(y+1)*row], pix[s:s+row])
	}
	return out
}

func dropAlpha(rgba []uint8) []uint8 {
	out := make([]uint8, len(rgba)/4*3)
	for i, j := 0, 0; i+4 <= len(rgba); i, j = i+4, j+3 {
		out[j], out[j+1], out[j+2] = rgba[i], rgba[i+1], rgba[i+2]
	}
	return out
}

// ToImage copies buf into an image.Image suitable for the standard encoders.
func ToImage(buf *core.Buffer) (image.Image, error) {
	w, h := buf.Width(), buf.Height()
	rect := image.Rect(0, 0, w, h)
	pix := buf.Bytes()

	switch buf.Channels() {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, pix)
		return img, nil
	case 2:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i+2 <= len(pix); i, j = i+2, j+4 {
			g, a := pix[i], pix[i+1]
			img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = g, g, g, a
		}
		return img, nil
	case 3:
		img := image.NewRGBA(rect)
		for i, j := 0, 0; i+3 <= len(pix); i, j = i+3, j+4 {
			img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = pix[i], pix[i+1], pix[i+2], 0xFF
		}
		return img, nil
	case 4:
		img := image.NewNRGBA(rect)
		copy(img.Pix, pix)
		return img, nil
	}
	return nil, fmt.Errorf("%w: %d", core.ErrUnsupportedChannelCount, buf.Channels())
}
