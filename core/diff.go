package core

// ClampByte saturates v into [0, 255].
func ClampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Diffmap replaces each byte of b inside the region both buffers share with
// the absolute difference against other. The region is the minimum of the
// two widths, heights and channel counts.
//
// Offsets are computed with b's width and channel count for both planes.
// When the widths or channel counts differ this walks other out of step with
// its own rows; existing difference maps depend on that layout, so it is kept.
// Offsets past the end of other's plane are skipped.
func (b *Buffer) Diffmap(other *Buffer) *Buffer {
	b.diff(other)
	return b
}

// DiffmapScale runs Diffmap and then stretches the result so that its peak
// maps to 255. The factor is 255 / max(1, scale, peak) in integer
// arithmetic, and it is applied to every byte of b, including bytes outside
// the compared region, with byte wraparound. A scale of 0 lets the observed
// peak alone pick the factor.
func (b *Buffer) DiffmapScale(other *Buffer, scale uint8) *Buffer {
	peak := b.diff(other)
	factor := uint8(255 / max(1, int(scale), int(peak)))
	for i := range b.pix {
		b.pix[i] *= factor
	}
	return b
}

// diff performs the in-place difference pass and returns the largest value
// it wrote.
func (b *Buffer) diff(other *Buffer) uint8 {
	cmpWidth := min(b.width, other.width)
	cmpHeight := min(b.height, other.height)
	cmpChannels := min(b.channels, other.channels)

	var peak uint8
	for i := 0; i < cmpHeight; i++ {
		for j := 0; j < cmpWidth; j++ {
			base := (i*b.width + j) * b.channels
			for k := 0; k < cmpChannels; k++ {
				off := base + k
				if off >= len(other.pix) {
					continue
				}
				d := int(b.pix[off]) - int(other.pix[off])
				if d < 0 {
					d = -d
				}
				v := ClampByte(d)
				b.pix[off] = v
				peak = max(peak, v)
			}
		}
	}
	return peak
}
