package impro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"impro/core"
)

// Analysis holds metrics comparing a cover buffer with a modified one.
type Analysis struct {
	MSE           float64 // mean squared error over all bytes
	PSNR          float64 // peak signal-to-noise ratio in dB, +Inf if identical
	MeanAbsDiff   float64
	StdDevAbsDiff float64
	MaxAbsDiff    float64
	ChangedBytes  int
}

// Compare measures how far b is from a. Both buffers must have the same
// dimensions.
func Compare(a, b *core.Buffer) (*Analysis, error) {
	if a.Width() != b.Width() || a.Height() != b.Height() || a.Channels() != b.Channels() {
		return nil, fmt.Errorf("%w: %v vs %v", ErrDimensionMismatch, a, b)
	}
	res := &Analysis{PSNR: math.Inf(1)}
	if a.Size() == 0 {
		return res, nil
	}

	abs := make([]float64, a.Size())
	sq := make([]float64, a.Size())
	pa, pb := a.Bytes(), b.Bytes()
	for i := range pa {
		d := math.Abs(float64(pa[i]) - float64(pb[i]))
		abs[i] = d
		sq[i] = d * d
		if d != 0 {
			res.ChangedBytes++
		}
	}

	res.MSE = stat.Mean(sq, nil)
	res.MeanAbsDiff, res.StdDevAbsDiff = stat.PopMeanStdDev(abs, nil)
	res.MaxAbsDiff = floats.Max(abs)
	if res.MSE > 0 {
		res.PSNR = 10 * math.Log10(255*255/res.MSE)
	}
	return res, nil
}

// ChiSquareLSB tests the balance of even and odd bytes in buf against a
// uniform split. A p-value close to 1 means the low bits look like random
// data, which is typical of a fully used LSB carrier.
func ChiSquareLSB(buf *core.Buffer) (chi, p float64) {
	if buf.Size() == 0 {
		return 0, 0
	}
	var odd int
	for _, v := range buf.Bytes() {
		odd += int(v & 1)
	}
	even := buf.Size() - odd
	expected := float64(buf.Size()) / 2

	chi = stat.ChiSquare(
		[]float64{float64(even), float64(odd)},
		[]float64{expected, expected},
	)
	p = distuv.ChiSquared{K: 1}.Survival(chi)
	return chi, p
}
