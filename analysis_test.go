package impro

import (
	"errors"
	"math"
	"testing"

	"impro/core"
	"impro/stego"
)

func TestCompare(t *testing.T) {
	a, _ := core.FromBytes(2, 1, 1, []uint8{0, 0})
	b, _ := core.FromBytes(2, 1, 1, []uint8{3, 1})

	res, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if res.MSE != 5 {
		t.Errorf("MSE: got %v, want 5", res.MSE)
	}
	if want := 10 * math.Log10(255*255/5.0); math.Abs(res.PSNR-want) > 1e-9 {
		t.Errorf("PSNR: got %v, want %v", res.PSNR, want)
	}
	if res.MeanAbsDiff != 2 || res.StdDevAbsDiff != 1 || res.MaxAbsDiff != 3 {
		t.Errorf("abs diff stats: got mean=%v std=%v max=%v, want 2, 1, 3",
			res.MeanAbsDiff, res.StdDevAbsDiff, res.MaxAbsDiff)
	}
	if res.ChangedBytes != 2 {
		t.Errorf("ChangedBytes: got %d, want 2", res.ChangedBytes)
	}
}

func TestCompare_Identical(t *testing.T) {
	a := makeTestBuffer(t, 8, 8, 3)
	res, err := Compare(a, a.Clone())
	if err != nil {
		t.Fatal(err)
	}
	if res.MSE != 0 || !math.IsInf(res.PSNR, 1) || res.ChangedBytes != 0 {
		t.Errorf("got %+v, want zero error and infinite PSNR", res)
	}
}

func TestCompare_EmbeddingIsQuiet(t *testing.T) {
	cover := makeTestBuffer(t, 32, 32, 3)
	stegoBuf := cover.Clone()
	if err := stego.Encode(stegoBuf, []byte("a short secret")); err != nil {
		t.Fatal(err)
	}
	res, err := Compare(cover, stegoBuf)
	if err != nil {
		t.Fatal(err)
	}
	if res.MaxAbsDiff > 1 {
		t.Errorf("MaxAbsDiff: got %v, want <= 1", res.MaxAbsDiff)
	}
	if res.PSNR < 50 {
		t.Errorf("PSNR: got %v dB, want >= 50", res.PSNR)
	}
}

func TestCompare_DimensionMismatch(t *testing.T) {
	a, _ := core.New(2, 2, 3)
	b, _ := core.New(2, 2, 4)
	if _, err := Compare(a, b); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestChiSquareLSB(t *testing.T) {
	balanced, _ := core.FromBytes(4, 1, 1, []uint8{2, 3, 4, 5})
	chi, p := ChiSquareLSB(balanced)
	if chi != 0 || math.Abs(p-1) > 1e-12 {
		t.Errorf("balanced: got chi=%v p=%v, want 0 and 1", chi, p)
	}

	even, _ := core.FromBytes(100, 1, 1, make([]uint8, 100))
	chi, p = ChiSquareLSB(even)
	if chi != 100 {
		t.Errorf("all even: got chi=%v, want 100", chi)
	}
	if p > 1e-6 {
		t.Errorf("all even: got p=%v, want ~0", p)
	}

	empty, _ := core.New(0, 0, 3)
	if chi, p := ChiSquareLSB(empty); chi != 0 || p != 0 {
		t.Errorf("empty: got chi=%v p=%v", chi, p)
	}
}
