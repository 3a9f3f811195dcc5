package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClampByte(t *testing.T) {
	for in, want := range map[int]uint8{-5: 0, 0: 0, 128: 128, 255: 255, 300: 255} {
		if got := ClampByte(in); got != want {
			t.Errorf("ClampByte(%d): got %d, want %d", in, got, want)
		}
	}
}

func TestDiffmap_Self(t *testing.T) {
	b := mustBuffer(t, 2, 2, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	b.Diffmap(b.Clone())
	if diff := cmp.Diff(make([]uint8, 12), b.Bytes()); diff != "" {
		t.Errorf("bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffmap_AgainstWhite(t *testing.T) {
	in := []uint8{0, 17, 100, 200, 254, 255}
	b := mustBuffer(t, 2, 1, 3, append([]uint8(nil), in...)...)
	white := mustBuffer(t, 2, 1, 3, 255, 255, 255, 255, 255, 255)

	b.Diffmap(white)
	for i, v := range b.Bytes() {
		if want := 255 - in[i]; v != want {
			t.Errorf("byte %d: got %d, want %d", i, v, want)
		}
	}
}

func TestDiffmap_ShiftedScenario(t *testing.T) {
	orig := []uint8{10, 20, 30, 200, 210, 220}
	shifted := make([]uint8, len(orig))
	for i, v := range orig {
		shifted[i] = v + 5
	}

	b := mustBuffer(t, 2, 1, 3, append([]uint8(nil), orig...)...)
	other := mustBuffer(t, 2, 1, 3, shifted...)
	b.Diffmap(other)
	if diff := cmp.Diff([]uint8{5, 5, 5, 5, 5, 5}, b.Bytes()); diff != "" {
		t.Errorf("Diffmap mismatch (-want +got):\n%s", diff)
	}

	b = mustBuffer(t, 2, 1, 3, append([]uint8(nil), orig...)...)
	b.DiffmapScale(other, 0)
	if diff := cmp.Diff([]uint8{255, 255, 255, 255, 255, 255}, b.Bytes()); diff != "" {
		t.Errorf("DiffmapScale mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffmap_RegionAndStride(t *testing.T) {
	for _, tc := range []struct {
		name string
		a, b *Buffer
		want []uint8
	}{
		{
			// Only the first channel is compared.
			name: "channels",
			a:    mustBuffer(t, 1, 1, 3, 50, 60, 70),
			b:    mustBuffer(t, 1, 1, 1, 40),
			want: []uint8{10, 60, 70},
		},
		{
			// Row 1 of a is compared against byte 2 of b, which is b's
			// third row, because a's width is the stride for both.
			name: "width",
			a:    mustBuffer(t, 2, 2, 1, 9, 9, 9, 9),
			b:    mustBuffer(t, 1, 3, 1, 4, 1, 2),
			want: []uint8{5, 9, 7, 9},
		},
		{
			// Offsets past the end of b are left alone.
			name: "short",
			a:    mustBuffer(t, 2, 2, 1, 9, 9, 9, 9),
			b:    mustBuffer(t, 1, 2, 1, 4, 1),
			want: []uint8{5, 9, 9, 9},
		},
		{
			name: "smaller_b",
			a:    mustBuffer(t, 2, 2, 1, 9, 9, 9, 9),
			b:    mustBuffer(t, 1, 1, 1, 3),
			want: []uint8{6, 9, 9, 9},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.a.Diffmap(tc.b)
			if diff := cmp.Diff(tc.want, tc.a.Bytes()); diff != "" {
				t.Errorf("bytes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffmapScale(t *testing.T) {
	for _, tc := range []struct {
		name  string
		a, b  *Buffer
		scale uint8
		want  []uint8
	}{
		{
			name: "peak",
			a:    mustBuffer(t, 1, 1, 3, 0, 10, 20),
			b:    mustBuffer(t, 1, 1, 3, 0, 0, 0),
			want: []uint8{0, 120, 240}, // factor 255/20 = 12
		},
		{
			name:  "hint_above_peak",
			a:     mustBuffer(t, 1, 1, 3, 0, 10, 20),
			b:     mustBuffer(t, 1, 1, 3, 0, 0, 0),
			scale: 40,
			want:  []uint8{0, 60, 120}, // factor 255/40 = 6
		},
		{
			name:  "hint_below_peak",
			a:     mustBuffer(t, 1, 1, 3, 0, 10, 20),
			b:     mustBuffer(t, 1, 1, 3, 0, 0, 0),
			scale: 2,
			want:  []uint8{0, 120, 240},
		},
		{
			// Bytes outside the compared region are scaled too, and wrap.
			name: "whole_buffer",
			a:    mustBuffer(t, 2, 1, 3, 10, 10, 10, 7, 7, 7),
			b:    mustBuffer(t, 1, 1, 3, 5, 5, 5),
			want: []uint8{255, 255, 255, 101, 101, 101}, // 7*51 = 357
		},
		{
			name: "identical",
			a:    mustBuffer(t, 1, 1, 3, 8, 8, 8),
			b:    mustBuffer(t, 1, 1, 3, 8, 8, 8),
			want: []uint8{0, 0, 0},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.DiffmapScale(tc.b, tc.scale); got != tc.a {
				t.Error("DiffmapScale should return its receiver")
			}
			if diff := cmp.Diff(tc.want, tc.a.Bytes()); diff != "" {
				t.Errorf("bytes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffmapScale_PeakSaturates(t *testing.T) {
	a := mustBuffer(t, 4, 1, 1, 0, 3, 17, 85)
	b := mustBuffer(t, 4, 1, 1, 0, 0, 0, 0)
	a.DiffmapScale(b, 0)
	var peak uint8
	for _, v := range a.Bytes() {
		peak = max(peak, v)
	}
	if peak != 255 {
		t.Errorf("peak after rescale: got %d, want 255", peak)
	}
}
