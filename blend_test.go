package motionbg

import (
	"math"
	"testing"
)

func TestWeight(t *testing.T) {
	tests := []struct {
		d, want float32
	}{
		{0, 0.6561},
		{0.4, 0.0625},
		{0.9, 0},
		{1.2, 0},
	}
	for _, tt := range tests {
		if got := Weight(tt.d); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Weight(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
	if math.Abs(float64(Weight(0)-MaxWeight)) > 1e-6 {
		t.Errorf("Weight(0) = %v, want MaxWeight %v", Weight(0), MaxWeight)
	}
}

func TestWeight_Monotonic(t *testing.T) {
	prev := Weight(0)
	for d := float32(0.01); d < 1; d += 0.01 {
		w := Weight(d)
		if w > prev {
			t.Fatalf("Weight(%v) = %v > Weight at smaller distance %v", d, w, prev)
		}
		prev = w
	}
}

func TestBlender_SingleStopReached(t *testing.T) {
	// Only stop 0 is within reach of (0, 0); the result is its color.
	colors := Palette{RGB(255, 0, 255), RGB(0, 255, 0), RGB(0, 0, 255), {}}
	stops := PhaseStops{Pt(0, 0), Pt(1, 1), Pt(1, 1), Pt(1, 1)}
	b := newBlender(colors, colors.StopCount(), stops)

	r, g, bl, ok := b.shade(Pt(0, 0))
	if !ok {
		t.Fatal("shade() reported no stop in reach")
	}
	if r != 255 || g != 0 || bl != 255 {
		t.Errorf("shade() = (%d, %d, %d), want (255, 0, 255)", r, g, bl)
	}
}

func TestBlender_EqualWeights(t *testing.T) {
	// A point equidistant from two stops gets their mean, truncated.
	colors := Palette{RGB(255, 0, 10), RGB(0, 255, 11), RGB(0, 0, 0), {}}
	stops := PhaseStops{Pt(0.4, 0.5), Pt(0.6, 0.5), Pt(5, 5), Pt(5, 5)}
	b := newBlender(colors, 3, stops)

	r, g, bl, ok := b.shade(Pt(0.5, 0.5))
	if !ok {
		t.Fatal("shade() reported no stop in reach")
	}
	if r != 127 || g != 127 || bl != 10 {
		t.Errorf("shade() = (%d, %d, %d), want (127, 127, 10)", r, g, bl)
	}
}

func TestBlender_ThreeStopIgnoresFourth(t *testing.T) {
	three := Palette{RGB(90, 0, 0), RGB(0, 90, 0), RGB(0, 0, 90), {}}
	stops := PhaseStops{Pt(0.2, 0.2), Pt(0.8, 0.2), Pt(0.5, 0.8), Pt(0.5, 0.5)}

	b := newBlender(three, three.StopCount(), stops)
	r, g, bl, _ := b.shade(Pt(0.5, 0.5))

	// With a black fourth stop at the sample point the result darkens.
	four := three
	four[3] = RGB(0, 0, 0)
	b4 := newBlender(four, four.StopCount(), stops)
	r4, g4, bl4, _ := b4.shade(Pt(0.5, 0.5))

	if int(r4)+int(g4)+int(bl4) >= int(r)+int(g)+int(bl) {
		t.Errorf("4-stop (%d,%d,%d) should be darker than 3-stop (%d,%d,%d)", r4, g4, bl4, r, g, bl)
	}
}

func TestBlender_ZeroWeightFallback(t *testing.T) {
	colors := Palette{RGB(30, 60, 90), RGB(60, 90, 120), RGB(90, 120, 150), RGB(0, 0, 0)}
	stops := PhaseStops{Pt(5, 5), Pt(5, 5), Pt(5, 5), Pt(5, 5)}
	b := newBlender(colors, 4, stops)

	r, g, bl, ok := b.shade(Pt(0, 0))
	if ok {
		t.Error("shade() reported a stop in reach")
	}
	if r != 45 || g != 67 || bl != 90 {
		t.Errorf("fallback = (%d, %d, %d), want (45, 67, 90)", r, g, bl)
	}
}

func TestChannel(t *testing.T) {
	tests := []struct {
		v    float32
		want uint8
	}{
		{-0.5, 0}, {0, 0}, {0.5, 127}, {1, 255}, {1.5, 255},
	}
	for _, tt := range tests {
		if got := channel(tt.v); got != tt.want {
			t.Errorf("channel(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
