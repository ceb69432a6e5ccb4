package motionbg

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

const frameDelta = 17 * time.Millisecond

func newTestAnimator(t *testing.T, opts ...AnimatorOption) (*Animator, *Bitmap) {
	t.Helper()
	bm, err := NewBitmap(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewAnimator(bm, opts...)
	if err != nil {
		t.Fatalf("NewAnimator() error: %v", err)
	}
	t.Cleanup(a.Close)
	return a, bm
}

// run calls Update n times with a regular frame delta.
func run(t *testing.T, a *Animator, n int) {
	t.Helper()
	for range n {
		if _, err := a.Update(frameDelta); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
	}
}

func TestNewAnimator_NilTarget(t *testing.T) {
	if _, err := NewAnimator(nil); !errors.Is(err, ErrNoTarget) {
		t.Errorf("NewAnimator(nil) error = %v, want ErrNoTarget", err)
	}
}

func TestAnimator_InitialDraw(t *testing.T) {
	a, bm := newTestAnimator(t, WithPhase(3))

	drawn, err := a.Update(0)
	if err != nil || !drawn {
		t.Fatalf("first Update() = %v, %v; want true, nil", drawn, err)
	}
	if !bytes.Equal(bm.Pix(), renderFrame(t, 8, 8, Frame{Phase: 3, Progress: 1, Colors: DefaultPalette})) {
		t.Error("initial frame differs from a direct render")
	}

	drawn, _ = a.Update(frameDelta)
	if drawn {
		t.Error("idle animator redrew without changes")
	}
	if !a.Idle() {
		t.Error("new animator should be idle")
	}
}

func TestAnimator_SetPhaseClamps(t *testing.T) {
	a, _ := newTestAnimator(t)
	a.SetPhase(12)
	if a.Phase() != PhaseCount-1 {
		t.Errorf("SetPhase(12) -> %d, want %d", a.Phase(), PhaseCount-1)
	}
	a.SetPhase(-3)
	if a.Phase() != 0 {
		t.Errorf("SetPhase(-3) -> %d, want 0", a.Phase())
	}
	if drawn, _ := a.Update(0); !drawn {
		t.Error("SetPhase should schedule a redraw")
	}
}

func TestAnimator_SwitchToNext(t *testing.T) {
	a, bm := newTestAnimator(t, WithPhase(0))
	run(t, a, 1)

	if !a.SwitchToNext(false) {
		t.Fatal("SwitchToNext() on idle animator returned false")
	}
	if a.Phase() != 7 {
		t.Errorf("Phase() = %d, want 7", a.Phase())
	}
	if a.SwitchToNext(false) {
		t.Error("SwitchToNext() during a switch should be ignored")
	}

	run(t, a, 10)
	if a.Idle() {
		t.Fatal("switch finished too early")
	}
	if p := a.Progress(); p <= 0 || p >= 1 {
		t.Errorf("mid-switch Progress() = %v", p)
	}

	run(t, a, 20)
	if !a.Idle() || a.Progress() != 1 {
		t.Errorf("after 510ms: Idle() = %v, Progress() = %v", a.Idle(), a.Progress())
	}
	if !bytes.Equal(bm.Pix(), renderFrame(t, 8, 8, Frame{Phase: 7, Progress: 1, Colors: DefaultPalette})) {
		t.Error("final frame differs from a direct render of the new phase")
	}
}

func TestAnimator_FastSwitch(t *testing.T) {
	a, _ := newTestAnimator(t)
	a.SwitchToNext(true)
	run(t, a, 18)
	if !a.Idle() {
		t.Error("fast switch should finish within 306ms")
	}
}

func TestAnimator_LongDeltaClamped(t *testing.T) {
	a, _ := newTestAnimator(t)
	a.SwitchToNext(false)

	if _, err := a.Update(time.Second); err != nil {
		t.Fatal(err)
	}
	if a.Idle() {
		t.Error("a stalled frame should advance by one regular frame, not finish the switch")
	}

	before := a.Progress()
	if drawn, _ := a.Update(time.Millisecond); drawn {
		t.Error("sub-millisecond delta should be skipped")
	}
	if a.Progress() != before {
		t.Error("skipped update changed progress")
	}
}

func TestAnimator_SwitchToPrev(t *testing.T) {
	a, bm := newTestAnimator(t, WithPhase(5))
	run(t, a, 1)

	if !a.SwitchToPrev(false) {
		t.Fatal("SwitchToPrev() on idle animator returned false")
	}
	run(t, a, 5)
	if a.Phase() != 5 {
		t.Errorf("phase changed mid-switch: %d", a.Phase())
	}
	if p := a.Progress(); p >= 1 {
		t.Errorf("mid-switch Progress() = %v, want < 1", p)
	}

	run(t, a, 30)
	if a.Phase() != 6 || a.Progress() != 1 {
		t.Errorf("after switch back: phase %d progress %v, want 6 and 1", a.Phase(), a.Progress())
	}
	if !bytes.Equal(bm.Pix(), renderFrame(t, 8, 8, Frame{Phase: 6, Progress: 1, Colors: DefaultPalette})) {
		t.Error("final frame differs from a direct render")
	}
}

func TestAnimator_RotatePreview(t *testing.T) {
	tests := []struct {
		name   string
		back   bool
		frames int
		want   int
	}{
		{"forward", false, 121, -3},
		{"back", true, 61, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAnimator(t, WithPhase(1))
			if !a.RotatePreview(tt.back) {
				t.Fatal("RotatePreview() on idle animator returned false")
			}
			if a.SwitchToNext(false) {
				t.Error("SwitchToNext() during preview should be ignored")
			}
			run(t, a, tt.frames)
			if !a.Idle() {
				t.Fatal("preview did not finish")
			}
			if a.Phase() != WrapPhase(tt.want) || a.Progress() != 1 {
				t.Errorf("phase %d progress %v, want %d and 1", a.Phase(), a.Progress(), WrapPhase(tt.want))
			}
		})
	}
}

func TestAnimator_Indeterminate(t *testing.T) {
	a, _ := newTestAnimator(t, WithPhase(6))
	a.SetIndeterminate(true, 1)
	if a.Idle() {
		t.Error("indeterminate animation should not be idle")
	}
	if a.SwitchToNext(false) {
		t.Error("SwitchToNext() should be ignored while indeterminate")
	}

	// One phase lasts 1.5s at speed 1.
	run(t, a, 89)
	if a.Phase() != 1 {
		t.Errorf("after 1513ms Phase() = %d, want 1", a.Phase())
	}
	if p := a.Progress(); p < 0.9 {
		t.Errorf("Progress() = %v right after the phase boundary, want near 1", p)
	}

	a.SetIndeterminate(false, 0)
	if a.Idle() {
		t.Error("stopping should let the current phase finish")
	}
}

func TestAnimator_IndeterminateStopFinishesPhase(t *testing.T) {
	a, _ := newTestAnimator(t)
	a.SetIndeterminate(true, 1)

	// Halfway through the first phase slot.
	run(t, a, 45)
	stopped := a.Progress()
	if a.Phase() != 0 || stopped < 0.4 || stopped > 0.6 {
		t.Fatalf("before stop: Phase() = %d, Progress() = %v", a.Phase(), stopped)
	}

	a.SetIndeterminate(false, 1)
	run(t, a, 1)
	step := float32(frameDelta) / float32(SwitchDuration)
	if got, want := a.Progress(), stopped+step; abs32(got-want) > 1e-4 {
		t.Errorf("first frame after stop Progress() = %v, want linear %v", got, want)
	}
	if a.Idle() || a.Phase() != 0 {
		t.Errorf("after stop: Idle() = %v, Phase() = %d", a.Idle(), a.Phase())
	}

	run(t, a, 30)
	if !a.Idle() || a.Progress() != 1 || a.Phase() != 0 {
		t.Errorf("finished: Idle() = %v, Progress() = %v, Phase() = %d", a.Idle(), a.Progress(), a.Phase())
	}
	if !a.SwitchToNext(false) {
		t.Error("SwitchToNext() should start once the stop finished")
	}
}

func TestAnimator_IndeterminateSpeed(t *testing.T) {
	a, _ := newTestAnimator(t)
	a.SetIndeterminate(true, 2)
	run(t, a, 45)
	if a.Phase() != 1 {
		t.Errorf("at speed 2 after 765ms Phase() = %d, want 1", a.Phase())
	}
}

func TestAnimator_ProgressFunc(t *testing.T) {
	pos := float32(0.5)
	a, _ := newTestAnimator(t, WithProgressFunc(func() float32 { return pos }))
	a.SwitchToNext(false)

	run(t, a, 1)
	if got, want := a.Progress(), DefaultEasing.Ease(0.5); got != want {
		t.Errorf("Progress() = %v, want %v", got, want)
	}

	pos = 1
	run(t, a, 1)
	if !a.Idle() {
		t.Error("switch should finish when the progress func reaches 1")
	}
}

func TestAnimator_SetColorsRedraws(t *testing.T) {
	a, bm := newTestAnimator(t)
	run(t, a, 1)
	before := bytes.Clone(bm.Pix())

	p := Palette{RGB(10, 20, 30), RGB(200, 50, 80), RGB(30, 160, 90), {}}
	a.SetColors(p)
	drawn, err := a.Update(frameDelta)
	if err != nil || !drawn {
		t.Fatalf("Update() after SetColors = %v, %v", drawn, err)
	}
	if bytes.Equal(before, bm.Pix()) {
		t.Error("palette change did not change the image")
	}
	if a.Colors() != p || a.Frame().Colors != p {
		t.Error("Colors() does not report the new palette")
	}
}

func TestAnimator_WithFrameGenerator(t *testing.T) {
	g := NewFrameGenerator(2)
	defer g.Close()

	a, bm := newTestAnimator(t, WithFrameGenerator(g), WithPhase(2))
	run(t, a, 1)
	a.SwitchToNext(false)

	run(t, a, 3)
	if a.set == nil || !a.set.Matches(1, DefaultPalette) {
		t.Fatal("switch did not generate a frame set for the new phase")
	}
	mid := bytes.Clone(bm.Pix())

	run(t, a, 30)
	want := renderFrame(t, 8, 8, Frame{Phase: 1, Progress: 1, Colors: DefaultPalette})
	if !bytes.Equal(bm.Pix(), want) {
		t.Error("final composed frame differs from a direct render")
	}
	if bytes.Equal(mid, want) {
		t.Error("mid-switch frame should differ from the final frame")
	}
	if g.CacheStats().Rebuilds == 0 {
		t.Error("generator rendered no frames")
	}
}

func TestAnimator_BusyTarget(t *testing.T) {
	a, bm := newTestAnimator(t)
	_, _ = bm.Lock()

	if _, err := a.Update(frameDelta); !errors.Is(err, ErrBufferLocked) {
		t.Errorf("Update() on locked target error = %v, want ErrBufferLocked", err)
	}
}
