package motionbg

import (
	"errors"
	"time"
)

// Animation timing.
const (
	// SwitchDuration is the length of a phase switch.
	SwitchDuration = 500 * time.Millisecond
	// FastSwitchDuration is the length of a fast phase switch.
	FastSwitchDuration = 300 * time.Millisecond
	// PreviewDuration is the length of a full preview rotation.
	PreviewDuration = 2000 * time.Millisecond
	// PreviewBackDuration is the length of a backwards preview rotation.
	PreviewBackDuration = 1000 * time.Millisecond
	// IndeterminateLoop is one lap of the indeterminate animation at speed 1.
	IndeterminateLoop = 12 * time.Second

	// Frame deltas above maxFrameDelta (a stall or a resumed app) are treated
	// as one regular frame; deltas up to minFrameDelta are ignored.
	maxFrameDelta     = 20 * time.Millisecond
	regularFrameDelta = 17 * time.Millisecond
	minFrameDelta     = time.Millisecond
)

// ErrNoTarget is returned by NewAnimator for a nil target bitmap.
var ErrNoTarget = errors.New("motionbg: animator needs a target bitmap")

type animationMode int

const (
	modeSwitch animationMode = iota
	modePreview
	modeIndeterminate
)

// Animator drives phase switches over time and draws the current frame into
// a target bitmap.
//
// The animator is idle until SwitchToNext, SwitchToPrev, RotatePreview or
// SetIndeterminate starts an animation. Call Update once per display frame.
//
// Animator is not safe for concurrent use.
type Animator struct {
	target   *Bitmap
	renderer *Renderer
	gen      *FrameGenerator
	set      *FrameSet
	needSet  bool

	easing       CubicBezier
	progressFunc func() float32

	phase  int
	colors Palette

	mode         animationMode
	pos          float32 // linear animation position in [0, 1]
	progress     float32 // eased progress of the current frame
	fast         bool
	rotationBack bool
	linear       bool // skip easing until the running switch ends
	stage        int // last preview quarter entered
	speed        float32
	dirty        bool
}

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithFrameGenerator makes phase switches crossfade pre-rendered frame sets
// from g instead of rendering every frame. The animator does not close g.
func WithFrameGenerator(g *FrameGenerator) AnimatorOption {
	return func(a *Animator) {
		a.gen = g
	}
}

// WithEasing replaces DefaultEasing.
func WithEasing(e CubicBezier) AnimatorOption {
	return func(a *Animator) {
		a.easing = e
	}
}

// WithProgressFunc drives phase switches from fn instead of elapsed time.
// fn returns the linear switch position in [0, 1].
func WithProgressFunc(fn func() float32) AnimatorOption {
	return func(a *Animator) {
		a.progressFunc = fn
	}
}

// WithPhase sets the initial phase, clamped to [0, PhaseCount-1].
func WithPhase(phase int) AnimatorOption {
	return func(a *Animator) {
		a.phase = clampPhase(phase)
	}
}

// WithColors sets the initial palette.
func WithColors(p Palette) AnimatorOption {
	return func(a *Animator) {
		a.colors = p
	}
}

// WithRenderer replaces the renderer used for frames drawn directly.
func WithRenderer(r *Renderer) AnimatorOption {
	return func(a *Animator) {
		a.renderer = r
	}
}

// NewAnimator creates an idle animator drawing into target. The first Update
// draws the initial frame.
func NewAnimator(target *Bitmap, opts ...AnimatorOption) (*Animator, error) {
	if target == nil {
		return nil, ErrNoTarget
	}
	a := &Animator{
		target:   target,
		easing:   DefaultEasing,
		colors:   DefaultPalette,
		pos:      1,
		progress: 1,
		speed:    1,
		dirty:    true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.renderer == nil {
		a.renderer = NewRenderer()
	}
	return a, nil
}

// Phase returns the current phase.
func (a *Animator) Phase() int { return a.phase }

// Progress returns the eased progress of the current frame.
func (a *Animator) Progress() float32 { return a.progress }

// Colors returns the current palette.
func (a *Animator) Colors() Palette { return a.colors }

// Frame returns the frame the next draw produces.
func (a *Animator) Frame() Frame {
	return Frame{Phase: a.phase, Progress: a.progress, Colors: a.colors}
}

// Idle reports whether no switch or preview is running. An indeterminate
// animation is never idle.
func (a *Animator) Idle() bool {
	return a.mode != modeIndeterminate && a.pos >= 1
}

// SetPhase jumps to phase, clamped to [0, PhaseCount-1], keeping the current
// progress.
func (a *Animator) SetPhase(phase int) {
	a.phase = clampPhase(phase)
	a.dirty = true
}

// SetColors changes the palette. A pending frame set is discarded.
func (a *Animator) SetColors(p Palette) {
	if p == a.colors {
		return
	}
	a.colors = p
	a.dropSet()
	a.dirty = true
}

// SwitchToNext starts an animated switch to NextPhase. It does nothing and
// returns false unless the animator is idle.
func (a *Animator) SwitchToNext(fast bool) bool {
	if !a.Idle() {
		return false
	}
	a.mode = modeSwitch
	a.rotationBack = false
	a.linear = false
	a.fast = fast
	a.pos = 0
	a.phase = NextPhase(a.phase)
	a.needSet = true
	return true
}

// SwitchToPrev starts an animated switch back to PreviousPhase. It does
// nothing and returns false unless the animator is idle.
func (a *Animator) SwitchToPrev(fast bool) bool {
	if !a.Idle() {
		return false
	}
	a.mode = modeSwitch
	a.rotationBack = true
	a.linear = false
	a.fast = fast
	a.pos = 0
	a.needSet = true
	return true
}

// RotatePreview starts a half-ring rotation used to preview a palette: four
// quarters, each moving the stops by one phase. It returns false unless the
// animator is idle.
func (a *Animator) RotatePreview(back bool) bool {
	if !a.Idle() {
		return false
	}
	a.mode = modePreview
	a.rotationBack = back
	a.pos = 0
	a.stage = -1
	return true
}

// SetIndeterminate starts or stops the endless rotation. speed scales the
// lap rate; values <= 0 mean 1. Stopping lets the current phase finish
// linearly from its present progress instead of jumping to the end.
func (a *Animator) SetIndeterminate(enabled bool, speed float32) {
	if speed <= 0 {
		speed = 1
	}
	a.speed = speed
	switch {
	case enabled && a.mode != modeIndeterminate:
		a.mode = modeIndeterminate
		a.pos = 0
	case !enabled && a.mode == modeIndeterminate:
		a.mode = modeSwitch
		a.rotationBack = false
		a.fast = false
		a.linear = true
		a.pos = a.progress
	}
}

// Update advances the animation by dt and redraws the target when the frame
// changed. It reports whether the target was redrawn.
func (a *Animator) Update(dt time.Duration) (bool, error) {
	if dt > maxFrameDelta {
		dt = regularFrameDelta
	}
	if dt <= minFrameDelta && !a.dirty {
		return false, nil
	}

	var changed bool
	switch a.mode {
	case modeIndeterminate:
		changed = a.stepIndeterminate(dt)
	case modePreview:
		changed = a.stepPreview(dt)
	default:
		changed = a.stepSwitch(dt)
	}
	if !changed && !a.dirty {
		return false, nil
	}
	a.dirty = false

	if err := a.draw(); err != nil {
		return false, err
	}
	return true, nil
}

// Close returns any frame set to its generator.
func (a *Animator) Close() {
	a.dropSet()
}

func (a *Animator) stepSwitch(dt time.Duration) bool {
	if a.pos >= 1 {
		return false
	}

	if a.progressFunc != nil && !a.linear {
		a.pos = clamp01(a.progressFunc())
	} else {
		d := SwitchDuration
		if a.fast {
			d = FastSwitchDuration
		}
		a.pos = min(1, a.pos+float32(dt)/float32(d))
	}

	if a.linear {
		a.progress = a.pos
		a.linear = a.pos < 1
		return true
	}

	a.progress = a.easing.Ease(a.pos)
	if a.rotationBack {
		a.progress = 1 - a.progress
		if a.pos >= 1 {
			a.phase = PreviousPhase(a.phase)
			a.progress = 1
		}
	}
	return true
}

func (a *Animator) stepPreview(dt time.Duration) bool {
	if a.pos >= 1 {
		return false
	}

	d := PreviewDuration
	if a.rotationBack {
		d = PreviewBackDuration
	}
	a.pos = min(1, a.pos+float32(dt)/float32(d))
	eased := a.easing.Ease(a.pos)

	q := quarter(eased)
	for a.stage < q {
		a.stage++
		switch {
		case !a.rotationBack:
			a.phase = NextPhase(a.phase)
		case a.stage > 0:
			a.phase = PreviousPhase(a.phase)
		}
	}

	local := clamp01((eased - float32(q)*0.25) / 0.25)
	if a.rotationBack {
		local = 1 - local
		if a.pos >= 1 {
			a.phase = PreviousPhase(a.phase)
			local = 1
		}
	}
	a.progress = local
	return true
}

func (a *Animator) stepIndeterminate(dt time.Duration) bool {
	lap := float32(IndeterminateLoop) / a.speed
	a.pos += float32(dt) / lap
	for a.pos >= 1 {
		a.pos--
	}

	const perPhase = float32(1) / PhaseCount
	phase := min(int(a.pos/perPhase), PhaseCount-1)
	a.phase = phase
	a.progress = clamp01(1 - (a.pos-float32(phase)*perPhase)/perPhase)
	return true
}

// quarter returns the quarter of the preview rotation eased progress p is
// in. Entering a quarter steps the phase by one.
func quarter(p float32) int {
	return max(0, min(3, int(p*4)))
}

// draw writes the current frame into the target, crossfading the frame set
// when one matches the current phase and colors.
func (a *Animator) draw() error {
	f := a.Frame()

	if a.mode == modeSwitch && a.gen != nil {
		if a.needSet {
			a.needSet = false
			a.dropSet()
			set, err := a.gen.Generate(a.target.Width(), a.target.Height(), a.phase, a.colors)
			if err != nil {
				return err
			}
			a.set = set
		}
		if a.set.Matches(f.Phase, f.Colors) &&
			a.set.Width() == a.target.Width() && a.set.Height() == a.target.Height() {
			return a.set.Compose(a.target, f.Progress)
		}
	}
	return a.renderer.Render(a.target, true, f)
}

func (a *Animator) dropSet() {
	if a.set != nil && a.gen != nil {
		a.gen.Release(a.set)
	}
	a.set = nil
}

func clampPhase(phase int) int {
	return max(0, min(PhaseCount-1, phase))
}
