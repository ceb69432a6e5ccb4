package motionbg

// PhaseCount is the number of anchor positions on the ring and therefore the
// number of distinct animation phases.
const PhaseCount = 8

// StopCount is the maximum number of active color stops.
const StopCount = 4

// AnchorSet is the ring of normalized positions color stops move between.
type AnchorSet [PhaseCount]Point

// PhaseStops holds the positions of the four color stops for one phase.
type PhaseStops [StopCount]Point

// Anchors is the fixed anchor ring. Y is stored bottom-up; SelectStops flips it.
var Anchors = AnchorSet{
	{X: 0.80, Y: 0.10},
	{X: 0.60, Y: 0.20},
	{X: 0.35, Y: 0.25},
	{X: 0.25, Y: 0.60},
	{X: 0.20, Y: 0.90},
	{X: 0.40, Y: 0.80},
	{X: 0.65, Y: 0.75},
	{X: 0.75, Y: 0.40},
}

// WrapPhase maps any phase, including negative ones, into [0, PhaseCount).
func WrapPhase(phase int) int {
	phase %= PhaseCount
	if phase < 0 {
		phase += PhaseCount
	}
	return phase
}

// PreviousPhase returns the phase the animation comes from when it moves to
// phase. Forward animation decrements the phase, so this is phase+1.
func PreviousPhase(phase int) int {
	return WrapPhase(phase + 1)
}

// NextPhase returns the phase that follows phase in forward animation.
func NextPhase(phase int) int {
	return WrapPhase(phase - 1)
}

// SelectStops picks every other anchor starting at phase and mirrors each
// vertically. Stepping phase by one rotates all four stops along the ring.
func SelectStops(anchors AnchorSet, phase int) PhaseStops {
	var stops PhaseStops
	for i := range stops {
		a := anchors[WrapPhase(phase+i*2)]
		stops[i] = Point{X: a.X, Y: 1 - a.Y}
	}
	return stops
}

// LerpStops interpolates every stop between prev (t=0) and cur (t=1).
func LerpStops(prev, cur PhaseStops, t float32) PhaseStops {
	var out PhaseStops
	for i := range out {
		out[i] = prev[i].Lerp(cur[i], t)
	}
	return out
}
