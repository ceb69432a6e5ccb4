package motionbg

// CubicBezier is a CSS-style timing curve from (0,0) to (1,1) with control
// points (X1, Y1) and (X2, Y2).
type CubicBezier struct {
	X1, Y1, X2, Y2 float32
}

// DefaultEasing decelerates hard at the end of a phase switch.
var DefaultEasing = CubicBezier{X1: 0.33, Y1: 0, X2: 0, Y2: 1}

// bezier evaluates one coordinate of the curve at parameter t.
func bezier(p1, p2, t float32) float32 {
	c := 3 * p1
	b := 3*(p2-p1) - c
	a := 1 - c - b
	return t * (c + t*(b+t*a))
}

// bezierSlope is the derivative of bezier with respect to t.
func bezierSlope(p1, p2, t float32) float32 {
	c := 3 * p1
	b := 3*(p2-p1) - c
	a := 1 - c - b
	return c + t*(2*b+3*a*t)
}

// Ease maps linear time t in [0, 1] to eased progress.
func (e CubicBezier) Ease(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return bezier(e.Y1, e.Y2, e.solveX(t))
}

// solveX finds the curve parameter whose x coordinate is x: Newton-Raphson
// first, bisection when the slope vanishes or Newton does not converge.
func (e CubicBezier) solveX(x float32) float32 {
	const eps = 1e-5

	t := x
	for range 8 {
		dx := bezier(e.X1, e.X2, t) - x
		if abs32(dx) < eps {
			return t
		}
		slope := bezierSlope(e.X1, e.X2, t)
		if abs32(slope) < 1e-6 {
			break
		}
		t -= dx / slope
	}

	lo, hi := float32(0), float32(1)
	t = x
	for range 32 {
		v := bezier(e.X1, e.X2, t)
		if abs32(v-x) < eps {
			break
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
