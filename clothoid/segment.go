// Package clothoid models rail track geometry as a sequence of
// closed-form or numerically-evaluated arc-length parameterized
// segments: straight lines, constant-curvature arcs, and Euler-spiral
// transitions whose curvature varies linearly between two arcs so a
// train's lateral acceleration never jumps discontinuously.
package clothoid

import (
	"math"

	"github.com/lixenwraith/tanks/vmath"
)

// Segment is an arc-length parameterized piece of track. Evaluate(s)
// for s in [0, Length()] returns the world-space position, unit
// tangent direction, and signed curvature (1/radius, positive for a
// counter-clockwise turn) at that distance along the segment.
type Segment interface {
	Length() float64
	Evaluate(s float64) (pos, tangent vmath.Vec2F, curvature float64)
}

// Line is a zero-curvature segment evaluated in closed form.
type Line struct {
	P0  vmath.Vec2F
	Dir vmath.Vec2F // unit tangent
	Len float64
}

// NewLine builds a Line from its two endpoints.
func NewLine(p0, p1 vmath.Vec2F) Line {
	d := vmath.V2FSub(p1, p0)
	length := vmath.V2FMag(d)
	dir := vmath.V2FNormalize(d)
	return Line{P0: p0, Dir: dir, Len: length}
}

func (l Line) Length() float64 { return l.Len }

func (l Line) Evaluate(s float64) (pos, tangent vmath.Vec2F, curvature float64) {
	return vmath.V2FAdd(l.P0, vmath.V2FScale(l.Dir, s)), l.Dir, 0
}

// Arc is a constant-curvature segment evaluated in closed form via its
// center and start angle. K is signed: positive curves left (CCW).
type Arc struct {
	Center     vmath.Vec2F
	Radius     float64
	StartAngle float64
	K          float64
	Len        float64
}

// NewArc builds an Arc starting at p0 with initial unit tangent t0,
// constant signed curvature k (k != 0), and arc length length.
func NewArc(p0, t0 vmath.Vec2F, k, length float64) Arc {
	radius := 1 / math.Abs(k)
	center := vmath.V2FAdd(p0, vmath.V2FScale(vmath.V2FPerp(t0), 1/k))
	startAngle := math.Atan2(p0.Y-center.Y, p0.X-center.X)
	return Arc{Center: center, Radius: radius, StartAngle: startAngle, K: k, Len: length}
}

func (a Arc) Length() float64 { return a.Len }

func (a Arc) Evaluate(s float64) (pos, tangent vmath.Vec2F, curvature float64) {
	theta := a.StartAngle + a.K*s
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	pos = vmath.V2FAdd(a.Center, vmath.Vec2F{X: a.Radius * cosT, Y: a.Radius * sinT})
	sign := 1.0
	if a.K < 0 {
		sign = -1.0
	}
	tangent = vmath.Vec2F{X: -sign * sinT, Y: sign * cosT}
	return pos, tangent, a.K
}

// Transition is a clothoid (Euler spiral) segment whose curvature
// varies linearly in arc length between K0 (at s=0) and K1 (at
// s=Len), giving a smooth, jerk-free ramp between two constant
// curvatures (or a line, K=0). Position is recovered by numerically
// integrating the heading angle, which is itself a closed-form
// quadratic in s; this is equivalent to evaluating a (possibly
// offset, possibly rescaled) Fresnel integral, but integrating the
// defining ODE directly avoids needing a separately-validated
// rational approximation for the Fresnel functions.
type Transition struct {
	P0     vmath.Vec2F
	Theta0 float64 // heading angle at s=0, radians
	K0, K1 float64
	Len    float64
}

// NewTransition builds a Transition from its start point, start
// heading, start/end curvature, and length.
func NewTransition(p0 vmath.Vec2F, theta0, k0, k1, length float64) Transition {
	return Transition{P0: p0, Theta0: theta0, K0: k0, K1: k1, Len: length}
}

func (t Transition) Length() float64 { return t.Len }

func (t Transition) gamma() float64 {
	if t.Len == 0 {
		return 0
	}
	return (t.K1 - t.K0) / t.Len
}

func (t Transition) heading(s float64) float64 {
	return t.Theta0 + t.K0*s + 0.5*t.gamma()*s*s
}

func (t Transition) Evaluate(s float64) (pos, tangent vmath.Vec2F, curvature float64) {
	theta := t.heading(s)
	tangent = vmath.Vec2F{X: math.Cos(theta), Y: math.Sin(theta)}
	curvature = t.K0 + t.gamma()*s
	dx, dy := simpsonIntegrateHeading(t.Theta0, t.K0, t.gamma(), s)
	pos = vmath.V2FAdd(t.P0, vmath.Vec2F{X: dx, Y: dy})
	return pos, tangent, curvature
}

// simpsonIntegrateHeading integrates (cos theta(u), sin theta(u)) over
// u in [0, s] via composite Simpson's rule, where
// theta(u) = theta0 + k0*u + 0.5*gamma*u^2.
func simpsonIntegrateHeading(theta0, k0, gamma, s float64) (x, y float64) {
	if s == 0 {
		return 0, 0
	}
	const steps = 64
	n := steps
	if s < 0 {
		n = steps // symmetric handling below via signed step
	}
	h := s / float64(n)

	eval := func(u float64) (float64, float64) {
		th := theta0 + k0*u + 0.5*gamma*u*u
		return math.Cos(th), math.Sin(th)
	}

	cx0, cy0 := eval(0)
	cxn, cyn := eval(s)
	sumX := cx0 + cxn
	sumY := cy0 + cyn
	for i := 1; i < n; i++ {
		u := float64(i) * h
		cx, cy := eval(u)
		weight := 4.0
		if i%2 == 0 {
			weight = 2.0
		}
		sumX += weight * cx
		sumY += weight * cy
	}
	return sumX * h / 3, sumY * h / 3
}
