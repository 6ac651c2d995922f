// Package curve builds cardinal splines through projected points and
// measures them by arc length.
package curve

import (
	"github.com/jbeda/geom"
)

// Tension of every route curve. Zero gives a Catmull-Rom-like curve, one
// gives straight segments.
const Tension = 0.5

// Segment is a cubic Bézier from P0 to P3.
type Segment struct {
	P0 geom.Coord `json:"p0" msgpack:"p0"`
	C1 geom.Coord `json:"c1" msgpack:"c1"`
	C2 geom.Coord `json:"c2" msgpack:"c2"`
	P3 geom.Coord `json:"p3" msgpack:"p3"`
}

// Eval returns the point at parameter t in [0,1].
func (s Segment) Eval(t float64) geom.Coord {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return s.P0.Times(a).Plus(s.C1.Times(b)).Plus(s.C2.Times(c)).Plus(s.P3.Times(d))
}

// split cuts s at t = 0.5.
func (s Segment) split() (Segment, Segment) {
	mid := func(a, b geom.Coord) geom.Coord { return a.Plus(b).Times(0.5) }
	p01 := mid(s.P0, s.C1)
	p12 := mid(s.C1, s.C2)
	p23 := mid(s.C2, s.P3)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	m := mid(p012, p123)
	return Segment{s.P0, p01, p012, m}, Segment{m, p123, p23, s.P3}
}

// Curve is a piecewise cubic path through a sequence of points.
type Curve struct {
	Segments []Segment
}

// Cardinal interpolates pts with a cardinal spline of the package Tension.
// The first and last segments use their endpoint as the outer tangent
// handle. Fewer than two points yield nil.
func Cardinal(pts []geom.Coord) *Curve {
	n := len(pts)
	if n < 2 {
		return nil
	}
	k := (1 - Tension) / 6
	c := &Curve{Segments: make([]Segment, 0, n-1)}
	for i := 0; i+1 < n; i++ {
		p0, p1 := pts[i], pts[i+1]
		c1, c2 := p0, p1
		if i > 0 {
			c1 = p0.Plus(p1.Minus(pts[i-1]).Times(k))
		}
		if i+2 < n {
			c2 = p1.Minus(pts[i+2].Minus(p0).Times(k))
		}
		c.Segments = append(c.Segments, Segment{P0: p0, C1: c1, C2: c2, P3: p1})
	}
	return c
}

func (c *Curve) Start() geom.Coord { return c.Segments[0].P0 }
func (c *Curve) End() geom.Coord   { return c.Segments[len(c.Segments)-1].P3 }

// Bounds is the control-point hull box, which contains the curve.
func (c *Curve) Bounds() geom.Rect {
	r := geom.Rect{Min: c.Start(), Max: c.Start()}
	for _, s := range c.Segments {
		r.ExpandToContainCoord(s.C1)
		r.ExpandToContainCoord(s.C2)
		r.ExpandToContainCoord(s.P3)
	}
	return r
}
