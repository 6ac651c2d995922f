package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jbeda/geom"
)

// brailleBuf is a terminal canvas with a 2x4 dot grid per cell. Each cell
// remembers the colour of the last dot drawn into it.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	ink  [][]string
	pen  string
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	ink := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		ink[i] = make([]string, w)
	}
	return &brailleBuf{w: w, h: h, m: m, ink: ink}
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a dot at micro coords (2x4 per cell).
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[rx][ry]
	if b.pen != "" {
		b.ink[cy][cx] = b.pen
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham.
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// polyline strokes consecutive micro-space points.
func (b *brailleBuf) polyline(pts []geom.Coord) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := dot(pts[i-1])
		x1, y1 := dot(pts[i])
		b.drawLineMicro(x0, y0, x1, y1)
	}
	if len(pts) == 1 {
		b.setPixel(dot(pts[0]))
	}
}

// fillPolygon fills a closed micro-space polygon with the even-odd rule,
// sampling each dot at its centre, then outlines it so that shapes
// smaller than a dot still show.
func (b *brailleBuf) fillPolygon(pts []geom.Coord) {
	if len(pts) < 3 {
		b.polyline(pts)
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		sy := float64(y) + 0.5
		var xs []float64
		for i := range pts {
			a, c := pts[i], pts[(i+1)%len(pts)]
			if a.Y == c.Y {
				continue
			}
			if (sy >= a.Y && sy < c.Y) || (sy >= c.Y && sy < a.Y) {
				t := (sy - a.Y) / (c.Y - a.Y)
				xs = append(xs, a.X+t*(c.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i] - 0.5)); x <= int(math.Floor(xs[i+1]-0.5)); x++ {
				b.setPixel(x, y)
			}
		}
	}
	b.polyline(append(pts[:len(pts):len(pts)], pts[0]))
}

// fillCircle fills a disc centred at c in micro space. The centre dot is
// always set.
func (b *brailleBuf) fillCircle(c geom.Coord, r float64) {
	for y := int(math.Floor(c.Y - r)); y <= int(math.Ceil(c.Y+r)); y++ {
		for x := int(math.Floor(c.X - r)); x <= int(math.Ceil(c.X+r)); x++ {
			dx, dy := float64(x)+0.5-c.X, float64(y)+0.5-c.Y
			if dx*dx+dy*dy <= r*r {
				b.setPixel(x, y)
			}
		}
	}
	b.setPixel(dot(c))
}

// toLines renders every cell, colouring cells whose ink is a hex colour.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				sb.WriteByte(' ')
				continue
			}
			r := string(rune(0x2800 + int(mask)))
			if ink := b.ink[y][x]; strings.HasPrefix(ink, "#") {
				r = lipgloss.NewStyle().Foreground(lipgloss.Color(ink)).Render(r)
			}
			sb.WriteString(r)
		}
		out[y] = sb.String()
	}
	return out
}

func dot(p geom.Coord) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
