package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jbeda/geom"

	"routeviz/internal/curve"
	"routeviz/internal/projection"
	"routeviz/internal/route"
	"routeviz/internal/scene"
)

// subPx is the number of scene units per braille dot. Scenes are composed
// for a viewport of the map area in dots times subPx.
const subPx = 4

func viewportFor(w, h int) projection.Viewport {
	return projection.Viewport{Width: float64(w * 2 * subPx), Height: float64(h * 4 * subPx)}
}

// toMicro maps a scene point to braille dots, zooming about the viewport
// centre and then panning.
func (m Model) toMicro(p geom.Coord, vp projection.Viewport) geom.Coord {
	c := vp.Center()
	return geom.Coord{
		X: ((p.X-c.X)*m.zoom+c.X)/subPx + float64(m.offsetX*2),
		Y: ((p.Y-c.Y)*m.zoom+c.Y)/subPx + float64(m.offsetY*4),
	}
}

// fromMicro reverses toMicro for the centre of a dot.
func (m Model) fromMicro(mx, my int, vp projection.Viewport) geom.Coord {
	c := vp.Center()
	x := (float64(mx)+0.5-float64(m.offsetX*2))*subPx - c.X
	y := (float64(my)+0.5-float64(m.offsetY*4))*subPx - c.Y
	return geom.Coord{X: x/m.zoom + c.X, Y: y/m.zoom + c.Y}
}

// cellToLonLat converts a map cell back to lon/lat.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if len(m.groups) == 0 || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	vp := viewportFor(w, h)
	proj := projection.Build(m.groups, vp)
	lon, lat := proj.Unproject(m.fromMicro(cx*2, cy*4, vp))
	return lon, lat, true
}

func (m Model) renderMap(w, h int) string {
	vp := viewportFor(w, h)
	br := newBrailleBuf(w, h)
	cmds := scene.Compose(m.groups, m.cfg, vp, m.lg)

	var label *scene.Command
	for i, c := range cmds {
		switch c.Kind {
		case scene.StrokeCurve:
			if !m.showRoutes {
				continue
			}
			br.pen = c.Style.Stroke
			s := curve.NewSampler(&curve.Curve{Segments: c.Segments})
			pts := s.Polyline()
			mic := make([]geom.Coord, len(pts))
			for j, p := range pts {
				mic[j] = m.toMicro(p, vp)
			}
			br.polyline(mic)
		case scene.FillCircle:
			if !m.showGlyphs {
				continue
			}
			br.pen = c.Style.Fill
			br.fillCircle(m.toMicro(c.Center, vp), c.Radius*m.zoom/subPx)
		case scene.FillPolygon:
			if (c.Glyph == scene.ArrowGlyph && !m.showArrows) || (c.Glyph == scene.ShipGlyph && !m.showGlyphs) {
				continue
			}
			br.pen = c.Style.Fill
			out := c.Outline()
			for j := range out {
				out[j] = m.toMicro(out[j], vp)
			}
			br.fillPolygon(out)
		case scene.Text:
			label = &cmds[i]
		}
	}

	lines := br.toLines()
	if label != nil {
		row := min(h-1, int(label.Center.Y/vp.Height*float64(h)))
		text := dimStyle.Render(label.Text)
		pad := max(0, (w-lipgloss.Width(text))/2)
		lines[row] = strings.Repeat(" ", pad) + text
	}

	// Hover highlight: an orange circle on the nearest point's cell
	if m.hovering {
		cx := m.hoverMicX / 2
		cy := m.hoverMicY / 4
		if cy >= 0 && cy < len(lines) && cx >= 0 && cx < w {
			circle := hoverStyle.Render("◯")
			lines[cy] = replaceCell(lines[cy], cx, circle)
		}
	}
	return strings.Join(lines, "\n")
}

// replaceCell swaps the cx'th visible cell of a possibly styled line.
func replaceCell(line string, cx int, cell string) string {
	if strings.Contains(line, "\x1b") {
		// styled rows: rebuild from plain cells
		line = stripANSI(line)
	}
	r := []rune(line)
	if cx >= len(r) {
		return line
	}
	return string(r[:cx]) + cell + string(r[cx+1:])
}

func stripANSI(s string) string {
	var sb strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc:
			if r >= '@' && r <= '~' && r != '[' {
				esc = false
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// nearestPoint returns the route point whose projected position is
// closest to the micro coordinate (mx, my).
func (m Model) nearestPoint(mx, my, w, h int) (route.RoutePoint, geom.Coord, bool) {
	if len(m.groups) == 0 {
		return route.RoutePoint{}, geom.Coord{}, false
	}
	vp := viewportFor(w, h)
	proj := projection.Build(m.groups, vp)
	target := geom.Coord{X: float64(mx) + 0.5, Y: float64(my) + 0.5}
	best := math.Inf(1)
	var bp route.RoutePoint
	var bc geom.Coord
	for _, g := range m.groups {
		for _, p := range g.Points {
			c := m.toMicro(proj.Project(p.Longitude, p.Latitude), vp)
			if d := c.DistanceFrom(target); d < best {
				best, bp, bc = d, p, c
			}
		}
	}
	return bp, bc, true
}
