package scene

import (
	"log/slog"
	"math"

	"github.com/jbeda/geom"

	"routeviz/internal/curve"
	"routeviz/internal/feed"
	"routeviz/internal/log"
	"routeviz/internal/projection"
	"routeviz/internal/route"
	"routeviz/internal/settings"
)

const (
	glyphStroke      = "#fff"
	placeholderColor = "#666"
	placeholderSize  = 16
)

// Render runs one full pass: parse, project, and compose every group.
// It never fails; a feed without coordinates yields only the placeholder.
func Render(t feed.Table, cfg settings.StyleConfig, vp projection.Viewport, lg *log.Logger) []Command {
	return Compose(route.Parse(t, lg), cfg, vp, lg)
}

// Compose draws already parsed groups. Groups share a single projection
// and are emitted in order. cfg is expected to be resolved; only the arrow
// count is clamped again here.
func Compose(groups []route.PathGroup, cfg settings.StyleConfig, vp projection.Viewport, lg *log.Logger) []Command {
	if len(groups) == 0 {
		return []Command{PlaceholderText(vp)}
	}
	proj := projection.Build(groups, vp)
	var cmds []Command
	for _, g := range groups {
		cmds = append(cmds, composeGroup(g, proj, cfg, lg)...)
	}
	lg.Debug("scene: composed",
		slog.Int("groups", len(groups)), slog.Int("commands", len(cmds)))
	return cmds
}

// PlaceholderText asks the user for the missing data roles.
func PlaceholderText(vp projection.Viewport) Command {
	return Command{
		Kind:     Text,
		Center:   vp.Center(),
		Text:     Placeholder,
		FontSize: placeholderSize,
		Anchor:   "middle",
		Style:    Style{Fill: placeholderColor},
	}
}

func composeGroup(g route.PathGroup, proj projection.Projection, cfg settings.StyleConfig, lg *log.Logger) []Command {
	if len(g.Points) == 0 {
		return nil
	}
	pts := proj.Points(g)
	n := len(pts)
	size := cfg.Glyph.GlyphSize
	var cmds []Command

	var cv *curve.Curve
	if n >= 2 {
		cv = curve.Cardinal(pts)
		cmds = append(cmds, Command{
			Kind:     StrokeCurve,
			PathID:   g.PathID,
			Segments: cv.Segments,
			Style: Style{
				Stroke:      cfg.Path.Color,
				StrokeWidth: cfg.Path.Thickness,
				Opacity:     cfg.Path.Opacity / 100,
				LineJoin:    "round",
				LineCap:     "round",
			},
		})
	}

	cmds = append(cmds, Command{
		Kind:   FillCircle,
		PathID: g.PathID,
		Center: pts[0],
		Radius: size / 2,
		Style:  Style{Fill: cfg.Glyph.StartGlyphColor, Stroke: glyphStroke, StrokeWidth: 1},
		Meta:   metaOf(g.Points[0]),
	})
	if cv == nil {
		return cmds
	}

	s := curve.NewSampler(cv)
	L := s.TotalLength()
	if L <= 0 {
		lg.Debug("scene: zero-length path, skipping direction glyphs", slog.String("path", g.PathID))
		return cmds
	}

	// The end heading uses only the last two points, not the smoothed
	// tangent, so near sharp turns it can differ from the arrows.
	cmds = append(cmds, Command{
		Kind:   FillPolygon,
		PathID: g.PathID,
		Glyph:  ShipGlyph,
		Shape:  ShipShape,
		Transform: Transform{
			Translate: pts[n-1],
			Rotate:    curve.Heading(pts[n-2], pts[n-1]),
			Scale:     size / 10,
		},
		Style: Style{Fill: cfg.Glyph.EndGlyphColor, Stroke: glyphStroke, StrokeWidth: 0.5},
		Meta:  metaOf(g.Points[n-1]),
	})

	if !cfg.Arrow.ShowArrows {
		return cmds
	}
	count := cfg.Arrow.ArrowCount
	if count > MaxArrows {
		lg.Debug("scene: clamping arrow count", slog.Int("requested", count))
		count = MaxArrows
	}
	step := L / float64(count+1)
	for i := 1; i <= count; i++ {
		d := float64(i) * step
		cmds = append(cmds, Command{
			Kind:   FillPolygon,
			PathID: g.PathID,
			Glyph:  ArrowGlyph,
			Shape:  ArrowShape,
			Transform: Transform{
				Translate: s.PointAt(d),
				Rotate:    s.TangentAngleAt(d),
				Scale:     size / 20,
			},
			Distance: d,
			Style:    Style{Fill: cfg.Glyph.ArrowColor, Stroke: glyphStroke, StrokeWidth: 0.3},
		})
	}
	return cmds
}

func rotate(p geom.Coord, deg float64) geom.Coord {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return geom.Coord{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}
