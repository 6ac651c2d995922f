// Package surface provides drawing surfaces for scene commands.
package surface

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"routeviz/internal/projection"
	"routeviz/internal/scene"
)

const Background = "#e8e8e8"

// SVG draws each pass into a standalone SVG document. The document is
// buffered and copied to the output on End, so every pass replaces the
// previous one.
type SVG struct {
	out    io.Writer
	buf    bytes.Buffer
	canvas *svg.SVG
}

// NewSVG returns an SVG surface writing finished documents to out. out
// may be nil when only Bytes is needed.
func NewSVG(out io.Writer) *SVG {
	return &SVG{out: out}
}

func (s *SVG) Begin(vp projection.Viewport) {
	s.buf.Reset()
	s.canvas = svg.New(&s.buf)
	w, h := int(math.Round(vp.Width)), int(math.Round(vp.Height))
	s.canvas.Start(w, h)
	s.canvas.Rect(0, 0, w, h, "fill:"+Background)
}

func (s *SVG) Draw(c scene.Command) {
	switch c.Kind {
	case scene.StrokeCurve:
		s.canvas.Path(scene.CurveData(c.Segments), style(c.Style, true))
	case scene.FillCircle:
		s.canvas.Path(circleData(c.Center.X, c.Center.Y, c.Radius), style(c.Style, false))
	case scene.FillPolygon:
		xs := make([]int, len(c.Shape))
		ys := make([]int, len(c.Shape))
		for i, p := range c.Shape {
			xs[i], ys[i] = int(math.Round(p.X)), int(math.Round(p.Y))
		}
		s.canvas.Gtransform(c.Transform.String())
		s.canvas.Polygon(xs, ys, style(c.Style, false))
		s.canvas.Gend()
	case scene.Text:
		st := fmt.Sprintf("text-anchor:%s;font-size:%gpx;fill:%s", c.Anchor, c.FontSize, c.Style.Fill)
		s.canvas.Text(int(math.Round(c.Center.X)), int(math.Round(c.Center.Y)), c.Text, st)
	}
}

func (s *SVG) End() error {
	s.canvas.End()
	if s.out == nil {
		return nil
	}
	_, err := s.out.Write(s.buf.Bytes())
	return err
}

// Bytes returns the document of the last pass.
func (s *SVG) Bytes() []byte {
	return s.buf.Bytes()
}

// circleData draws a full circle as two half arcs.
func circleData(cx, cy, r float64) string {
	return fmt.Sprintf("M%g,%g A%g,%g 0 1,0 %g,%g A%g,%g 0 1,0 %g,%g Z",
		cx-r, cy, r, r, cx+r, cy, r, r, cx-r, cy)
}

func style(st scene.Style, stroked bool) string {
	var parts []string
	add := func(k, v string) { parts = append(parts, k+":"+v) }
	if stroked {
		add("fill", "none")
	} else if st.Fill != "" {
		add("fill", st.Fill)
	}
	if st.Stroke != "" {
		add("stroke", st.Stroke)
		add("stroke-width", fmt.Sprintf("%g", st.StrokeWidth))
	}
	if stroked {
		add("stroke-opacity", fmt.Sprintf("%g", st.Opacity))
	}
	if st.LineJoin != "" {
		add("stroke-linejoin", st.LineJoin)
	}
	if st.LineCap != "" {
		add("stroke-linecap", st.LineCap)
	}
	return strings.Join(parts, ";")
}
