package feed

import (
	"fmt"
	"os"

	"github.com/tkrajina/gpxgo/gpx"
)

// LoadGPX reads a GPX file. See ParseGPX.
func LoadGPX(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return ParseGPX(data)
}

// ParseGPX turns every track segment and route into a path. Track points
// keep their timestamps; elevation and point name become tooltip columns.
func ParseGPX(data []byte) (Table, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return Table{}, fmt.Errorf("gpx: %w", err)
	}

	out := newRows(true, true, "elevation", "name")
	add := func(path string, p gpx.GPXPoint) {
		var when, ele any
		if !p.Timestamp.IsZero() {
			when = p.Timestamp
		}
		if p.Elevation.NotNull() {
			ele = p.Elevation.Value()
		}
		var name any
		if p.Name != "" {
			name = p.Name
		}
		out.add(path, when, p.Latitude, p.Longitude, ele, name)
	}

	for ti, track := range g.Tracks {
		name := track.Name
		if name == "" {
			name = fmt.Sprintf("track-%d", ti+1)
		}
		for si, seg := range track.Segments {
			path := name
			if len(track.Segments) > 1 {
				path = fmt.Sprintf("%s/%d", name, si+1)
			}
			for _, p := range seg.Points {
				add(path, p)
			}
		}
	}
	for ri, rt := range g.Routes {
		name := rt.Name
		if name == "" {
			name = fmt.Sprintf("route-%d", ri+1)
		}
		for _, p := range rt.Points {
			add(name, p)
		}
	}
	if out.len() == 0 {
		return Table{}, fmt.Errorf("gpx: no track or route points found")
	}
	return out.table(), nil
}
