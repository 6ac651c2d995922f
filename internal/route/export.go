package route

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

// Encode returns the Google encoded polyline of the group's vertices.
func (g PathGroup) Encode() string {
	coords := make([][]float64, len(g.Points))
	for i, p := range g.Points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// Decode reverses Encode, returning lon/lat vertices.
func Decode(s string) (orb.LineString, error) {
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = orb.Point{c[1], c[0]}
	}
	return ls, nil
}

// FeatureCollection exports every group as a GeoJSON feature: a LineString
// for paths of two or more points, a Point otherwise.
func FeatureCollection(groups []PathGroup) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, g := range groups {
		if len(g.Points) == 0 {
			continue
		}
		var geom orb.Geometry = g.LineString()
		if len(g.Points) == 1 {
			geom = orb.Point{g.Points[0].Longitude, g.Points[0].Latitude}
		}
		f := geojson.NewFeature(geom)
		f.Properties["pathId"] = g.PathID
		f.Properties["points"] = len(g.Points)
		f.Properties["start"] = g.Points[0].Timestamp.UTC().Format(time.RFC3339Nano)
		f.Properties["end"] = g.Points[len(g.Points)-1].Timestamp.UTC().Format(time.RFC3339Nano)
		f.Properties["distance_m"] = g.Distance()
		f.Properties["polyline"] = g.Encode()
		fc.Append(f)
	}
	return fc
}
