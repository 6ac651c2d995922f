package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a GeoJSON file. See ParseGeoJSON.
func LoadGeoJSON(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON accepts a Feature or FeatureCollection. Point features are
// rows whose path and time come from properties (same names as the CSV
// headers); their remaining properties become tooltip columns.
// LineString features are one path each, ordered by vertex.
func ParseGeoJSON(data []byte) (Table, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Table{}, err
	}

	var features []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Table{}, err
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Table{}, err
		}
		features = []*geojson.Feature{f}
	default:
		return Table{}, errors.New("unsupported geojson type: " + head.Type)
	}

	// union of tooltip property keys across point features
	var order []string
	seen := map[string]bool{}
	for _, f := range features {
		if _, ok := f.Geometry.(orb.Point); !ok {
			continue
		}
		keys := make([]string, 0, len(f.Properties))
		for k := range f.Properties {
			if propRole(k) == "" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}

	out := newRows(true, true, order...)
	addLine := func(name string, ls orb.LineString) {
		for _, p := range ls {
			out.add(name, nil, p.Lat(), p.Lon())
		}
	}
	for i, f := range features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			var path, when any
			tips := make([]any, len(order))
			for k, v := range f.Properties {
				switch propRole(k) {
				case RolePathID:
					path = v
				case RoleTimestamp:
					when = v
				}
			}
			for j, k := range order {
				tips[j] = f.Properties[k]
			}
			out.add(path, when, g.Lat(), g.Lon(), tips...)
		case orb.LineString:
			addLine(featureName(f, i), g)
		case orb.MultiLineString:
			for j, ls := range g {
				addLine(fmt.Sprintf("%s/%d", featureName(f, i), j+1), ls)
			}
		}
	}
	if out.len() == 0 {
		return Table{}, errors.New("no points found in geojson")
	}
	return out.table(), nil
}

func propRole(key string) Role {
	switch strings.ToLower(key) {
	case "path", "pathid", "path_id", "route", "track", "id":
		return RolePathID
	case "time", "timestamp", "datetime", "date", "ts":
		return RoleTimestamp
	}
	return ""
}

func featureName(f *geojson.Feature, i int) string {
	for _, k := range []string{"path", "pathId", "path_id", "route", "track", "id", "name"} {
		if v, ok := f.Properties[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return fmt.Sprintf("line-%d", i+1)
}
