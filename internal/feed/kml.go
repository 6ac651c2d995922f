package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPlacemark struct {
	Name      string `xml:"name"`
	TimeStamp *struct {
		When string `xml:"when"`
	} `xml:"TimeStamp"`
	Point      *kmlCoords `xml:"Point"`
	LineString *kmlCoords `xml:"LineString"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlDoc struct {
	Document   kmlFolder      `xml:"Document"`
	Folders    []kmlFolder    `xml:"Folder"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

// LoadKML reads a KML file. See ParseKML.
func LoadKML(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return ParseKML(data)
}

// ParseKML extracts Placemark Points (grouped into paths by their enclosing
// Folder, timed by TimeStamp/when) and LineStrings (one path each).
// KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func ParseKML(data []byte) (Table, error) {
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Table{}, err
	}

	out := newRows(true, true, "name")
	nLines := 0
	var walk func(folder string, pms []kmlPlacemark, sub []kmlFolder)
	walk = func(folder string, pms []kmlPlacemark, sub []kmlFolder) {
		for _, pm := range pms {
			if pm.Point != nil {
				var path, when, name any
				if folder != "" {
					path = folder
				}
				if pm.TimeStamp != nil && strings.TrimSpace(pm.TimeStamp.When) != "" {
					when = strings.TrimSpace(pm.TimeStamp.When)
				}
				if pm.Name != "" {
					name = pm.Name
				}
				for _, c := range parseKMLCoords(pm.Point.Coordinates) {
					out.add(path, when, c[1], c[0], name)
				}
			}
			if pm.LineString != nil {
				nLines++
				path := pm.Name
				if path == "" {
					path = fmt.Sprintf("line-%d", nLines)
				}
				for _, c := range parseKMLCoords(pm.LineString.Coordinates) {
					out.add(path, nil, c[1], c[0], nil)
				}
			}
		}
		for _, f := range sub {
			walk(f.Name, f.Placemarks, f.Folders)
		}
	}
	walk("", doc.Placemarks, doc.Folders)
	walk(doc.Document.Name, doc.Document.Placemarks, doc.Document.Folders)

	if out.len() == 0 {
		return Table{}, errors.New("kml: no points found")
	}
	return out.table(), nil
}

// parseKMLCoords splits whitespace-separated "lon,lat[,alt]" tuples.
func parseKMLCoords(s string) [][2]float64 {
	var pts [][2]float64
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, [2]float64{lon, lat})
	}
	return pts
}
