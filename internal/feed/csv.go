package feed

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a CSV file with a header row. See ParseCSV for column
// detection.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV reads CSV rows and tags columns by header name (case-insensitive):
// lat|latitude|y and lon|lng|long|longitude|x for coordinates,
// path|pathid|path_id|route|track|id for the path, and
// time|timestamp|datetime|date|ts for the timestamp. Every other column is
// a tooltip column. A file without coordinate columns is not an error; it
// just renders nothing.
func ParseCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(recs) == 0 {
		return Table{}, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLon, idxPath, idxTime := -1, -1, -1, -1
	var tipIdx []int
	var tipNames []string
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
				continue
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
				continue
			}
		case "path", "pathid", "path_id", "route", "track", "id":
			if idxPath == -1 {
				idxPath = i
				continue
			}
		case "time", "timestamp", "datetime", "date", "ts":
			if idxTime == -1 {
				idxTime = i
				continue
			}
		}
		tipIdx = append(tipIdx, i)
		tipNames = append(tipNames, strings.TrimSpace(h))
	}

	cell := func(row []string, i int) (string, bool) {
		if i < 0 || i >= len(row) {
			return "", false
		}
		s := strings.TrimSpace(row[i])
		return s, s != ""
	}
	coord := func(row []string, i int) any {
		s, ok := cell(row, i)
		if !ok {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}
	str := func(row []string, i int) any {
		if s, ok := cell(row, i); ok {
			return s
		}
		return nil
	}

	out := newRows(idxPath >= 0, idxTime >= 0, tipNames...)
	for _, row := range recs[1:] {
		tips := make([]any, len(tipIdx))
		for j, i := range tipIdx {
			tips[j] = str(row, i)
		}
		out.add(str(row, idxPath), str(row, idxTime), coord(row, idxLat), coord(row, idxLon), tips...)
	}

	t := out.table()
	// Drop the coordinate roles the header never named so the parser
	// sees the feed exactly as supplied.
	if idxLat == -1 {
		t.Values[0].Roles = nil
	}
	if idxLon == -1 {
		t.Values[1].Roles = nil
	}
	return t, nil
}
