package feed

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Extensions lists the file extensions Load understands.
var Extensions = []string{".csv", ".gpx", ".geojson", ".json", ".kml", ".wkt"}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads path into a Table, picking the decoder by extension.
func Load(path string) (Table, error) {
	var (
		t   Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err = LoadCSV(path)
	case ".gpx":
		t, err = LoadGPX(path)
	case ".geojson", ".json":
		t, err = LoadGeoJSON(path)
	case ".kml":
		t, err = LoadKML(path)
	case ".wkt":
		t, err = LoadWKT(path)
	default:
		return Table{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return Table{}, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return t, nil
}
