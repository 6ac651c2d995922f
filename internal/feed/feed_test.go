package feed

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRoleLookup(t *testing.T) {
	tbl := Table{
		Categories: []Column{
			{Name: "a", Roles: []Role{RolePathID}},
			{Name: "b", Roles: []Role{RolePathID, RoleTimestamp}},
		},
		Values: []Column{
			{Name: "lat", Roles: []Role{RoleLatitude}, Values: []any{1.0, 2.0, 3.0}},
			{Name: "tip1", Roles: []Role{RoleTooltip}, Values: []any{"x", "y"}},
			{Name: "lon", Roles: []Role{RoleLongitude}, Values: []any{4.0, 5.0, 6.0}},
			{Name: "tip2", Roles: []Role{RoleTooltip}, Values: []any{"p", "q", "r"}},
		},
	}
	assert.Equal(t, 1, tbl.CategoryIndex(RolePathID))
	assert.Equal(t, 1, tbl.CategoryIndex(RoleTimestamp))
	assert.Equal(t, 0, tbl.ValueIndex(RoleLatitude))
	assert.Equal(t, -1, tbl.ValueIndex("missing"))
	assert.Equal(t, []int{1, 3}, tbl.ValueIndices(RoleTooltip))
	assert.Equal(t, 2, tbl.RowCount())
	assert.Nil(t, tbl.Values[1].At(2))
	assert.Zero(t, Table{}.RowCount())
}

func TestParseCSV(t *testing.T) {
	in := `id,lat,lon,timestamp,speed
a,10,100,2024-01-01T00:00:00Z,3
a,,101,2024-01-01T00:01:00Z,4
b,11,bad,2024-01-01T00:02:00Z,
`
	tbl, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tbl.Categories, 2)
	assert.Equal(t, []any{"a", "a", "b"}, tbl.Categories[0].Values)
	assert.True(t, tbl.Categories[1].Has(RoleTimestamp))

	lat := tbl.Values[tbl.ValueIndex(RoleLatitude)]
	lon := tbl.Values[tbl.ValueIndex(RoleLongitude)]
	assert.Equal(t, 10.0, lat.Values[0])
	assert.Nil(t, lat.Values[1])
	assert.True(t, math.IsNaN(lon.Values[2].(float64)))

	tips := tbl.ValueIndices(RoleTooltip)
	require.Len(t, tips, 1)
	assert.Equal(t, "speed", tbl.Values[tips[0]].Name)
	assert.Equal(t, []any{"3", "4", nil}, tbl.Values[tips[0]].Values)
}

func TestParseCSVWithoutCoordinates(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("name,value\nx,1\n"))
	require.NoError(t, err)
	assert.Equal(t, -1, tbl.ValueIndex(RoleLatitude))
	assert.Equal(t, -1, tbl.ValueIndex(RoleLongitude))
	assert.Empty(t, tbl.Categories)

	_, err = ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

const testGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>morning</name>
    <trkseg>
      <trkpt lat="45.0" lon="7.0"><ele>200</ele><time>2024-05-01T08:00:00Z</time></trkpt>
      <trkpt lat="45.1" lon="7.1"><ele>210</ele><time>2024-05-01T08:05:00Z</time></trkpt>
    </trkseg>
  </trk>
  <rte>
    <rtept lat="46.0" lon="8.0"><name>wp1</name></rtept>
  </rte>
</gpx>`

func TestParseGPX(t *testing.T) {
	tbl, err := ParseGPX([]byte(testGPX))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.RowCount())

	path := tbl.Categories[tbl.CategoryIndex(RolePathID)]
	assert.Equal(t, []any{"morning", "morning", "route-1"}, path.Values)

	when := tbl.Categories[tbl.CategoryIndex(RoleTimestamp)]
	require.IsType(t, time.Time{}, when.Values[0])
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), when.Values[0].(time.Time).UTC())
	assert.Nil(t, when.Values[2])

	lat := tbl.Values[tbl.ValueIndex(RoleLatitude)]
	assert.InDelta(t, 45.1, lat.Values[1].(float64), 1e-9)

	tips := tbl.ValueIndices(RoleTooltip)
	require.Len(t, tips, 2)
	assert.Equal(t, "elevation", tbl.Values[tips[0]].Name)
	assert.InDelta(t, 200.0, tbl.Values[tips[0]].Values[0].(float64), 1e-9)
	assert.Equal(t, "wp1", tbl.Values[tips[1]].Values[2])
}

func TestParseGPXInvalid(t *testing.T) {
	_, err := ParseGPX([]byte("not xml"))
	assert.Error(t, err)
}

func TestParseGeoJSON(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Point","coordinates":[100,10]},
   "properties":{"path":"a","time":"2024-01-01T00:00:00Z","speed":3}},
  {"type":"Feature","geometry":{"type":"Point","coordinates":[101,11]},
   "properties":{"path":"a","heading":90}},
  {"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1],[2,2]]},
   "properties":{"name":"ferry"}}
]}`
	tbl, err := ParseGeoJSON([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.RowCount())

	path := tbl.Categories[tbl.CategoryIndex(RolePathID)]
	assert.Equal(t, []any{"a", "a", "ferry", "ferry", "ferry"}, path.Values)

	lon := tbl.Values[tbl.ValueIndex(RoleLongitude)]
	assert.Equal(t, 101.0, lon.Values[1])

	tips := tbl.ValueIndices(RoleTooltip)
	require.Len(t, tips, 2)
	assert.Equal(t, "speed", tbl.Values[tips[0]].Name)
	assert.Equal(t, "heading", tbl.Values[tips[1]].Name)
	assert.Nil(t, tbl.Values[tips[0]].Values[1])
}

func TestParseGeoJSONSingleFeature(t *testing.T) {
	in := `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{}}`
	tbl, err := ParseGeoJSON([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, []any{"line-1", "line-1"}, tbl.Categories[0].Values)

	_, err = ParseGeoJSON([]byte(`{"type":"Point","coordinates":[0,0]}`))
	assert.Error(t, err)
}

const testKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>doc</name>
    <Folder>
      <name>vessel-1</name>
      <Placemark><name>p1</name><TimeStamp><when>2024-01-01T00:00:00Z</when></TimeStamp><Point><coordinates>10,50,0</coordinates></Point></Placemark>
      <Placemark><name>p2</name><Point><coordinates>11,51</coordinates></Point></Placemark>
    </Folder>
    <Placemark><name>leg</name><LineString><coordinates>1,2 3,4</coordinates></LineString></Placemark>
  </Document>
</kml>`

func TestParseKML(t *testing.T) {
	tbl, err := ParseKML([]byte(testKML))
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.RowCount())

	path := tbl.Categories[tbl.CategoryIndex(RolePathID)]
	assert.ElementsMatch(t, []any{"vessel-1", "vessel-1", "leg", "leg"}, path.Values)

	lat := tbl.Values[tbl.ValueIndex(RoleLatitude)]
	lon := tbl.Values[tbl.ValueIndex(RoleLongitude)]
	for i, p := range path.Values {
		if p == "vessel-1" && lat.Values[i] == 50.0 {
			assert.Equal(t, 10.0, lon.Values[i])
			assert.Equal(t, "2024-01-01T00:00:00Z", tbl.Categories[tbl.CategoryIndex(RoleTimestamp)].Values[i])
		}
	}

	_, err = ParseKML([]byte(`<kml><Document></Document></kml>`))
	assert.Error(t, err)
}

func TestParseWKT(t *testing.T) {
	tbl, err := ParseWKT("LINESTRING (100 10, 105 15, 110 20)")
	require.NoError(t, err)
	assert.Empty(t, tbl.Categories)
	assert.Equal(t, []any{10.0, 15.0, 20.0}, tbl.Values[tbl.ValueIndex(RoleLatitude)].Values)
	assert.Equal(t, []any{100.0, 105.0, 110.0}, tbl.Values[tbl.ValueIndex(RoleLongitude)].Values)

	tbl, err = ParseWKT("MULTIPOINT ((1 2), (3 4))")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.RowCount())

	_, err = ParseWKT("POLYGON ((0 0, 1 1, 0 0))")
	assert.Error(t, err)
	_, err = ParseWKT("")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "track.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("lat,lon\n1,2\n"), 0o644))

	tbl, err := Load(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.RowCount())
	assert.True(t, Supported(csvPath))

	_, err = Load(filepath.Join(dir, "track.shp"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.False(t, Supported("track.shp"))

	_, err = Load(filepath.Join(dir, "missing.gpx"))
	assert.Error(t, err)
}
