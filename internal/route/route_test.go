package route

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeviz/internal/feed"
)

func table(path, when []any, lat, lon []any, tips ...feed.Column) feed.Table {
	var t feed.Table
	if path != nil {
		t.Categories = append(t.Categories, feed.Column{Name: "path", Roles: []feed.Role{feed.RolePathID}, Values: path})
	}
	if when != nil {
		t.Categories = append(t.Categories, feed.Column{Name: "time", Roles: []feed.Role{feed.RoleTimestamp}, Values: when})
	}
	if lat != nil {
		t.Values = append(t.Values, feed.Column{Name: "lat", Roles: []feed.Role{feed.RoleLatitude}, Values: lat})
	}
	if lon != nil {
		t.Values = append(t.Values, feed.Column{Name: "lon", Roles: []feed.Role{feed.RoleLongitude}, Values: lon})
	}
	t.Values = append(t.Values, tips...)
	return t
}

func TestParseMissingRoles(t *testing.T) {
	assert.Empty(t, Parse(table(nil, nil, []any{1.0}, nil), nil))
	assert.Empty(t, Parse(table(nil, nil, nil, []any{1.0}), nil))
	assert.Empty(t, Parse(feed.Table{}, nil))
}

func TestParseSkipsInvalidCoordinates(t *testing.T) {
	lat := []any{10.0, nil, math.NaN(), 13.0, "14", "x", math.Inf(1)}
	lon := []any{100.0, 101.0, 102.0, nil, 104.0, 105.0, 106.0}
	groups := Parse(table(nil, nil, lat, lon), nil)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, DefaultPathID, g.PathID)
	require.Len(t, g.Points, 2)
	assert.Equal(t, 10.0, g.Points[0].Latitude)
	assert.Equal(t, 14.0, g.Points[1].Latitude)
	assert.Equal(t, time.UnixMilli(4), g.Points[1].Timestamp)
	assert.Equal(t, SelectionToken{Category: -1, Row: 4}, g.Points[1].Selection)
}

func TestParseGroupsAndSorts(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	path := []any{"b", "a", "b", "a", "b", nil}
	when := []any{
		t0.Add(2 * time.Minute),
		"2024-01-01T00:05:00Z",
		t0,
		int64(t0.Add(time.Minute).UnixMilli()),
		t0, // tie with row 2
		"garbage",
	}
	lat := []any{1.0, 2.0, 3.0, 4.0, 5.0, 6.0}
	lon := []any{1.0, 2.0, 3.0, 4.0, 5.0, 6.0}
	tip := feed.Column{Name: "speed", Roles: []feed.Role{feed.RoleTooltip}, Values: []any{"s0", "s1", "s2", "s3", "s4", "s5"}}

	groups := Parse(table(path, when, lat, lon, tip), nil)
	require.Len(t, groups, 3)
	assert.Equal(t, "b", groups[0].PathID)
	assert.Equal(t, "a", groups[1].PathID)
	assert.Equal(t, DefaultPathID, groups[2].PathID)

	b := groups[0].Points
	require.Len(t, b, 3)
	assert.Equal(t, []float64{3, 5, 1}, []float64{b[0].Latitude, b[1].Latitude, b[2].Latitude})
	assert.Equal(t, []any{"s2"}, b[0].Tooltip)
	assert.Equal(t, SelectionToken{Category: 0, Row: 2}, b[0].Selection)

	a := groups[1].Points
	assert.Equal(t, 4.0, a[0].Latitude)
	assert.Equal(t, 2.0, a[1].Latitude)

	// unparseable timestamp falls back to the row index
	assert.Equal(t, time.UnixMilli(5), groups[2].Points[0].Timestamp)

	for _, g := range groups {
		for i := 1; i < len(g.Points); i++ {
			assert.False(t, g.Points[i].Timestamp.Before(g.Points[i-1].Timestamp))
		}
	}
}

func TestParseUsesShortestColumn(t *testing.T) {
	groups := Parse(table(nil, nil, []any{1.0, 2.0, 3.0}, []any{1.0, 2.0}), nil)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Points, 2)
}

func TestParseLastRoleWins(t *testing.T) {
	tbl := table(nil, nil, []any{1.0}, []any{2.0})
	tbl.Values = append(tbl.Values, feed.Column{Name: "lat2", Roles: []feed.Role{feed.RoleLatitude}, Values: []any{9.0}})
	groups := Parse(tbl, nil)
	require.Len(t, groups, 1)
	assert.Equal(t, 9.0, groups[0].Points[0].Latitude)
}

func TestTimeCoercion(t *testing.T) {
	ts, ok := Time("2024-03-04")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), ts)

	ts, ok = Time(1500.0)
	require.True(t, ok)
	assert.Equal(t, time.UnixMilli(1500), ts)

	_, ok = Time(nil)
	assert.False(t, ok)
	_, ok = Time(true)
	assert.False(t, ok)
}

func TestPathGroupMetrics(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := PathGroup{PathID: "a", Points: []RoutePoint{
		{Latitude: 0, Longitude: 0, Timestamp: t0},
		{Latitude: 0, Longitude: 1, Timestamp: t0.Add(time.Hour)},
	}}
	assert.InDelta(t, 111_195, g.Distance(), 500)
	assert.Equal(t, time.Hour, g.Duration())
	assert.Zero(t, PathGroup{}.Duration())
}

func TestEncodeRoundTrip(t *testing.T) {
	g := PathGroup{Points: []RoutePoint{
		{Latitude: 38.5, Longitude: -120.2},
		{Latitude: 40.7, Longitude: -120.95},
		{Latitude: 43.252, Longitude: -126.453},
	}}
	enc := g.Encode()
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", enc)

	ls, err := Decode(enc)
	require.NoError(t, err)
	require.Len(t, ls, 3)
	assert.InDelta(t, -126.453, ls[2].Lon(), 1e-5)
	assert.InDelta(t, 43.252, ls[2].Lat(), 1e-5)
}

func TestFeatureCollection(t *testing.T) {
	groups := []PathGroup{
		{PathID: "a", Points: []RoutePoint{{Latitude: 1, Longitude: 2}, {Latitude: 3, Longitude: 4}}},
		{PathID: "b", Points: []RoutePoint{{Latitude: 5, Longitude: 6}}},
		{PathID: "empty"},
	}
	fc := FeatureCollection(groups)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, orb.LineString{{2, 1}, {4, 3}}, fc.Features[0].Geometry)
	assert.Equal(t, "a", fc.Features[0].Properties["pathId"])
	assert.Equal(t, orb.Point{6, 5}, fc.Features[1].Geometry)
	assert.Equal(t, 1, fc.Features[1].Properties["points"])

	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"polyline"`)
}
