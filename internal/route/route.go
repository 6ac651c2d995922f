// Package route decodes a feed.Table into timestamp-ordered paths.
package route

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"routeviz/internal/feed"
	"routeviz/internal/log"
)

// DefaultPathID names the single path of a feed without a path column.
const DefaultPathID = "route"

// SelectionToken identifies the source row of a point for host-side
// selection. Category is the index of the first category column, or -1
// when the feed has none.
type SelectionToken struct {
	Category int `json:"category" msgpack:"category"`
	Row      int `json:"row" msgpack:"row"`
}

type RoutePoint struct {
	PathID    string
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	Tooltip   []any
	Selection SelectionToken
}

// PathGroup is one path's points in ascending timestamp order.
type PathGroup struct {
	PathID string
	Points []RoutePoint
}

// LineString returns the group's vertices in lon/lat order.
func (g PathGroup) LineString() orb.LineString {
	ls := make(orb.LineString, len(g.Points))
	for i, p := range g.Points {
		ls[i] = orb.Point{p.Longitude, p.Latitude}
	}
	return ls
}

// Distance is the geodesic length of the group in metres.
func (g PathGroup) Distance() float64 {
	return geo.Length(g.LineString())
}

// Duration is the time between the first and last point.
func (g PathGroup) Duration() time.Duration {
	if len(g.Points) < 2 {
		return 0
	}
	return g.Points[len(g.Points)-1].Timestamp.Sub(g.Points[0].Timestamp)
}

// Parse groups the table's rows by path id. Without both a latitude and a
// longitude column it returns nil. Rows whose coordinates are missing or
// not finite are skipped. Groups come back in order of first appearance,
// each stably sorted by timestamp.
func Parse(t feed.Table, lg *log.Logger) []PathGroup {
	latIdx := t.ValueIndex(feed.RoleLatitude)
	lonIdx := t.ValueIndex(feed.RoleLongitude)
	if latIdx < 0 || lonIdx < 0 {
		lg.Debug("route: missing coordinate roles",
			slog.Bool("latitude", latIdx >= 0), slog.Bool("longitude", lonIdx >= 0))
		return nil
	}
	pathIdx := t.CategoryIndex(feed.RolePathID)
	timeIdx := t.CategoryIndex(feed.RoleTimestamp)
	tipIdx := t.ValueIndices(feed.RoleTooltip)
	selCat := -1
	if len(t.Categories) > 0 {
		selCat = 0
	}

	var groups []PathGroup
	index := map[string]int{}
	skipped := 0
	n := t.RowCount()
	for i := 0; i < n; i++ {
		lat, ok1 := Float(t.Values[latIdx].At(i))
		lon, ok2 := Float(t.Values[lonIdx].At(i))
		if !ok1 || !ok2 {
			skipped++
			continue
		}

		id := DefaultPathID
		if pathIdx >= 0 {
			if v := t.Categories[pathIdx].At(i); v != nil {
				id = fmt.Sprint(v)
			}
		}
		ts := time.UnixMilli(int64(i))
		if timeIdx >= 0 {
			if v, ok := Time(t.Categories[timeIdx].At(i)); ok {
				ts = v
			}
		}
		tips := make([]any, len(tipIdx))
		for j, k := range tipIdx {
			tips[j] = t.Values[k].At(i)
		}

		p := RoutePoint{
			PathID:    id,
			Timestamp: ts,
			Latitude:  lat,
			Longitude: lon,
			Tooltip:   tips,
			Selection: SelectionToken{Category: selCat, Row: i},
		}
		gi, ok := index[id]
		if !ok {
			gi = len(groups)
			index[id] = gi
			groups = append(groups, PathGroup{PathID: id})
		}
		groups[gi].Points = append(groups[gi].Points, p)
	}

	for _, g := range groups {
		sort.SliceStable(g.Points, func(a, b int) bool {
			return g.Points[a].Timestamp.Before(g.Points[b].Timestamp)
		})
	}
	lg.Debug("route: parsed feed",
		slog.Int("rows", n), slog.Int("skipped", skipped), slog.Int("groups", len(groups)))
	return groups
}

// Float coerces a feed value to a finite float64.
func Float(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// Time coerces a feed value to an instant. Numbers are epoch milliseconds.
func Time(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if ms, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(ms) && !math.IsInf(ms, 0) {
			return time.UnixMilli(int64(ms)), true
		}
		return time.Time{}, false
	}
	if ms, ok := Float(v); ok {
		return time.UnixMilli(int64(ms)), true
	}
	return time.Time{}, false
}
