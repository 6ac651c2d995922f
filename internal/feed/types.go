package feed

// Role tags a column with the meaning the route parser gives it.
type Role string

const (
	RolePathID    Role = "pathId"
	RoleTimestamp Role = "timestamp"
	RoleLatitude  Role = "latitude"
	RoleLongitude Role = "longitude"
	RoleTooltip   Role = "tooltipData"
)

// Column is one column of the host's feed. Values are whatever the host
// decoded: strings, numbers, time.Time, nil for blanks.
type Column struct {
	Name   string
	Roles  []Role
	Values []any
}

func (c Column) Has(r Role) bool {
	for _, cr := range c.Roles {
		if cr == r {
			return true
		}
	}
	return false
}

// At returns the i'th value, or nil when the column is short.
func (c Column) At(i int) any {
	if i < 0 || i >= len(c.Values) {
		return nil
	}
	return c.Values[i]
}

// Table is a column-oriented feed: category columns (path id, timestamp)
// and value columns (coordinates, tooltips).
type Table struct {
	Categories []Column
	Values     []Column
}

// CategoryIndex returns the index of the category column tagged r, or -1.
// When several columns carry the role the last one wins.
func (t Table) CategoryIndex(r Role) int {
	return lastIndex(t.Categories, r)
}

// ValueIndex returns the index of the value column tagged r, or -1.
func (t Table) ValueIndex(r Role) int {
	return lastIndex(t.Values, r)
}

// ValueIndices returns every value column tagged r, in column order.
func (t Table) ValueIndices(r Role) []int {
	var idx []int
	for i, c := range t.Values {
		if c.Has(r) {
			idx = append(idx, i)
		}
	}
	return idx
}

// RowCount is the number of rows every value column can supply.
func (t Table) RowCount() int {
	if len(t.Values) == 0 {
		return 0
	}
	n := len(t.Values[0].Values)
	for _, c := range t.Values[1:] {
		n = min(n, len(c.Values))
	}
	return n
}

func lastIndex(cols []Column, r Role) int {
	idx := -1
	for i, c := range cols {
		if c.Has(r) {
			idx = i
		}
	}
	return idx
}

// rows accumulates loader output row by row and turns it into a Table.
type rows struct {
	hasPath, hasTime bool
	path, when       []any
	lat, lon         []any
	tipNames         []string
	tips             [][]any
}

func newRows(hasPath, hasTime bool, tipNames ...string) *rows {
	return &rows{
		hasPath:  hasPath,
		hasTime:  hasTime,
		tipNames: tipNames,
		tips:     make([][]any, len(tipNames)),
	}
}

func (r *rows) add(path, when, lat, lon any, tips ...any) {
	r.path = append(r.path, path)
	r.when = append(r.when, when)
	r.lat = append(r.lat, lat)
	r.lon = append(r.lon, lon)
	for i := range r.tips {
		var v any
		if i < len(tips) {
			v = tips[i]
		}
		r.tips[i] = append(r.tips[i], v)
	}
}

func (r *rows) len() int { return len(r.lat) }

func (r *rows) table() Table {
	var t Table
	if r.hasPath {
		t.Categories = append(t.Categories, Column{Name: "path", Roles: []Role{RolePathID}, Values: r.path})
	}
	if r.hasTime {
		t.Categories = append(t.Categories, Column{Name: "time", Roles: []Role{RoleTimestamp}, Values: r.when})
	}
	t.Values = append(t.Values,
		Column{Name: "latitude", Roles: []Role{RoleLatitude}, Values: r.lat},
		Column{Name: "longitude", Roles: []Role{RoleLongitude}, Values: r.lon})
	for i, name := range r.tipNames {
		t.Values = append(t.Values, Column{Name: name, Roles: []Role{RoleTooltip}, Values: r.tips[i]})
	}
	return t
}
