package feed

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// LoadWKT reads a file holding a single WKT geometry. See ParseWKT.
func LoadWKT(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return ParseWKT(string(data))
}

// ParseWKT reads POINT, MULTIPOINT and LINESTRING text as a single path
// ordered by vertex. WKT carries no time, so there is no timestamp column.
func ParseWKT(wkt string) (Table, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return Table{}, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	var kind string
	switch {
	case strings.HasPrefix(up, "MULTIPOINT"):
		kind = "multipoint"
	case strings.HasPrefix(up, "POINT"):
		kind = "point"
	case strings.HasPrefix(up, "LINESTRING"):
		kind = "linestring"
	default:
		return Table{}, errors.New("unsupported wkt type")
	}
	i := strings.Index(s, "(")
	j := strings.LastIndex(s, ")")
	if i < 0 || j <= i {
		return Table{}, errors.New("wkt " + kind + ": invalid")
	}

	out := newRows(false, false)
	// MULTIPOINT may wrap each tuple in its own parens.
	block := strings.NewReplacer("(", "", ")", "").Replace(s[i+1 : j])
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			continue
		}
		x, err1 := strconv.ParseFloat(parts[0], 64)
		y, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out.add(nil, nil, y, x)
	}
	if out.len() == 0 {
		return Table{}, errors.New("wkt: no coordinates parsed")
	}
	return out.table(), nil
}
