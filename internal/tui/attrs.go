package tui

import (
	"fmt"
	"time"

	table "github.com/charmbracelet/bubbles/table"
)

// pathRows summarises every group: id, point count, time span, length.
func (m Model) pathRows() []table.Row {
	rows := make([]table.Row, 0, len(m.groups))
	for i, g := range m.groups {
		first, last := g.Points[0], g.Points[len(g.Points)-1]
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			g.PathID,
			fmt.Sprintf("%d", len(g.Points)),
			first.Timestamp.UTC().Format(time.DateTime),
			last.Timestamp.UTC().Format(time.DateTime),
			g.Duration().Round(time.Second).String(),
			fmt.Sprintf("%.2f", g.Distance()/1000),
		})
	}
	return rows
}

// refreshPathTable rebuilds the table from the current groups.
func (m *Model) refreshPathTable() {
	rows := m.pathRows()
	// An empty table would render nothing useful; hide it instead.
	if len(rows) == 0 {
		m.showPaths = false
		m.status = "no paths in current dataset"
		return
	}
	pathW := len("path")
	for _, r := range rows {
		pathW = max(pathW, len(r[1]))
	}
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "path", Width: min(24, pathW+2)},
		{Title: "points", Width: 7},
		{Title: "start", Width: 19},
		{Title: "end", Width: 19},
		{Title: "duration", Width: 10},
		{Title: "km", Width: 9},
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
