package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"routeviz/internal/feed"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !feed.Supported(name) {
			continue
		}
		items = append(items, fileItem{
			title: name,
			desc:  strings.ToLower(filepath.Ext(name)),
			path:  filepath.Join(m.cwd, name),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads any supported feed format into the model.
func (m *Model) loadPath(p string) {
	t, err := feed.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		m.lg.Info("tui: load failed", "path", p, "error", err)
		return
	}
	m.selPath = p
	m.setTable(t)
	m.status = "loaded: " + filepath.Base(p) + m.counts()
}

// loadPasted renders pasted WKT or CSV text.
func (m *Model) loadPasted(text string) error {
	var (
		t   feed.Table
		err error
	)
	if isWKT(text) {
		t, err = feed.ParseWKT(text)
	} else {
		t, err = feed.ParseCSV(strings.NewReader(text))
	}
	if err != nil {
		return err
	}
	m.selPath = ""
	m.setTable(t)
	m.status = "rendered paste" + m.counts()
	return nil
}

func (m Model) counts() string {
	return fmt.Sprintf("  paths=%d points=%d", len(m.groups), m.pointCount())
}

var wktKeywords = []string{"POINT", "MULTIPOINT", "LINESTRING", "MULTILINESTRING", "POLYGON", "MULTIPOLYGON", "GEOMETRYCOLLECTION"}

func isWKT(text string) bool {
	up := strings.ToUpper(strings.TrimSpace(text))
	for _, k := range wktKeywords {
		if strings.HasPrefix(up, k) {
			return true
		}
	}
	return false
}
