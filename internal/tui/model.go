package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"routeviz/internal/feed"
	"routeviz/internal/log"
	"routeviz/internal/route"
	"routeviz/internal/settings"
)

const sidebarWidth = 28

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string
	lg     *log.Logger

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	data     feed.Table
	groups   []route.PathGroup
	tipNames []string
	cfg      settings.StyleConfig

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showRoutes bool
	showGlyphs bool
	showArrows bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// per-path summary table
	showPaths bool
	tbl       table.Model
}

// New returns an empty previewer drawing with cfg.
func New(cfg settings.StyleConfig, lg *log.Logger) Model {
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		status:      "routeviz ready",
		lg:          lg,
		cfg:         cfg.Resolve(),
		showRoutes:  true,
		showGlyphs:  true,
		showArrows:  true,
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste CSV with a header row (lat, lon, path, time, ...) or WKT. Ctrl+S to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file at launch.
func NewWithPath(path string, cfg settings.StyleConfig, lg *log.Logger) Model {
	m := New(cfg, lg)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// setTable replaces the displayed data and resets the view.
func (m *Model) setTable(t feed.Table) {
	m.data = t
	m.groups = route.Parse(t, m.lg)
	m.tipNames = nil
	for _, i := range t.ValueIndices(feed.RoleTooltip) {
		m.tipNames = append(m.tipNames, t.Values[i].Name)
	}
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	m.hovering = false
	if m.showPaths {
		m.refreshPathTable()
	}
}

func (m Model) pointCount() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.Points)
	}
	return n
}
