package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

// layout computes the map area; View and mouse handling must agree.
func (m Model) layout() layout {
	const headerHeight, footerHeight = 1, 2
	var lo layout
	lo.contentH = max(4, m.height-headerHeight-footerHeight)
	lo.contentW = max(10, m.width)
	sb := 0
	if m.showSidebar {
		sb = sidebarWidth + 1
	}
	lo.mapX, lo.mapY = sb, headerHeight
	lo.mapW = max(10, lo.contentW-sb)
	lo.mapH = lo.contentH
	return lo
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				m.status = "view mode"
				return m, nil
			case "ctrl+s":
				text := strings.TrimSpace(m.ta.Value())
				if text == "" {
					m.status = "paste: empty"
					return m, nil
				}
				if err := m.loadPasted(text); err != nil {
					m.status = "paste error: " + err.Error()
					return m, nil
				}
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		if m.showPaths {
			switch msg.String() {
			case "up", "down", "k", "j", "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.showRoutes = !m.showRoutes
			m.status = fmt.Sprintf("routes: %v", m.showRoutes)
		case "2":
			m.showGlyphs = !m.showGlyphs
			m.status = fmt.Sprintf("start/end glyphs: %v", m.showGlyphs)
		case "3":
			m.showArrows = !m.showArrows
			m.status = fmt.Sprintf("arrows: %v", m.showArrows)
		case "l":
			all := m.showRoutes && m.showGlyphs && m.showArrows
			m.showRoutes, m.showGlyphs, m.showArrows = !all, !all, !all
			m.status = fmt.Sprintf("layers: routes=%v glyphs=%v arrows=%v", m.showRoutes, m.showGlyphs, m.showArrows)
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "r":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showPaths = !m.showPaths
			if m.showPaths {
				m.refreshPathTable()
			}
		case "i":
			m.inspect()
		case "esc":
			m.inspectPopup = ""
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		lo := m.layout()
		cx, cy := msg.X-lo.mapX, msg.Y-lo.mapY
		if cx >= 0 && cx < lo.mapW && cy >= 0 && cy < lo.mapH {
			m.hovering = true
			m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToLonLat(cx, cy, lo.mapW, lo.mapH)
			if _, c, ok := m.nearestPoint(cx*2, cy*4, lo.mapW, lo.mapH); ok {
				m.hoverMicX, m.hoverMicY = dot(c)
			} else {
				m.hovering = false
			}
		} else {
			m.hovering = false
			m.hoverHasGeo = false
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// inspect describes the point nearest the centre of the map.
func (m *Model) inspect() {
	lo := m.layout()
	p, _, ok := m.nearestPoint(lo.mapW, lo.mapH*2, lo.mapW, lo.mapH)
	if !ok {
		m.inspectPopup = "no point nearby"
		m.status = m.inspectPopup
		return
	}
	name := filepath.Base(m.selPath)
	if m.selPath == "" {
		name = "<pasted>"
	}
	meta := []string{
		fmt.Sprintf("source: %s", name),
		fmt.Sprintf("path: %s", p.PathID),
		fmt.Sprintf("time: %s", p.Timestamp.UTC().Format(time.RFC3339)),
		fmt.Sprintf("lon=%.6f lat=%.6f", p.Longitude, p.Latitude),
		fmt.Sprintf("row: %d", p.Selection.Row),
	}
	for i, v := range p.Tooltip {
		if i < len(m.tipNames) && v != nil {
			meta = append(meta, fmt.Sprintf("%s: %v", m.tipNames[i], v))
		}
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}
