package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeviz/internal/scene"
	"routeviz/internal/settings"
)

const sampleCSV = `path,time,lat,lon,speed
a,2024-01-01T00:00:00Z,10,100,3
a,2024-01-01T00:10:00Z,20,110,4
b,2024-01-01T00:00:00Z,15,105,5
`

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		nm, _ := m.Update(msg)
		m = nm.(Model)
	}
	return m
}

func sized(t *testing.T) Model {
	t.Helper()
	m := New(settings.Defaults(), nil)
	return send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func TestBrailleBits(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0)
	b.setPixel(1, 3)
	b.setPixel(-1, 0)
	b.setPixel(10, 10)
	assert.Equal(t, uint8(0x01|0x80), b.m[0][0])
	assert.Equal(t, []string{string(rune(0x2881)) + " "}, b.toLines())
}

func TestBrailleShapes(t *testing.T) {
	b := newBrailleBuf(10, 5)
	b.fillPolygon([]geom.Coord{{X: 2, Y: 2}, {X: 12, Y: 2}, {X: 12, Y: 12}, {X: 2, Y: 12}})
	for y := 2; y < 12; y++ {
		for x := 2; x < 12; x++ {
			assert.NotZero(t, b.m[y/4][x/2]&dotBits[x%2][y%4], "dot %d,%d", x, y)
		}
	}

	c := newBrailleBuf(4, 2)
	c.fillCircle(geom.Coord{X: 0.5, Y: 0.5}, 0)
	assert.Equal(t, uint8(0x01), c.m[0][0])

	l := newBrailleBuf(4, 1)
	l.drawLineMicro(0, 0, 7, 0)
	for x := 0; x < 4; x++ {
		assert.Equal(t, uint8(0x01|0x08), l.m[0][x])
	}
}

func TestPasteCSV(t *testing.T) {
	m := sized(t)
	m = send(m, key("p"))
	require.True(t, m.pasteMode)
	m.ta.SetValue(sampleCSV)
	m = send(m, key("ctrl+s"))

	assert.False(t, m.pasteMode)
	require.Len(t, m.groups, 2)
	assert.Equal(t, []string{"speed"}, m.tipNames)
	assert.Contains(t, m.status, "paths=2 points=3")

	view := m.View()
	assert.Contains(t, view, "routeviz")
	assert.True(t, strings.ContainsFunc(view, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }))
}

func TestPasteErrors(t *testing.T) {
	m := send(sized(t), key("p"), key("ctrl+s"))
	assert.Equal(t, "paste: empty", m.status)
	assert.True(t, m.pasteMode)

	m.ta.SetValue("POLYGON ((0 0, 1 1, 0 0))")
	m = send(m, key("ctrl+s"))
	assert.Contains(t, m.status, "paste error")

	m.ta.SetValue("LINESTRING (0 0, 1 1)")
	m = send(m, key("ctrl+s"))
	require.Len(t, m.groups, 1)

	m = send(m, key("p"), key("esc"))
	assert.False(t, m.pasteMode)
}

func TestPlaceholderWhenEmpty(t *testing.T) {
	m := sized(t)
	assert.Contains(t, m.renderMap(60, 20), scene.Placeholder)
}

func TestLayerToggles(t *testing.T) {
	m := sized(t)
	require.NoError(t, m.loadPasted(sampleCSV))

	all := m.renderMap(60, 20)
	m = send(m, key("1"), key("2"), key("3"))
	assert.False(t, m.showRoutes || m.showGlyphs || m.showArrows)
	assert.Equal(t, strings.Repeat(" ", 60), strings.Split(stripANSI(m.renderMap(60, 20)), "\n")[10])
	assert.NotEqual(t, all, m.renderMap(60, 20))

	m = send(m, key("l"))
	assert.True(t, m.showRoutes && m.showGlyphs && m.showArrows)
}

func TestZoomAndReset(t *testing.T) {
	m := send(sized(t), key("+"), tea.KeyMsg{Type: tea.KeyUp})
	assert.InDelta(t, 1.2, m.zoom, 1e-9)
	assert.Equal(t, -1, m.offsetY)

	m = send(m, key("r"))
	assert.Equal(t, 1.0, m.zoom)
	assert.Zero(t, m.offsetY)
}

func TestMicroRoundTrip(t *testing.T) {
	m := sized(t)
	m.zoom = 2
	m.offsetX = 3
	vp := viewportFor(40, 10)
	p := m.fromMicro(17, 9, vp)
	c := m.toMicro(p, vp)
	assert.InDelta(t, 17.5, c.X, 1e-9)
	assert.InDelta(t, 9.5, c.Y, 1e-9)
}

func TestInspectAndHover(t *testing.T) {
	m := sized(t)
	require.NoError(t, m.loadPasted(sampleCSV))

	// b's single point sits at the centre of the bounds
	m = send(m, key("i"))
	assert.Contains(t, m.inspectPopup, "path: b")
	assert.Contains(t, m.inspectPopup, "speed: 5")
	assert.Contains(t, m.inspectPopup, "<pasted>")
	m = send(m, key("esc"))
	assert.Empty(t, m.inspectPopup)

	lo := m.layout()
	m = send(m, tea.MouseMsg{X: lo.mapX + lo.mapW/2, Y: lo.mapY + lo.mapH/2})
	assert.True(t, m.hovering)
	assert.True(t, m.hoverHasGeo)
	assert.InDelta(t, 105, m.hoverLon, 2)
	assert.InDelta(t, 15, m.hoverLat, 2)

	m = send(m, tea.MouseMsg{X: 0, Y: 0})
	assert.False(t, m.hovering)
}

func TestPathTable(t *testing.T) {
	m := sized(t)
	m = send(m, key("a"))
	assert.False(t, m.showPaths)
	assert.Equal(t, "no paths in current dataset", m.status)

	require.NoError(t, m.loadPasted(sampleCSV))
	m = send(m, key("a"))
	require.True(t, m.showPaths)
	rows := m.tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0][1])
	assert.Equal(t, "2", rows[0][2])
	assert.Equal(t, "10m0s", rows[0][5])
	assert.Contains(t, m.View(), "duration")
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	m := NewWithPath(path, settings.Defaults(), nil)
	assert.Len(t, m.groups, 2)
	assert.Contains(t, m.status, "loaded: track.csv")

	m.cwd = dir
	m.refreshDir()
	require.Len(t, m.items, 1)
	assert.Equal(t, "track.csv", m.items[0].(fileItem).title)

	m.loadPath(filepath.Join(dir, "missing.gpx"))
	assert.Contains(t, m.status, "load error")
	assert.Len(t, m.groups, 2)
}
