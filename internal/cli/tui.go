package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/render"
)

// Terminal cells are mapped to screen pixels at a fixed size so the plan
// keeps its proportions.
const (
	cellWidth   = 8.0
	cellHeight  = 16.0
	chromeLines = 2

	nudgeStep  = 10.0
	resizeStep = 10.0
)

// Canvas styles
var (
	tableStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	reservedStyle = lipgloss.NewStyle().Foreground(colorYellow).Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

type cellClass uint8

const (
	cellEmpty cellClass = iota
	cellTable
	cellReserved
	cellSelected
)

// =============================================================================
// editorModel - Interactive floor-plan editor
// =============================================================================

// editorModel is the bubbletea model wrapping an [editor.Session].
type editorModel struct {
	ctx     context.Context
	session *editor.Session

	width, height int

	message   string
	failed    bool
	fatal     error
	confirmQ  bool
	saveCount int
}

func newEditorModel(ctx context.Context, s *editor.Session) editorModel {
	return editorModel{ctx: ctx, session: s}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.session.Resize(m.canvasSize())
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *editorModel) handleMouse(msg tea.MouseMsg) {
	if msg.Y >= m.canvasRows() {
		return
	}
	p := cellCenter(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.session.Wheel(p, -1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.session.Wheel(p, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.session.PointerDown(p)
	case msg.Action == tea.MouseActionMotion:
		m.session.PointerMove(p)
	case msg.Action == tea.MouseActionRelease:
		m.session.PointerUp(p)
	}
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "esc" {
		m.confirmQ = false
	}
	sel := m.session.Selected()
	center := geom.Point{X: m.canvasSize().Width / 2, Y: m.canvasSize().Height / 2}

	var err error
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		if m.session.Dirty() && !m.confirmQ {
			m.confirmQ = true
			m.setMessage("unsaved changes, press q again to quit or s to save", false)
			return m, nil
		}
		return m, tea.Quit
	case "s":
		var id string
		if id, err = m.session.Save(m.ctx); err == nil {
			m.saveCount++
			m.setMessage("saved as "+id, false)
		}
	case "a":
		t, aerr := m.session.AddTableAt(center)
		if err = aerr; err == nil {
			m.setMessage("added "+t.String(), false)
		}
	case "d", "delete", "backspace":
		err = m.session.RemoveTable(sel)
	case "c":
		_, err = m.session.DuplicateTable(sel)
	case "r":
		err = m.session.ToggleReserved(sel)
	case "l":
		err = m.session.ToggleLocked(sel)
	case "]":
		err = m.session.GrowTable(sel, resizeStep, resizeStep)
	case "[":
		err = m.session.GrowTable(sel, -resizeStep, -resizeStep)
	case "up", "down", "left", "right":
		dx, dy := arrow(key)
		if sel == "" {
			m.session.Pan(geom.Point{X: -dx * cellWidth, Y: -dy * cellHeight})
		} else {
			err = m.session.NudgeTable(sel, dx*nudgeStep, dy*nudgeStep)
		}
	case "tab":
		m.selectNext()
	case "+", "=":
		m.session.Wheel(center, -1)
	case "-":
		m.session.Wheel(center, 1)
	case "0":
		m.session.ResetView()
	case "u":
		_, err = m.session.Undo()
	case "U", "ctrl+r":
		_, err = m.session.Redo()
	}
	if err != nil {
		if !errors.Recoverable(err) {
			m.fatal = err
			return m, tea.Quit
		}
		m.setMessage(errors.UserMessage(err), true)
	}
	return m, nil
}

func (m *editorModel) setMessage(s string, failed bool) {
	m.message, m.failed = s, failed
}

func (m *editorModel) selectNext() {
	tables := m.session.Tables()
	if len(tables) == 0 {
		return
	}
	next := 0
	for i, t := range tables {
		if t.ID == m.session.Selected() {
			next = (i + 1) % len(tables)
			break
		}
	}
	m.session.Select(tables[next].ID)
}

func arrow(key string) (dx, dy float64) {
	switch key {
	case "up":
		return 0, -1
	case "down":
		return 0, 1
	case "left":
		return -1, 0
	default:
		return 1, 0
	}
}

func (m editorModel) canvasRows() int {
	return max(0, m.height-chromeLines)
}

func (m editorModel) canvasSize() geom.Size {
	return geom.Size{Width: float64(m.width) * cellWidth, Height: float64(m.canvasRows()) * cellHeight}
}

func cellCenter(x, y int) geom.Point {
	return geom.Point{X: (float64(x) + 0.5) * cellWidth, Y: (float64(y) + 0.5) * cellHeight}
}

// =============================================================================
// View
// =============================================================================

func (m editorModel) View() string {
	if m.width == 0 || m.canvasRows() == 0 {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(drawCanvas(m.session.Frame(m.ctx), m.session.Selected(), m.width, m.canvasRows()))
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag move · wheel/+/- zoom · a add · d del · c copy · r reserve · l lock · [ ] size · u/U undo/redo · 0 fit · s save · q quit"))
	return b.String()
}

func (m editorModel) statusLine() string {
	vp := m.session.Viewport()
	name := m.session.Name()
	if name == "" {
		name = "untitled"
	}
	if m.session.Dirty() {
		name += "*"
	}
	parts := []string{
		StyleTitle.Render(name),
		m.session.Principal().String(),
		fmt.Sprintf("%d tables", len(m.session.Tables())),
		fmt.Sprintf("%.0f%%", vp.Scale*100),
		vp.Mode.String(),
	}
	line := statusStyle.Render(strings.Join(parts, " · "))
	if m.message != "" {
		style := StyleSuccess
		switch {
		case m.failed:
			style = StyleError
		case m.confirmQ:
			style = StyleWarning
		}
		line += "  " + style.Render(m.message)
	}
	return line
}

// drawCanvas rasterizes draw items into a cols x rows character grid.
func drawCanvas(items []render.DrawItem, selected string, cols, rows int) string {
	runes := make([][]rune, rows)
	classes := make([][]cellClass, rows)
	for r := range runes {
		runes[r] = []rune(strings.Repeat(" ", cols))
		classes[r] = make([]cellClass, cols)
	}

	for _, it := range items {
		class := cellTable
		if it.Reserved {
			class = cellReserved
		}
		if it.ID == selected {
			class = cellSelected
		}
		c0, c1 := span(it.ScreenX, it.ScreenWidth, cellWidth)
		r0, r1 := span(it.ScreenY, it.ScreenHeight, cellHeight)
		for r := max(r0, 0); r <= min(r1, rows-1); r++ {
			for c := max(c0, 0); c <= min(c1, cols-1); c++ {
				runes[r][c] = boxRune(r, c, r0, r1, c0, c1)
				classes[r][c] = class
			}
		}
		drawLabel(runes, it.Label, r0, r1, c0, c1)
	}

	var b strings.Builder
	for r := range runes {
		start := 0
		for c := 1; c <= cols; c++ {
			if c < cols && classes[r][c] == classes[r][start] {
				continue
			}
			b.WriteString(styleFor(classes[r][start]).Render(string(runes[r][start:c])))
			start = c
		}
		b.WriteString("\n")
	}
	return b.String()
}

// span returns the inclusive cell range covering [pos, pos+size).
func span(pos, size, cell float64) (int, int) {
	first := int(math.Floor(pos / cell))
	last := int(math.Ceil((pos+size)/cell)) - 1
	return first, max(first, last)
}

func boxRune(r, c, r0, r1, c0, c1 int) rune {
	if r0 == r1 || c0 == c1 {
		return '■'
	}
	switch {
	case r == r0 && c == c0:
		return '┌'
	case r == r0 && c == c1:
		return '┐'
	case r == r1 && c == c0:
		return '└'
	case r == r1 && c == c1:
		return '┘'
	case r == r0 || r == r1:
		return '─'
	case c == c0 || c == c1:
		return '│'
	default:
		return ' '
	}
}

func drawLabel(runes [][]rune, label string, r0, r1, c0, c1 int) {
	inner := c1 - c0 - 1
	row := (r0 + r1) / 2
	if label == "" || inner < 1 || r1-r0 < 2 || row < 0 || row >= len(runes) {
		return
	}
	text := []rune(label)
	if len(text) > inner {
		text = text[:inner]
	}
	start := c0 + 1 + (inner-len(text))/2
	for i, ch := range text {
		if c := start + i; c >= 0 && c < len(runes[row]) {
			runes[row][c] = ch
		}
	}
}

func styleFor(c cellClass) lipgloss.Style {
	switch c {
	case cellTable:
		return tableStyle
	case cellReserved:
		return reservedStyle
	case cellSelected:
		return selectedStyle
	default:
		return lipgloss.NewStyle()
	}
}
