package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one item; selected marks the cursor row.
type RenderFunc[T any] func(item T, selected bool) string

// VirtualListModel is a cursor over items that keeps the selection in view.
type VirtualListModel[T any] struct {
	items      []T
	renderFunc RenderFunc[T]

	selected int
	// [from, to) is the window of rows currently drawn.
	from int
	to   int

	height int
	width  int
}

// NewVirtualListModel creates a list showing height rows at a time.
func NewVirtualListModel[T any](items []T, height, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:      items,
		renderFunc: renderFunc,
		height:     max(height, 1),
		width:      width,
	}
	m.scroll()
	return m
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resizes.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.height = max(msg.Height, 1)
		m.width = msg.Width
		m.scroll()
	}
	return m, nil
}

//nolint:exhaustive // Only navigation keys matter.
func (m *VirtualListModel[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch msg.Type {
	case tea.KeyUp:
		m.SetSelected(m.selected - 1)
	case tea.KeyDown:
		m.SetSelected(m.selected + 1)
	case tea.KeyPgUp:
		m.SetSelected(m.selected - m.height)
	case tea.KeyPgDown:
		m.SetSelected(m.selected + m.height)
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "j":
			m.SetSelected(m.selected + 1)
		case "k":
			m.SetSelected(m.selected - 1)
		}
	default:
	}
}

// scroll moves the window the minimum amount needed to show the selection.
func (m *VirtualListModel[T]) scroll() {
	n := len(m.items)
	if n == 0 {
		m.from, m.to = 0, 0
		return
	}
	if m.selected < m.from {
		m.from = m.selected
	}
	if m.selected >= m.from+m.height {
		m.from = m.selected - m.height + 1
	}
	if m.from+m.height > n {
		m.from = max(n-m.height, 0)
	}
	m.to = min(m.from+m.height, n)
}

// View renders the visible rows.
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	lines := make([]string, 0, m.to-m.from)
	for i := m.from; i < m.to; i++ {
		lines = append(lines, m.renderFunc(m.items[i], i == m.selected))
	}
	return strings.Join(lines, "\n")
}

// ItemCount returns the number of items.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the cursor index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SetSelected moves the cursor, clamped to the item range.
func (m *VirtualListModel[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(index, 0), len(m.items)-1)
	m.scroll()
}

// VisibleFrom returns the first drawn index.
func (m *VirtualListModel[T]) VisibleFrom() int {
	return m.from
}

// VisibleTo returns one past the last drawn index.
func (m *VirtualListModel[T]) VisibleTo() int {
	return m.to
}

// GetSelectedItem returns the item under the cursor, or nil for an empty list.
func (m *VirtualListModel[T]) GetSelectedItem() *T {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.selected]
}
