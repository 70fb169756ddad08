package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/greenr/internal/greenops"
	"github.com/rshade/greenr/internal/session"
	listview "github.com/rshade/greenr/internal/tui/list"
)

const (
	historyHeaderHeight = 4
	histColWidthLabel   = 28
	histColWidthDate    = 16
	histColWidthTotal   = 12
	keyC                = "c"
)

// rangeCycle is the order the range key steps through.
//
//nolint:gochecknoglobals // Fixed lookup order.
var rangeCycle = []session.Range{session.RangeAll, session.RangeMonth, session.RangeWeek}

// HistoryModel is the Bubble Tea model for browsing saved snapshots.
// Pointer and current-result changes are applied to an in-memory copy of
// the state; callers persist State() when Changed() reports true.
type HistoryModel struct {
	state   session.State
	changed bool
	now     func() time.Time

	view      ViewState
	rng       session.Range
	visible   []session.Snapshot
	list      *listview.VirtualListModel[session.Snapshot]
	textInput textinput.Model
	filtering bool

	precision int
	width     int
	height    int
	status    string
}

// NewHistoryModel creates a browser over state.
func NewHistoryModel(state session.State, precision int, now func() time.Time) *HistoryModel {
	if now == nil {
		now = time.Now
	}
	ti := textinput.New()
	ti.Placeholder = "Search label, note or tags..."
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth

	m := &HistoryModel{
		state:     state,
		now:       now,
		view:      ViewStateList,
		rng:       session.RangeAll,
		textInput: ti,
		precision: precision,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.refresh()
	return m
}

// State returns the possibly modified session state.
func (m *HistoryModel) State() session.State { return m.state }

// Changed reports whether the state was modified.
func (m *HistoryModel) Changed() bool { return m.changed }

// Visible returns the snapshots currently listed.
func (m *HistoryModel) Visible() []session.Snapshot { return m.visible }

// Range returns the active range filter.
func (m *HistoryModel) Range() session.Range { return m.rng }

// ViewState returns the active screen.
func (m *HistoryModel) ViewState() ViewState { return m.view }

// Init implements tea.Model.
func (m *HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildList()
		return m, nil
	}

	if m.filtering {
		return m.handleFilterInput(msg)
	}

	switch m.view {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail, ViewStateCompare:
		return m.handleSubviewUpdate(msg)
	default:
		return m, nil
	}
}

func (m *HistoryModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.filtering = false
			m.textInput.Blur()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *HistoryModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.view = ViewStateQuitting
		return m, tea.Quit
	case keySlash:
		m.filtering = true
		return m, m.textInput.Focus()
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.refresh()
		}
		return m, nil
	case keyR:
		m.cycleRange()
		return m, nil
	case keyC:
		m.view = ViewStateCompare
		return m, nil
	}

	snap := m.selected()
	if snap == nil {
		return m, nil
	}

	switch keyMsg.String() {
	case keyEnter:
		m.view = ViewStateDetail
	case keyB:
		m.apply(m.state.SetBaseline(snap.ID), "Baseline set to "+snap.Label)
	case keyS:
		id := snap.ID
		m.apply(m.state.SetScenario(&id), "Scenario set to "+snap.Label)
	case keyX:
		m.apply(m.state.SetScenario(nil), "Scenario cleared")
	case keyU:
		m.apply(m.state.SetCurrent(snap.ID), "Loaded "+snap.Label+" as current")
	default:
		m.list.Update(msg)
	}
	return m, nil
}

func (m *HistoryModel) handleSubviewUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.view = ViewStateQuitting
			return m, tea.Quit
		case keyEsc:
			m.view = ViewStateList
		}
	}
	return m, nil
}

func (m *HistoryModel) apply(next session.State, status string) {
	m.state = next
	m.changed = true
	m.status = status
}

func (m *HistoryModel) cycleRange() {
	for i, r := range rangeCycle {
		if r == m.rng {
			m.rng = rangeCycle[(i+1)%len(rangeCycle)]
			break
		}
	}
	m.refresh()
}

func (m *HistoryModel) refresh() {
	m.visible = m.state.Filter(session.HistoryFilter{
		Range: m.rng,
		Query: m.textInput.Value(),
		Now:   m.now(),
	})
	m.rebuildList()
}

func (m *HistoryModel) rebuildList() {
	available := max(m.height-historyHeaderHeight-3, minHeight)
	selected := 0
	if m.list != nil {
		selected = m.list.Selected()
	}
	m.list = listview.NewVirtualListModel(m.visible, available, m.width, m.renderRow)
	m.list.SetSelected(selected)
}

func (m *HistoryModel) selected() *session.Snapshot {
	if m.list == nil {
		return nil
	}
	return m.list.GetSelectedItem()
}

func (m *HistoryModel) renderRow(snap session.Snapshot, selected bool) string {
	row := fmt.Sprintf("%s %-*s  %-*s  %*s",
		MarksFor(m.state, snap.ID),
		histColWidthLabel, truncate(snap.Label, histColWidthLabel),
		histColWidthDate, snap.CreatedAt.Local().Format(dateLayout),
		histColWidthTotal, FormatKg(snap.Response.Breakdown.TotalKg, m.precision),
	)
	if selected {
		return lipgloss.NewStyle().Foreground(ColorHighlight).Background(ColorSelected).Render(row)
	}
	return row
}

// View renders the current view.
func (m *HistoryModel) View() string {
	switch m.view {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		if snap := m.selected(); snap != nil {
			return RenderSnapshotDetail(*snap, MarksFor(m.state, snap.ID), m.precision) +
				"\n[Esc] Back  [q] Quit"
		}
		m.view = ViewStateList
		return m.renderList()
	case ViewStateCompare:
		return m.renderCompare() + "\n[Esc] Back  [q] Quit"
	default:
		return m.renderList()
	}
}

func (m *HistoryModel) renderCompare() string {
	baseline, scenario, ok := m.state.ResolvePair()
	if !ok {
		return lipgloss.NewStyle().Foreground(ColorMuted).Italic(true).
			Render("Save at least two snapshots, or pick a baseline and scenario, to compare.")
	}
	return RenderComparison(greenops.Compare(baseline, scenario), m.precision, m.width)
}

func (m *HistoryModel) renderList() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	muted := lipgloss.NewStyle().Foreground(ColorMuted)

	title := titleStyle.Render(fmt.Sprintf("History (%d of %d, range %s)",
		len(m.visible), m.state.Len(), m.rng))

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Render(fmt.Sprintf("   %-*s  %-*s  %*s",
			histColWidthLabel, "Label",
			histColWidthDate, "Created",
			histColWidthTotal, "Total"))

	body := m.list.View()
	if len(m.visible) == 0 {
		body = muted.Italic(true).Render("No snapshots match.")
	}

	parts := []string{title, header, body}
	if m.filtering || m.textInput.Value() != "" {
		parts = append(parts, "\nSearch: "+m.textInput.View())
	}
	if m.status != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(ColorOK).Render(m.status))
	}
	parts = append(parts, muted.Render(
		"\n[/] Search  [r] Range  [b] Baseline  [s] Scenario  [x] Clear scenario  [u] Use  [c] Compare  [Enter] Details  [q] Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
