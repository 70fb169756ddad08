// Package tui renders comparisons for the terminal and hosts the interactive
// history browser.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Colors.
const (
	ColorHeader    = lipgloss.Color("39")
	ColorBorder    = lipgloss.Color("240")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("241")
	ColorOK        = lipgloss.Color("42")
	ColorWarning   = lipgloss.Color("214")
	ColorHighlight = lipgloss.Color("229")
	ColorSelected  = lipgloss.Color("57")
)

// Icons.
const (
	IconArrowUp    = "↑"
	IconArrowDown  = "↓"
	IconArrowRight = "→"
	IconBaseline   = "B"
	IconScenario   = "S"
)

// Key names shared by the interactive models.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyB     = "b"
	keyS     = "s"
	keyX     = "x"
	keyU     = "u"
	keyR     = "r"
)

// Default dimensions used before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 24
	minHeight     = 5
)

const (
	filterInputCharLimit = 100
	filterInputWidth     = 40
)

// ViewState is the screen an interactive model is showing.
type ViewState int

const (
	// ViewStateList shows the snapshot list.
	ViewStateList ViewState = iota
	// ViewStateDetail shows one snapshot.
	ViewStateDetail
	// ViewStateQuitting means the program is exiting.
	ViewStateQuitting
	// ViewStateCompare shows the comparison of the current pair.
	ViewStateCompare
)

// IsTTY reports whether stdout is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or fallback when it is unknown.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
