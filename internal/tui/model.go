package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/ensigniasec/bio-id/internal/scanner"
)

// Controller is the subset of the scanner the view drives.
type Controller interface {
	Start()
	Stop()
	TriggerSecret()
	Reset()
	Snapshot() scanner.Snapshot
}

// Zone is the hidden trigger area anchored at the top-left cell.
type Zone struct {
	Width  int
	Height int
}

// Contains reports whether the cell (x, y) lies inside the zone.
func (z Zone) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < z.Width && y < z.Height
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl    Controller
	snap    scanner.Snapshot
	snapCh  <-chan scanner.Snapshot
	printer *message.Printer

	progress progress.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	secretZone Zone
	width      int
	height     int

	// mouse is false when gestures come from the keyboard only.
	mouse bool
	// pressed is set while the mouse button is held on the pad.
	pressed     bool
	helpVisible bool
	quitting    bool
}

// NewModel constructs a Model with initial state.
func NewModel(ctrl Controller, snapCh <-chan scanner.Snapshot, p *message.Printer, zone Zone) Model {
	prog := progress.New(progress.WithSolidFill(colorAccent), progress.WithoutPercentage())
	prog.Width = progressWidth
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent))),
	)
	return Model{
		ctrl:       ctrl,
		snap:       ctrl.Snapshot(),
		snapCh:     snapCh,
		printer:    p,
		progress:   prog,
		spinner:    sp,
		help:       help.New(),
		keys:       newKeyMap(p),
		secretZone: zone,
		mouse:      true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForSnapshots(),
		m.spinner.Tick,
	)
}

// listenForSnapshots returns a Tea command that waits for the next snapshot.
func (m Model) listenForSnapshots() tea.Cmd {
	if m.snapCh == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-m.snapCh
		if !ok {
			return bridgeClosedMsg{}
		}
		return snapshotMsg(s)
	}
}

// Snapshot returns the state the view last rendered from.
func (m Model) Snapshot() scanner.Snapshot { return m.snap }

func (m Model) screenWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

func (m Model) screenHeight() int {
	if m.height > 0 {
		return m.height
	}
	return defaultHeight
}
