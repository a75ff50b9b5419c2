package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/bio-id/internal/scanner"
)

// rect is a screen region in terminal cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if m.snap.Phase == scanner.PhaseDone {
		return m.renderResult()
	}

	width := m.screenWidth()
	pad, _ := center(m.renderPad(), width)
	status, _ := center(m.renderStatus(), width)

	var b strings.Builder
	b.WriteString(m.renderTop())
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString("\n\n")
	b.WriteString(status)
	b.WriteString("\n")
	if bar := m.renderProgress(); bar != "" {
		line, _ := center(bar, width)
		b.WriteString(line)
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)).Render(m.help.View(m.keys)))
	return b.String()
}

// renderTop returns everything above the pad. Its height fixes the pad row
// used for mouse hit-testing, so it must not end with a newline.
func (m Model) renderTop() string {
	width := m.screenWidth()
	blocks := []string{""}
	if m.helpVisible {
		blocks = append(blocks, renderHelp(m), "")
	}
	blocks = append(blocks, renderBanner(m.printer), "", m.renderInfoPanel(), "")

	lines := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		centered, _ := center(blk, width)
		lines = append(lines, centered)
	}
	return strings.Join(lines, "\n")
}

// padRect locates the fingerprint pad on screen.
func (m Model) padRect() rect {
	pad := m.renderPad()
	_, x := center(pad, m.screenWidth())
	return rect{
		x: x,
		y: lipgloss.Height(m.renderTop()),
		w: lipgloss.Width(pad),
		h: lipgloss.Height(pad),
	}
}

// center left-pads block so it sits in the middle of width, returning the
// rendered block and its left offset.
func center(block string, width int) (string, int) {
	left := (width - lipgloss.Width(block)) / 2
	if left < 0 {
		left = 0
	}
	if left == 0 || block == "" {
		return block, left
	}
	return lipgloss.NewStyle().MarginLeft(left).Render(block), left
}

func (m Model) active() bool {
	return m.snap.Phase == scanner.PhaseScanning || m.snap.Phase == scanner.PhaseRevealing
}

func (m Model) renderInfoPanel() string {
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorMuted))
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(colorDim)).
		Width(18).
		Align(lipgloss.Center)

	core := m.printer.Sprintf("panel.core.ready")
	if m.active() {
		core = m.printer.Sprintf("panel.core.syncing")
	}
	left := box.Render(label.Render(m.printer.Sprintf("panel.core")) + "\n" + core)
	right := box.Render(label.Render(m.printer.Sprintf("panel.network")) + "\n" + m.printer.Sprintf("panel.network.secure"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (m Model) renderPad() string {
	border := colorDim
	if m.active() {
		border = colorAccent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(padInnerWidth).
		Height(padInnerHeight).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(renderFingerprint(m.active(), m.snap.Progress))
}

func (m Model) renderStatus() string {
	color := colorMuted
	switch m.snap.Status {
	case scanner.StatusScanning, scanner.StatusAnalyzing:
		color = colorAccent
	case scanner.StatusInterrupted:
		color = colorWarn
	case scanner.StatusReady, scanner.StatusResult:
	}
	text := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(m.printer.Sprintf(m.snap.Status.Key()))
	if m.snap.Phase == scanner.PhaseRevealing {
		return m.spinner.View() + " " + text
	}
	return text
}

func (m Model) renderProgress() string {
	if !m.active() {
		return ""
	}
	pct := m.snap.Progress / percentScale
	if pct > 1 {
		pct = 1
	}
	return fmt.Sprintf("%s %3.0f%%", m.progress.ViewAs(pct), m.snap.Progress)
}

func (m Model) renderResult() string {
	fg, bg, icon := colorAlert, colorAlertBg, "⚠"
	if m.snap.Outcome == scanner.OutcomeB {
		fg, bg, icon = colorOK, colorOKBg, "✔"
	}
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Bold(true)
	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color(fg)).
		Bold(true).
		Padding(0, 3)

	content := strings.Join([]string{
		accent.Render(icon),
		"",
		accent.Render(m.printer.Sprintf("result.heading")),
		"",
		accent.Render(m.snap.Label + "!!!"),
		"",
		button.Render("⟳ " + m.printer.Sprintf("result.reset")),
	}, "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color(fg)).
		Padding(1, 4).
		Align(lipgloss.Center).
		Render(content)

	return lipgloss.Place(
		m.screenWidth(), m.screenHeight(),
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(bg)),
	)
}

func renderHelp(m Model) string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color("69"))
	hold, release, reset := "help.hold", "help.release", "help.reset"
	if !m.mouse {
		hold, release, reset = "help.keyboard.hold", "help.keyboard.release", "help.keyboard.reset"
	}
	content := []string{
		m.printer.Sprintf("help.title"),
		"",
		m.printer.Sprintf(hold),
		m.printer.Sprintf(release),
		m.printer.Sprintf(reset),
		m.printer.Sprintf("help.quit"),
	}
	return border.Render(strings.Join(content, "\n"))
}
