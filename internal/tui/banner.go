package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"
)

// fingerprintArt is drawn inside the scanner pad. Every row has the same width.
//
//nolint:gochecknoglobals // static art
var fingerprintArt = []string{
	"  .-~~~~~~-.  ",
	" / .-~~~~-. \\ ",
	"| / .-~~-. \\ |",
	"| | / .. \\ | |",
	"| | | || | | |",
	"| | \\ '' / | |",
	"| \\ '-..-' / |",
	" \\ '-....-' / ",
}

// renderBanner returns the "system online" header block.
func renderBanner(p *message.Printer) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Render("●")
	online := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Render(p.Sprintf("banner.online"))
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)).Render(p.Sprintf("banner.title"))
	subtitle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)).Render(p.Sprintf("banner.subtitle"))

	return lipgloss.JoinVertical(lipgloss.Center, dot+" "+online, title, subtitle)
}

// renderFingerprint draws the art with a sweep line at progress percent.
func renderFingerprint(active bool, progress float64) string {
	color := colorDim
	if active {
		color = colorAccent
	}
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	sweep := lipgloss.NewStyle().Foreground(lipgloss.Color(colorOK)).Bold(true)

	sweepRow := -1
	if active {
		sweepRow = int(progress / percentScale * float64(len(fingerprintArt)-1))
	}

	rows := make([]string, len(fingerprintArt))
	for i, line := range fingerprintArt {
		if i == sweepRow {
			rows[i] = sweep.Render(strings.Repeat("━", lipgloss.Width(line)))
			continue
		}
		rows[i] = base.Render(line)
	}
	return strings.Join(rows, "\n")
}
