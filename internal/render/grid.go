package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/benaskins/ztop/internal/dashboard"
)

const (
	defaultWidth  = 120
	defaultHeight = 40

	// minCell is the smallest cell that still fits a border around one character.
	minCell = 3
)

// Grid lays the four frames out as a 2x2 grid filling width x height:
// CPU and System on top, Memory and Containers below.
func Grid(frames [dashboard.NumPanes]dashboard.Frame, width, height int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	leftW := width / 2
	rightW := width - leftW
	topH := height / 2
	bottomH := height - topH

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		Cell(frames[dashboard.CPU], leftW, topH),
		Cell(frames[dashboard.System], rightW, topH),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		Cell(frames[dashboard.Memory], leftW, bottomH),
		Cell(frames[dashboard.Containers], rightW, bottomH),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// Cell renders one bordered, titled pane of exactly width x height cells.
// Only the most recent lines that fit are shown.
func Cell(f dashboard.Frame, width, height int) string {
	width = max(width, minCell)
	height = max(height, minCell)
	innerW := width - 2
	innerH := height - 2

	border := lipgloss.RoundedBorder()
	borderColor := lipgloss.Color(f.Style.Border)

	body := lipgloss.NewStyle().
		Border(border, false, true, true, true).
		BorderForeground(borderColor).
		Foreground(lipgloss.Color(f.Style.Text)).
		Width(innerW).
		Height(innerH).
		Render(clip(f.Text, innerW, innerH))

	return lipgloss.JoinVertical(lipgloss.Left, titleBar(f.Label, innerW, border, borderColor), body)
}

// titleBar draws the top border with the label set into it.
func titleBar(label string, innerW int, border lipgloss.Border, color lipgloss.Color) string {
	line := lipgloss.NewStyle().Foreground(color)
	title := lipgloss.NewStyle().Foreground(color).Bold(true)

	// Leave room for one rule character and a space either side of the label.
	label = ansi.Truncate(label, max(innerW-3, 0), "…")
	if label == "" {
		return line.Render(border.TopLeft + strings.Repeat(border.Top, innerW) + border.TopRight)
	}

	text := " " + label + " "
	rest := max(innerW-1-ansi.StringWidth(text), 0)
	return line.Render(border.TopLeft+border.Top) +
		title.Render(text) +
		line.Render(strings.Repeat(border.Top, rest)+border.TopRight)
}

// clip keeps the last height lines of text, each cut to width columns.
func clip(text string, width, height int) string {
	if text == "" || height <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(strings.ReplaceAll(l, "\t", "    "), width, "")
	}
	return strings.Join(lines, "\n")
}
