package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary)
}

func subtleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Text)
}

func accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
}

func statusStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

func keyHint(key, desc string) string {
	return statusStyle(CurrentTheme.Primary).Render(key) + subtleStyle().Render(" "+desc+"  ")
}

// BoxWithTitle renders content in a rounded box with the title in its top
// border.
func BoxWithTitle(title, content string, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderTop(false).
		BorderForeground(CurrentTheme.Muted).
		Width(width).
		Padding(0, 1)

	fill := width - lipgloss.Width(title) - 3
	if fill < 0 {
		fill = 0
	}
	border := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	header := border.Render("╭─ ") + titleStyle().Render(title) + border.Render(" "+strings.Repeat("─", fill)+"╮")
	return header + "\n" + box.Render(content)
}

func Separator(width int) string {
	mid := width / 2
	if mid < 3 {
		return subtleStyle().Render(strings.Repeat("─", width))
	}
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return subtleStyle().Render(left + " ◆ " + right)
}
