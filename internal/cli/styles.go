package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitflow/internal/constants"
)

var (
	accent = lipgloss.Color(constants.DefaultHabitColor)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func title(s string) string {
	return titleStyle.Render(s)
}

// habitLabel renders icon and name in the habit's own color
func habitLabel(icon, name, color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(icon) + " " + name
}

func checkmark(done bool) string {
	if done {
		return doneStyle.Render("✓")
	}
	return pendingStyle.Render("·")
}

// bar renders a percentage as a fixed-width bar
func bar(percentage float64, width int) string {
	filled := int(percentage / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return doneStyle.Render(strings.Repeat("█", filled)) + pendingStyle.Render(strings.Repeat("░", width-filled))
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func field(label string, value any) string {
	return fmt.Sprintf("%s %v", labelStyle.Render(label+":"), value)
}
