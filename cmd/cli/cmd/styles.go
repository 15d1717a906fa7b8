package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const ruleWidth = 72

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("═", ruleWidth)))
}

func printHeader(w io.Writer, columns ...string) {
	rendered := make([]string, len(columns))
	for i, c := range columns {
		rendered[i] = headerStyle.Render(c)
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(rendered, " "))
	fmt.Fprintln(w, "  "+dimStyle.Render(strings.Repeat("─", ruleWidth)))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen || maxLen < 4 {
		return s
	}
	return s[:maxLen-3] + "..."
}
