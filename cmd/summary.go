package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/classified-records/internal"
	"github.com/moyu-x/classified-records/pkg/organizer"
)

var (
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)

	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Faint(true)
)

func renderSummary(stats *organizer.Stats, dryRun bool) string {
	lines := strings.Split(strings.TrimRight(stats.String(), "\n"), "\n")

	var b strings.Builder
	b.WriteString(summaryTitleStyle.Render(lines[0]))
	for _, line := range lines[1:] {
		b.WriteString("\n")
		if stats.Failed > 0 && strings.HasPrefix(line, "Errors:") {
			b.WriteString(failedStyle.Render(line))
			continue
		}
		b.WriteString(line)
	}
	if dryRun {
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render(fmt.Sprintf("DRY RUN: 归档文件夹保留占位计数 %02d", internal.ProvisionalArchiveCount)))
	}

	return summaryBoxStyle.Render(b.String())
}
