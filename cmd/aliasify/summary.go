package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"aliasify/internal/app"
	"aliasify/internal/history"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	changedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

func printSummary(s app.Summary, write bool) {
	var b strings.Builder

	verb := "would change"
	if write {
		verb = "changed"
	}

	b.WriteString(headerStyle.Render("aliasify") + " ")
	b.WriteString(fmt.Sprintf("%d files scanned, %s %d, propagated %d",
		s.FilesScanned, verb, s.FilesChanged, s.FilesPropagated))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", s.Duration.Round(time.Millisecond))))
	b.WriteString("\n")

	for _, path := range s.Changed {
		b.WriteString("  " + changedStyle.Render(path) + "\n")
	}
	for _, path := range s.Propagated {
		b.WriteString("  " + changedStyle.Render(path) + dimStyle.Render(" (refs)") + "\n")
	}

	if s.AmbiguousSkipped > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %d ambiguous rename(s) excluded from propagation", s.AmbiguousSkipped)))
		b.WriteString("\n")
		for _, spec := range s.Ambiguous {
			b.WriteString("    " + dimStyle.Render(spec) + "\n")
		}
	}
	if s.ShadowedSkipped > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %d specifier(s) left alone to avoid shadowing installed packages", s.ShadowedSkipped)))
		b.WriteString("\n")
	}

	fmt.Print(b.String())
}

func printRuns(runs []history.Run) {
	if len(runs) == 0 {
		fmt.Println(dimStyle.Render("no recorded runs"))
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %s  scanned=%d changed=%d propagated=%d ambiguous=%d  %dms\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			headerStyle.Render(r.Mode),
			r.Root,
			r.FilesScanned,
			r.FilesChanged,
			r.FilesPropagated,
			r.AmbiguousSkipped,
			r.DurationMS,
		)
	}
}
