package main

import (
	"fmt"
	"strings"

	"bdirules/internal/architecture"
	"bdirules/internal/mental"

	"github.com/charmbracelet/lipgloss"
)

var (
	tableTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	tableHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
	tableSep    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

var tableHeaders = []string{"AGENT", "BASE", "STATE", "STRENGTH", "LIFETIME"}

// renderTable lays the agents' bases out one state per row.
func renderTable(agents []*architecture.Agent) string {
	var rows [][]string
	for _, ag := range agents {
		snap := ag.Bases.Snapshot()
		for _, c := range mental.PredicateCategories {
			for _, s := range snap.States[c] {
				rows = append(rows, []string{ag.ID, string(c), s.Predicate.String(), optFloat(s.Strength), optInt(s.Lifetime)})
			}
		}
		for _, e := range snap.Emotions {
			rows = append(rows, []string{ag.ID, string(mental.CategoryEmotion), e.Kind, fmt.Sprintf("%g", e.Intensity), "-"})
		}
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Padding counts toward a style's width.
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	sb.WriteString(tableTitle.Render(fmt.Sprintf("%d agents", len(agents))))
	sb.WriteString("\n")
	writeRow(&sb, tableHeader, widths, tableHeaders)
	for i, w := range widths {
		sb.WriteString(tableSep.Render(strings.Repeat("-", w)))
		if i < len(widths)-1 {
			sb.WriteString(tableSep.Render("+"))
		}
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(&sb, tableCell, widths, row)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, style lipgloss.Style, widths []int, cells []string) {
	for i, cell := range cells {
		sb.WriteString(style.Width(widths[i]).Render(cell))
		if i < len(cells)-1 {
			sb.WriteString(tableSep.Render("|"))
		}
	}
	sb.WriteString("\n")
}

func optFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}

func optInt(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}
