package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/search/result"
)

var (
	groupTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			PaddingLeft(2)

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Width(8).
			Align(lipgloss.Right)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Margin(1, 0, 0, 0)

	noResultsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// renderGroups writes search results as a terminal listing.
func renderGroups(ctx context.Context, w io.Writer, query string, groups []result.Group) error {
	var b strings.Builder
	total := 0
	for i := range groups {
		g := &groups[i]
		if g.Title() != "" {
			b.WriteString(groupTitleStyle.Render(g.Title()))
			b.WriteString("\n")
		}
		for _, note := range g.Notes() {
			b.WriteString(noteStyle.Render(note))
			b.WriteString("\n")
		}
		for _, rec := range g.Items() {
			var name string
			if err := item.DecodeField(ctx, rec, item.FieldName, &name); err != nil {
				return err
			}
			b.WriteString(indexStyle.Render(fmt.Sprintf("#%d", rec.Index())))
			b.WriteString("  ")
			b.WriteString(name)
			b.WriteString("\n")
		}
		total += g.Len()
	}

	if total == 0 {
		b.WriteString(noResultsStyle.Render(fmt.Sprintf("No results for %q", query)))
	} else {
		b.WriteString(summaryStyle.Render(fmt.Sprintf("%d results in %d groups", total, len(groups))))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
