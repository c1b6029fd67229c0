package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thesavant42/fluxgallery/internal/gallery"
	"github.com/thesavant42/fluxgallery/internal/models"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				MarginBottom(1)

	reportSubtitleStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)

	reportHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	reportBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	reportRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// PrintHeader prints a styled header for a one-shot listing
func PrintHeader(w io.Writer, service string, v gallery.View) {
	title := "Flux Gallery"
	if service != "" {
		title += " · " + service
	}

	line := fmt.Sprintf("Page %d of %d  ·  %s  ·  sorted by %s",
		v.CurrentPage, v.TotalPages,
		ResultSummary(len(v.PageItems), v.FilteredCount, v.TotalCount, v.Query.SearchTerm),
		v.Query.SortKey.Label())

	fmt.Fprintln(w)
	fmt.Fprintln(w, reportTitleStyle.Render(title))
	fmt.Fprintln(w, reportSubtitleStyle.Render(line))
	fmt.Fprintln(w)
}

// PrintImageTable prints one page of images as a plain table.
//
// This is a CLI report (non-interactive), so the table structure is built
// with string formatting and lipgloss only colors the text. The gallery
// screen uses bubbles/table instead.
func PrintImageTable(w io.Writer, items []models.ImageRecord, searchTerm string, now time.Time) {
	if len(items) == 0 {
		title, hint := EmptyState(searchTerm)
		fmt.Fprintln(w, reportTitleStyle.Render(title))
		fmt.Fprintln(w, reportSubtitleStyle.Render(hint))
		return
	}

	colWidths := []int{7, 48, 13, 9, 16} // ID, Prompt, Dimensions, Size, Created
	totalWidth := 2
	for _, cw := range colWidths {
		totalWidth += cw + 3
	}
	totalWidth -= 1

	separator := strings.Repeat("─", totalWidth-2)

	fmt.Fprintln(w, reportBorderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, reportHeaderStyle.Render(formatRow(colWidths, "ID", "Prompt", "Dimensions", "Size", "Created")))
	fmt.Fprintln(w, reportBorderStyle.Render("├"+separator+"┤"))

	for _, row := range ImageRows(items, now) {
		cells := make([]string, len(row))
		for i, cell := range row {
			if StringWidth(cell) > colWidths[i] {
				cell = truncateToWidth(cell, colWidths[i])
			}
			cells[i] = cell
		}
		fmt.Fprintln(w, reportRowStyle.Render(formatRow(colWidths, cells...)))
	}

	fmt.Fprintln(w, reportBorderStyle.Render("└"+separator+"┘"))
}

// formatRow pads cells by display width so wide runes keep the borders aligned
func formatRow(widths []int, cells ...string) string {
	var b strings.Builder
	b.WriteString("│")
	for i, cell := range cells {
		b.WriteString(" ")
		b.WriteString(padRight(cell, widths[i]))
		b.WriteString(" │")
	}
	return b.String()
}

// PrintPageHint tells the user how to reach the other pages
func PrintPageHint(w io.Writer, v gallery.View) {
	if !v.Controls.Visible {
		return
	}
	var hints []string
	if v.Controls.HasPrev {
		hints = append(hints, fmt.Sprintf("--page %d for previous", v.CurrentPage-1))
	}
	if v.Controls.HasNext {
		hints = append(hints, fmt.Sprintf("--page %d for next", v.CurrentPage+1))
	}
	fmt.Fprintln(w, reportSubtitleStyle.Render(strings.Join(hints, ", ")))
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, SuccessStyle.Render(message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: "+message))
}
