package ui

// view_helpers.go provides common View() rendering helpers shared by the
// gallery screen and its overlays.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// RenderTableWithSelection renders a bubbles table with a full-width
// selection highlight.
//
// bubbles/table View() output is the header row followed by only the visible
// data rows, so the highlighted line is the cursor minus the scroll offset.
func RenderTableWithSelection(t table.Model, layout Layout, focused bool) string {
	lines := strings.Split(t.View(), "\n")
	result := make([]string, 0, len(lines)+1)

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	// match the table's internal viewport scrolling
	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		start = min(start, totalRows-height)
	}
	visibleCursor := cursor - start

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, FullWidthDivider(layout.InnerWidth))
			continue
		}

		if focused && totalRows > 0 && i-1 == visibleCursor {
			// strip first so embedded resets don't kill the background
			clean := stripEscapeCodes(line)
			if StringWidth(clean) > layout.InnerWidth {
				clean = truncateToWidth(clean, layout.InnerWidth)
			}
			result = append(result, RenderSelectedWidth(clean, layout.InnerWidth))
			continue
		}
		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// ViewHeader renders a title line with right aligned status text and a
// full-width divider beneath
func ViewHeader(title, right string, innerWidth int) string {
	left := RenderTitle(title)
	gap := innerWidth - StringWidth(left) - StringWidth(right) - 2
	if gap < 1 {
		gap = 1
	}

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(right)
	b.WriteString("\n")
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n")
	return b.String()
}

// CenterText centers text within width
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	return strings.Repeat(" ", (width-textW)/2) + text
}

// FullWidthDivider returns a horizontal divider spanning the inner width
func FullWidthDivider(innerWidth int) string {
	return DimStyle.Render(strings.Repeat("─", innerWidth))
}

// PlaceOverlay centers box over a blank area the size of the main viewport
func PlaceOverlay(box string, layout Layout) string {
	return lipgloss.Place(
		layout.InnerWidth,
		layout.ViewportHeight-7,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}
