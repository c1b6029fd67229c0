package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thesavant42/fluxgallery/internal/query"
)

// RenderPagination draws the page bar: prev, up to five page numbers and
// next. It renders nothing when everything fits on one page.
func RenderPagination(c query.Controls) string {
	if !c.Visible {
		return ""
	}

	var parts []string
	if c.HasPrev {
		parts = append(parts, ArrowStyle.Render("‹ Prev"))
	} else {
		parts = append(parts, ArrowDisabledStyle.Render("‹ Prev"))
	}

	for _, p := range c.Pages {
		label := strconv.Itoa(p)
		if p == c.Current {
			parts = append(parts, PageActiveStyle.Render(label))
		} else {
			parts = append(parts, PageInactiveStyle.Render(label))
		}
	}

	if c.HasNext {
		parts = append(parts, ArrowStyle.Render("Next ›"))
	} else {
		parts = append(parts, ArrowDisabledStyle.Render("Next ›"))
	}
	return strings.Join(parts, " ")
}

// EmptyState returns the message shown when no image passes the filter
func EmptyState(searchTerm string) (title, hint string) {
	title = "No images found"
	if searchTerm != "" {
		return title, "Try adjusting your search query."
	}
	return title, "Start by generating some images."
}

// ResultSummary describes what the grid currently shows
func ResultSummary(shown, filtered, total int, searchTerm string) string {
	if searchTerm == "" {
		return fmt.Sprintf("Showing %d of %d images", shown, total)
	}
	return fmt.Sprintf("Showing %d of %d matches (%d images)", shown, filtered, total)
}
