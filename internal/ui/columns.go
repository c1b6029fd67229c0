package ui

// columns.go lays out the gallery grid: column widths and row cells.

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"
	"github.com/thesavant42/fluxgallery/internal/models"
)

// ColumnSpec defines a table column with flexible or fixed width
type ColumnSpec struct {
	Title      string
	MinWidth   int // 0 = no minimum
	FixedWidth int // if > 0, exact width (FlexRatio ignored)
	FlexRatio  int // share of the space left after fixed columns
}

// galleryColumns is the grid shown on the main screen
var galleryColumns = []ColumnSpec{
	{Title: "ID", FixedWidth: 7},
	{Title: "Prompt", FlexRatio: 1, MinWidth: 24},
	{Title: "Dimensions", FixedWidth: 13},
	{Title: "Size", FixedWidth: 9},
	{Title: "Created", FixedWidth: 16},
}

// CalculateColumns computes column widths from specs. Flexible columns split
// the space left after fixed columns by ratio, respecting minimums.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	// bubbles pads every cell by one on each side
	padding := 2 * len(specs)

	fixedTotal, flexTotal := 0, 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}
	remaining := max(totalWidth-fixedTotal-padding, 0)

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		width := s.FixedWidth
		if width == 0 && flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}
		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}
		columns[i] = table.Column{Title: s.Title, Width: width}
	}
	return columns
}

// GalleryColumns returns the grid columns sized for layout
func GalleryColumns(layout Layout) []table.Column {
	return CalculateColumns(galleryColumns, layout.TableWidth)
}

// ImageRows converts a page of records into grid rows. Ages are relative
// to now.
func ImageRows(items []models.ImageRecord, now time.Time) []table.Row {
	rows := make([]table.Row, len(items))
	for i, r := range items {
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			PromptCell(r.Prompt),
			DimensionsCell(r),
			SizeCell(r.Size),
			AgeCell(r.CreatedAt, now),
		}
	}
	return rows
}

// PromptCell flattens a prompt onto one line
func PromptCell(prompt string) string {
	prompt = strings.Join(strings.Fields(prompt), " ")
	if prompt == "" {
		return "(no prompt)"
	}
	return prompt
}

// DimensionsCell renders "W × H", or "-" when the service sent none
func DimensionsCell(r models.ImageRecord) string {
	if r.Width == 0 || r.Height == 0 {
		return "-"
	}
	return r.Dimensions()
}

// SizeCell renders a byte count, or "-" when unknown
func SizeCell(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

// AgeCell renders how long before now t was, like "3 hours ago"
func AgeCell(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatTimestamp renders an absolute generation time for the detail view
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("Jan 2, 2006 at 3:04 PM")
}
