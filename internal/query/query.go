// Package query derives the visible gallery page from the raw record set.
//
// Every function here is pure: inputs are never mutated and identical inputs
// always produce identical output. Run composes the three stages:
//
//	records -> Filter(term) -> Sort(key) -> Paginate(page, size)
package query

import (
	"slices"
	"strings"

	"github.com/thesavant42/fluxgallery/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation used for prompt ordering
var collationTag = language.English

// Filter keeps the records whose prompt contains term, ignoring case.
// An empty term keeps everything.
func Filter(records []models.ImageRecord, term string) []models.ImageRecord {
	out := make([]models.ImageRecord, 0, len(records))
	if term == "" {
		return append(out, records...)
	}

	// Casers keep state, so each call gets its own
	fold := cases.Fold()
	needle := fold.String(term)
	for _, r := range records {
		if strings.Contains(fold.String(r.Prompt), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a stably sorted copy of records.
// Equal keys keep their fetch order; an unknown key returns the input order.
func Sort(records []models.ImageRecord, key models.SortKey) []models.ImageRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []models.ImageRecord{}
	}

	switch key {
	case models.SortNewest:
		slices.SortStableFunc(out, func(a, b models.ImageRecord) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case models.SortOldest:
		slices.SortStableFunc(out, func(a, b models.ImageRecord) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case models.SortPromptAsc, models.SortPromptDesc:
		// Collators are not safe for concurrent use
		c := collate.New(collationTag)
		desc := key == models.SortPromptDesc
		slices.SortStableFunc(out, func(a, b models.ImageRecord) int {
			if desc {
				return c.CompareString(b.Prompt, a.Prompt)
			}
			return c.CompareString(a.Prompt, b.Prompt)
		})
	}
	return out
}

// TotalPages returns max(1, ceil(count/size))
func TotalPages(count, size int) int {
	if size <= 0 {
		size = models.DefaultPageSize
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage restricts page to [1, total]
func ClampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Paginate returns the window of records for page. The page number is
// clamped into range before slicing.
func Paginate(records []models.ImageRecord, page, size int) models.Page {
	if size <= 0 {
		size = models.DefaultPageSize
	}
	total := TotalPages(len(records), size)
	page = ClampPage(page, total)

	start := (page - 1) * size
	end := min(start+size, len(records))

	items := make([]models.ImageRecord, 0, end-start)
	items = append(items, records[start:end]...)

	return models.Page{
		Items:         items,
		PageNumber:    page,
		TotalPages:    total,
		FilteredCount: len(records),
	}
}

// Run applies filter, sort and pagination for the given query state
func Run(records []models.ImageRecord, state models.QueryState) models.Page {
	filtered := Filter(records, state.SearchTerm)
	sorted := Sort(filtered, state.SortKey)
	return Paginate(sorted, state.PageNumber, state.PageSize)
}
