package query

// MaxPageButtons is how many numbered page buttons the pagination bar shows
const MaxPageButtons = 5

// Controls describes what the pagination bar renders for the current page
type Controls struct {
	Visible bool  // hidden when everything fits on one page
	Pages   []int // numbered buttons, ascending
	Current int
	HasPrev bool
	HasNext bool
}

// PageWindow returns the page numbers to offer around current.
// All pages are listed when there are at most five; otherwise the window
// pins to the start or end and slides with current in between.
func PageWindow(current, total int) []int {
	if total < 1 {
		total = 1
	}
	current = ClampPage(current, total)

	n := min(MaxPageButtons, total)
	var first int
	switch {
	case total <= MaxPageButtons, current <= 3:
		first = 1
	case current >= total-2:
		first = total - MaxPageButtons + 1
	default:
		first = current - 2
	}

	pages := make([]int, n)
	for i := range pages {
		pages[i] = first + i
	}
	return pages
}

// BuildControls derives the pagination bar state
func BuildControls(current, total int) Controls {
	if total < 1 {
		total = 1
	}
	current = ClampPage(current, total)
	return Controls{
		Visible: total > 1,
		Pages:   PageWindow(current, total),
		Current: current,
		HasPrev: current > 1,
		HasNext: current < total,
	}
}
