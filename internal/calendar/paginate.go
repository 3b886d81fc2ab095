package calendar

// Page is a run of consecutive calendar weeks rendered together.
type Page struct {
	Number int // 1-based
	Total  int
	Days   []Day
}

// Weeks returns the number of week rows on the page.
func (p Page) Weeks() int {
	return (len(p.Days) + DaysPerWeek - 1) / DaysPerWeek
}

// Paginate slices days into pages of weeksPerPage weeks. The last page
// holds whatever weeks remain and is not padded.
func Paginate(days []Day, weeksPerPage int) ([]Page, error) {
	if weeksPerPage < 1 {
		return nil, ErrInvalidWeeksPerPage
	}

	totalWeeks := (len(days) + DaysPerWeek - 1) / DaysPerWeek
	totalPages := (totalWeeks + weeksPerPage - 1) / weeksPerPage
	perPage := weeksPerPage * DaysPerWeek

	pages := make([]Page, 0, totalPages)
	for p := 0; p < totalPages; p++ {
		lo := p * perPage
		hi := min(lo+perPage, len(days))
		pages = append(pages, Page{
			Number: p + 1,
			Total:  totalPages,
			Days:   days[lo:hi:hi],
		})
	}
	return pages, nil
}

// Cell returns the grid position of the day at index i within a page.
// Column 0 is Sunday.
func Cell(i int) (row, col int) {
	return i / DaysPerWeek, i % DaysPerWeek
}
