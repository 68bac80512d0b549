package pagestore

// State is a read-only snapshot of the pagination state.
type State struct {
	CurrentPage int
	PageSize    int
	Total       int
	Loading     bool
	// Err is the message of the last failed attempt; empty when absent.
	Err string
}

// PageCount is ceil(Total / PageSize). Zero means "no pages".
func (s State) PageCount() int {
	return PageCount(s.Total, s.PageSize)
}

func (s State) HasError() bool {
	return s.Err != ""
}

func PageCount(total int, pageSize int) int {
	if pageSize < 1 || total < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// LandingPage is the page holding the last record of a collection of the
// given size. It is never below 1.
func LandingPage(total int, pageSize int) int {
	if last := PageCount(total, pageSize); last > 1 {
		return last
	}
	return 1
}
