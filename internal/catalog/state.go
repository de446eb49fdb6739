package catalog

// State is the pagination state of a catalog controller.
type State string

const (
	StateUninitialized     State = "uninitialized"
	StateFetchingFirstPage State = "fetching_first_page"
	StateIdle              State = "idle"
	StateFetchingNextPage  State = "fetching_next_page"
	StateExhausted         State = "exhausted"
	StateFailed            State = "failed"
)

// Fetching reports whether a page fetch is in flight.
func (s State) Fetching() bool {
	return s == StateFetchingFirstPage || s == StateFetchingNextPage
}
