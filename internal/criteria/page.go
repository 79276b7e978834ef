package criteria

import "math"

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// Page is a normalised 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps raw paging input: non-positive values take the defaults and
// a size above maxPerPage is capped. A maxPerPage of 0 disables the cap.
// Page numbers whose offset would overflow are lowered to the last page
// with a representable offset, which lies past the end of any result.
func NewPage(number, size, maxPerPage int) Page {
	if number <= 0 {
		number = DefaultPage
	}
	if size <= 0 {
		size = DefaultPerPage
	}
	if maxPerPage > 0 && size > maxPerPage {
		size = maxPerPage
	}
	if last := math.MaxInt/size + 1; number > last {
		number = last
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of matching records skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
