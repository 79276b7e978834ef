package criteria

import (
	"fmt"
	"math"
)

// Bands describes the price histogram: Closed bands of Width starting at
// Start, followed by one open-ended band for everything above them.
//
// The first band is [.., Start+Width] and absorbs prices below Start, later
// bands are (lower, lower+Width]. Together they partition the price domain.
type Bands struct {
	Start  float64
	Width  float64
	Closed int
}

// DefaultBands yields 0 - 100, 101 - 200, ... 801 - 900, 901 - above.
var DefaultBands = Bands{Start: 0, Width: 100, Closed: 9}

// Len is the number of bands including the open top band.
func (b Bands) Len() int {
	return b.Closed + 1
}

// Ceiling is the upper bound of the last closed band.
func (b Bands) Ceiling() float64 {
	return b.Start + float64(b.Closed)*b.Width
}

// Index returns the band a price falls into.
func (b Bands) Index(price float64) int {
	switch {
	case price <= b.Start+b.Width:
		return 0
	case price > b.Ceiling():
		return b.Closed
	default:
		return int(math.Ceil((price-b.Start)/b.Width)) - 1
	}
}

// Label renders band i the way the bar chart reports it.
func (b Bands) Label(i int) string {
	if i >= b.Closed {
		return fmt.Sprintf("%s - above", FormatPrice(b.Ceiling()+1))
	}
	upper := b.Start + float64(i+1)*b.Width
	if i == 0 {
		return fmt.Sprintf("%s - %s", FormatPrice(b.Start), FormatPrice(upper))
	}
	lower := b.Start + float64(i)*b.Width + 1
	return fmt.Sprintf("%s - %s", FormatPrice(lower), FormatPrice(upper))
}
