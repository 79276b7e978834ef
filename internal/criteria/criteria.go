// Package criteria holds the request-independent rules that decide which
// transactions an operation sees: month and search filtering, pagination,
// price bands and the sold policy. Both store implementations and the query
// service build on these definitions so their results agree.
package criteria

import (
	"strconv"
	"strings"
	"time"

	"github.com/salesboard/txstats/shared/models"
	"github.com/salesboard/txstats/shared/utils"
)

// DateLayout is the serialised form of dateOfSale that substring month
// patterns are matched against. Dates are always rendered in UTC.
const DateLayout = "2006-01-02T15:04:05.000Z"

// MonthMode selects how the month parameter is interpreted.
type MonthMode string

const (
	// MonthCalendar matches the calendar month of dateOfSale. Inputs that
	// are not a month fall back to substring matching.
	MonthCalendar MonthMode = "calendar"
	// MonthSubstring matches the month parameter as a case-insensitive
	// substring of the serialised date. "1" also matches "11", "21" and so on.
	MonthSubstring MonthMode = "substring"
)

// Filter selects transactions. The zero value matches everything.
type Filter struct {
	// Month restricts dateOfSale (UTC) to one calendar month when non-zero.
	Month time.Month
	// DatePattern must appear in the serialised dateOfSale when non-empty.
	DatePattern string
	// Search must appear in title, description or price when non-empty.
	Search string
}

// ForMonth builds the filter for a raw month parameter.
func ForMonth(raw string, mode MonthMode) Filter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Filter{}
	}
	if mode == MonthCalendar {
		if m, ok := ParseMonth(raw); ok {
			return Filter{Month: m}
		}
	}
	return Filter{DatePattern: raw}
}

// WithSearch returns a copy of f that also requires the search text.
func (f Filter) WithSearch(search string) Filter {
	f.Search = strings.TrimSpace(search)
	return f
}

// Matches reports whether t satisfies every constraint in f.
func (f Filter) Matches(t models.Transaction) bool {
	at := t.DateOfSale.UTC()
	if f.Month != 0 && at.Month() != f.Month {
		return false
	}
	if f.DatePattern != "" && !utils.ContainsFold(at.Format(DateLayout), f.DatePattern) {
		return false
	}
	if f.Search == "" {
		return true
	}
	return utils.ContainsFold(t.Title, f.Search) ||
		utils.ContainsFold(t.Description, f.Search) ||
		utils.ContainsFold(FormatPrice(t.Price), f.Search)
}

// FormatPrice renders a price the way search text is compared against it,
// matching PostgreSQL's float8 text output: the shortest decimal form,
// switching to exponent notation when the decimal exponent is below -4 or
// at least 15.
func FormatPrice(p float64) string {
	s := strconv.FormatFloat(p, 'e', -1, 64)
	if i := strings.LastIndexByte(s, 'e'); i >= 0 {
		if exp, err := strconv.Atoi(s[i+1:]); err == nil && (exp < -4 || exp >= 15) {
			return s
		}
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// ParseMonth accepts a month number (1-12, optionally zero padded), an
// English month name or its three letter abbreviation.
func ParseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] {
			return m, true
		}
	}
	return 0, false
}
