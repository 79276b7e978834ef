package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/salesboard/txstats/internal/criteria"
	"github.com/salesboard/txstats/shared/utils"
)

const transactionsTable = "product_transactions"

// serialisedDate renders date_of_sale exactly like criteria.DateLayout.
const serialisedDate = `to_char(date_of_sale AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.MS"Z"')`

// queryArgs collects positional parameters while a statement is assembled.
type queryArgs struct {
	values []any
}

// add appends v and returns its placeholder.
func (a *queryArgs) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// whereClause translates a filter into a WHERE clause, or "" when the filter
// matches everything.
func whereClause(f criteria.Filter, args *queryArgs) string {
	var conds []string
	if f.Month != 0 {
		conds = append(conds, "EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = "+args.add(int(f.Month)))
	}
	if f.DatePattern != "" {
		conds = append(conds, serialisedDate+" ILIKE "+args.add(containsPattern(f.DatePattern)))
	}
	if f.Search != "" {
		p := args.add(containsPattern(f.Search))
		conds = append(conds, fmt.Sprintf("(title ILIKE %[1]s OR description ILIKE %[1]s OR price::text ILIKE %[1]s)", p))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func containsPattern(s string) string {
	return "%" + utils.EscapeLike(s) + "%"
}

// soldCondition is the SQL form of criteria.SoldPolicy.IsSold.
func soldCondition(p criteria.SoldPolicy) string {
	switch p {
	case criteria.SoldPriced:
		return "price > 0"
	case criteria.SoldFlag:
		return "sold"
	default:
		return "TRUE"
	}
}

// bandExpression is the SQL form of criteria.Bands.Index.
func bandExpression(b criteria.Bands, args *queryArgs) string {
	return fmt.Sprintf(
		"CASE WHEN price <= %s::float8 THEN 0 WHEN price > %s::float8 THEN %s::int ELSE CEIL((price - %s::float8) / %s::float8)::int - 1 END",
		args.add(b.Start+b.Width), args.add(b.Ceiling()), args.add(b.Closed), args.add(b.Start), args.add(b.Width),
	)
}
