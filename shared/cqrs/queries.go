package cqrs

// ---------- Transaction queries ----------

// ListTransactionsQuery fetches one page of transactions matching a month and
// a free-text search. Page and PerPage are raw caller input and are
// normalised by the query service.
type ListTransactionsQuery struct {
	Month   string
	Search  string
	Page    int
	PerPage int
}

// ---------- Aggregate queries ----------

// MonthQuery scopes an aggregate (statistics, bar chart, pie chart or the
// combined view) to the transactions sold in Month. An empty Month matches
// every transaction.
type MonthQuery struct {
	Month string
}
