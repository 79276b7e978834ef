package models

import "github.com/shopspring/decimal"

// Statistics is the aggregate summary of the transactions matching a month.
type Statistics struct {
	TotalSaleAmount   decimal.Decimal `json:"totalSaleAmount"`
	TotalSoldItems    int64           `json:"totalSoldItems"`
	TotalNotSoldItems int64           `json:"totalNotSoldItems"`
}

// PriceBandCount is one bar of the price histogram.
type PriceBandCount struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

// CategoryCount is one slice of the category breakdown. The JSON key mirrors
// the group key of an aggregation pipeline.
type CategoryCount struct {
	Category string `json:"_id"`
	Count    int64  `json:"count"`
}

// CombinedView bundles the four month-scoped read models into one response.
type CombinedView struct {
	Transactions []Transaction    `json:"transactions"`
	Statistics   *Statistics      `json:"statistics"`
	BarChart     []PriceBandCount `json:"barChart"`
	PieChart     []CategoryCount  `json:"pieChart"`
}
