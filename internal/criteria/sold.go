package criteria

import "github.com/salesboard/txstats/shared/models"

// SoldPolicy decides which matching transactions count as sold items.
type SoldPolicy string

const (
	// SoldAll counts every matching transaction as sold, whatever its price.
	// This reproduces the behaviour the service has always had.
	SoldAll SoldPolicy = "all"
	// SoldPriced counts only transactions with a positive price.
	SoldPriced SoldPolicy = "priced"
	// SoldFlag trusts the sold flag carried by the seed dataset.
	SoldFlag SoldPolicy = "flag"
)

// IsSold applies the policy to one transaction. Unknown policies behave
// like SoldAll.
func (p SoldPolicy) IsSold(t models.Transaction) bool {
	switch p {
	case SoldPriced:
		return t.Price > 0
	case SoldFlag:
		return t.Sold
	default:
		return true
	}
}
