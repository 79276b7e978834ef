package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Sale amounts are rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction is a single product sale as loaded from the seed dataset.
type Transaction struct {
	ID          int64     `json:"id"`
	DateOfSale  time.Time `json:"dateOfSale"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
	Sold        bool      `json:"sold"`
}

// SeedRecord is the wire shape of one element of the remote seed dataset.
// The remote id is ignored; the store assigns its own.
type SeedRecord struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Sold        bool      `json:"sold"`
	DateOfSale  time.Time `json:"dateOfSale"`
}

func (r SeedRecord) ToTransaction() Transaction {
	return Transaction{
		DateOfSale:  r.DateOfSale,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		Sold:        r.Sold,
	}
}
