package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to every cart.
var TaxRate = decimal.RequireFromString("0.08")

// CartLine is one product's aggregated quantity within a cart.
type CartLine struct {
	ProductID string    `json:"productId"`
	Product   Product   `json:"product"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// UnitPrice is the snapshot price of the product.
func (l CartLine) UnitPrice() decimal.Decimal {
	return decimal.NewFromFloat(l.Product.Price())
}

// LineTotal is price × quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSummary is derived from the lines on demand and never stored.
type CartSummary struct {
	Lines      []CartLine      `json:"items"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}

// Summarize derives totals for the given lines.
func Summarize(lines []CartLine) CartSummary {
	s := CartSummary{Lines: lines, Subtotal: decimal.Zero}
	for _, l := range lines {
		s.TotalItems += l.Quantity
		s.Subtotal = s.Subtotal.Add(l.LineTotal())
	}
	s.Tax = s.Subtotal.Mul(TaxRate)
	s.Total = s.Subtotal.Add(s.Tax)
	return s
}
