// Package pricing turns normalized cart items, an optional applied discount
// and a resolved delivery fee into a consistent price breakdown. All amounts
// are euro cents; the only rounding point is the percentage discount.
package pricing

import (
	"math"

	"github.com/galwaybites/storefront/internal/cart"
	"github.com/galwaybites/storefront/internal/discount"
)

type Breakdown struct {
	Subtotal    int64 `json:"subtotal"`
	Discount    int64 `json:"discount"`
	DeliveryFee int64 `json:"delivery_fee"`
	Total       int64 `json:"total"`
}

// ItemTotal is (unit price + paid available addons) x quantity.
func ItemTotal(it cart.Item) int64 {
	perUnit := it.UnitPrice
	for _, a := range it.Addons {
		if a.IsAvailable && a.Price > 0 {
			perUnit += a.Price
		}
	}
	return perUnit * int64(it.Quantity)
}

// Price computes the breakdown for the given items. The discount applies to
// the subtotal only, never to the delivery fee. The total is not clamped: a
// discount above 100% combined with a zero fee yields a negative total,
// matching the storefront's historical behaviour.
func Price(items []cart.Item, applied *discount.Applied, deliveryFee int64) Breakdown {
	var subtotal int64
	for _, it := range items {
		subtotal += ItemTotal(it)
	}

	var disc int64
	if applied != nil {
		disc = int64(math.Round(float64(subtotal) * applied.Percent / 100))
	}

	return Breakdown{
		Subtotal:    subtotal,
		Discount:    disc,
		DeliveryFee: deliveryFee,
		Total:       subtotal + deliveryFee - disc,
	}
}
