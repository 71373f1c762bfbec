// Package cart implements the session cart as a pure value: every operation
// returns a new Cart and touches no external state. Persistence lives in
// cartstore.
package cart

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/galwaybites/storefront/internal/discount"
	"github.com/galwaybites/storefront/internal/models"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrItemNotFound    = errors.New("cart item not found")
)

// Item is one distinct food selection plus its chosen add-ons at a quantity.
// Key is the composite identity used to merge duplicate additions.
type Item struct {
	Key           string         `json:"key"`
	FoodID        string         `json:"food_id"`
	Name          string         `json:"name"`
	UnitPrice     int64          `json:"unit_price"`
	Quantity      int            `json:"quantity"`
	Addons        []models.Addon `json:"addons,omitempty"`
	Customization string         `json:"customization,omitempty"`
}

type Cart struct {
	Items []Item `json:"items"`

	// AppliedDiscount holds at most one discount. Applying a new code
	// replaces it, never stacks.
	AppliedDiscount *discount.Applied `json:"applied_discount,omitempty"`
}

// ItemKey computes the composite identity for a food plus addon selection:
// the food id joined with the sorted names of addons that are available and
// carry a positive price. Free or unavailable addons do not differentiate
// cart entries.
func ItemKey(foodID string, addons []models.Addon) string {
	names := make([]string, 0, len(addons))
	for _, a := range addons {
		if a.IsAvailable && a.Price > 0 {
			names = append(names, a.Name)
		}
	}
	if len(names) == 0 {
		return foodID
	}
	sort.Strings(names)
	return foodID + "-" + strings.Join(names, ",")
}

// Add merges it into the cart. An existing entry with the same composite key
// has its quantity incremented; the stored addon set and unit price are kept
// as-is, since key equality implies they match. Otherwise the item is
// appended, preserving insertion order.
func (c Cart) Add(it Item) (Cart, error) {
	if it.Quantity < 1 {
		return c, fmt.Errorf("%w: %d", ErrInvalidQuantity, it.Quantity)
	}
	it.Key = ItemKey(it.FoodID, it.Addons)

	items := make([]Item, len(c.Items))
	copy(items, c.Items)

	for i := range items {
		if items[i].Key == it.Key {
			items[i].Quantity += it.Quantity
			c.Items = items
			return c, nil
		}
	}

	c.Items = append(items, it)
	return c, nil
}

// Remove deletes the entry outright. Removing an absent key is a no-op.
func (c Cart) Remove(key string) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Key != key {
			items = append(items, it)
		}
	}
	c.Items = items
	return c
}

// SetQuantity replaces the quantity of the entry with the given key.
// Quantities below 1 are rejected: callers must Remove the entry instead of
// zeroing it.
func (c Cart) SetQuantity(key string, qty int) (Cart, error) {
	if qty < 1 {
		return c, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	for i := range items {
		if items[i].Key == key {
			items[i].Quantity = qty
			c.Items = items
			return c, nil
		}
	}
	return c, fmt.Errorf("%w: %s", ErrItemNotFound, key)
}

// SetCustomization replaces the free-text customization of the entry.
func (c Cart) SetCustomization(key, text string) (Cart, error) {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	for i := range items {
		if items[i].Key == key {
			items[i].Customization = text
			c.Items = items
			return c, nil
		}
	}
	return c, fmt.Errorf("%w: %s", ErrItemNotFound, key)
}

// ApplyDiscount replaces any previously applied discount with d.
func (c Cart) ApplyDiscount(d discount.Applied) Cart {
	c.AppliedDiscount = &d
	return c
}

// ClearDiscount drops the applied discount, if any.
func (c Cart) ClearDiscount() Cart {
	c.AppliedDiscount = nil
	return c
}

// Clear empties the cart and drops the applied discount.
func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}
