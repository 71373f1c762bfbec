package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galwaybites/storefront/internal/discount"
	"github.com/galwaybites/storefront/internal/models"
)

func TestItemKey(t *testing.T) {
	addons := []models.Addon{
		{Name: "cheese", Price: 100, IsAvailable: true},
		{Name: "bacon", Price: 150, IsAvailable: true},
		{Name: "napkins", Price: 0, IsAvailable: true},
		{Name: "truffle", Price: 300, IsAvailable: false},
	}

	// Sorted paid available names only; free and unavailable addons are ignored.
	require.Equal(t, "f1-bacon,cheese", ItemKey("f1", addons))
	require.Equal(t, "f1", ItemKey("f1", nil))
	require.Equal(t, "f1", ItemKey("f1", []models.Addon{{Name: "napkins", Price: 0, IsAvailable: true}}))
}

func TestAddMergesSameSelection(t *testing.T) {
	addons := []models.Addon{{Name: "cheese", Price: 100, IsAvailable: true}}

	c := Cart{}
	c, err := c.Add(Item{FoodID: "f1", Name: "Burger", UnitPrice: 900, Quantity: 2, Addons: addons})
	require.NoError(t, err)
	c, err = c.Add(Item{FoodID: "f1", Name: "Burger", UnitPrice: 900, Quantity: 3, Addons: addons})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	require.Equal(t, 5, c.Items[0].Quantity)
	require.Equal(t, "f1-cheese", c.Items[0].Key)
}

func TestAddDistinctAddonSets(t *testing.T) {
	c := Cart{}
	c, err := c.Add(Item{FoodID: "f1", UnitPrice: 900, Quantity: 1})
	require.NoError(t, err)
	c, err = c.Add(Item{FoodID: "f1", UnitPrice: 900, Quantity: 1, Addons: []models.Addon{{Name: "cheese", Price: 100, IsAvailable: true}}})
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	require.Equal(t, "f1", c.Items[0].Key)
	require.Equal(t, "f1-cheese", c.Items[1].Key)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	c := Cart{}
	c, _ = c.Add(Item{FoodID: "f2", UnitPrice: 500, Quantity: 1})
	c, _ = c.Add(Item{FoodID: "f1", UnitPrice: 900, Quantity: 1})
	c, _ = c.Add(Item{FoodID: "f2", UnitPrice: 500, Quantity: 1})

	require.Len(t, c.Items, 2)
	require.Equal(t, "f2", c.Items[0].FoodID)
	require.Equal(t, "f1", c.Items[1].FoodID)
}

func TestAddRejectsZeroQuantity(t *testing.T) {
	c := Cart{}
	_, err := c.Add(Item{FoodID: "f1", UnitPrice: 900, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSetQuantity(t *testing.T) {
	c := Cart{}
	c, _ = c.Add(Item{FoodID: "f1", UnitPrice: 900, Quantity: 1})

	c, err := c.SetQuantity("f1", 4)
	require.NoError(t, err)
	require.Equal(t, 4, c.Items[0].Quantity)

	_, err = c.SetQuantity("f1", 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = c.SetQuantity("missing", 2)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemove(t *testing.T) {
	c := Cart{}
	c, _ = c.Add(Item{FoodID: "f1", UnitPrice: 900, Quantity: 1})
	c, _ = c.Add(Item{FoodID: "f2", UnitPrice: 500, Quantity: 1})

	c = c.Remove("f1")
	require.Len(t, c.Items, 1)
	require.Equal(t, "f2", c.Items[0].Key)

	// Removing an absent key is a no-op.
	c = c.Remove("f1")
	require.Len(t, c.Items, 1)
}

func TestApplyDiscountReplaces(t *testing.T) {
	c := Cart{}
	c = c.ApplyDiscount(discount.Applied{Code: "save10", Percent: 10, Kind: discount.KindStandard})
	c = c.ApplyDiscount(discount.Applied{Code: "family20", Percent: 20, Kind: discount.KindFamily})

	require.NotNil(t, c.AppliedDiscount)
	require.Equal(t, "family20", c.AppliedDiscount.Code)
	require.Equal(t, float64(20), c.AppliedDiscount.Percent)

	c = c.ClearDiscount()
	require.Nil(t, c.AppliedDiscount)
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	orig := Cart{}
	orig, _ = orig.Add(Item{FoodID: "f1", UnitPrice: 900, Quantity: 1})

	next, _ := orig.Add(Item{FoodID: "f1", UnitPrice: 900, Quantity: 2})
	require.Equal(t, 1, orig.Items[0].Quantity)
	require.Equal(t, 3, next.Items[0].Quantity)
}
