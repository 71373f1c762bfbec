package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/internal/cart"
	"github.com/galwaybites/storefront/internal/cartstore"
	"github.com/galwaybites/storefront/internal/models"
	"github.com/galwaybites/storefront/internal/pricing"
)

type FoodGetter interface {
	GetFood(ctx context.Context, id string) (models.Food, error)
}

type CartHandler struct {
	Foods FoodGetter
	Carts cartstore.Store
}

type cartResponse struct {
	cart.Cart
	Subtotal int64 `json:"subtotal"`
}

func toCartResponse(c cart.Cart) cartResponse {
	var subtotal int64
	for _, it := range c.Items {
		subtotal += pricing.ItemTotal(it)
	}
	return cartResponse{Cart: c, Subtotal: subtotal}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	userCart, err := h.Carts.Get(ctx, userIDFrom(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCartResponse(userCart))
}

// AddItem resolves the food, snapshots its current price and the selected
// addons into a cart entry, and merges it by composite key.
func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID := userIDFrom(c)

	var req struct {
		FoodID        string   `json:"food_id"`
		Quantity      int      `json:"quantity"`
		Addons        []string `json:"addons"`
		Customization string   `json:"customization"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	food, err := h.Foods.GetFood(ctx, req.FoodID)
	if err != nil {
		return domainError(err)
	}
	if !food.IsAvailable {
		return echo.NewHTTPError(http.StatusConflict, "food not available")
	}

	userCart, err := h.Carts.Get(ctx, userID)
	if err != nil {
		return domainError(err)
	}

	userCart, err = userCart.Add(cart.Item{
		FoodID:        food.ID.Hex(),
		Name:          food.Name,
		UnitPrice:     food.Price,
		Quantity:      req.Quantity,
		Addons:        selectAddons(food.Addons, req.Addons),
		Customization: req.Customization,
	})
	if err != nil {
		return domainError(err)
	}

	if err := h.Carts.Save(ctx, userID, userCart); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCartResponse(userCart))
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID := userIDFrom(c)
	key := c.Param("key")

	var req struct {
		Quantity      *int    `json:"quantity"`
		Customization *string `json:"customization"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	userCart, err := h.Carts.Get(ctx, userID)
	if err != nil {
		return domainError(err)
	}

	if req.Quantity != nil {
		if userCart, err = userCart.SetQuantity(key, *req.Quantity); err != nil {
			return domainError(err)
		}
	}
	if req.Customization != nil {
		if userCart, err = userCart.SetCustomization(key, *req.Customization); err != nil {
			return domainError(err)
		}
	}

	if err := h.Carts.Save(ctx, userID, userCart); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCartResponse(userCart))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID := userIDFrom(c)

	userCart, err := h.Carts.Get(ctx, userID)
	if err != nil {
		return domainError(err)
	}

	userCart = userCart.Remove(c.Param("key"))
	if err := h.Carts.Save(ctx, userID, userCart); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCartResponse(userCart))
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Carts.Delete(ctx, userIDFrom(c)); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// selectAddons keeps the food's addons whose names the customer picked. The
// food document is the source of truth for price and availability; names the
// food does not offer are ignored.
func selectAddons(offered []models.Addon, picked []string) []models.Addon {
	if len(picked) == 0 {
		return nil
	}
	want := make(map[string]bool, len(picked))
	for _, name := range picked {
		want[name] = true
	}

	var out []models.Addon
	for _, a := range offered {
		if want[a.Name] {
			out = append(out, a)
		}
	}
	return out
}
