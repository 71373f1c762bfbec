package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/internal/orders"
)

type CheckoutHandler struct {
	Svc *orders.Service
}

func (h *CheckoutHandler) Quote(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		City string `json:"city"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	q, err := h.Svc.Quote(ctx, userIDFrom(c), req.City)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *CheckoutHandler) ApplyDiscount(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	userCart, err := h.Svc.ApplyDiscount(ctx, userIDFrom(c), req.Code)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, userCart)
}

func (h *CheckoutHandler) ClearDiscount(c echo.Context) error {
	ctx := c.Request().Context()

	userCart, err := h.Svc.ClearDiscount(ctx, userIDFrom(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, userCart)
}

func (h *CheckoutHandler) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		City string `json:"city"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	secret, total, err := h.Svc.CreateIntent(ctx, userIDFrom(c), req.City)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"client_secret": secret,
		"amount":        total,
	})
}

// Confirm creates the order after the frontend reports a succeeded payment.
// The cart is re-priced against the current settings at this moment; the
// result is the frozen order.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		City string `json:"city"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.Place(ctx, userIDFrom(c), req.City)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, o)
}
