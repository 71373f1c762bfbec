// Package httpserver is the echo transport: it binds requests, delegates to
// the domain packages and maps their sentinel errors onto HTTP statuses.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/internal/cart"
	"github.com/galwaybites/storefront/internal/discount"
	"github.com/galwaybites/storefront/internal/orderflow"
	"github.com/galwaybites/storefront/internal/orders"
	"github.com/galwaybites/storefront/internal/store"
)

func actorFrom(c echo.Context) orderflow.Actor {
	userID, _ := c.Get("user_id").(string)
	isAdmin, _ := c.Get("is_admin").(bool)
	return orderflow.Actor{UserID: userID, IsAdmin: isAdmin}
}

func userIDFrom(c echo.Context) string {
	userID, _ := c.Get("user_id").(string)
	return userID
}

// domainError maps sentinel errors to HTTP statuses. Validation problems are
// 400, authorization 403, missing documents 404 and rejected state changes
// 409; anything unrecognized surfaces as 500.
func domainError(err error) error {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, discount.ErrEmptyCode),
		errors.Is(err, discount.ErrInvalidCode),
		errors.Is(err, orders.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, orderflow.ErrNotOwner),
		errors.Is(err, orderflow.ErrAdminOnly):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, orderflow.ErrInvalidTransition),
		errors.Is(err, orderflow.ErrCancellationWindowExpired),
		errors.Is(err, orderflow.ErrProcessingTooEarly),
		errors.Is(err, orders.ErrDeliveryUnavailable),
		errors.Is(err, orders.ErrTrackingNotAllowed):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
