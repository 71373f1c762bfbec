package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/internal/orders"
)

type OrdersHandler struct {
	Svc *orders.Service
}

func (h *OrdersHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.Svc.ListForCustomer(ctx, userIDFrom(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *OrdersHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	o, err := h.Svc.Get(ctx, c.Param("id"), actorFrom(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrdersHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	o, err := h.Svc.Cancel(ctx, c.Param("id"), actorFrom(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, o)
}
