package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/internal/catalog"
	"github.com/galwaybites/storefront/internal/models"
)

type FoodLister interface {
	GetFood(ctx context.Context, id string) (models.Food, error)
	ListFoods(ctx context.Context) ([]models.Food, error)
}

// MenuHandler serves the public menu. ES may be nil when search is not
// configured; browsing still works off the document store.
type MenuHandler struct {
	Foods FoodLister
	ES    *elasticsearch.Client
	Index string
}

func (h *MenuHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	foods, err := h.Foods.ListFoods(ctx)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, foods)
}

func (h *MenuHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	food, err := h.Foods.GetFood(ctx, c.Param("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, food)
}

func (h *MenuHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search not configured")
	}

	query := c.QueryParam("q")
	from, _ := strconv.Atoi(c.QueryParam("from"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 || size > 100 {
		size = 20
	}

	total, foods, err := catalog.Search(ctx, h.ES, h.Index, query, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"items": foods,
	})
}
