package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/internal/catalog"
	"github.com/galwaybites/storefront/internal/events"
	"github.com/galwaybites/storefront/internal/models"
	"github.com/galwaybites/storefront/internal/orders"
	"github.com/galwaybites/storefront/internal/settings"
	"github.com/galwaybites/storefront/pkg/logging"
)

type FoodStore interface {
	CreateFood(ctx context.Context, f *models.Food) error
	GetFood(ctx context.Context, id string) (models.Food, error)
	ListFoods(ctx context.Context) ([]models.Food, error)
	UpdateFood(ctx context.Context, f models.Food, updatedBy string) (models.Food, error)
	DeleteFood(ctx context.Context, id string) error
}

type SettingsStore interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, in models.Settings, updatedBy string) (models.Settings, error)
}

// AdminHandler is the back-office surface: menu management, the settings
// singleton and the order dashboard. ES and Events may be nil; food changes
// then skip indexing and event emission.
type AdminHandler struct {
	Foods    FoodStore
	Settings SettingsStore
	Cache    *settings.Cache
	Orders   *orders.Service
	Events   orders.EventPublisher
	ES       *elasticsearch.Client
	Index    string
}

func (h *AdminHandler) CreateFood(c echo.Context) error {
	ctx := c.Request().Context()

	var food models.Food
	if err := c.Bind(&food); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if food.Name == "" || food.Price <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name and positive price required")
	}
	food.CreatedBy = userIDFrom(c)

	if err := h.Foods.CreateFood(ctx, &food); err != nil {
		return domainError(err)
	}

	h.syncFood(ctx, "food_created", food)
	return c.JSON(http.StatusCreated, food)
}

func (h *AdminHandler) UpdateFood(c echo.Context) error {
	ctx := c.Request().Context()

	existing, err := h.Foods.GetFood(ctx, c.Param("id"))
	if err != nil {
		return domainError(err)
	}

	patch := existing
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	patch.ID = existing.ID
	patch.CreatedAt = existing.CreatedAt
	patch.CreatedBy = existing.CreatedBy

	updated, err := h.Foods.UpdateFood(ctx, patch, userIDFrom(c))
	if err != nil {
		return domainError(err)
	}

	h.syncFood(ctx, "food_updated", updated)
	return c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) DeleteFood(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.Foods.DeleteFood(ctx, id); err != nil {
		return domainError(err)
	}

	l := logging.FromContext(ctx)
	if h.ES != nil {
		if err := catalog.DeleteFood(ctx, h.ES, h.Index, id); err != nil {
			l.Warn("search deindex failed", "food_id", id, "error", err)
		}
	}
	if h.Events != nil {
		ev := map[string]any{"type": "food_deleted", "food_id": id}
		if err := h.Events.PublishEvent(ctx, events.FoodTopic, id, ev); err != nil {
			l.Warn("event publish failed", "type", "food_deleted", "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()

	s, err := h.Settings.GetSettings(ctx)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateSettings persists the singleton and refreshes the in-process
// snapshot immediately, so the next quote prices against the new values even
// before the change stream delivers the update.
func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()

	var in models.Settings
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := validateSettings(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	saved, err := h.Settings.UpdateSettings(ctx, in, userIDFrom(c))
	if err != nil {
		return domainError(err)
	}
	h.Cache.Update(saved)
	return c.JSON(http.StatusOK, saved)
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	since, err := parseSince(c.QueryParam("since"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid since, want RFC 3339")
	}

	list, err := h.Orders.ListAll(ctx, since)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) SetOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !req.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
	}

	var (
		o   models.Order
		err error
	)
	if req.Status == models.OrderCancelled {
		o, err = h.Orders.Cancel(ctx, c.Param("id"), actorFrom(c))
	} else {
		o, err = h.Orders.SetStatus(ctx, c.Param("id"), req.Status, actorFrom(c))
	}
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *AdminHandler) AssignTracking(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		TrackingNumber string `json:"tracking_number"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Orders.AssignTracking(ctx, c.Param("id"), req.TrackingNumber)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *AdminHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	since, err := parseSince(c.QueryParam("since"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid since, want RFC 3339")
	}

	sum, err := h.Orders.Summarize(ctx, since)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *AdminHandler) syncFood(ctx context.Context, eventType string, food models.Food) {
	l := logging.FromContext(ctx)
	if h.ES != nil {
		if err := catalog.IndexFood(ctx, h.ES, h.Index, food); err != nil {
			l.Warn("search index failed", "food_id", food.ID.Hex(), "error", err)
		}
	}
	if h.Events != nil {
		ev := map[string]any{"type": eventType, "food_id": food.ID.Hex(), "name": food.Name}
		if err := h.Events.PublishEvent(ctx, events.FoodTopic, food.ID.Hex(), ev); err != nil {
			l.Warn("event publish failed", "type", eventType, "error", err)
		}
	}
}

func validateSettings(s models.Settings) error {
	for _, p := range []float64{s.Discount.StandardPercent, s.Discount.FamilyPercent} {
		if p < 0 || p > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "discount percent out of range")
		}
	}
	if s.Delivery.GalwayFee < 0 || s.Delivery.OutsideFee < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "negative delivery fee")
	}
	return nil
}

func parseSince(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
