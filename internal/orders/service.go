// Package orders orchestrates checkout and the order lifecycle: it prices
// the session cart against the current settings snapshot, freezes the result
// into an order document, and routes status changes through the state
// machine. It owns no pricing or guard logic itself.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/galwaybites/storefront/internal/cart"
	"github.com/galwaybites/storefront/internal/cartstore"
	"github.com/galwaybites/storefront/internal/delivery"
	"github.com/galwaybites/storefront/internal/discount"
	"github.com/galwaybites/storefront/internal/events"
	"github.com/galwaybites/storefront/internal/models"
	"github.com/galwaybites/storefront/internal/orderflow"
	"github.com/galwaybites/storefront/internal/pricing"
	"github.com/galwaybites/storefront/internal/settings"
	"github.com/galwaybites/storefront/pkg/logging"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrDeliveryUnavailable = errors.New("delivery unavailable for this address")
	ErrTrackingNotAllowed  = errors.New("order not ready for tracking")
)

type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context, since time.Time) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, completed bool) error
	SetTrackingNumber(ctx context.Context, id, tracking string) error
}

type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount int64) (string, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Service struct {
	Store    OrderStore
	Carts    cartstore.Store
	Settings *settings.Cache

	// Payments and Events may be nil; checkout then runs without a payment
	// intent and without emitting events.
	Payments PaymentProvider
	Events   EventPublisher

	// Now is the clock used for lifecycle guards; nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Quote is what checkout shows before payment: the priced cart against the
// current settings, plus the delivery estimate for the city.
type Quote struct {
	Items         []cart.Item       `json:"items"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
	Discount      *discount.Applied `json:"discount,omitempty"`
	City          string            `json:"city"`
	EstimatedDays int               `json:"estimated_days"`
}

// Quote prices the user's cart for delivery to city. A fee of zero means the
// address cannot be served and checkout must not proceed.
func (s *Service) Quote(ctx context.Context, userID, city string) (Quote, error) {
	c, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return Quote{}, err
	}
	if c.Empty() {
		return Quote{}, ErrEmptyCart
	}

	cfg := s.Settings.Snapshot()
	fee := delivery.Resolve(city, cfg.Delivery)
	if fee == 0 {
		return Quote{}, fmt.Errorf("%w: %q", ErrDeliveryUnavailable, city)
	}

	return Quote{
		Items:         c.Items,
		Breakdown:     pricing.Price(c.Items, c.AppliedDiscount, fee),
		Discount:      c.AppliedDiscount,
		City:          city,
		EstimatedDays: delivery.EstimatedDays(city, cfg.Delivery),
	}, nil
}

// ApplyDiscount validates code against the current programs and attaches the
// result to the user's cart, replacing any previous discount.
func (s *Service) ApplyDiscount(ctx context.Context, userID, code string) (cart.Cart, error) {
	c, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return cart.Cart{}, err
	}

	applied, err := discount.Resolve(code, s.Settings.Snapshot().Discount)
	if err != nil {
		return c, err
	}

	c = c.ApplyDiscount(applied)
	if err := s.Carts.Save(ctx, userID, c); err != nil {
		return cart.Cart{}, err
	}
	return c, nil
}

func (s *Service) ClearDiscount(ctx context.Context, userID string) (cart.Cart, error) {
	c, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return cart.Cart{}, err
	}
	c = c.ClearDiscount()
	if err := s.Carts.Save(ctx, userID, c); err != nil {
		return cart.Cart{}, err
	}
	return c, nil
}

// CreateIntent registers a payment intent for the quoted total and returns
// the client secret. The cart stays untouched until the payment is confirmed.
func (s *Service) CreateIntent(ctx context.Context, userID, city string) (string, int64, error) {
	q, err := s.Quote(ctx, userID, city)
	if err != nil {
		return "", 0, err
	}
	if s.Payments == nil {
		return "", 0, fmt.Errorf("payment processor not configured")
	}

	secret, err := s.Payments.CreateIntent(ctx, q.Breakdown.Total)
	if err != nil {
		return "", 0, err
	}
	return secret, q.Breakdown.Total, nil
}

// Place freezes the quoted cart into a pending order, clears the cart and
// emits an order_created event. The stored monetary fields are never
// recomputed afterwards.
func (s *Service) Place(ctx context.Context, userID, city string) (models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "orders.place", "user_id", userID)

	q, err := s.Quote(ctx, userID, city)
	if err != nil {
		return models.Order{}, err
	}

	now := s.now()
	o := models.Order{
		UserID:      userID,
		Items:       toOrderItems(q.Items),
		Status:      models.OrderPending,
		Subtotal:    q.Breakdown.Subtotal,
		Discount:    q.Breakdown.Discount,
		DeliveryFee: q.Breakdown.DeliveryFee,
		TotalAmount: q.Breakdown.Total,
		City:        city,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if q.Discount != nil {
		o.DiscountCode = q.Discount.Code
		o.DiscountPercent = q.Discount.Percent
	}

	if err := s.Store.CreateOrder(ctx, &o); err != nil {
		return models.Order{}, err
	}
	if err := s.Carts.Delete(ctx, userID); err != nil {
		l.Warn("cart cleanup failed", "error", err)
	}

	s.publish(ctx, "order_created", o)
	l.Info("order placed", "order_id", o.ID.Hex(), "total", o.TotalAmount)
	return o, nil
}

// Cancel asks the state machine to move the order to cancelled on behalf of
// actor and persists the result.
func (s *Service) Cancel(ctx context.Context, orderID string, actor orderflow.Actor) (models.Order, error) {
	return s.transition(ctx, orderID, models.OrderCancelled, actor)
}

// SetStatus applies an admin-driven transition (processing or completed).
func (s *Service) SetStatus(ctx context.Context, orderID string, target models.OrderStatus, actor orderflow.Actor) (models.Order, error) {
	return s.transition(ctx, orderID, target, actor)
}

func (s *Service) transition(ctx context.Context, orderID string, target models.OrderStatus, actor orderflow.Actor) (models.Order, error) {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	updated, err := orderflow.Transition(o, target, actor, s.now())
	if err != nil {
		return models.Order{}, err
	}

	if err := s.Store.UpdateOrderStatus(ctx, orderID, updated.Status, updated.IsCompleted); err != nil {
		return models.Order{}, err
	}

	s.publish(ctx, "order_status_changed", updated)
	return updated, nil
}

// AssignTracking attaches a carrier tracking number to an order in progress.
// An empty tracking argument generates one. The number stays hidden from the
// customer until the order is completed.
func (s *Service) AssignTracking(ctx context.Context, orderID, tracking string) (models.Order, error) {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if o.Status != models.OrderProcessing && o.Status != models.OrderCompleted {
		return models.Order{}, fmt.Errorf("%w: status %s", ErrTrackingNotAllowed, o.Status)
	}

	if tracking == "" {
		tracking = "GB-" + uuid.NewString()
	}
	if err := s.Store.SetTrackingNumber(ctx, orderID, tracking); err != nil {
		return models.Order{}, err
	}

	o.TrackingNumber = tracking
	o.UpdatedAt = s.now()
	return o, nil
}

// Get returns the order if actor may see it. Customers only see their own
// orders, with tracking redacted until completion.
func (s *Service) Get(ctx context.Context, orderID string, actor orderflow.Actor) (models.Order, error) {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if !actor.IsAdmin {
		if o.UserID != actor.UserID {
			return models.Order{}, orderflow.ErrNotOwner
		}
		o = redactTracking(o)
	}
	return o, nil
}

// ListForCustomer returns the user's orders newest-first with tracking
// redacted on everything not yet completed.
func (s *Service) ListForCustomer(ctx context.Context, userID string) ([]models.Order, error) {
	list, err := s.Store.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = redactTracking(list[i])
	}
	return list, nil
}

// ListAll is the unredacted admin view, optionally bounded by creation time.
func (s *Service) ListAll(ctx context.Context, since time.Time) ([]models.Order, error) {
	return s.Store.ListOrders(ctx, since)
}

// Summary aggregates order counts and completed revenue for the admin
// dashboard. Revenue counts completed orders only; a cancelled order
// contributes nothing even though its total stays frozen on the document.
type Summary struct {
	Total      int   `json:"total"`
	Pending    int   `json:"pending"`
	Processing int   `json:"processing"`
	Completed  int   `json:"completed"`
	Cancelled  int   `json:"cancelled"`
	Revenue    int64 `json:"revenue"`

	// AvgOrder is revenue divided by completed orders, in cents.
	AvgOrder int64 `json:"avg_order"`
}

func (s *Service) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	list, err := s.Store.ListOrders(ctx, since)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	sum.Total = len(list)
	for _, o := range list {
		switch o.Status {
		case models.OrderPending:
			sum.Pending++
		case models.OrderProcessing:
			sum.Processing++
		case models.OrderCompleted:
			sum.Completed++
			sum.Revenue += o.TotalAmount
		case models.OrderCancelled:
			sum.Cancelled++
		}
	}
	if sum.Completed > 0 {
		sum.AvgOrder = sum.Revenue / int64(sum.Completed)
	}
	return sum, nil
}

func (s *Service) publish(ctx context.Context, eventType string, o models.Order) {
	if s.Events == nil {
		return
	}
	ev := map[string]any{
		"type":     eventType,
		"order_id": o.ID.Hex(),
		"user_id":  o.UserID,
		"status":   o.Status,
		"total":    o.TotalAmount,
		"at":       s.now(),
	}
	if err := s.Events.PublishEvent(ctx, events.OrderTopic, o.ID.Hex(), ev); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "type", eventType, "error", err)
	}
}

func toOrderItems(items []cart.Item) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	for i, it := range items {
		out[i] = models.OrderItem{
			FoodID:        it.FoodID,
			Name:          it.Name,
			UnitPrice:     it.UnitPrice,
			Quantity:      it.Quantity,
			Addons:        it.Addons,
			Customization: it.Customization,
		}
	}
	return out
}

func redactTracking(o models.Order) models.Order {
	if !o.IsCompleted {
		o.TrackingNumber = ""
	}
	return o
}
