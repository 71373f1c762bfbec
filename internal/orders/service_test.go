package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/galwaybites/storefront/internal/cart"
	"github.com/galwaybites/storefront/internal/cartstore"
	"github.com/galwaybites/storefront/internal/discount"
	"github.com/galwaybites/storefront/internal/models"
	"github.com/galwaybites/storefront/internal/orderflow"
	"github.com/galwaybites/storefront/internal/settings"
	"github.com/galwaybites/storefront/internal/store"
)

type fakeOrderStore struct {
	orders map[string]models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]models.Order)}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	f.orders[o.ID.Hex()] = *o
	return nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, id string) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderStore) ListUserOrders(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context, since time.Time) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if since.IsZero() || !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus, completed bool) error {
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	if completed {
		o.IsCompleted = true
	}
	f.orders[id] = o
	return nil
}

func (f *fakeOrderStore) SetTrackingNumber(_ context.Context, id, tracking string) error {
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.TrackingNumber = tracking
	f.orders[id] = o
	return nil
}

func testSettings() models.Settings {
	return models.Settings{
		Delivery: models.DeliverySettings{
			GalwayEnabled:       true,
			GalwayFee:           350,
			OutsideEnabled:      true,
			OutsideFee:          700,
			GalwayDeliveryDays:  1,
			OutsideDeliveryDays: 3,
		},
		Discount: models.DiscountSettings{
			StandardEnabled: true,
			StandardCode:    "SAVE10",
			StandardPercent: 10,
		},
	}
}

func newTestService(t *testing.T, now time.Time) (*Service, *fakeOrderStore, cartstore.Store) {
	t.Helper()
	fs := newFakeOrderStore()
	carts := cartstore.NewMemory()
	svc := &Service{
		Store:    fs,
		Carts:    carts,
		Settings: settings.NewCache(testSettings()),
		Now:      func() time.Time { return now },
	}
	return svc, fs, carts
}

func seedCart(t *testing.T, carts cartstore.Store, userID string) {
	t.Helper()
	c, err := cart.Cart{}.Add(cart.Item{FoodID: "f1", Name: "Margherita", UnitPrice: 1200, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, carts.Save(context.Background(), userID, c))
}

func TestQuotePricesCart(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, carts := newTestService(t, now)
	seedCart(t, carts, "u1")

	q, err := svc.Quote(context.Background(), "u1", "Galway City")
	require.NoError(t, err)
	require.Equal(t, int64(2400), q.Breakdown.Subtotal)
	require.Equal(t, int64(350), q.Breakdown.DeliveryFee)
	require.Equal(t, int64(2750), q.Breakdown.Total)
	require.Equal(t, 1, q.EstimatedDays)
}

func TestQuoteEmptyCart(t *testing.T) {
	svc, _, _ := newTestService(t, time.Now())

	_, err := svc.Quote(context.Background(), "u1", "Galway")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestQuoteDeliveryUnavailable(t *testing.T) {
	now := time.Now()
	svc, _, carts := newTestService(t, now)
	seedCart(t, carts, "u1")

	cfg := testSettings()
	cfg.Delivery.GalwayEnabled = false
	cfg.Delivery.OutsideEnabled = false
	svc.Settings.Update(cfg)

	_, err := svc.Quote(context.Background(), "u1", "Galway")
	require.ErrorIs(t, err, ErrDeliveryUnavailable)
}

func TestApplyDiscountPersistsToCart(t *testing.T) {
	svc, _, carts := newTestService(t, time.Now())
	seedCart(t, carts, "u1")

	c, err := svc.ApplyDiscount(context.Background(), "u1", "save10")
	require.NoError(t, err)
	require.NotNil(t, c.AppliedDiscount)
	require.Equal(t, float64(10), c.AppliedDiscount.Percent)

	stored, err := carts.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, stored.AppliedDiscount)

	_, err = svc.ApplyDiscount(context.Background(), "u1", "bogus")
	require.ErrorIs(t, err, discount.ErrInvalidCode)
}

func TestPlaceFreezesPricesAndClearsCart(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, fs, carts := newTestService(t, now)
	seedCart(t, carts, "u1")

	_, err := svc.ApplyDiscount(context.Background(), "u1", "SAVE10")
	require.NoError(t, err)

	o, err := svc.Place(context.Background(), "u1", "Galway")
	require.NoError(t, err)
	require.Equal(t, models.OrderPending, o.Status)
	require.Equal(t, int64(2400), o.Subtotal)
	require.Equal(t, int64(240), o.Discount)
	require.Equal(t, int64(350), o.DeliveryFee)
	require.Equal(t, int64(2510), o.TotalAmount)
	require.Equal(t, "save10", o.DiscountCode)

	c, err := carts.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, c.Empty())

	// Changing the admin settings never touches an existing order.
	cfg := testSettings()
	cfg.Delivery.GalwayFee = 9999
	svc.Settings.Update(cfg)

	stored, err := fs.GetOrder(context.Background(), o.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, int64(2510), stored.TotalAmount)
}

func TestCustomerCancelWithinWindow(t *testing.T) {
	placed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, carts := newTestService(t, placed)
	seedCart(t, carts, "u1")

	o, err := svc.Place(context.Background(), "u1", "Galway")
	require.NoError(t, err)

	svc.Now = func() time.Time { return placed.Add(9 * time.Minute) }
	cancelled, err := svc.Cancel(context.Background(), o.ID.Hex(), orderflow.Actor{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, models.OrderCancelled, cancelled.Status)
}

func TestCustomerCancelAfterWindow(t *testing.T) {
	placed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, carts := newTestService(t, placed)
	seedCart(t, carts, "u1")

	o, err := svc.Place(context.Background(), "u1", "Galway")
	require.NoError(t, err)

	svc.Now = func() time.Time { return placed.Add(11 * time.Minute) }
	_, err = svc.Cancel(context.Background(), o.ID.Hex(), orderflow.Actor{UserID: "u1"})
	require.ErrorIs(t, err, orderflow.ErrCancellationWindowExpired)
}

func TestAdminLifecycleAndTrackingRedaction(t *testing.T) {
	placed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, carts := newTestService(t, placed)
	seedCart(t, carts, "u1")

	o, err := svc.Place(context.Background(), "u1", "Galway")
	require.NoError(t, err)
	admin := orderflow.Actor{UserID: "a1", IsAdmin: true}
	owner := orderflow.Actor{UserID: "u1"}

	// Processing cannot start while the customer could still cancel.
	svc.Now = func() time.Time { return placed.Add(5 * time.Minute) }
	_, err = svc.SetStatus(context.Background(), o.ID.Hex(), models.OrderProcessing, admin)
	require.ErrorIs(t, err, orderflow.ErrProcessingTooEarly)

	svc.Now = func() time.Time { return placed.Add(11 * time.Minute) }
	_, err = svc.SetStatus(context.Background(), o.ID.Hex(), models.OrderProcessing, admin)
	require.NoError(t, err)

	_, err = svc.AssignTracking(context.Background(), o.ID.Hex(), "TRACK-1")
	require.NoError(t, err)

	// Customer view hides tracking until completion.
	got, err := svc.Get(context.Background(), o.ID.Hex(), owner)
	require.NoError(t, err)
	require.Empty(t, got.TrackingNumber)

	_, err = svc.SetStatus(context.Background(), o.ID.Hex(), models.OrderCompleted, admin)
	require.NoError(t, err)

	got, err = svc.Get(context.Background(), o.ID.Hex(), owner)
	require.NoError(t, err)
	require.Equal(t, "TRACK-1", got.TrackingNumber)
	require.True(t, got.IsCompleted)
}

func TestTrackingRequiresProcessing(t *testing.T) {
	placed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, carts := newTestService(t, placed)
	seedCart(t, carts, "u1")

	o, err := svc.Place(context.Background(), "u1", "Galway")
	require.NoError(t, err)

	_, err = svc.AssignTracking(context.Background(), o.ID.Hex(), "TRACK-1")
	require.ErrorIs(t, err, ErrTrackingNotAllowed)
}

func TestGetRejectsOtherCustomer(t *testing.T) {
	placed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, carts := newTestService(t, placed)
	seedCart(t, carts, "u1")

	o, err := svc.Place(context.Background(), "u1", "Galway")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), o.ID.Hex(), orderflow.Actor{UserID: "u2"})
	require.ErrorIs(t, err, orderflow.ErrNotOwner)
}

func TestSummarize(t *testing.T) {
	placed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, carts := newTestService(t, placed)
	admin := orderflow.Actor{UserID: "a1", IsAdmin: true}

	seedCart(t, carts, "u1")
	o1, err := svc.Place(context.Background(), "u1", "Galway")
	require.NoError(t, err)

	seedCart(t, carts, "u2")
	o2, err := svc.Place(context.Background(), "u2", "Dublin")
	require.NoError(t, err)

	svc.Now = func() time.Time { return placed.Add(11 * time.Minute) }
	_, err = svc.SetStatus(context.Background(), o1.ID.Hex(), models.OrderProcessing, admin)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), o1.ID.Hex(), models.OrderCompleted, admin)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), o2.ID.Hex(), admin)
	require.NoError(t, err)

	sum, err := svc.Summarize(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 2, sum.Total)
	require.Equal(t, 1, sum.Completed)
	require.Equal(t, 1, sum.Cancelled)
	require.Equal(t, o1.TotalAmount, sum.Revenue)
	require.Equal(t, o1.TotalAmount, sum.AvgOrder)
}
