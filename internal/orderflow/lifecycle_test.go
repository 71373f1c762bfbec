package orderflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/galwaybites/storefront/internal/models"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func pendingOrder() models.Order {
	return models.Order{UserID: "u1", Status: models.OrderPending, CreatedAt: t0}
}

func customer() Actor { return Actor{UserID: "u1"} }
func admin() Actor    { return Actor{UserID: "a1", IsAdmin: true} }

func TestCustomerCancelInsideWindow(t *testing.T) {
	o, err := Transition(pendingOrder(), models.OrderCancelled, customer(), t0.Add(9*time.Minute))
	require.NoError(t, err)
	require.Equal(t, models.OrderCancelled, o.Status)
}

func TestCustomerCancelAtWindowBoundary(t *testing.T) {
	// Exactly 10 minutes is still inside the window.
	o, err := Transition(pendingOrder(), models.OrderCancelled, customer(), t0.Add(CancellationWindow))
	require.NoError(t, err)
	require.Equal(t, models.OrderCancelled, o.Status)
}

func TestCustomerCancelAfterWindow(t *testing.T) {
	_, err := Transition(pendingOrder(), models.OrderCancelled, customer(), t0.Add(11*time.Minute))
	require.ErrorIs(t, err, ErrCancellationWindowExpired)
}

func TestCustomerCannotCancelOthersOrder(t *testing.T) {
	_, err := Transition(pendingOrder(), models.OrderCancelled, Actor{UserID: "u2"}, t0.Add(time.Minute))
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestCustomerCannotCancelProcessingOrder(t *testing.T) {
	o := pendingOrder()
	o.Status = models.OrderProcessing
	_, err := Transition(o, models.OrderCancelled, customer(), t0.Add(time.Minute))
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdminCancelIgnoresWindow(t *testing.T) {
	o, err := Transition(pendingOrder(), models.OrderCancelled, admin(), t0.Add(48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, models.OrderCancelled, o.Status)
}

func TestAdminCancelProcessingOrder(t *testing.T) {
	o := pendingOrder()
	o.Status = models.OrderProcessing
	o, err := Transition(o, models.OrderCancelled, admin(), t0.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, models.OrderCancelled, o.Status)
}

func TestStartProcessingTooEarly(t *testing.T) {
	_, err := Transition(pendingOrder(), models.OrderProcessing, admin(), t0.Add(9*time.Minute))
	require.ErrorIs(t, err, ErrProcessingTooEarly)

	// Exactly at the boundary the customer still owns the window.
	_, err = Transition(pendingOrder(), models.OrderProcessing, admin(), t0.Add(CancellationWindow))
	require.ErrorIs(t, err, ErrProcessingTooEarly)
}

func TestStartProcessingAfterWindow(t *testing.T) {
	o, err := Transition(pendingOrder(), models.OrderProcessing, admin(), t0.Add(11*time.Minute))
	require.NoError(t, err)
	require.Equal(t, models.OrderProcessing, o.Status)
}

func TestStartProcessingRequiresAdmin(t *testing.T) {
	_, err := Transition(pendingOrder(), models.OrderProcessing, customer(), t0.Add(11*time.Minute))
	require.ErrorIs(t, err, ErrAdminOnly)
}

func TestCompleteSetsFlag(t *testing.T) {
	o := pendingOrder()
	o.Status = models.OrderProcessing

	o, err := Transition(o, models.OrderCompleted, admin(), t0.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, models.OrderCompleted, o.Status)
	require.True(t, o.IsCompleted)
}

func TestCompleteRequiresProcessing(t *testing.T) {
	_, err := Transition(pendingOrder(), models.OrderCompleted, admin(), t0.Add(time.Hour))
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	for _, st := range []models.OrderStatus{models.OrderCompleted, models.OrderCancelled} {
		o := pendingOrder()
		o.Status = st
		for _, target := range []models.OrderStatus{
			models.OrderPending, models.OrderProcessing, models.OrderCompleted, models.OrderCancelled,
		} {
			_, err := Transition(o, target, admin(), t0.Add(time.Hour))
			require.ErrorIs(t, err, ErrInvalidTransition, "from %s to %s", st, target)
		}
	}
}

func TestRepeatTransitionIsRejected(t *testing.T) {
	o := pendingOrder()
	o.Status = models.OrderProcessing
	o, err := Transition(o, models.OrderCompleted, admin(), t0.Add(time.Hour))
	require.NoError(t, err)

	// Completing an already-completed order fails instead of silently
	// succeeding twice.
	_, err = Transition(o, models.OrderCompleted, admin(), t0.Add(2*time.Hour))
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBackToPendingIsUndefined(t *testing.T) {
	o := pendingOrder()
	o.Status = models.OrderProcessing
	_, err := Transition(o, models.OrderPending, admin(), t0.Add(time.Hour))
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestViewHelpers(t *testing.T) {
	o := pendingOrder()
	require.True(t, CanCancel(o, t0.Add(5*time.Minute)))
	require.False(t, CanCancel(o, t0.Add(11*time.Minute)))
	require.False(t, CanStartProcessing(o, t0.Add(5*time.Minute)))
	require.True(t, CanStartProcessing(o, t0.Add(11*time.Minute)))

	o.Status = models.OrderProcessing
	require.False(t, CanCancel(o, t0.Add(time.Minute)))
	require.False(t, CanStartProcessing(o, t0.Add(time.Hour)))
}
