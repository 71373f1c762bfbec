// Package orderflow owns the order status state machine:
//
//	pending -> processing -> completed
//	pending -> cancelled
//	processing -> cancelled
//
// Guards are evaluated against the caller-supplied clock and actor; the
// package never touches the store, so transitions can be checked against any
// order snapshot.
package orderflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/galwaybites/storefront/internal/models"
)

// CancellationWindow is how long after creation the owning customer may still
// cancel a pending order. Processing must not start inside it: the windows
// mirror each other so an order cannot be picked up while the customer could
// still back out.
const CancellationWindow = 10 * time.Minute

var (
	ErrInvalidTransition         = errors.New("invalid status transition")
	ErrNotOwner                  = errors.New("order belongs to another customer")
	ErrAdminOnly                 = errors.New("admin access required")
	ErrCancellationWindowExpired = errors.New("cancellation window expired")
	ErrProcessingTooEarly        = errors.New("cancellation window still open")
)

// Actor is the authenticated principal requesting a transition. The claims
// come from the auth provider and are trusted as-is.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// Transition applies the requested status change to a copy of o and returns
// it, or an error when the guard rejects the request. Pricing fields are
// never touched; an order's money is frozen at creation.
func Transition(o models.Order, target models.OrderStatus, actor Actor, now time.Time) (models.Order, error) {
	if o.Status.Terminal() {
		return o, fmt.Errorf("%w: order is already %s", ErrInvalidTransition, o.Status)
	}

	switch target {
	case models.OrderCancelled:
		if !actor.IsAdmin {
			if o.UserID != actor.UserID {
				return o, ErrNotOwner
			}
			if o.Status != models.OrderPending {
				return o, fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, o.Status)
			}
			if elapsed := now.Sub(o.CreatedAt); elapsed > CancellationWindow {
				return o, fmt.Errorf("%w: %s since order creation", ErrCancellationWindowExpired, elapsed.Round(time.Second))
			}
		}

	case models.OrderProcessing:
		if !actor.IsAdmin {
			return o, ErrAdminOnly
		}
		if o.Status != models.OrderPending {
			return o, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
		}
		if elapsed := now.Sub(o.CreatedAt); elapsed <= CancellationWindow {
			return o, fmt.Errorf("%w: wait %s", ErrProcessingTooEarly, (CancellationWindow - elapsed).Round(time.Second))
		}

	case models.OrderCompleted:
		if !actor.IsAdmin {
			return o, ErrAdminOnly
		}
		if o.Status != models.OrderProcessing {
			return o, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
		}
		// Completion releases carrier tracking to the customer.
		o.IsCompleted = true

	default:
		return o, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	o.Status = target
	o.UpdatedAt = now
	return o, nil
}

// CanCancel reports whether the owning customer could still cancel o at now.
// Mirrors the customer-side guard of Transition; used by views to decide
// whether to offer the action.
func CanCancel(o models.Order, now time.Time) bool {
	return o.Status == models.OrderPending && now.Sub(o.CreatedAt) <= CancellationWindow
}

// CanStartProcessing is the admin-side mirror of CanCancel.
func CanStartProcessing(o models.Order, now time.Time) bool {
	return o.Status == models.OrderPending && now.Sub(o.CreatedAt) > CancellationWindow
}
