// Package delivery resolves a free-text delivery city to a flat fee using
// the admin region settings. It is pure: callers hand it a settings snapshot,
// so a config change mid-checkout never alters an order already priced.
package delivery

import (
	"strings"

	"github.com/galwaybites/storefront/internal/models"
)

// regionKeyword gates the Galway rate; anything else falls through to the
// outside-Galway catch-all.
const regionKeyword = "galway"

// Resolve returns the delivery fee in cents for the given city. A result of
// 0 means "delivery unavailable" everywhere this storefront checks it, but a
// region configured with a literal zero fee is indistinguishable from that —
// the conflation is inherited behaviour and deliberately preserved.
func Resolve(city string, cfg models.DeliverySettings) int64 {
	if strings.Contains(strings.ToLower(city), regionKeyword) && cfg.GalwayEnabled {
		return cfg.GalwayFee
	}
	if cfg.OutsideEnabled {
		return cfg.OutsideFee
	}
	return 0
}

// EstimatedDays returns the configured delivery estimate for the city's
// region, or 0 when unknown.
func EstimatedDays(city string, cfg models.DeliverySettings) int {
	if strings.Contains(strings.ToLower(city), regionKeyword) && cfg.GalwayEnabled {
		return cfg.GalwayDeliveryDays
	}
	if cfg.OutsideEnabled {
		return cfg.OutsideDeliveryDays
	}
	return 0
}
