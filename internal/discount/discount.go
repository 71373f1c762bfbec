// Package discount validates submitted discount codes against the two
// admin-configured programs. At most one discount is ever applied: callers
// hold a single optional Applied value and replace it on every successful
// resolution, so stacking is impossible by construction.
package discount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/galwaybites/storefront/internal/models"
)

var (
	ErrEmptyCode   = errors.New("empty code")
	ErrInvalidCode = errors.New("invalid code")
)

type Kind string

const (
	KindStandard Kind = "standard"
	KindFamily   Kind = "family"
)

// Applied describes a discount attached to a cart or order at checkout time.
// It is transient and never written back to the configuration.
type Applied struct {
	Code    string  `json:"code"`
	Percent float64 `json:"percent"`
	Kind    Kind    `json:"kind"`
}

// Resolve checks code against the standard program first, then the family
// program. The submitted code is trimmed and matched case-insensitively.
// An empty or whitespace-only code is rejected before any config is consulted.
func Resolve(code string, cfg models.DiscountSettings) (Applied, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return Applied{}, ErrEmptyCode
	}

	if cfg.StandardEnabled && normalized == strings.ToLower(cfg.StandardCode) {
		return Applied{Code: normalized, Percent: cfg.StandardPercent, Kind: KindStandard}, nil
	}
	if cfg.FamilyEnabled && normalized == strings.ToLower(cfg.FamilyCode) {
		return Applied{Code: normalized, Percent: cfg.FamilyPercent, Kind: KindFamily}, nil
	}

	return Applied{}, fmt.Errorf("%w: %q", ErrInvalidCode, normalized)
}
