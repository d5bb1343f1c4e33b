package session

import (
	"log/slog"

	"github.com/fleetpanel/fleetpanel-go/internal/metrics"
)

// ExpiryChecker reports whether a raw token is past its expiry.
type ExpiryChecker interface {
	IsExpired(raw string) bool
}

// Validator answers whether the store holds a usable session.
type Validator struct {
	store Store
	codec ExpiryChecker
}

// NewValidator creates a Validator over store using codec for expiry checks.
func NewValidator(store Store, codec ExpiryChecker) *Validator {
	return &Validator{store: store, codec: codec}
}

// ValidToken returns the stored token if it has not expired. An expired
// token evicts the whole session before returning.
func (v *Validator) ValidToken() (string, bool) {
	token, ok := v.store.GetToken()
	if !ok {
		return "", false
	}

	if v.codec.IsExpired(token) {
		slog.Info("evicting expired session")
		metrics.SessionEvictions.WithLabelValues(metrics.EvictExpired).Inc()
		v.store.ClearAll()
		return "", false
	}

	return token, true
}
