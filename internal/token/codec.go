package token

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims the backend issues for FleetPanel sessions.
// Only the payload is read; the signature is checked by the backend on every request.
type Claims struct {
	jwt.RegisteredClaims
	UserID   model.FlexID `json:"userId"`
	LegacyID model.FlexID `json:"id"`
	Role     model.Role   `json:"role"`
	Email    string       `json:"email"`
}

// Codec decodes session tokens without verifying them.
type Codec struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewCodec creates a Codec. A nil clock defaults to time.Now.
func NewCodec(now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{
		parser: jwt.NewParser(jwt.WithPaddingAllowed()),
		now:    now,
	}
}

// Decode returns the payload claims of a compact token. Only the payload
// segment is read, so the header may name any alg or none. Any malformed
// input yields ok == false.
func (c *Codec) Decode(raw string) (claims *Claims, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("token decode panicked", "panic", r)
			claims, ok = nil, false
		}
	}()

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		slog.Debug("token decode failed", "segments", len(parts))
		return nil, false
	}

	payload, err := c.parser.DecodeSegment(parts[1])
	if err != nil {
		slog.Debug("token decode failed", "error", err)
		return nil, false
	}

	claims = &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		slog.Debug("token decode failed", "error", err)
		return nil, false
	}
	return claims, true
}

// IsExpired reports whether the token's exp claim lies in the past.
// Tokens that cannot be decoded or carry no exp are treated as expired.
func (c *Codec) IsExpired(raw string) bool {
	claims, ok := c.Decode(raw)
	if !ok || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(c.now())
}

// ExtractIdentity maps token claims onto a session identity.
// userId wins over id when both are present.
func (c *Codec) ExtractIdentity(raw string) (model.UserSummary, bool) {
	claims, ok := c.Decode(raw)
	if !ok {
		return model.UserSummary{}, false
	}

	id := claims.UserID
	if id == "" {
		id = claims.LegacyID
	}

	return model.UserSummary{
		ID:    string(id),
		Role:  claims.Role,
		Email: claims.Email,
	}, true
}
