package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fleetpanel/fleetpanel-go/internal/metrics"
	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/session"
)

// TokenValidator returns the stored token when the session is still valid.
type TokenValidator interface {
	ValidToken() (string, bool)
}

// IdentityDecoder derives a user identity from a raw token.
type IdentityDecoder interface {
	ExtractIdentity(raw string) (model.UserSummary, bool)
}

// State is a point-in-time view of the authentication state.
type State struct {
	User    *model.UserSummary
	Loading bool
}

// Context holds the authentication state for one browser session and the
// operations that change it. It starts in the loading state until
// Initialize has run.
//
// Login and Logout take precedence over Initialize: once either has been
// called, initialization still clears the loading flag but never replaces the
// user they set.
type Context struct {
	store     session.Store
	validator TokenValidator
	codec     IdentityDecoder

	mu         sync.Mutex
	user       *model.UserSummary
	loading    bool
	generation uint64
	initOnce   sync.Once
}

// New creates a Context in the loading state.
func New(store session.Store, validator TokenValidator, codec IdentityDecoder) *Context {
	return &Context{
		store:     store,
		validator: validator,
		codec:     codec,
		loading:   true,
	}
}

// Initialize restores the user from the persisted session. Only the first
// call has any effect.
func (c *Context) Initialize(ctx context.Context) {
	c.initOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		defer func() { c.loading = false }()

		if c.generation != 0 {
			slog.Debug("auth init superseded by explicit login/logout")
			return
		}
		if err := ctx.Err(); err != nil {
			slog.Debug("auth init cancelled", "error", err)
			return
		}

		token, ok := c.validator.ValidToken()
		if !ok {
			return
		}

		if user, ok := c.store.GetUser(); ok {
			c.user = &user
			return
		}

		user, ok := c.codec.ExtractIdentity(token)
		if !ok {
			return
		}
		c.store.SetUser(user)
		c.user = &user
	})
}

// Login persists the session and makes user the current user. The session is
// fully written before Login returns.
func (c *Context) Login(token string, user model.UserSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.SetToken(token)
	c.store.SetUser(user)
	c.user = &user
	c.generation++
}

// Logout clears the persisted session and the current user.
func (c *Context) Logout() {
	c.Evict(metrics.EvictLogout)
}

// Evict clears the session like Logout and counts one eviction under reason
// when a user was signed in.
func (c *Context) Evict(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user != nil {
		metrics.SessionEvictions.WithLabelValues(reason).Inc()
	}
	c.store.ClearAll()
	c.user = nil
	c.generation++
}

// IsAuthenticated reports whether there is a current user and the stored
// token is still valid right now.
func (c *Context) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return false
	}
	_, ok := c.validator.ValidToken()
	return ok
}

// HasRole reports whether the current user has the given role.
func (c *Context) HasRole(role model.Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil && c.user.Role == role
}

// User returns the current user, if any.
func (c *Context) User() (model.UserSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return model.UserSummary{}, false
	}
	return *c.user, true
}

// Snapshot returns a copy of the current state.
func (c *Context) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{Loading: c.loading}
	if c.user != nil {
		u := *c.user
		st.User = &u
	}
	return st
}

type contextKey struct{}

// WithContext attaches the auth Context to ctx.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext extracts the auth Context attached by WithContext.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(contextKey{}).(*Context)
	return c, ok
}
