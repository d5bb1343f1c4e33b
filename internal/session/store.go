package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
)

const (
	TokenCookie = "auth_token"
	UserCookie  = "user_data"

	DefaultTTL = 7 * 24 * time.Hour
)

// Store persists the session token and the cached user identity.
type Store interface {
	SetToken(token string)
	GetToken() (string, bool)
	SetUser(user model.UserSummary)
	GetUser() (model.UserSummary, bool)
	ClearAll()
}

// CookieOptions controls the attributes of session cookies.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

// DefaultCookieOptions returns a 7-day TTL with the Secure flag set.
func DefaultCookieOptions() CookieOptions {
	return CookieOptions{TTL: DefaultTTL, Secure: true}
}

// CookieStore keeps the session in two browser cookies. It is bound to a
// single request: reads come from the request cookies, writes go to the
// response, and writes are visible to later reads on the same store.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	// pending holds values written during this request; "" marks a deletion.
	pending map[string]string
}

// NewCookieStore creates a CookieStore for one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &CookieStore{
		w:       w,
		r:       r,
		opts:    opts,
		pending: make(map[string]string),
	}
}

// SetToken stores the raw token string.
func (s *CookieStore) SetToken(token string) {
	if token == "" {
		s.remove(TokenCookie)
		return
	}
	s.set(TokenCookie, token)
}

// GetToken returns the stored token, if any.
func (s *CookieStore) GetToken() (string, bool) {
	v, ok := s.get(TokenCookie)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SetUser stores the user identity as escaped JSON.
func (s *CookieStore) SetUser(user model.UserSummary) {
	b, err := json.Marshal(user)
	if err != nil {
		slog.Error("encoding session user", "error", err)
		return
	}
	s.set(UserCookie, url.QueryEscape(string(b)))
}

// GetUser returns the cached user identity. A cookie that does not decode
// reads as absent.
func (s *CookieStore) GetUser() (model.UserSummary, bool) {
	v, ok := s.get(UserCookie)
	if !ok || v == "" {
		return model.UserSummary{}, false
	}

	raw, err := url.QueryUnescape(v)
	if err != nil {
		slog.Debug("session user cookie not escaped", "error", err)
		return model.UserSummary{}, false
	}

	var user model.UserSummary
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Debug("session user cookie not json", "error", err)
		return model.UserSummary{}, false
	}
	return user, true
}

// ClearAll removes both session cookies. Clearing an empty store is a no-op
// from the caller's point of view.
func (s *CookieStore) ClearAll() {
	s.remove(TokenCookie)
	s.remove(UserCookie)
}

func (s *CookieStore) get(name string) (string, bool) {
	if v, ok := s.pending[name]; ok {
		return v, v != ""
	}
	c, err := s.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (s *CookieStore) set(name, value string) {
	s.pending[name] = value
	s.write(&http.Cookie{
		Name:    name,
		Value:   value,
		MaxAge:  int(s.opts.TTL.Seconds()),
		Expires: time.Now().Add(s.opts.TTL),
	})
}

func (s *CookieStore) remove(name string) {
	if v, ok := s.pending[name]; ok && v == "" {
		return
	}
	s.pending[name] = ""
	s.write(&http.Cookie{
		Name:    name,
		Value:   "",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}

func (s *CookieStore) write(c *http.Cookie) {
	c.Path = "/"
	c.HttpOnly = true
	c.Secure = s.opts.Secure
	c.SameSite = http.SameSiteStrictMode
	http.SetCookie(s.w, c)
}
