package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fleetpanel/fleetpanel-go/internal/metrics"
	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
	"github.com/fleetpanel/fleetpanel-go/internal/session"
	"github.com/fleetpanel/fleetpanel-go/internal/token"
	"github.com/golang-jwt/jwt/v5"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendCall struct {
	method string
	path   string
	auth   string
}

type fakeBackend struct {
	srv    *httptest.Server
	calls  []backendCall
	routes map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{routes: make(map[string]func(http.ResponseWriter, *http.Request))}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.calls = append(fb.calls, backendCall{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")})
		if h, ok := fb.routes[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Route not found"}`))
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) reply(route string, status int, body string) {
	fb.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func newTestRouter(t *testing.T, fb *fakeBackend) http.Handler {
	return NewRouter(t.Context(), RouterConfig{
		Backend:        repository.NewClient(fb.srv.URL, time.Second),
		Codec:          token.NewCodec(nil),
		Cookies:        session.DefaultCookieOptions(),
		LoginRateRPS:   100,
		LoginRateBurst: 100,
	})
}

func mint(t *testing.T, ttl time.Duration, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(ttl).Unix()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func adminCookie(t *testing.T) *http.Cookie {
	return &http.Cookie{Name: session.TokenCookie, Value: mint(t, time.Hour, jwt.MapClaims{"userId": "a1", "role": "admin", "email": "admin@example.com"})}
}

func userCookie(t *testing.T) *http.Cookie {
	return &http.Cookie{Name: session.TokenCookie, Value: mint(t, time.Hour, jwt.MapClaims{"userId": "u1", "role": "user", "email": "john@example.com"})}
}

func do(h http.Handler, method, target, contentType, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func cookiesByName(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

const loginOK = `{"success":true,"data":{"token":"%s","user":{"_id":"u1","email":"john@example.com","role":"user","name":"John"}}}`

func TestLogin_JSON(t *testing.T) {
	fb := newFakeBackend(t)
	raw := mint(t, time.Hour, jwt.MapClaims{"userId": "u1", "role": "user"})
	fb.reply("POST /auth/login", http.StatusOK, strings.Replace(loginOK, "%s", raw, 1))

	w := do(newTestRouter(t, fb), http.MethodPost, "/login", "application/json", `{"email":"john@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res model.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "/user/profile", res.Redirect)
	assert.Equal(t, model.UserSummary{ID: "u1", Role: model.RoleUser, Email: "john@example.com", Name: "John"}, res.User)

	cookies := cookiesByName(w)
	require.Contains(t, cookies, session.TokenCookie)
	require.Contains(t, cookies, session.UserCookie)
	assert.Equal(t, raw, cookies[session.TokenCookie].Value)
	assert.Equal(t, http.SameSiteStrictMode, cookies[session.TokenCookie].SameSite)

	// The issued cookies open the user's screens on the next request.
	fb.reply("GET /my/profile", http.StatusOK, `{"data":{"user":{"_id":"u1","name":"John"}}}`)
	next := do(newTestRouter(t, fb), http.MethodGet, "/user/profile", "", "", cookies[session.TokenCookie], cookies[session.UserCookie])
	assert.Equal(t, http.StatusOK, next.Code)
}

func TestLogin_Form(t *testing.T) {
	fb := newFakeBackend(t)
	raw := mint(t, time.Hour, jwt.MapClaims{"userId": "a1", "role": "admin"})
	fb.reply("POST /auth/login", http.StatusOK, `{"token":"`+raw+`","user":{"id":"a1","role":"admin","email":"admin@example.com"}}`)

	form := url.Values{"email": {"admin@example.com"}, "password": {"admin123"}}.Encode()
	w := do(newTestRouter(t, fb), http.MethodPost, "/login", "application/x-www-form-urlencoded", form)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/users", w.Header().Get("Location"))
}

func TestLogin_BadCredentials(t *testing.T) {
	fb := newFakeBackend(t)
	fb.reply("POST /auth/login", http.StatusUnauthorized, `{"message":"Invalid credentials"}`)

	w := do(newTestRouter(t, fb), http.MethodPost, "/login", "application/json", `{"email":"a@x.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
	assert.NotContains(t, cookiesByName(w), session.TokenCookie)
}

func TestLogin_BadCredentialsClearsExistingSession(t *testing.T) {
	fb := newFakeBackend(t)
	fb.reply("POST /auth/login", http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	before := evictions(t, metrics.EvictUnauthorized)

	w := do(newTestRouter(t, fb), http.MethodPost, "/login", "application/json",
		`{"email":"john@example.com","password":"nope"}`, userCookie(t))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
	assert.Equal(t, before+1, evictions(t, metrics.EvictUnauthorized))

	cookies := cookiesByName(w)
	require.Contains(t, cookies, session.TokenCookie)
	assert.Less(t, cookies[session.TokenCookie].MaxAge, 0)
	require.Contains(t, cookies, session.UserCookie)
	assert.Less(t, cookies[session.UserCookie].MaxAge, 0)
}

func TestLogin_UnusableRole(t *testing.T) {
	fb := newFakeBackend(t)
	raw := mint(t, time.Hour, jwt.MapClaims{"userId": "u1", "role": "owner"})
	fb.reply("POST /auth/login", http.StatusOK, `{"token":"`+raw+`","user":{"id":"u1","role":"owner","email":"o@example.com"}}`)

	w := do(newTestRouter(t, fb), http.MethodPost, "/login", "application/json", `{"email":"o@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"unexpected response from server"}`, w.Body.String())
	assert.NotContains(t, cookiesByName(w), session.TokenCookie)
}

func TestLogin_Validation(t *testing.T) {
	fb := newFakeBackend(t)

	w := do(newTestRouter(t, fb), http.MethodPost, "/login", "application/json", `{"email":"","password":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email is required")
	assert.Empty(t, fb.calls, "validation failures never reach the backend")
}

func TestLogin_InvalidBody(t *testing.T) {
	w := do(newTestRouter(t, newFakeBackend(t)), http.MethodPost, "/login", "application/json", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_BackendDown(t *testing.T) {
	fb := newFakeBackend(t)
	h := newTestRouter(t, fb)
	fb.srv.Close()

	w := do(h, http.MethodPost, "/login", "application/json", `{"email":"a@x.com","password":"pw"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "No response from server")
}

func TestLoginPage(t *testing.T) {
	h := newTestRouter(t, newFakeBackend(t))

	w := do(h, http.MethodGet, "/login", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<form method="post" action="/login">`)

	w = do(h, http.MethodGet, "/login", "", "", adminCookie(t))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/users", w.Header().Get("Location"))
}

func TestRootRedirect(t *testing.T) {
	h := newTestRouter(t, newFakeBackend(t))

	tests := []struct {
		name    string
		cookies []*http.Cookie
		want    string
	}{
		{name: "anonymous", want: "/login"},
		{name: "admin", cookies: []*http.Cookie{adminCookie(t)}, want: "/admin/users"},
		{name: "user", cookies: []*http.Cookie{userCookie(t)}, want: "/user/profile"},
		{
			name:    "expired",
			cookies: []*http.Cookie{{Name: session.TokenCookie, Value: mint(t, -time.Hour, jwt.MapClaims{"userId": "a1", "role": "admin"})}},
			want:    "/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodGet, "/", "", "", tt.cookies...)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
}

func TestAdminUsers_ForwardsBearer(t *testing.T) {
	fb := newFakeBackend(t)
	fb.reply("GET /users", http.StatusOK, `{"success":true,"data":{"users":[{"_id":"u1","name":"John","email":"john@example.com","role":"user"}]}}`)
	cookie := adminCookie(t)

	w := do(newTestRouter(t, fb), http.MethodGet, "/admin/users", "", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "John", users[0]["name"])
	assert.Equal(t, "u1", users[0]["id"], "backend _id is exposed as id")
	assert.NotContains(t, users[0], "_id")

	require.Len(t, fb.calls, 1)
	assert.Equal(t, "Bearer "+cookie.Value, fb.calls[0].auth)
}

func TestAdminRoute_UserRedirectedHome(t *testing.T) {
	fb := newFakeBackend(t)

	w := do(newTestRouter(t, fb), http.MethodGet, "/admin/vehicles", "", "", userCookie(t))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/user/profile", w.Header().Get("Location"))
	assert.Empty(t, fb.calls)
}

func TestUserRoute_AnonymousRedirectedToLogin(t *testing.T) {
	w := do(newTestRouter(t, newFakeBackend(t)), http.MethodGet, "/user/vehicles", "", "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func evictions(t *testing.T, reason string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.SessionEvictions.WithLabelValues(reason).Write(&m))
	return m.GetCounter().GetValue()
}

func TestBackendUnauthorized_EvictsSession(t *testing.T) {
	fb := newFakeBackend(t)
	fb.reply("GET /my/vehicles", http.StatusUnauthorized, `{"message":"Token revoked"}`)
	unauthorized := evictions(t, metrics.EvictUnauthorized)
	logout := evictions(t, metrics.EvictLogout)

	w := do(newTestRouter(t, fb), http.MethodGet, "/user/vehicles", "", "", userCookie(t))

	assert.Equal(t, unauthorized+1, evictions(t, metrics.EvictUnauthorized), "one 401 is one eviction")
	assert.Equal(t, logout, evictions(t, metrics.EvictLogout))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookies := cookiesByName(w)
	require.Contains(t, cookies, session.TokenCookie)
	assert.Less(t, cookies[session.TokenCookie].MaxAge, 0)
	require.Contains(t, cookies, session.UserCookie)
	assert.Less(t, cookies[session.UserCookie].MaxAge, 0)
}

func TestBackendError_PassesMessage(t *testing.T) {
	fb := newFakeBackend(t)
	fb.reply("POST /vehicles", http.StatusConflict, `{"success":false,"message":"License plate already exists"}`)

	w := do(newTestRouter(t, fb), http.MethodPost, "/admin/vehicles", "application/json",
		`{"make":"Toyota","model":"Corolla","year":2020,"licensePlate":"ABC-123"}`, adminCookie(t))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"License plate already exists"}`, w.Body.String())
}

func TestCreateVehicle_ValidationStopsAtService(t *testing.T) {
	fb := newFakeBackend(t)

	w := do(newTestRouter(t, fb), http.MethodPost, "/admin/vehicles", "application/json", `{"model":"Corolla"}`, adminCookie(t))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "make is required")
	assert.Empty(t, fb.calls)
}

func TestAssignments(t *testing.T) {
	fb := newFakeBackend(t)
	fb.reply("GET /vehicles", http.StatusOK, `{"data":[{"_id":"v1","make":"Ford","model":"Focus","status":"assigned","assignedTo":"u1"}]}`)
	fb.reply("GET /users", http.StatusOK, `[{"_id":"u1","name":"John"}]`)
	fb.reply("POST /vehicles/v1/assign", http.StatusOK, `{"success":true}`)
	fb.reply("POST /vehicles/v1/unassign", http.StatusOK, `{"success":true}`)
	h := newTestRouter(t, fb)

	w := do(h, http.MethodGet, "/admin/assignments", "", "", adminCookie(t))
	require.Equal(t, http.StatusOK, w.Code)
	var board model.AssignmentBoard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board.Vehicles, 1)
	assert.Equal(t, "John", board.Vehicles[0].AssignedTo.Name)

	w = do(h, http.MethodPost, "/admin/assignments/v1", "application/json", `{"userId":"u1"}`, adminCookie(t))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(h, http.MethodDelete, "/admin/assignments/v1", "", "", adminCookie(t))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLogout(t *testing.T) {
	w := do(newTestRouter(t, newFakeBackend(t)), http.MethodPost, "/logout", "", "", userCookie(t))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cookies := cookiesByName(w)
	require.Contains(t, cookies, session.TokenCookie)
	assert.Less(t, cookies[session.TokenCookie].MaxAge, 0)
}

func TestMe(t *testing.T) {
	h := newTestRouter(t, newFakeBackend(t))

	w := do(h, http.MethodGet, "/me", "", "", userCookie(t))
	require.Equal(t, http.StatusOK, w.Code)
	var me model.UserSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, model.UserSummary{ID: "u1", Role: model.RoleUser, Email: "john@example.com"}, me)

	w = do(h, http.MethodGet, "/me", "", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestNotFound(t *testing.T) {
	w := do(newTestRouter(t, newFakeBackend(t)), http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t, newFakeBackend(t)), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
