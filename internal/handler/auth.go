package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fleetpanel/fleetpanel-go/internal/auth"
	"github.com/fleetpanel/fleetpanel-go/internal/guard"
	"github.com/fleetpanel/fleetpanel-go/internal/metrics"
	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
	"github.com/fleetpanel/fleetpanel-go/internal/service"
)

const loginPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Vehicle Management - Login</title></head>
<body>
<h2>Vehicle Management</h2>
<form method="post" action="/login">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Login</button>
</form>
</body></html>
`

// AuthHandler handles HTTP requests for login, logout and session landing.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// authenticatedUser returns the signed-in user when the session is valid.
func authenticatedUser(r *http.Request) (model.UserSummary, bool) {
	ac, ok := auth.FromContext(r.Context())
	if !ok || !ac.IsAuthenticated() {
		return model.UserSummary{}, false
	}
	return ac.User()
}

// HandleRoot handles GET / by sending the browser to its landing page.
func (h *AuthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticatedUser(r)
	if !ok {
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, guard.HomePath(user.Role), http.StatusSeeOther)
}

// HandleLoginPage handles GET /login.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if user, ok := authenticatedUser(r); ok {
		http.Redirect(w, r, guard.HomePath(user.Role), http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(loginPage))
}

// HandleLogin handles POST /login with a JSON or form-encoded body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	form := isFormPost(r)
	var req model.LoginRequest
	if form {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
			return
		}
		req.Email = r.PostForm.Get("email")
		req.Password = r.PostForm.Get("password")
	} else if !decodeJSON(w, r, 1<<20, &req) {
		return
	}

	sess, err := h.service.Login(r.Context(), req)
	if err != nil {
		// A 401 here means bad credentials; any session the browser still
		// carries is dropped all the same.
		if errors.Is(err, repository.ErrUnauthorized) {
			ac.Evict(metrics.EvictUnauthorized)
			writeJSON(w, http.StatusUnauthorized, errorResponse("invalid email or password"))
			return
		}
		writeError(w, r, err)
		return
	}

	ac.Login(sess.Token, sess.User)
	home := guard.HomePath(sess.User.Role)

	if form {
		http.Redirect(w, r, home, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResult{User: sess.User, Redirect: home})
}

// HandleLogout handles POST /logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		ac.Logout()
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

// HandleMe handles GET /me.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticatedUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func isFormPost(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}
