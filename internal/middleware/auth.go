package middleware

import (
	"log/slog"
	"net/http"

	"github.com/fleetpanel/fleetpanel-go/internal/auth"
	"github.com/fleetpanel/fleetpanel-go/internal/guard"
	"github.com/fleetpanel/fleetpanel-go/internal/metrics"
	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
	"github.com/fleetpanel/fleetpanel-go/internal/session"
	"github.com/fleetpanel/fleetpanel-go/internal/token"
)

// Session returns middleware that restores the auth state from the request
// cookies and attaches it, plus the bearer token for backend calls, to the
// request context.
func Session(codec *token.Codec, opts session.CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := session.NewCookieStore(w, r, opts)
			ac := auth.New(store, session.NewValidator(store, codec), codec)
			ac.Initialize(r.Context())

			ctx := auth.WithContext(r.Context(), ac)
			if tok, ok := store.GetToken(); ok {
				ctx = repository.WithToken(ctx, tok)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that lets the request through only when the
// route guard decides to render. An empty role admits any signed-in user.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := auth.FromContext(r.Context())
			if !ok {
				slog.Error("route guard without session middleware", "path", r.URL.Path)
				http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
				return
			}

			st := ac.Snapshot()
			in := guard.Input{
				Loading:      st.Loading,
				User:         st.User,
				RequiredRole: role,
			}
			if !st.Loading {
				in.Authenticated = ac.IsAuthenticated()
			}

			d := guard.Decide(in)
			metrics.GuardDecisions.WithLabelValues(d.Kind.String()).Inc()

			switch d.Kind {
			case guard.Pending:
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Loading..."))
			case guard.RedirectLogin, guard.RedirectRoleHome:
				http.Redirect(w, r, d.Path, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
