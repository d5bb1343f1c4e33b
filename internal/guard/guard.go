// Package guard decides what a protected route does for the current session.
package guard

import "github.com/fleetpanel/fleetpanel-go/internal/model"

const (
	LoginPath     = "/login"
	AdminHomePath = "/admin/users"
	UserHomePath  = "/user/profile"
)

// Kind enumerates route guard outcomes.
type Kind int

const (
	Pending Kind = iota
	RedirectLogin
	RedirectRoleHome
	Render
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect_login"
	case RedirectRoleHome:
		return "redirect_role_home"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decision is the outcome for one navigation. Path is set for redirects.
type Decision struct {
	Kind Kind
	Path string
}

// Input is everything the guard looks at for one navigation.
// An empty RequiredRole means any authenticated user may pass.
type Input struct {
	Loading       bool
	Authenticated bool
	User          *model.UserSummary
	RequiredRole  model.Role
}

// Decide applies the checks in fixed order: loading, authentication, role.
func Decide(in Input) Decision {
	if in.Loading {
		return Decision{Kind: Pending}
	}
	if !in.Authenticated || in.User == nil {
		return Decision{Kind: RedirectLogin, Path: LoginPath}
	}
	if in.RequiredRole != "" && in.User.Role != in.RequiredRole {
		return Decision{Kind: RedirectRoleHome, Path: HomePath(in.User.Role)}
	}
	return Decision{Kind: Render}
}

// HomePath returns the landing page for a role.
func HomePath(role model.Role) string {
	if role == model.RoleAdmin {
		return AdminHomePath
	}
	return UserHomePath
}
