package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Role is the access level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// FlexID is an identifier the backend may send as a JSON string or number.
type FlexID string

// UnmarshalJSON accepts "abc", 42 and null.
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = FlexID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = FlexID(n.String())
	return nil
}

// UserSummary is the minimal identity kept in the session cookie and used
// for authorization checks.
type UserSummary struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// User is a full account record as returned by the backend.
type User struct {
	ID        FlexID `json:"id"`
	MongoID   FlexID `json:"_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Key returns the record identifier, preferring id over _id.
func (u User) Key() string {
	if u.ID != "" {
		return string(u.ID)
	}
	return string(u.MongoID)
}

// MarshalJSON emits the record with its Key as id and no _id.
func (u User) MarshalJSON() ([]byte, error) {
	type wire User
	w := wire(u)
	w.ID, w.MongoID = FlexID(u.Key()), ""
	return json.Marshal(w)
}

// Summary projects the record onto the session identity.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:    u.Key(),
		Role:  u.Role,
		Email: u.Email,
		Name:  u.Name,
	}
}

// UserRequest is the payload for creating or updating an account.
// Password is omitted on update when left empty.
type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents an authentication response with a JWT token and user info.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LoginResult is returned to the browser after a successful login.
type LoginResult struct {
	User     UserSummary `json:"user"`
	Redirect string      `json:"redirect"`
}
