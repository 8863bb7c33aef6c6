package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SignUpInput is a new account request.
type SignUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UserPatch holds profile changes. Nil means untouched.
type UserPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// Actor identifies the caller of an operation. The zero value is an anonymous caller.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) Anonymous() bool {
	return a.UserID == ""
}

// Label is used as the changed_by field of lifecycle events.
func (a Actor) Label() string {
	switch {
	case a.Anonymous():
		return "anonymous"
	case a.IsAdmin():
		return "admin"
	default:
		return "user"
	}
}
