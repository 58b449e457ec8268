package entity

import (
	"time"
)

// Role represents an authorization role
type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// User is an account holder.
// Password holds the bcrypt hash only; token fields hold digests, never plaintext.
type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Role                Role       `json:"role"`
	Password            string     `json:"-"`
	ResetPasswordToken  string     `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	ConfirmEmailToken   string     `json:"-"`
	IsEmailConfirmed    bool       `json:"isEmailConfirmed"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// ClearResetToken drops the reset digest and its expiry.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = nil
}
