// Package models defines the penguin tracker domain types shared by the
// transport, services and CLI layers.
package models

import "strings"

// MinPasswordLength is the shortest password the register form accepts.
const MinPasswordLength = 8

// Credentials are the email/password pair exchanged for a session. They are
// persisted only through the credential store.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the authenticated identity returned by the backend.
type User struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// DisplayName returns the user's name, or the email when no name is set.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// Session is the result of a successful authentication exchange.
type Session struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// RegisterInput is what the register form collects. Confirm never leaves the
// client.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"-"`
}

// Validate runs the pre-flight checks the register form performs before the
// session manager is invoked.
func (r RegisterInput) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return invalid("name", "name is required")
	case strings.TrimSpace(r.Email) == "":
		return invalid("email", "email is required")
	case r.Password == "":
		return invalid("password", "password is required")
	case r.Confirm == "":
		return invalid("confirm", "password confirmation is required")
	case !strings.Contains(r.Email, "@"):
		return invalid("email", "email must contain @")
	case len(r.Password) < MinPasswordLength:
		return invalid("password", "password must be at least 8 characters")
	case r.Password != r.Confirm:
		return invalid("confirm", "passwords do not match")
	}
	return nil
}

// Credentials returns the login pair implied by a successful registration.
func (r RegisterInput) Credentials() Credentials {
	return Credentials{Email: r.Email, Password: r.Password}
}
