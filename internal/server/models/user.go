package models

import "time"

// User is an account of the backend. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserView is the public representation sent in auth responses.
type UserView struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func (u *User) View() UserView {
	v := UserView{ID: u.ID, Email: u.Email}
	if u.Name != "" {
		name := u.Name
		v.Name = &name
	}
	return v
}
