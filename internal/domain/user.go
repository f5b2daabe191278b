package domain

import "time"

// User is an account that can authenticate and act on tickets.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	RoleID       int64
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the access-control view of the user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
