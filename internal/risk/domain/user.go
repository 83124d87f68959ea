package domain

import "time"

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string // bcrypt encoded, never serialized
	Roles        []Role // only loaded by role aware lookups
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the loaded roles include name.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
