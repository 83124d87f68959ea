package domain

import "time"

// Seeded roles. The default role is linked to every registered user and can
// never be deleted.
const (
	DefaultRoleID   int64 = 1
	DefaultRoleName       = "user"
	AdminRoleID     int64 = 2
	AdminRoleName         = "admin"
)

type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
