package domain

import "time"

// Provider is a vendor risks are recorded against.
type Provider struct {
	ID          int64
	Name        string
	Description string
	Country     string // ISO 3166-1 alpha-3
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
