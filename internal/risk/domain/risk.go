package domain

import "time"

// Risk is a register entry. Listings built for different criteria select
// different columns, so the optional fields are pointers: nil means "not part
// of this projection", not "unset in the database".
type Risk struct {
	ID          int64
	ProviderID  *int64
	Name        string
	Description string
	Probability Classification
	Impact      Classification
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
	UserID      *int64  // populated by user scoped listings
	Country     *string // populated by country scoped listings
}

// PopulatedFields counts the fields carrying a value. When the same risk
// shows up in two listings the representation with more fields wins.
func (r Risk) PopulatedFields() int {
	n := 0
	for _, set := range []bool{
		r.ID != 0,
		r.ProviderID != nil,
		r.Name != "",
		r.Description != "",
		r.Probability != "",
		r.Impact != "",
		r.CreatedAt != nil,
		r.UpdatedAt != nil,
		r.UserID != nil,
		r.Country != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
