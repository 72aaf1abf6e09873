package models

import "time"

// Catechumen is a person enrolled in catechism formation. The registry owns
// this record; the enrollment core only consumes identity and eligibility
// facts.
type Catechumen struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	BirthDate time.Time `db:"birth_date" json:"birth_date"`
	ParishID  int64     `db:"parish_id" json:"parish_id"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
