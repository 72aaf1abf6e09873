package models

import "time"

// Group is a catechesis group with a fixed seat capacity. Seat accounting is
// enforced in the repository with conditional updates so concurrent
// enrollments can never oversell the group.
type Group struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ParishID      int64     `db:"parish_id" json:"parish_id"`
	LevelID       int64     `db:"level_id" json:"level_id"`
	Capacity      int       `db:"capacity" json:"capacity"`
	OccupiedSeats int       `db:"occupied_seats" json:"occupied_seats"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// AvailableSeats reports how many seats remain.
func (g *Group) AvailableSeats() int {
	remaining := g.Capacity - g.OccupiedSeats
	if remaining < 0 {
		return 0
	}
	return remaining
}

// HasCapacity reports whether at least one seat is free.
func (g *Group) HasCapacity() bool {
	return g.OccupiedSeats < g.Capacity
}
