package models

import "time"

// Level is a formation level in the catechesis curriculum, e.g. first
// communion or confirmation preparation.
type Level struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Ordinal      int       `db:"ordinal" json:"ordinal"`
	BaseFee      float64   `db:"base_fee" json:"base_fee"`
	MaterialsFee float64   `db:"materials_fee" json:"materials_fee"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
