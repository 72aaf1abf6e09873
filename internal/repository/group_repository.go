package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/catequesis-api/internal/models"
)

// ErrNoSeatAvailable is returned when a seat claim loses the race for the
// last free seat in a group.
var ErrNoSeatAvailable = errors.New("group has no seat available")

// GroupRepository handles persistence of catechesis groups and their seat
// counters.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs the repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindByID returns a group by its ID.
func (r *GroupRepository) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	const query = `SELECT id, name, parish_id, level_id, capacity, occupied_seats, active, created_at, updated_at
		FROM groups WHERE id = $1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListByParish returns active groups for a parish.
func (r *GroupRepository) ListByParish(ctx context.Context, parishID int64) ([]models.Group, error) {
	const query = `SELECT id, name, parish_id, level_id, capacity, occupied_seats, active, created_at, updated_at
		FROM groups WHERE parish_id = $1 AND active = true ORDER BY name ASC`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, parishID); err != nil {
		return nil, fmt.Errorf("list parish groups: %w", err)
	}
	return groups, nil
}

// ClaimSeat increments the occupied counter only while a seat remains free.
// The capacity guard lives in the WHERE clause so concurrent claims can never
// push occupancy past capacity; the losing claim gets ErrNoSeatAvailable.
func (r *GroupRepository) ClaimSeat(ctx context.Context, groupID int64) error {
	const query = `UPDATE groups SET occupied_seats = occupied_seats + 1, updated_at = $2
		WHERE id = $1 AND occupied_seats < capacity`
	result, err := r.db.ExecContext(ctx, query, groupID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("claim group seat: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check claimed seat: %w", err)
	}
	if rows == 0 {
		return ErrNoSeatAvailable
	}
	return nil
}

// ReleaseSeat decrements the occupied counter, never below zero.
func (r *GroupRepository) ReleaseSeat(ctx context.Context, groupID int64) error {
	const query = `UPDATE groups SET occupied_seats = occupied_seats - 1, updated_at = $2
		WHERE id = $1 AND occupied_seats > 0`
	if _, err := r.db.ExecContext(ctx, query, groupID, time.Now().UTC()); err != nil {
		return fmt.Errorf("release group seat: %w", err)
	}
	return nil
}
