package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/catequesis-api/internal/models"
)

// AcademicRepository reads attendance and grade facts supplied by the
// attendance and grading subsystems.
type AcademicRepository struct {
	db *sqlx.DB
}

// NewAcademicRepository constructs the repository.
func NewAcademicRepository(db *sqlx.DB) *AcademicRepository {
	return &AcademicRepository{db: db}
}

// ListAttendance returns all attendance records for an enrollment, oldest
// first.
func (r *AcademicRepository) ListAttendance(ctx context.Context, enrollmentID int64) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, enrollment_id, session_date, present, created_at
		FROM attendance_records WHERE enrollment_id = $1 ORDER BY session_date ASC, id ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

// ListGrades returns all grade records for an enrollment, oldest first.
func (r *AcademicRepository) ListGrades(ctx context.Context, enrollmentID int64) ([]models.GradeRecord, error) {
	const query = `SELECT id, enrollment_id, description, value, recorded_at
		FROM grade_records WHERE enrollment_id = $1 ORDER BY recorded_at ASC, id ASC`
	var records []models.GradeRecord
	if err := r.db.SelectContext(ctx, &records, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list grade records: %w", err)
	}
	return records, nil
}
