package service

import (
	"github.com/noah-isme/catequesis-api/internal/models"
)

// EligibilityEvaluator derives academic eligibility flags from attendance and
// grade records. Thresholds come from configuration so parishes with
// different curricula can tune them without code changes.
type EligibilityEvaluator struct {
	attendanceThreshold float64
	gradeThreshold      float64
}

// NewEligibilityEvaluator constructs an evaluator with the given thresholds.
func NewEligibilityEvaluator(attendanceThreshold, gradeThreshold float64) *EligibilityEvaluator {
	return &EligibilityEvaluator{
		attendanceThreshold: attendanceThreshold,
		gradeThreshold:      gradeThreshold,
	}
}

// Evaluate recalculates the enrollment's attendance percentage, grade average
// and requirement flags from the supplied records. Enrollments with no
// records score zero and fail the corresponding requirement.
func (ev *EligibilityEvaluator) Evaluate(e *models.Enrollment, attendance []models.AttendanceRecord, grades []models.GradeRecord) {
	pct, hasAttendance := models.AttendancePercentage(attendance)
	if !hasAttendance {
		pct = 0
	}
	e.AttendancePercentage = pct
	e.MeetsAttendanceReq = hasAttendance && pct >= ev.attendanceThreshold

	avg, hasGrades := models.GradeAverage(grades)
	if !hasGrades {
		avg = 0
	}
	e.GradeAverage = avg
	e.MeetsGradeReq = hasGrades && avg >= ev.gradeThreshold
}
