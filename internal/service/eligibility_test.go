package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/catequesis-api/internal/models"
)

func attendanceRecords(present, absent int) []models.AttendanceRecord {
	var records []models.AttendanceRecord
	for i := 0; i < present; i++ {
		records = append(records, models.AttendanceRecord{Present: true})
	}
	for i := 0; i < absent; i++ {
		records = append(records, models.AttendanceRecord{Present: false})
	}
	return records
}

func gradeRecords(values ...float64) []models.GradeRecord {
	var records []models.GradeRecord
	for i := range values {
		records = append(records, models.GradeRecord{Value: &values[i]})
	}
	return records
}

func TestEvaluateMeetsThresholdInclusive(t *testing.T) {
	ev := NewEligibilityEvaluator(80, 7)
	e := &models.Enrollment{}

	ev.Evaluate(e, attendanceRecords(8, 2), gradeRecords(7, 7, 7))

	assert.Equal(t, 80.0, e.AttendancePercentage)
	assert.True(t, e.MeetsAttendanceReq)
	assert.Equal(t, 7.0, e.GradeAverage)
	assert.True(t, e.MeetsGradeReq)
}

func TestEvaluateBelowThreshold(t *testing.T) {
	ev := NewEligibilityEvaluator(80, 7)
	e := &models.Enrollment{}

	ev.Evaluate(e, attendanceRecords(7, 3), gradeRecords(6, 6.5))

	assert.Equal(t, 70.0, e.AttendancePercentage)
	assert.False(t, e.MeetsAttendanceReq)
	assert.False(t, e.MeetsGradeReq)
}

func TestEvaluateNoRecordsFailsRequirements(t *testing.T) {
	ev := NewEligibilityEvaluator(80, 7)
	e := &models.Enrollment{MeetsAttendanceReq: true, MeetsGradeReq: true}

	ev.Evaluate(e, nil, nil)

	assert.Equal(t, 0.0, e.AttendancePercentage)
	assert.Equal(t, 0.0, e.GradeAverage)
	assert.False(t, e.MeetsAttendanceReq)
	assert.False(t, e.MeetsGradeReq)
}

func TestEvaluateSkipsUngradedRecords(t *testing.T) {
	ev := NewEligibilityEvaluator(80, 7)
	e := &models.Enrollment{}

	nine := 9.0
	records := []models.GradeRecord{
		{Value: &nine},
		{Value: nil},
		{Value: &nine},
	}
	ev.Evaluate(e, attendanceRecords(10, 0), records)

	assert.Equal(t, 9.0, e.GradeAverage)
	assert.True(t, e.MeetsGradeReq)
}
