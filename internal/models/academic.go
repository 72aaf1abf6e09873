package models

import "time"

// AttendanceRecord is a single session attendance mark for an enrollment.
type AttendanceRecord struct {
	ID           int64     `db:"id" json:"id"`
	EnrollmentID int64     `db:"enrollment_id" json:"enrollment_id"`
	SessionDate  time.Time `db:"session_date" json:"session_date"`
	Present      bool      `db:"present" json:"present"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// GradeRecord is one evaluation result for an enrollment. Value is nil when
// the evaluation was scheduled but not graded.
type GradeRecord struct {
	ID           int64     `db:"id" json:"id"`
	EnrollmentID int64     `db:"enrollment_id" json:"enrollment_id"`
	Description  string    `db:"description" json:"description"`
	Value        *float64  `db:"value" json:"value"`
	RecordedAt   time.Time `db:"recorded_at" json:"recorded_at"`
}

// AttendancePercentage computes the percent of sessions attended over the
// given records. Returns false when there are no records to average.
func AttendancePercentage(records []AttendanceRecord) (float64, bool) {
	if len(records) == 0 {
		return 0, false
	}
	present := 0
	for _, r := range records {
		if r.Present {
			present++
		}
	}
	return float64(present) / float64(len(records)) * 100, true
}

// GradeAverage computes the mean over graded records, skipping ungraded
// entries. Returns false when no record carries a value.
func GradeAverage(records []GradeRecord) (float64, bool) {
	sum := 0.0
	graded := 0
	for _, r := range records {
		if r.Value != nil {
			sum += *r.Value
			graded++
		}
	}
	if graded == 0 {
		return 0, false
	}
	return sum / float64(graded), true
}
