package models

import "time"

// FinancialReportFilter scopes the financial report scan.
type FinancialReportFilter struct {
	ParishID *int64
	DateFrom *time.Time
	DateTo   *time.Time
}

// FinancialReport aggregates the financial state of a set of enrollments.
type FinancialReport struct {
	ParishID         *int64                `json:"parish_id,omitempty"`
	DateFrom         *time.Time            `json:"date_from,omitempty"`
	DateTo           *time.Time            `json:"date_to,omitempty"`
	TotalEnrollments int                   `json:"total_enrollments"`
	ExpectedTotal    float64               `json:"expected_total"`
	CollectedTotal   float64               `json:"collected_total"`
	PendingTotal     float64               `json:"pending_total"`
	DiscountTotal    float64               `json:"discount_total"`
	CollectionRate   float64               `json:"collection_rate"`
	ByPaymentStatus  map[PaymentStatus]int `json:"by_payment_status"`
	OverdueCount     int                   `json:"overdue_count"`
	GeneratedAt      time.Time             `json:"generated_at"`
}

// AcademicReportFilter scopes the academic report scan.
type AcademicReportFilter struct {
	GroupID  *int64
	ParishID *int64
}

// Attendance histogram band labels.
const (
	BandAttendance90to100 = "90-100"
	BandAttendance80to89  = "80-89"
	BandAttendance70to79  = "70-79"
	BandAttendanceBelow70 = "<70"
	BandNoData            = "no-data"
)

// Grade histogram band labels.
const (
	BandGrade9to10  = "9-10"
	BandGrade8to89  = "8-8.9"
	BandGrade7to79  = "7-7.9"
	BandGradeBelow7 = "<7"
)

// AcademicReport aggregates attendance and grade distributions for a set of
// enrollments.
type AcademicReport struct {
	GroupID           *int64         `json:"group_id,omitempty"`
	ParishID          *int64         `json:"parish_id,omitempty"`
	TotalEnrollments  int            `json:"total_enrollments"`
	AvgAttendance     float64        `json:"avg_attendance"`
	AvgGrade          float64        `json:"avg_grade"`
	MeetAttendanceReq int            `json:"meet_attendance_requirement"`
	MeetGradeReq      int            `json:"meet_grade_requirement"`
	EligibleCount     int            `json:"eligible_count"`
	AttendanceBands   map[string]int `json:"attendance_bands"`
	GradeBands        map[string]int `json:"grade_bands"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

// AttendanceBand classifies an attendance percentage into its histogram band.
// hasData is false when the enrollment has no attendance records at all.
func AttendanceBand(pct float64, hasData bool) string {
	switch {
	case !hasData:
		return BandNoData
	case pct >= 90:
		return BandAttendance90to100
	case pct >= 80:
		return BandAttendance80to89
	case pct >= 70:
		return BandAttendance70to79
	default:
		return BandAttendanceBelow70
	}
}

// GradeBand classifies a grade average into its histogram band.
func GradeBand(avg float64, hasData bool) string {
	switch {
	case !hasData:
		return BandNoData
	case avg >= 9:
		return BandGrade9to10
	case avg >= 8:
		return BandGrade8to89
	case avg >= 7:
		return BandGrade7to79
	default:
		return BandGradeBelow7
	}
}

// BatchItemResult records the outcome of a single item inside a batch
// operation. Error carries the structured failure payload when Success is
// false.
type BatchItemResult struct {
	EnrollmentID int64                  `json:"enrollment_id,omitempty"`
	CatechumenID int64                  `json:"catechumen_id,omitempty"`
	Success      bool                   `json:"success"`
	ErrorCode    string                 `json:"error_code,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	ErrorDetails map[string]interface{} `json:"error_details,omitempty"`
}

// BatchResult summarizes a batch operation. Attempted always equals
// Succeeded + Failed.
type BatchResult struct {
	Attempted int               `json:"attempted"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}
