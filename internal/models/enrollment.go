package models

import (
	"fmt"
	"strings"
	"time"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses. Inactive and Withdrawn exist as
// creation-time / legacy entry points only and are never valid transition
// targets.
const (
	EnrollmentStatusActive      EnrollmentStatus = "ACTIVE"
	EnrollmentStatusInactive    EnrollmentStatus = "INACTIVE"
	EnrollmentStatusInProgress  EnrollmentStatus = "IN_PROGRESS"
	EnrollmentStatusSuspended   EnrollmentStatus = "SUSPENDED"
	EnrollmentStatusCancelled   EnrollmentStatus = "CANCELLED"
	EnrollmentStatusTransferred EnrollmentStatus = "TRANSFERRED"
	EnrollmentStatusGraduated   EnrollmentStatus = "GRADUATED"
	EnrollmentStatusWithdrawn   EnrollmentStatus = "WITHDRAWN"
)

// ParseEnrollmentStatus converts a raw string into a closed status variant.
// Inputs are validated once at the system edge; internal code only ever sees
// the typed value.
func ParseEnrollmentStatus(raw string) (EnrollmentStatus, error) {
	s := EnrollmentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusInactive, EnrollmentStatusInProgress,
		EnrollmentStatusSuspended, EnrollmentStatusCancelled, EnrollmentStatusTransferred,
		EnrollmentStatusGraduated, EnrollmentStatusWithdrawn:
		return s, nil
	}
	return "", fmt.Errorf("unknown enrollment status %q", raw)
}

// enrollmentTransitions is the allowed adjacency table for status changes.
// Graduated, Cancelled and Withdrawn are terminal.
var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentStatusActive:     {EnrollmentStatusInProgress, EnrollmentStatusSuspended, EnrollmentStatusCancelled, EnrollmentStatusTransferred},
	EnrollmentStatusInProgress: {EnrollmentStatusGraduated, EnrollmentStatusSuspended, EnrollmentStatusCancelled},
	EnrollmentStatusSuspended:  {EnrollmentStatusActive, EnrollmentStatusInProgress, EnrollmentStatusCancelled},
}

// CanTransition reports whether moving from one status to another is allowed
// by the adjacency table.
func CanTransition(from, to EnrollmentStatus) bool {
	for _, allowed := range enrollmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether a status permits no further transitions.
func IsTerminalStatus(s EnrollmentStatus) bool {
	return len(enrollmentTransitions[s]) == 0
}

// PaymentStatus represents the settlement state of an enrollment.
type PaymentStatus string

// Possible payment statuses.
const (
	PaymentStatusPending       PaymentStatus = "PENDING"
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusOverdue       PaymentStatus = "OVERDUE"
	PaymentStatusExempt        PaymentStatus = "EXEMPT"
)

// DiscountKind enumerates the recognised discount categories.
type DiscountKind string

// Possible discount kinds.
const (
	DiscountSiblings         DiscountKind = "SIBLINGS"
	DiscountEmployee         DiscountKind = "EMPLOYEE"
	DiscountEconomicHardship DiscountKind = "ECONOMIC_HARDSHIP"
	DiscountScholarship      DiscountKind = "SCHOLARSHIP"
	DiscountSpecial          DiscountKind = "SPECIAL"
)

// ParseDiscountKind converts a raw string into a discount kind.
func ParseDiscountKind(raw string) (DiscountKind, error) {
	k := DiscountKind(strings.ToUpper(strings.TrimSpace(raw)))
	switch k {
	case DiscountSiblings, DiscountEmployee, DiscountEconomicHardship, DiscountScholarship, DiscountSpecial:
		return k, nil
	}
	return "", fmt.Errorf("unknown discount kind %q", raw)
}

// PaymentMethod enumerates how a payment was received.
type PaymentMethod string

// Possible payment methods.
const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodCheque   PaymentMethod = "CHEQUE"
)

// ParsePaymentMethod converts a raw string into a payment method.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCheque:
		return m, nil
	}
	return "", fmt.Errorf("unknown payment method %q", raw)
}

// ChangeRecord is one immutable entry in an enrollment's change history.
type ChangeRecord struct {
	ID           int64     `db:"id" json:"id"`
	EnrollmentID int64     `db:"enrollment_id" json:"enrollment_id"`
	OccurredAt   time.Time `db:"occurred_at" json:"occurred_at"`
	Description  string    `db:"description" json:"description"`
	Actor        string    `db:"actor" json:"actor"`
}

// Enrollment binds a catechumen to a group and level for one formation
// cycle, including its financial settlement and academic eligibility state.
type Enrollment struct {
	ID            int64   `db:"id" json:"id"`
	Code          string  `db:"code" json:"code"`
	CodeSeq       int     `db:"code_seq" json:"-"`
	ReceiptNumber *string `db:"receipt_number" json:"receipt_number,omitempty"`

	CatechumenID int64  `db:"catechumen_id" json:"catechumen_id"`
	GroupID      int64  `db:"group_id" json:"group_id"`
	ParishID     int64  `db:"parish_id" json:"parish_id"`
	LevelID      *int64 `db:"level_id" json:"level_id,omitempty"`

	EnrolledAt      time.Time        `db:"enrolled_at" json:"enrolled_at"`
	FormationStart  *time.Time       `db:"formation_start" json:"formation_start,omitempty"`
	EstimatedEnd    *time.Time       `db:"estimated_end" json:"estimated_end,omitempty"`
	ActualEnd       *time.Time       `db:"actual_end" json:"actual_end,omitempty"`
	GraduatedAt     *time.Time       `db:"graduated_at" json:"graduated_at,omitempty"`
	SuspendedAt     *time.Time       `db:"suspended_at" json:"suspended_at,omitempty"`
	CancelledAt     *time.Time       `db:"cancelled_at" json:"cancelled_at,omitempty"`
	Status          EnrollmentStatus `db:"status" json:"status"`
	StatusChangedAt *time.Time       `db:"status_changed_at" json:"status_changed_at,omitempty"`
	StatusReason    *string          `db:"status_reason" json:"status_reason,omitempty"`
	StatusChangedBy *string          `db:"status_changed_by" json:"status_changed_by,omitempty"`

	RequiresPayment bool          `db:"requires_payment" json:"requires_payment"`
	BaseFee         float64       `db:"base_fee" json:"base_fee"`
	MaterialsFee    float64       `db:"materials_fee" json:"materials_fee"`
	AmountTotal     float64       `db:"amount_total" json:"amount_total"`
	AmountPaid      float64       `db:"amount_paid" json:"amount_paid"`
	AmountPending   float64       `db:"amount_pending" json:"amount_pending"`
	PaymentStatus   PaymentStatus `db:"payment_status" json:"payment_status"`

	HasDiscount        bool          `db:"has_discount" json:"has_discount"`
	DiscountKind       *DiscountKind `db:"discount_kind" json:"discount_kind,omitempty"`
	DiscountPercentage float64       `db:"discount_percentage" json:"discount_percentage"`
	DiscountAmount     float64       `db:"discount_amount" json:"discount_amount"`
	DiscountReason     *string       `db:"discount_reason" json:"discount_reason,omitempty"`
	DiscountAuthorizer *string       `db:"discount_authorizer" json:"discount_authorizer,omitempty"`

	PaymentDueDate    *time.Time     `db:"payment_due_date" json:"payment_due_date,omitempty"`
	LastPaymentDate   *time.Time     `db:"last_payment_date" json:"last_payment_date,omitempty"`
	LastPaymentMethod *PaymentMethod `db:"last_payment_method" json:"last_payment_method,omitempty"`
	LastPaymentRef    *string        `db:"last_payment_ref" json:"last_payment_ref,omitempty"`

	MayPresentSacrament  bool    `db:"may_present_sacrament" json:"may_present_sacrament"`
	MeetsAttendanceReq   bool    `db:"meets_attendance_req" json:"meets_attendance_req"`
	MeetsGradeReq        bool    `db:"meets_grade_req" json:"meets_grade_req"`
	AttendancePercentage float64 `db:"attendance_percentage" json:"attendance_percentage"`
	GradeAverage         float64 `db:"grade_average" json:"grade_average"`

	// SeatReleased guards the group seat counter against double release on
	// repeated cancellations of the same enrollment.
	SeatReleased bool `db:"seat_released" json:"-"`

	// Version implements optimistic locking; every persisted mutation must
	// match the loaded version or fail with a concurrency conflict.
	Version int64 `db:"version" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	History []ChangeRecord `json:"history,omitempty"`
}

// FormatEnrollmentCode renders the durable external identifier
// INS-YYYY-MM-NNNN. The code never changes once assigned.
func FormatEnrollmentCode(enrolledAt time.Time, seq int) string {
	return fmt.Sprintf("INS-%04d-%02d-%04d", enrolledAt.Year(), int(enrolledAt.Month()), seq)
}

// IsActive reports whether the enrollment is in the Active status.
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}

// IsPaymentCurrent reports whether the enrollment owes nothing.
func (e *Enrollment) IsPaymentCurrent() bool {
	return e.PaymentStatus == PaymentStatusPaid || e.PaymentStatus == PaymentStatusExempt
}

// HasPendingPayment reports whether money is still owed.
func (e *Enrollment) HasPendingPayment() bool {
	return e.AmountPending > 0 && e.PaymentStatus != PaymentStatusExempt
}

// PaymentIsOverdue derives overdue status at read time: a due date exists,
// the enrollment is not payment-current, and now is strictly past the due
// date. Never persisted, to avoid staleness.
func (e *Enrollment) PaymentIsOverdue(now time.Time) bool {
	if e.PaymentDueDate == nil || e.IsPaymentCurrent() {
		return false
	}
	return now.After(*e.PaymentDueDate)
}

// MayGraduate evaluates the graduation gate: Active or InProgress, cleared
// for the sacrament, both academic requirements met, and payment current.
func (e *Enrollment) MayGraduate() bool {
	return len(e.GraduationBlockers()) == 0
}

// GraduationBlockers returns the specific unmet graduation conditions, empty
// when the enrollment may graduate.
func (e *Enrollment) GraduationBlockers() []string {
	var unmet []string
	if e.Status != EnrollmentStatusActive && e.Status != EnrollmentStatusInProgress {
		unmet = append(unmet, fmt.Sprintf("enrollment is %s, not active or in progress", e.Status))
	}
	if !e.MayPresentSacrament {
		unmet = append(unmet, "not cleared to present the sacrament")
	}
	if !e.MeetsAttendanceReq {
		unmet = append(unmet, fmt.Sprintf("attendance requirement not met (%.1f%%)", e.AttendancePercentage))
	}
	if !e.MeetsGradeReq {
		unmet = append(unmet, fmt.Sprintf("grade requirement not met (average %.1f)", e.GradeAverage))
	}
	if !e.IsPaymentCurrent() {
		unmet = append(unmet, "payment is not current")
	}
	return unmet
}

// DaysEnrolled returns whole days elapsed since the enrollment date.
func (e *Enrollment) DaysEnrolled(now time.Time) int {
	return int(now.Sub(e.EnrolledAt).Hours() / 24)
}

// Validate checks the model invariants that do not require collaborator
// lookups. It is called before every persist.
func (e *Enrollment) Validate() error {
	if e.CatechumenID <= 0 {
		return fmt.Errorf("catechumen id is required")
	}
	if e.GroupID <= 0 {
		return fmt.Errorf("group id is required")
	}
	if e.ParishID <= 0 {
		return fmt.Errorf("parish id is required")
	}
	if e.BaseFee < 0 || e.MaterialsFee < 0 {
		return fmt.Errorf("fees cannot be negative")
	}
	if e.AmountPaid < 0 {
		return fmt.Errorf("amount paid cannot be negative")
	}
	if e.AmountPaid > e.AmountTotal {
		return fmt.Errorf("amount paid cannot exceed the total")
	}
	if e.DiscountPercentage < 0 || e.DiscountPercentage > 100 {
		return fmt.Errorf("discount percentage must be between 0 and 100")
	}
	if e.HasDiscount {
		if e.DiscountKind == nil {
			return fmt.Errorf("discount kind is required when a discount is set")
		}
		if e.DiscountPercentage <= 0 {
			return fmt.Errorf("discount percentage must be greater than 0")
		}
	}
	if e.AttendancePercentage < 0 || e.AttendancePercentage > 100 {
		return fmt.Errorf("attendance percentage must be between 0 and 100")
	}
	if e.GradeAverage < 0 || e.GradeAverage > 10 {
		return fmt.Errorf("grade average must be between 0 and 10")
	}
	if e.FormationStart != nil && e.FormationStart.Before(e.EnrolledAt) {
		return fmt.Errorf("formation start cannot precede the enrollment date")
	}
	if e.EstimatedEnd != nil && e.FormationStart != nil && !e.EstimatedEnd.After(*e.FormationStart) {
		return fmt.Errorf("estimated end must be after the formation start")
	}
	if e.GraduatedAt != nil && e.FormationStart != nil && e.GraduatedAt.Before(*e.FormationStart) {
		return fmt.Errorf("graduation date cannot precede the formation start")
	}
	return nil
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	CatechumenID int64
	GroupID      int64
	ParishID     int64
	Status       EnrollmentStatus
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
