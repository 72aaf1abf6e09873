package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/catequesis-api/internal/models"
	"github.com/noah-isme/catequesis-api/pkg/config"
	appErrors "github.com/noah-isme/catequesis-api/pkg/errors"
)

type enrollmentOperations interface {
	Create(ctx context.Context, req CreateEnrollmentRequest) (*models.Enrollment, error)
	ApplyDiscount(ctx context.Context, id int64, req ApplyDiscountRequest) (*models.Enrollment, error)
	Graduate(ctx context.Context, id int64, req GraduateRequest) (*models.Enrollment, error)
}

type reportRepository interface {
	ListByGroup(ctx context.Context, groupID int64, statuses ...models.EnrollmentStatus) ([]models.Enrollment, error)
	ListForFinancialReport(ctx context.Context, filter models.FinancialReportFilter) ([]models.Enrollment, error)
	ListForAcademicReport(ctx context.Context, filter models.AcademicReportFilter) ([]models.Enrollment, error)
}

// BulkEnrollRequest enrolls many catechumens into the same group with shared
// fee settings.
type BulkEnrollRequest struct {
	CatechumenIDs   []int64    `json:"catechumen_ids" validate:"required,min=1,dive,gt=0"`
	GroupID         int64      `json:"group_id" validate:"required,gt=0"`
	ParishID        int64      `json:"parish_id" validate:"required,gt=0"`
	BaseFee         float64    `json:"base_fee" validate:"gte=0"`
	MaterialsFee    float64    `json:"materials_fee" validate:"gte=0"`
	RequiresPayment bool       `json:"requires_payment"`
	PaymentDueDate  *time.Time `json:"payment_due_date,omitempty"`
	FormationStart  *time.Time `json:"formation_start,omitempty"`
	Actor           string     `json:"actor" validate:"required"`
}

// BulkDiscountRequest applies one discount to many enrollments.
type BulkDiscountRequest struct {
	EnrollmentIDs []int64 `json:"enrollment_ids" validate:"required,min=1,dive,gt=0"`
	Kind          string  `json:"kind" validate:"required"`
	Percentage    float64 `json:"percentage" validate:"gte=0,lte=100"`
	Reason        string  `json:"reason" validate:"required"`
	Authorizer    string  `json:"authorizer" validate:"required"`
}

// BulkGraduateRequest graduates every eligible enrollment of a group.
type BulkGraduateRequest struct {
	GroupID int64      `json:"group_id" validate:"required,gt=0"`
	Date    *time.Time `json:"date,omitempty"`
	Actor   string     `json:"actor" validate:"required"`
}

// BatchService coordinates guarded operations across collections of
// enrollments. Every item commits independently: one failure is recorded and
// never rolls back or aborts its siblings.
type BatchService struct {
	enrollments enrollmentOperations
	repo        reportRepository
	cache       *CacheService
	cfg         config.ReportsConfig
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBatchService constructs BatchService.
func NewBatchService(enrollments enrollmentOperations, repo reportRepository, cache *CacheService, cfg config.ReportsConfig, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{enrollments: enrollments, repo: repo, cache: cache, cfg: cfg, validator: validate, logger: logger}
}

// BulkEnroll creates one enrollment per catechumen in the same group. Each
// creation runs the full single-enrollment pipeline, so a duplicate open
// enrollment or an exhausted group fails that item without touching the rest.
func (s *BatchService) BulkEnroll(ctx context.Context, req BulkEnrollRequest) (*models.BatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk enrollment payload")
	}
	result := &models.BatchResult{Attempted: len(req.CatechumenIDs)}
	for _, catechumenID := range req.CatechumenIDs {
		item := CreateEnrollmentRequest{
			CatechumenID:    catechumenID,
			GroupID:         req.GroupID,
			ParishID:        req.ParishID,
			BaseFee:         req.BaseFee,
			MaterialsFee:    req.MaterialsFee,
			RequiresPayment: req.RequiresPayment,
			PaymentDueDate:  req.PaymentDueDate,
			FormationStart:  req.FormationStart,
			Actor:           req.Actor,
		}
		enrollment, err := s.enrollments.Create(ctx, item)
		if err != nil {
			failed := failedItem(0, err)
			failed.CatechumenID = catechumenID
			result.Failed++
			result.Items = append(result.Items, failed)
			continue
		}
		result.Succeeded++
		result.Items = append(result.Items, models.BatchItemResult{
			EnrollmentID: enrollment.ID,
			CatechumenID: catechumenID,
			Success:      true,
		})
	}
	s.logger.Info("bulk enrollment finished",
		zap.Int64("group_id", req.GroupID),
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}

// BulkApplyDiscount applies the same discount to each enrollment in turn.
func (s *BatchService) BulkApplyDiscount(ctx context.Context, req BulkDiscountRequest) (*models.BatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk discount payload")
	}
	item := ApplyDiscountRequest{
		Kind:       req.Kind,
		Percentage: req.Percentage,
		Reason:     req.Reason,
		Authorizer: req.Authorizer,
	}
	result := &models.BatchResult{Attempted: len(req.EnrollmentIDs)}
	for _, id := range req.EnrollmentIDs {
		if _, err := s.enrollments.ApplyDiscount(ctx, id, item); err != nil {
			result.Failed++
			result.Items = append(result.Items, failedItem(id, err))
			continue
		}
		result.Succeeded++
		result.Items = append(result.Items, models.BatchItemResult{EnrollmentID: id, Success: true})
	}
	s.logger.Info("bulk discount finished",
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}

// BulkGraduate attempts graduation for every Active or InProgress enrollment
// in a group. Enrollments failing the gate are reported with their unmet
// conditions rather than silently skipped.
func (s *BatchService) BulkGraduate(ctx context.Context, req BulkGraduateRequest) (*models.BatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk graduation payload")
	}
	candidates, err := s.repo.ListByGroup(ctx, req.GroupID,
		models.EnrollmentStatusActive, models.EnrollmentStatusInProgress)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group enrollments")
	}

	item := GraduateRequest{Date: req.Date, Actor: req.Actor}
	result := &models.BatchResult{Attempted: len(candidates)}
	for _, candidate := range candidates {
		if _, err := s.enrollments.Graduate(ctx, candidate.ID, item); err != nil {
			result.Failed++
			result.Items = append(result.Items, failedItem(candidate.ID, err))
			continue
		}
		result.Succeeded++
		result.Items = append(result.Items, models.BatchItemResult{EnrollmentID: candidate.ID, Success: true})
	}
	s.logger.Info("bulk graduation finished",
		zap.Int64("group_id", req.GroupID),
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}

// FinancialReport aggregates the financial state of every enrollment inside
// the report scope. The scan is read-only.
func (s *BatchService) FinancialReport(ctx context.Context, filter models.FinancialReportFilter) (*models.FinancialReport, error) {
	key := financialReportKey(filter)
	if s.cfg.CacheEnabled {
		var cached models.FinancialReport
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	enrollments, err := s.repo.ListForFinancialReport(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan enrollments")
	}

	now := time.Now().UTC()
	report := &models.FinancialReport{
		ParishID:        filter.ParishID,
		DateFrom:        filter.DateFrom,
		DateTo:          filter.DateTo,
		ByPaymentStatus: make(map[models.PaymentStatus]int),
		GeneratedAt:     now,
	}
	for i := range enrollments {
		e := &enrollments[i]
		report.TotalEnrollments++
		report.ExpectedTotal += e.AmountTotal
		report.CollectedTotal += e.AmountPaid
		report.PendingTotal += e.AmountPending
		report.DiscountTotal += e.DiscountAmount
		report.ByPaymentStatus[e.PaymentStatus]++
		if e.PaymentIsOverdue(now) {
			report.OverdueCount++
		}
	}
	if report.ExpectedTotal > 0 {
		report.CollectionRate = report.CollectedTotal / report.ExpectedTotal * 100
	}

	if s.cfg.CacheEnabled {
		_ = s.cache.Set(ctx, key, report, s.cfg.CacheTTL)
	}
	return report, nil
}

// AcademicReport aggregates attendance and grade distributions for every
// enrollment inside the report scope. The scan is read-only.
func (s *BatchService) AcademicReport(ctx context.Context, filter models.AcademicReportFilter) (*models.AcademicReport, error) {
	key := academicReportKey(filter)
	if s.cfg.CacheEnabled {
		var cached models.AcademicReport
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	enrollments, err := s.repo.ListForAcademicReport(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan enrollments")
	}

	report := &models.AcademicReport{
		GroupID:         filter.GroupID,
		ParishID:        filter.ParishID,
		AttendanceBands: make(map[string]int),
		GradeBands:      make(map[string]int),
		GeneratedAt:     time.Now().UTC(),
	}
	var attendanceSum, gradeSum float64
	var attendanceCount, gradeCount int
	for i := range enrollments {
		e := &enrollments[i]
		report.TotalEnrollments++

		hasAttendance := e.AttendancePercentage > 0
		report.AttendanceBands[models.AttendanceBand(e.AttendancePercentage, hasAttendance)]++
		if hasAttendance {
			attendanceSum += e.AttendancePercentage
			attendanceCount++
		}

		hasGrades := e.GradeAverage > 0
		report.GradeBands[models.GradeBand(e.GradeAverage, hasGrades)]++
		if hasGrades {
			gradeSum += e.GradeAverage
			gradeCount++
		}

		if e.MeetsAttendanceReq {
			report.MeetAttendanceReq++
		}
		if e.MeetsGradeReq {
			report.MeetGradeReq++
		}
		if e.MayGraduate() {
			report.EligibleCount++
		}
	}
	if attendanceCount > 0 {
		report.AvgAttendance = attendanceSum / float64(attendanceCount)
	}
	if gradeCount > 0 {
		report.AvgGrade = gradeSum / float64(gradeCount)
	}

	if s.cfg.CacheEnabled {
		_ = s.cache.Set(ctx, key, report, s.cfg.CacheTTL)
	}
	return report, nil
}

func failedItem(id int64, err error) models.BatchItemResult {
	appErr := appErrors.FromError(err)
	return models.BatchItemResult{
		EnrollmentID: id,
		Success:      false,
		ErrorCode:    appErr.Code,
		ErrorMessage: appErr.Message,
		ErrorDetails: appErr.Details,
	}
}

func financialReportKey(filter models.FinancialReportFilter) string {
	parish := int64(0)
	if filter.ParishID != nil {
		parish = *filter.ParishID
	}
	from, to := "", ""
	if filter.DateFrom != nil {
		from = filter.DateFrom.Format("2006-01-02")
	}
	if filter.DateTo != nil {
		to = filter.DateTo.Format("2006-01-02")
	}
	return fmt.Sprintf("report:financial:%d:%s:%s", parish, from, to)
}

func academicReportKey(filter models.AcademicReportFilter) string {
	group, parish := int64(0), int64(0)
	if filter.GroupID != nil {
		group = *filter.GroupID
	}
	if filter.ParishID != nil {
		parish = *filter.ParishID
	}
	return fmt.Sprintf("report:academic:%d:%d", group, parish)
}
