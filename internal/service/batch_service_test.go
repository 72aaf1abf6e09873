package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/catequesis-api/internal/models"
	"github.com/noah-isme/catequesis-api/pkg/config"
	appErrors "github.com/noah-isme/catequesis-api/pkg/errors"
)

type mockEnrollmentOps struct {
	createErr   map[int64]error
	discountErr map[int64]error
	graduateErr map[int64]error
	enrolled    []int64
	discounted  []int64
	graduated   []int64
}

func (m *mockEnrollmentOps) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err, ok := m.createErr[req.CatechumenID]; ok {
		return nil, err
	}
	m.enrolled = append(m.enrolled, req.CatechumenID)
	return &models.Enrollment{
		ID:           int64(len(m.enrolled)),
		CatechumenID: req.CatechumenID,
		GroupID:      req.GroupID,
		Status:       models.EnrollmentStatusActive,
	}, nil
}

func (m *mockEnrollmentOps) ApplyDiscount(ctx context.Context, id int64, req ApplyDiscountRequest) (*models.Enrollment, error) {
	if err, ok := m.discountErr[id]; ok {
		return nil, err
	}
	m.discounted = append(m.discounted, id)
	return &models.Enrollment{ID: id}, nil
}

func (m *mockEnrollmentOps) Graduate(ctx context.Context, id int64, req GraduateRequest) (*models.Enrollment, error) {
	if err, ok := m.graduateErr[id]; ok {
		return nil, err
	}
	m.graduated = append(m.graduated, id)
	return &models.Enrollment{ID: id, Status: models.EnrollmentStatusGraduated}, nil
}

type mockReportRepo struct {
	byGroup   []models.Enrollment
	financial []models.Enrollment
	academic  []models.Enrollment
}

func (m *mockReportRepo) ListByGroup(ctx context.Context, groupID int64, statuses ...models.EnrollmentStatus) ([]models.Enrollment, error) {
	return m.byGroup, nil
}

func (m *mockReportRepo) ListForFinancialReport(ctx context.Context, filter models.FinancialReportFilter) ([]models.Enrollment, error) {
	return m.financial, nil
}

func (m *mockReportRepo) ListForAcademicReport(ctx context.Context, filter models.AcademicReportFilter) ([]models.Enrollment, error) {
	return m.academic, nil
}

func newBatchService(ops *mockEnrollmentOps, repo *mockReportRepo) *BatchService {
	return NewBatchService(ops, repo, nil, config.ReportsConfig{}, nil, nil)
}

func TestBulkEnrollPartialFailure(t *testing.T) {
	ops := &mockEnrollmentOps{createErr: map[int64]error{
		11: appErrors.CapacityExceeded(1),
	}}
	svc := newBatchService(ops, &mockReportRepo{})

	result, err := svc.BulkEnroll(context.Background(), BulkEnrollRequest{
		CatechumenIDs: []int64{10, 11, 12},
		GroupID:       1,
		ParishID:      1,
		BaseFee:       100,
		MaterialsFee:  20,
		Actor:         "secretary",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, result.Attempted, result.Succeeded+result.Failed)
	assert.Equal(t, []int64{10, 12}, ops.enrolled)

	require.Len(t, result.Items, 3)
	assert.True(t, result.Items[0].Success)
	assert.Equal(t, int64(10), result.Items[0].CatechumenID)
	assert.NotZero(t, result.Items[0].EnrollmentID)
	assert.False(t, result.Items[1].Success)
	assert.Equal(t, int64(11), result.Items[1].CatechumenID)
	assert.Zero(t, result.Items[1].EnrollmentID)
	assert.Equal(t, "CAPACITY_EXCEEDED", result.Items[1].ErrorCode)
	assert.True(t, result.Items[2].Success)
}

func TestBulkEnrollValidatesPayload(t *testing.T) {
	svc := newBatchService(&mockEnrollmentOps{}, &mockReportRepo{})

	_, err := svc.BulkEnroll(context.Background(), BulkEnrollRequest{
		GroupID: 1, ParishID: 1, Actor: "secretary",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestBulkApplyDiscountPartialFailure(t *testing.T) {
	ops := &mockEnrollmentOps{discountErr: map[int64]error{
		2: appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment is CANCELLED and no longer accepts financial changes"),
	}}
	svc := newBatchService(ops, &mockReportRepo{})

	result, err := svc.BulkApplyDiscount(context.Background(), BulkDiscountRequest{
		EnrollmentIDs: []int64{1, 2, 3},
		Kind:          "SIBLINGS",
		Percentage:    25,
		Reason:        "parish agreement",
		Authorizer:    "coordinator",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, result.Attempted, result.Succeeded+result.Failed)
	assert.Equal(t, []int64{1, 3}, ops.discounted)

	require.Len(t, result.Items, 3)
	assert.True(t, result.Items[0].Success)
	assert.False(t, result.Items[1].Success)
	assert.Equal(t, "PRECONDITION_FAILED", result.Items[1].ErrorCode)
	assert.True(t, result.Items[2].Success)
}

func TestBulkApplyDiscountValidatesPayload(t *testing.T) {
	svc := newBatchService(&mockEnrollmentOps{}, &mockReportRepo{})

	_, err := svc.BulkApplyDiscount(context.Background(), BulkDiscountRequest{
		Kind: "SIBLINGS", Percentage: 25, Reason: "r", Authorizer: "a",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestBulkGraduateReportsBlockedItems(t *testing.T) {
	ops := &mockEnrollmentOps{graduateErr: map[int64]error{
		5: appErrors.GraduationBlocked([]string{"attendance requirement not met (70.0%)"}),
	}}
	repo := &mockReportRepo{byGroup: []models.Enrollment{
		{ID: 4, Status: models.EnrollmentStatusInProgress},
		{ID: 5, Status: models.EnrollmentStatusInProgress},
	}}
	svc := newBatchService(ops, repo)

	result, err := svc.BulkGraduate(context.Background(), BulkGraduateRequest{
		GroupID: 1, Actor: "parish priest",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []int64{4}, ops.graduated)

	require.Len(t, result.Items, 2)
	assert.Equal(t, "GRADUATION_BLOCKED", result.Items[1].ErrorCode)
	assert.NotNil(t, result.Items[1].ErrorDetails["unmet_conditions"])
}

func TestFinancialReport(t *testing.T) {
	past := time.Now().UTC().AddDate(0, 0, -10)
	repo := &mockReportRepo{financial: []models.Enrollment{
		{AmountTotal: 120, AmountPaid: 120, AmountPending: 0, PaymentStatus: models.PaymentStatusPaid},
		{AmountTotal: 90, AmountPaid: 40, AmountPending: 50, DiscountAmount: 30, PaymentStatus: models.PaymentStatusPartiallyPaid, PaymentDueDate: &past},
		{AmountTotal: 100, AmountPaid: 0, AmountPending: 100, PaymentStatus: models.PaymentStatusPending, PaymentDueDate: &past},
		{AmountTotal: 80, PaymentStatus: models.PaymentStatusExempt},
	}}
	svc := newBatchService(&mockEnrollmentOps{}, repo)

	report, err := svc.FinancialReport(context.Background(), models.FinancialReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalEnrollments)
	assert.Equal(t, 390.0, report.ExpectedTotal)
	assert.Equal(t, 160.0, report.CollectedTotal)
	assert.Equal(t, 150.0, report.PendingTotal)
	assert.Equal(t, 30.0, report.DiscountTotal)
	assert.Equal(t, 2, report.OverdueCount)
	assert.Equal(t, 1, report.ByPaymentStatus[models.PaymentStatusPaid])
	assert.Equal(t, 1, report.ByPaymentStatus[models.PaymentStatusExempt])
	assert.InDelta(t, 41.03, report.CollectionRate, 0.01)
}

func TestFinancialReportEmptyScope(t *testing.T) {
	svc := newBatchService(&mockEnrollmentOps{}, &mockReportRepo{})

	report, err := svc.FinancialReport(context.Background(), models.FinancialReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalEnrollments)
	assert.Equal(t, 0.0, report.CollectionRate)
}

func TestAcademicReport(t *testing.T) {
	repo := &mockReportRepo{academic: []models.Enrollment{
		{
			Status:               models.EnrollmentStatusInProgress,
			AttendancePercentage: 95,
			GradeAverage:         9.2,
			MeetsAttendanceReq:   true,
			MeetsGradeReq:        true,
			MayPresentSacrament:  true,
			PaymentStatus:        models.PaymentStatusPaid,
		},
		{
			Status:               models.EnrollmentStatusInProgress,
			AttendancePercentage: 75,
			GradeAverage:         6.5,
			PaymentStatus:        models.PaymentStatusPending,
		},
		{
			Status:        models.EnrollmentStatusActive,
			PaymentStatus: models.PaymentStatusPending,
		},
	}}
	svc := newBatchService(&mockEnrollmentOps{}, repo)

	report, err := svc.AcademicReport(context.Background(), models.AcademicReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalEnrollments)
	assert.Equal(t, 1, report.MeetAttendanceReq)
	assert.Equal(t, 1, report.MeetGradeReq)
	assert.Equal(t, 1, report.EligibleCount)
	assert.InDelta(t, 85.0, report.AvgAttendance, 0.001)
	assert.InDelta(t, 7.85, report.AvgGrade, 0.001)
	assert.Equal(t, 1, report.AttendanceBands[models.BandAttendance90to100])
	assert.Equal(t, 1, report.AttendanceBands[models.BandAttendance70to79])
	assert.Equal(t, 1, report.AttendanceBands[models.BandNoData])
	assert.Equal(t, 1, report.GradeBands[models.BandGrade9to10])
	assert.Equal(t, 1, report.GradeBands[models.BandGradeBelow7])
	assert.Equal(t, 1, report.GradeBands[models.BandNoData])
}
