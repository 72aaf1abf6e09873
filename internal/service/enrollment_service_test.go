package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/catequesis-api/internal/models"
	"github.com/noah-isme/catequesis-api/internal/repository"
	"github.com/noah-isme/catequesis-api/pkg/config"
	appErrors "github.com/noah-isme/catequesis-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[int64]models.Enrollment
	exists      bool
	priorCount  int
	created     *models.Enrollment
	saved       *models.Enrollment
	saveErr     error
	changes     []models.ChangeRecord
	overdue     []models.Enrollment
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	return nil, 0, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) FindByCode(ctx context.Context, code string) (*models.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.Code == code {
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) ExistsOpenForCatechumen(ctx context.Context, catechumenID, groupID int64) (bool, error) {
	return m.exists, nil
}

func (m *mockEnrollmentRepo) CountPriorForLevel(ctx context.Context, catechumenID, levelID int64) (int, error) {
	return m.priorCount, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment, initial models.ChangeRecord) error {
	if m.enrollments == nil {
		m.enrollments = make(map[int64]models.Enrollment)
	}
	enrollment.ID = int64(len(m.enrollments) + 1)
	enrollment.CodeSeq = 1
	enrollment.Code = models.FormatEnrollmentCode(enrollment.EnrolledAt, enrollment.CodeSeq)
	m.enrollments[enrollment.ID] = *enrollment
	m.created = enrollment
	m.changes = append(m.changes, initial)
	return nil
}

func (m *mockEnrollmentRepo) Save(ctx context.Context, enrollment *models.Enrollment, changes ...models.ChangeRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	enrollment.Version++
	m.enrollments[enrollment.ID] = *enrollment
	m.saved = enrollment
	m.changes = append(m.changes, changes...)
	return nil
}

func (m *mockEnrollmentRepo) History(ctx context.Context, enrollmentID int64) ([]models.ChangeRecord, error) {
	return m.changes, nil
}

func (m *mockEnrollmentRepo) ListOverdueCandidates(ctx context.Context, now time.Time) ([]models.Enrollment, error) {
	return m.overdue, nil
}

type mockGroupRepo struct {
	groups   map[int64]models.Group
	full     map[int64]bool
	claimed  []int64
	released []int64
}

func (m *mockGroupRepo) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	if g, ok := m.groups[id]; ok {
		return &g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGroupRepo) ClaimSeat(ctx context.Context, groupID int64) error {
	if g, ok := m.groups[groupID]; m.full[groupID] || (ok && g.OccupiedSeats >= g.Capacity) {
		return repository.ErrNoSeatAvailable
	}
	m.claimed = append(m.claimed, groupID)
	return nil
}

func (m *mockGroupRepo) ReleaseSeat(ctx context.Context, groupID int64) error {
	m.released = append(m.released, groupID)
	return nil
}

type mockCatechumenReader struct {
	catechumens map[int64]models.Catechumen
}

func (m *mockCatechumenReader) FindByID(ctx context.Context, id int64) (*models.Catechumen, error) {
	if c, ok := m.catechumens[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type mockAcademicReader struct {
	attendance []models.AttendanceRecord
	grades     []models.GradeRecord
}

func (m *mockAcademicReader) ListAttendance(ctx context.Context, enrollmentID int64) ([]models.AttendanceRecord, error) {
	return m.attendance, nil
}

func (m *mockAcademicReader) ListGrades(ctx context.Context, enrollmentID int64) ([]models.GradeRecord, error) {
	return m.grades, nil
}

func newTestService(repo *mockEnrollmentRepo, groups *mockGroupRepo, academics *mockAcademicReader) *EnrollmentService {
	catechumens := &mockCatechumenReader{catechumens: map[int64]models.Catechumen{
		10: {ID: 10, FullName: "Lucia Fernandez", ParishID: 1, Active: true},
		11: {ID: 11, FullName: "Marco Diaz", ParishID: 1, Active: false},
	}}
	if academics == nil {
		academics = &mockAcademicReader{}
	}
	cfg := config.EnrollmentConfig{AttendanceThreshold: 80, GradeThreshold: 7, PaymentDueDays: 30}
	return NewEnrollmentService(repo, groups, catechumens, academics, nil, nil, nil, cfg, validator.New(), zap.NewNop())
}

func testGroups() *mockGroupRepo {
	return &mockGroupRepo{groups: map[int64]models.Group{
		1: {ID: 1, Name: "Comunion A", ParishID: 1, LevelID: 5, Capacity: 20, OccupiedSeats: 3, Active: true},
		2: {ID: 2, Name: "Comunion B", ParishID: 1, LevelID: 5, Capacity: 20, OccupiedSeats: 20, Active: true},
		3: {ID: 3, Name: "Confirmacion", ParishID: 1, LevelID: 6, Capacity: 15, OccupiedSeats: 0, Active: true},
	}}
}

func activeEnrollment(id int64) models.Enrollment {
	return models.Enrollment{
		ID:              id,
		Code:            "INS-2026-02-0001",
		CatechumenID:    10,
		GroupID:         1,
		ParishID:        1,
		EnrolledAt:      time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		Status:          models.EnrollmentStatusActive,
		RequiresPayment: true,
		BaseFee:         100,
		MaterialsFee:    20,
		AmountTotal:     120,
		AmountPending:   120,
		PaymentStatus:   models.PaymentStatusPending,
		Version:         1,
	}
}

func TestEnrollmentServiceCreate(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	groups := testGroups()
	svc := newTestService(repo, groups, nil)

	enrollment, err := svc.Create(context.Background(), CreateEnrollmentRequest{
		CatechumenID:    10,
		GroupID:         1,
		ParishID:        1,
		BaseFee:         100,
		MaterialsFee:    20,
		RequiresPayment: true,
		Actor:           "secretary",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)

	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, 120.0, enrollment.AmountTotal)
	assert.Equal(t, models.PaymentStatusPending, enrollment.PaymentStatus)
	assert.NotNil(t, enrollment.PaymentDueDate)
	assert.Regexp(t, `^INS-\d{4}-\d{2}-\d{4}$`, enrollment.Code)
	require.NotNil(t, enrollment.LevelID)
	assert.Equal(t, int64(5), *enrollment.LevelID)
	assert.Equal(t, []int64{1}, groups.claimed)
}

func TestEnrollmentServiceCreateInactiveCatechumen(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	groups := testGroups()
	svc := newTestService(repo, groups, nil)

	_, err := svc.Create(context.Background(), CreateEnrollmentRequest{
		CatechumenID: 11, GroupID: 1, ParishID: 1, Actor: "secretary",
	})
	require.Error(t, err)
	assert.Equal(t, "PRECONDITION_FAILED", appErrors.FromError(err).Code)
	assert.Empty(t, groups.claimed)
}

func TestEnrollmentServiceCreateDuplicateOpen(t *testing.T) {
	repo := &mockEnrollmentRepo{exists: true}
	groups := testGroups()
	svc := newTestService(repo, groups, nil)

	_, err := svc.Create(context.Background(), CreateEnrollmentRequest{
		CatechumenID: 10, GroupID: 1, ParishID: 1, Actor: "secretary",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", appErrors.FromError(err).Code)
	assert.Empty(t, groups.claimed)
	assert.Nil(t, repo.created)
}

func TestEnrollmentServiceCreateGroupFull(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	groups := testGroups()
	svc := newTestService(repo, groups, nil)

	_, err := svc.Create(context.Background(), CreateEnrollmentRequest{
		CatechumenID: 10, GroupID: 2, ParishID: 1, Actor: "secretary",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CAPACITY_EXCEEDED", appErr.Code)
	assert.Nil(t, repo.created)
}

func TestEnrollmentServiceApplyDiscount(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	svc := newTestService(repo, testGroups(), nil)

	enrollment, err := svc.ApplyDiscount(context.Background(), 1, ApplyDiscountRequest{
		Kind: "siblings", Percentage: 25, Reason: "second child enrolled", Authorizer: "coordinator",
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, enrollment.DiscountAmount)
	assert.Equal(t, 90.0, enrollment.AmountTotal)
	assert.Equal(t, 90.0, enrollment.AmountPending)
	require.NotNil(t, repo.saved)
	require.Len(t, repo.changes, 1)
	assert.Contains(t, repo.changes[0].Description, "discount")
}

func TestEnrollmentServiceApplyDiscountTerminal(t *testing.T) {
	cancelled := activeEnrollment(1)
	cancelled.Status = models.EnrollmentStatusCancelled
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: cancelled}}
	svc := newTestService(repo, testGroups(), nil)

	_, err := svc.ApplyDiscount(context.Background(), 1, ApplyDiscountRequest{
		Kind: "siblings", Percentage: 25, Reason: "late request", Authorizer: "coordinator",
	})
	require.Error(t, err)
	assert.Equal(t, "PRECONDITION_FAILED", appErrors.FromError(err).Code)
	assert.Nil(t, repo.saved)
}

func TestEnrollmentServiceRegisterPayment(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	svc := newTestService(repo, testGroups(), nil)

	enrollment, err := svc.RegisterPayment(context.Background(), 1, RegisterPaymentRequest{
		Amount: 50, Method: "cash", Actor: "secretary",
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, enrollment.AmountPaid)
	assert.Equal(t, 70.0, enrollment.AmountPending)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, enrollment.PaymentStatus)

	enrollment, err = svc.RegisterPayment(context.Background(), 1, RegisterPaymentRequest{
		Amount: 70, Method: "transfer", Actor: "secretary",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, enrollment.AmountPending)
	assert.Equal(t, models.PaymentStatusPaid, enrollment.PaymentStatus)
}

func TestEnrollmentServiceRegisterPaymentOverpayment(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	svc := newTestService(repo, testGroups(), nil)

	_, err := svc.RegisterPayment(context.Background(), 1, RegisterPaymentRequest{
		Amount: 500, Method: "cash", Actor: "secretary",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, 120.0, appErr.Details["amount_pending"])
	assert.Nil(t, repo.saved)
	assert.Equal(t, 0.0, repo.enrollments[1].AmountPaid)
}

func TestEnrollmentServiceChangeStateInvalidTransition(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	svc := newTestService(repo, testGroups(), nil)

	_, err := svc.ChangeState(context.Background(), 1, ChangeStateRequest{
		NewState: "GRADUATED", Reason: "finished", Actor: "coordinator",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "INVALID_TRANSITION", appErr.Code)
	assert.Nil(t, repo.saved)
	assert.Equal(t, models.EnrollmentStatusActive, repo.enrollments[1].Status)
}

func TestEnrollmentServiceChangeStateRejectsTransferTarget(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	svc := newTestService(repo, testGroups(), nil)

	_, err := svc.ChangeState(context.Background(), 1, ChangeStateRequest{
		NewState: "TRANSFERRED", Reason: "moving", Actor: "coordinator",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestEnrollmentServiceChangeStateCancelReleasesSeatOnce(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	groups := testGroups()
	svc := newTestService(repo, groups, nil)

	enrollment, err := svc.ChangeState(context.Background(), 1, ChangeStateRequest{
		NewState: "CANCELLED", Reason: "family moved away", Actor: "coordinator",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCancelled, enrollment.Status)
	assert.True(t, enrollment.SeatReleased)
	assert.NotNil(t, enrollment.CancelledAt)
	assert.NotNil(t, enrollment.ActualEnd)
	assert.Equal(t, []int64{1}, groups.released)
}

func TestEnrollmentServiceChangeStateCancelSaveConflictKeepsSeat(t *testing.T) {
	repo := &mockEnrollmentRepo{
		enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)},
		saveErr:     repository.ErrVersionConflict,
	}
	groups := testGroups()
	svc := newTestService(repo, groups, nil)

	_, err := svc.ChangeState(context.Background(), 1, ChangeStateRequest{
		NewState: "CANCELLED", Reason: "family moved away", Actor: "coordinator",
	})
	require.Error(t, err)
	assert.Equal(t, "CONCURRENCY_CONFLICT", appErrors.FromError(err).Code)
	assert.Empty(t, groups.released)
	assert.Equal(t, models.EnrollmentStatusActive, repo.enrollments[1].Status)
	assert.False(t, repo.enrollments[1].SeatReleased)

	repo.saveErr = nil
	enrollment, err := svc.ChangeState(context.Background(), 1, ChangeStateRequest{
		NewState: "CANCELLED", Reason: "family moved away", Actor: "coordinator",
	})
	require.NoError(t, err)
	assert.True(t, enrollment.SeatReleased)
	assert.Equal(t, []int64{1}, groups.released)
}

func TestEnrollmentServiceSuspendAndReactivate(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	svc := newTestService(repo, testGroups(), nil)

	enrollment, err := svc.ChangeState(context.Background(), 1, ChangeStateRequest{
		NewState: "SUSPENDED", Reason: "extended illness", Actor: "coordinator",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusSuspended, enrollment.Status)
	assert.NotNil(t, enrollment.SuspendedAt)

	enrollment, err = svc.ChangeState(context.Background(), 1, ChangeStateRequest{
		NewState: "ACTIVE", Reason: "recovered", Actor: "coordinator",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Nil(t, enrollment.SuspendedAt)
}

func TestEnrollmentServiceTransferGroup(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	groups := testGroups()
	svc := newTestService(repo, groups, nil)

	enrollment, err := svc.TransferGroup(context.Background(), 1, TransferGroupRequest{
		NewGroupID: 3, Reason: "schedule conflict", Actor: "coordinator",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), enrollment.GroupID)
	require.NotNil(t, enrollment.LevelID)
	assert.Equal(t, int64(6), *enrollment.LevelID)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, []int64{3}, groups.claimed)
	assert.Equal(t, []int64{1}, groups.released)
	require.Len(t, repo.changes, 2)
	assert.Contains(t, repo.changes[0].Description, "transferred out")
	assert.Contains(t, repo.changes[1].Description, "resumed active")
}

func TestEnrollmentServiceTransferGroupFullDestination(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	groups := testGroups()
	groups.full = map[int64]bool{2: true}
	svc := newTestService(repo, groups, nil)

	_, err := svc.TransferGroup(context.Background(), 1, TransferGroupRequest{
		NewGroupID: 2, Reason: "schedule conflict", Actor: "coordinator",
	})
	require.Error(t, err)
	assert.Equal(t, "CAPACITY_EXCEEDED", appErrors.FromError(err).Code)
	assert.Equal(t, int64(1), repo.enrollments[1].GroupID)
	assert.Empty(t, groups.released)
}

func TestEnrollmentServiceTransferGroupSaveConflict(t *testing.T) {
	repo := &mockEnrollmentRepo{
		enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)},
		saveErr:     repository.ErrVersionConflict,
	}
	groups := testGroups()
	svc := newTestService(repo, groups, nil)

	_, err := svc.TransferGroup(context.Background(), 1, TransferGroupRequest{
		NewGroupID: 3, Reason: "schedule conflict", Actor: "coordinator",
	})
	require.Error(t, err)
	assert.Equal(t, "CONCURRENCY_CONFLICT", appErrors.FromError(err).Code)
	assert.Equal(t, []int64{3}, groups.claimed)
	assert.Equal(t, []int64{3}, groups.released)
	assert.Equal(t, int64(1), repo.enrollments[1].GroupID)
}

func TestEnrollmentServiceGraduate(t *testing.T) {
	eligible := activeEnrollment(1)
	eligible.Status = models.EnrollmentStatusInProgress
	eligible.MayPresentSacrament = true
	eligible.AmountPaid = 120
	eligible.AmountPending = 0
	eligible.PaymentStatus = models.PaymentStatusPaid
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: eligible}}
	academics := &mockAcademicReader{
		attendance: attendanceRecords(9, 1),
		grades:     gradeRecords(8, 9),
	}
	svc := newTestService(repo, testGroups(), academics)

	enrollment, err := svc.Graduate(context.Background(), 1, GraduateRequest{Actor: "parish priest"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusGraduated, enrollment.Status)
	assert.NotNil(t, enrollment.GraduatedAt)
	assert.NotNil(t, enrollment.ActualEnd)
	assert.True(t, enrollment.MayPresentSacrament)
	assert.Equal(t, 90.0, enrollment.AttendancePercentage)
	assert.Equal(t, 8.5, enrollment.GradeAverage)
}

func TestEnrollmentServiceGraduateDateBeforeFormationStart(t *testing.T) {
	eligible := activeEnrollment(1)
	eligible.Status = models.EnrollmentStatusInProgress
	eligible.MayPresentSacrament = true
	eligible.AmountPaid = 120
	eligible.AmountPending = 0
	eligible.PaymentStatus = models.PaymentStatusPaid
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	eligible.FormationStart = &start
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: eligible}}
	academics := &mockAcademicReader{
		attendance: attendanceRecords(9, 1),
		grades:     gradeRecords(8, 9),
	}
	svc := newTestService(repo, testGroups(), academics)

	early := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Graduate(context.Background(), 1, GraduateRequest{Date: &early, Actor: "parish priest"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
	assert.Nil(t, repo.saved)
	assert.Equal(t, models.EnrollmentStatusInProgress, repo.enrollments[1].Status)
}

func TestEnrollmentServiceGraduateBlocked(t *testing.T) {
	pending := activeEnrollment(1)
	pending.Status = models.EnrollmentStatusInProgress
	pending.MayPresentSacrament = true
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: pending}}
	academics := &mockAcademicReader{
		attendance: attendanceRecords(5, 5),
		grades:     gradeRecords(6),
	}
	svc := newTestService(repo, testGroups(), academics)

	_, err := svc.Graduate(context.Background(), 1, GraduateRequest{Actor: "parish priest"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "GRADUATION_BLOCKED", appErr.Code)
	unmet, ok := appErr.Details["unmet_conditions"].([]string)
	require.True(t, ok)
	assert.Len(t, unmet, 3)
	assert.Nil(t, repo.saved)
	assert.Equal(t, models.EnrollmentStatusInProgress, repo.enrollments[1].Status)
}

func TestEnrollmentServiceRefreshAcademicRequirements(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[int64]models.Enrollment{1: activeEnrollment(1)}}
	academics := &mockAcademicReader{
		attendance: attendanceRecords(8, 2),
		grades:     gradeRecords(7.5),
	}
	svc := newTestService(repo, testGroups(), academics)

	enrollment, err := svc.RefreshAcademicRequirements(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 80.0, enrollment.AttendancePercentage)
	assert.True(t, enrollment.MeetsAttendanceReq)
	assert.Equal(t, 7.5, enrollment.GradeAverage)
	assert.True(t, enrollment.MeetsGradeReq)
	require.NotNil(t, repo.saved)
}

func TestEnrollmentServiceListOverdue(t *testing.T) {
	now := time.Now().UTC()
	past := now.AddDate(0, 0, -5)
	future := now.AddDate(0, 0, 5)

	due := activeEnrollment(1)
	due.PaymentDueDate = &past
	notYet := activeEnrollment(2)
	notYet.PaymentDueDate = &future
	settled := activeEnrollment(3)
	settled.PaymentDueDate = &past
	settled.PaymentStatus = models.PaymentStatusPaid

	repo := &mockEnrollmentRepo{overdue: []models.Enrollment{due, notYet, settled}}
	svc := newTestService(repo, testGroups(), nil)

	overdue, err := svc.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, int64(1), overdue[0].ID)
}

func TestEnrollmentServiceGetNotFound(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newTestService(repo, testGroups(), nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}
