package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/catequesis-api/internal/models"
	"github.com/noah-isme/catequesis-api/internal/repository"
	"github.com/noah-isme/catequesis-api/pkg/config"
	appErrors "github.com/noah-isme/catequesis-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error)
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	FindByCode(ctx context.Context, code string) (*models.Enrollment, error)
	ExistsOpenForCatechumen(ctx context.Context, catechumenID, groupID int64) (bool, error)
	CountPriorForLevel(ctx context.Context, catechumenID, levelID int64) (int, error)
	Create(ctx context.Context, enrollment *models.Enrollment, initial models.ChangeRecord) error
	Save(ctx context.Context, enrollment *models.Enrollment, changes ...models.ChangeRecord) error
	History(ctx context.Context, enrollmentID int64) ([]models.ChangeRecord, error)
	ListOverdueCandidates(ctx context.Context, now time.Time) ([]models.Enrollment, error)
}

type groupRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Group, error)
	ClaimSeat(ctx context.Context, groupID int64) error
	ReleaseSeat(ctx context.Context, groupID int64) error
}

type catechumenReader interface {
	FindByID(ctx context.Context, id int64) (*models.Catechumen, error)
}

type academicReader interface {
	ListAttendance(ctx context.Context, enrollmentID int64) ([]models.AttendanceRecord, error)
	ListGrades(ctx context.Context, enrollmentID int64) ([]models.GradeRecord, error)
}

// CreateEnrollmentRequest describes enrollment creation input.
type CreateEnrollmentRequest struct {
	CatechumenID    int64      `json:"catechumen_id" validate:"required,gt=0"`
	GroupID         int64      `json:"group_id" validate:"required,gt=0"`
	ParishID        int64      `json:"parish_id" validate:"required,gt=0"`
	BaseFee         float64    `json:"base_fee" validate:"gte=0"`
	MaterialsFee    float64    `json:"materials_fee" validate:"gte=0"`
	RequiresPayment bool       `json:"requires_payment"`
	PaymentDueDate  *time.Time `json:"payment_due_date,omitempty"`
	FormationStart  *time.Time `json:"formation_start,omitempty"`
	Actor           string     `json:"actor" validate:"required"`
}

// ApplyDiscountRequest describes a discount application.
type ApplyDiscountRequest struct {
	Kind       string  `json:"kind" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
	Reason     string  `json:"reason" validate:"required"`
	Authorizer string  `json:"authorizer" validate:"required"`
}

// RegisterPaymentRequest describes a payment registration.
type RegisterPaymentRequest struct {
	Amount    float64    `json:"amount" validate:"required,gt=0"`
	Method    string     `json:"method" validate:"required"`
	Reference *string    `json:"reference,omitempty"`
	Receipt   *string    `json:"receipt,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Actor     string     `json:"actor" validate:"required"`
}

// ChangeStateRequest describes a status transition.
type ChangeStateRequest struct {
	NewState string `json:"new_state" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
	Actor    string `json:"actor" validate:"required"`
}

// TransferGroupRequest describes a group transfer.
type TransferGroupRequest struct {
	NewGroupID int64  `json:"new_group_id" validate:"required,gt=0"`
	Reason     string `json:"reason" validate:"required"`
	Actor      string `json:"actor" validate:"required"`
}

// GraduateRequest describes a graduation attempt.
type GraduateRequest struct {
	Date  *time.Time `json:"date,omitempty"`
	Actor string     `json:"actor" validate:"required"`
}

// EnrollmentService orchestrates the enrollment lifecycle: creation,
// settlement, state transitions, transfers and graduation.
type EnrollmentService struct {
	repo        enrollmentRepository
	groups      groupRepository
	catechumens catechumenReader
	academics   academicReader
	evaluator   *EligibilityEvaluator
	cache       *CacheService
	metrics     *MetricsService
	cfg         config.EnrollmentConfig
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(
	repo enrollmentRepository,
	groups groupRepository,
	catechumens catechumenReader,
	academics academicReader,
	evaluator *EligibilityEvaluator,
	cache *CacheService,
	metrics *MetricsService,
	cfg config.EnrollmentConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if evaluator == nil {
		evaluator = NewEligibilityEvaluator(cfg.AttendanceThreshold, cfg.GradeThreshold)
	}
	return &EnrollmentService{
		repo:        repo,
		groups:      groups,
		catechumens: catechumens,
		academics:   academics,
		evaluator:   evaluator,
		cache:       cache,
		metrics:     metrics,
		cfg:         cfg,
		validator:   validate,
		logger:      logger,
	}
}

// List returns enrollments with pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return enrollments, pagination, nil
}

// Get returns a single enrollment with its change history.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.Enrollment, error) {
	var cached models.Enrollment
	if hit, _ := s.cache.Get(ctx, EnrollmentKey(id), &cached); hit {
		return &cached, nil
	}
	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.History(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment history")
	}
	enrollment.History = history
	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, EnrollmentKey(id), enrollment, 0)
	}
	return enrollment, nil
}

// GetByCode returns a single enrollment by its durable code.
func (s *EnrollmentService) GetByCode(ctx context.Context, code string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Create registers a catechumen into a group, claims a seat and assigns the
// enrollment code. The seat claim happens first so a full group rejects the
// enrollment before anything is written; if the insert fails afterwards the
// claimed seat is released again.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (result *models.Enrollment, err error) {
	defer func() { s.metrics.ObserveEnrollmentOperation("create", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	catechumen, err := s.catechumens.FindByID(ctx, req.CatechumenID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "catechumen not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catechumen")
	}
	if !catechumen.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "catechumen is inactive")
	}

	group, err := s.groups.FindByID(ctx, req.GroupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	if !group.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "group is not active")
	}

	exists, err := s.repo.ExistsOpenForCatechumen(ctx, req.CatechumenID, req.GroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "catechumen already enrolled in this group")
	}

	repeats, err := s.repo.CountPriorForLevel(ctx, req.CatechumenID, group.LevelID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check prior enrollments")
	}

	if err = s.groups.ClaimSeat(ctx, req.GroupID); err != nil {
		if errors.Is(err, repository.ErrNoSeatAvailable) {
			return nil, appErrors.CapacityExceeded(req.GroupID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim group seat")
	}

	now := time.Now().UTC()
	levelID := group.LevelID
	enrollment := &models.Enrollment{
		CatechumenID:    req.CatechumenID,
		GroupID:         req.GroupID,
		ParishID:        req.ParishID,
		LevelID:         &levelID,
		EnrolledAt:      now,
		FormationStart:  req.FormationStart,
		Status:          models.EnrollmentStatusActive,
		RequiresPayment: req.RequiresPayment,
		BaseFee:         req.BaseFee,
		MaterialsFee:    req.MaterialsFee,
		PaymentDueDate:  req.PaymentDueDate,
	}
	if enrollment.RequiresPayment && enrollment.PaymentDueDate == nil {
		due := now.AddDate(0, 0, s.cfg.PaymentDueDays)
		enrollment.PaymentDueDate = &due
	}
	RecomputeSettlement(enrollment)

	if err = enrollment.Validate(); err != nil {
		s.releaseSeat(ctx, req.GroupID)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	description := fmt.Sprintf("enrollment created in group %s", group.Name)
	if repeats > 0 {
		description = fmt.Sprintf("%s (repeats level, %d prior enrollments)", description, repeats)
	}
	initial := models.ChangeRecord{Description: description, Actor: req.Actor}
	if err = s.repo.Create(ctx, enrollment, initial); err != nil {
		s.releaseSeat(ctx, req.GroupID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.invalidate(ctx, enrollment.ID)
	s.logger.Info("enrollment created",
		zap.Int64("enrollment_id", enrollment.ID),
		zap.String("code", enrollment.Code),
		zap.Int64("group_id", enrollment.GroupID))
	return enrollment, nil
}

// ApplyDiscount sets the discount on an enrollment and recomputes its
// settlement. Discounts replace each other: applying a second one overwrites
// the first.
func (s *EnrollmentService) ApplyDiscount(ctx context.Context, id int64, req ApplyDiscountRequest) (result *models.Enrollment, err error) {
	defer func() { s.metrics.ObserveEnrollmentOperation("apply_discount", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discount payload")
	}
	kind, err := models.ParseDiscountKind(req.Kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown discount kind")
	}

	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalStatus(enrollment.Status) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("enrollment is %s and no longer accepts financial changes", enrollment.Status))
	}

	enrollment.HasDiscount = req.Percentage > 0
	enrollment.DiscountKind = &kind
	enrollment.DiscountPercentage = req.Percentage
	enrollment.DiscountReason = &req.Reason
	enrollment.DiscountAuthorizer = &req.Authorizer
	RecomputeSettlement(enrollment)

	if err = enrollment.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	change := models.ChangeRecord{
		Description: fmt.Sprintf("applied %.1f%% %s discount: %s", req.Percentage, kind, req.Reason),
		Actor:       req.Authorizer,
	}
	if err = s.save(ctx, enrollment, change); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return enrollment, nil
}

// RegisterPayment records money received against an enrollment. This is the
// only operation that increases amount_paid. Overpayment is rejected before
// any write.
func (s *EnrollmentService) RegisterPayment(ctx context.Context, id int64, req RegisterPaymentRequest) (result *models.Enrollment, err error) {
	defer func() { s.metrics.ObserveEnrollmentOperation("register_payment", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	method, err := models.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown payment method")
	}

	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalStatus(enrollment.Status) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("enrollment is %s and no longer accepts financial changes", enrollment.Status))
	}
	if req.Amount > enrollment.AmountPending {
		e := appErrors.Clone(appErrors.ErrValidation, "payment exceeds the pending amount")
		e.Details = map[string]interface{}{
			"amount":         req.Amount,
			"amount_pending": enrollment.AmountPending,
		}
		return nil, e
	}

	paidAt := time.Now().UTC()
	if req.Date != nil {
		paidAt = *req.Date
	}
	enrollment.AmountPaid += req.Amount
	enrollment.LastPaymentDate = &paidAt
	enrollment.LastPaymentMethod = &method
	enrollment.LastPaymentRef = req.Reference
	if req.Receipt != nil {
		enrollment.ReceiptNumber = req.Receipt
	}
	RecomputeSettlement(enrollment)

	change := models.ChangeRecord{
		Description: fmt.Sprintf("registered payment of %.2f via %s", req.Amount, method),
		Actor:       req.Actor,
	}
	if err = s.save(ctx, enrollment, change); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.logger.Info("payment registered",
		zap.Int64("enrollment_id", id),
		zap.Float64("amount", req.Amount),
		zap.String("payment_status", string(enrollment.PaymentStatus)))
	return enrollment, nil
}

// ChangeState performs a status transition restricted to the allowed
// adjacency table, applying the per-state side effects.
func (s *EnrollmentService) ChangeState(ctx context.Context, id int64, req ChangeStateRequest) (result *models.Enrollment, err error) {
	defer func() { s.metrics.ObserveEnrollmentOperation("change_state", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid state change payload")
	}
	target, err := models.ParseEnrollmentStatus(req.NewState)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown enrollment status")
	}

	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(enrollment.Status, target) {
		return nil, appErrors.InvalidTransition(string(enrollment.Status), string(target))
	}
	if target == models.EnrollmentStatusTransferred {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group transfers must go through the transfer operation")
	}
	if target == models.EnrollmentStatusGraduated {
		if blockers := enrollment.GraduationBlockers(); len(blockers) > 0 {
			return nil, appErrors.GraduationBlocked(blockers)
		}
	}

	changes, releaseGroupID := s.applyTransition(enrollment, target, req.Reason, req.Actor)
	if err = s.save(ctx, enrollment, changes...); err != nil {
		return nil, err
	}
	if releaseGroupID != 0 {
		s.releaseSeat(ctx, releaseGroupID)
	}
	s.invalidate(ctx, id)
	s.logger.Info("enrollment state changed",
		zap.Int64("enrollment_id", id),
		zap.String("status", string(target)),
		zap.String("actor", req.Actor))
	return enrollment, nil
}

// TransferGroup moves an enrollment to another group as one atomic compound
// operation: the destination seat is claimed first, the record is rewritten
// with the destination group and level, and only after the save commits is
// the old seat released. A failed save returns the claimed seat, so a full
// destination or a lost race leaves nothing mutated.
func (s *EnrollmentService) TransferGroup(ctx context.Context, id int64, req TransferGroupRequest) (result *models.Enrollment, err error) {
	defer func() { s.metrics.ObserveEnrollmentOperation("transfer_group", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transfer payload")
	}

	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(enrollment.Status, models.EnrollmentStatusTransferred) {
		return nil, appErrors.InvalidTransition(string(enrollment.Status), string(models.EnrollmentStatusTransferred))
	}
	if req.NewGroupID == enrollment.GroupID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrollment already belongs to this group")
	}

	destination, err := s.groups.FindByID(ctx, req.NewGroupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "destination group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load destination group")
	}
	if !destination.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "destination group is not active")
	}

	if err = s.groups.ClaimSeat(ctx, req.NewGroupID); err != nil {
		if errors.Is(err, repository.ErrNoSeatAvailable) {
			return nil, appErrors.CapacityExceeded(req.NewGroupID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim destination seat")
	}

	oldGroupID := enrollment.GroupID
	seatHeld := !enrollment.SeatReleased
	now := time.Now().UTC()
	levelID := destination.LevelID
	enrollment.GroupID = destination.ID
	enrollment.LevelID = &levelID
	enrollment.StatusChangedAt = &now
	enrollment.StatusReason = &req.Reason
	enrollment.StatusChangedBy = &req.Actor

	changes := []models.ChangeRecord{
		{Description: fmt.Sprintf("transferred out of group %d: %s", oldGroupID, req.Reason), Actor: req.Actor},
		{Description: fmt.Sprintf("resumed active in group %s", destination.Name), Actor: req.Actor},
	}
	if err = s.save(ctx, enrollment, changes...); err != nil {
		s.releaseSeat(ctx, req.NewGroupID)
		return nil, err
	}
	if seatHeld {
		s.releaseSeat(ctx, oldGroupID)
	}
	s.invalidate(ctx, id)
	s.logger.Info("enrollment transferred",
		zap.Int64("enrollment_id", id),
		zap.Int64("from_group", oldGroupID),
		zap.Int64("to_group", destination.ID))
	return enrollment, nil
}

// Graduate closes the formation cycle for an enrollment. Academic
// requirements are refreshed from the source records at call time, so the
// gate always evaluates current facts.
func (s *EnrollmentService) Graduate(ctx context.Context, id int64, req GraduateRequest) (result *models.Enrollment, err error) {
	defer func() { s.metrics.ObserveEnrollmentOperation("graduate", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid graduation payload")
	}

	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.refreshEligibility(ctx, enrollment); err != nil {
		return nil, err
	}
	if blockers := enrollment.GraduationBlockers(); len(blockers) > 0 {
		return nil, appErrors.GraduationBlocked(blockers)
	}

	graduatedAt := time.Now().UTC()
	if req.Date != nil {
		graduatedAt = *req.Date
	}
	enrollment.Status = models.EnrollmentStatusGraduated
	enrollment.GraduatedAt = &graduatedAt
	enrollment.ActualEnd = &graduatedAt
	enrollment.StatusChangedAt = &graduatedAt
	enrollment.StatusChangedBy = &req.Actor
	enrollment.MayPresentSacrament = true

	if verr := enrollment.Validate(); verr != nil {
		return nil, appErrors.Wrap(verr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, verr.Error())
	}

	change := models.ChangeRecord{
		Description: fmt.Sprintf("graduated on %s", graduatedAt.Format("2006-01-02")),
		Actor:       req.Actor,
	}
	if err = s.save(ctx, enrollment, change); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.logger.Info("enrollment graduated", zap.Int64("enrollment_id", id))
	return enrollment, nil
}

// RefreshAcademicRequirements recalculates attendance and grade eligibility
// from the attendance and grading records and persists the result.
func (s *EnrollmentService) RefreshAcademicRequirements(ctx context.Context, id int64) (result *models.Enrollment, err error) {
	defer func() { s.metrics.ObserveEnrollmentOperation("refresh_academic", err) }()

	enrollment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.refreshEligibility(ctx, enrollment); err != nil {
		return nil, err
	}
	if err = s.save(ctx, enrollment); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return enrollment, nil
}

// ListOverdue returns enrollments whose payment due date has passed without
// the balance being settled. Overdue is derived at read time, never stored.
func (s *EnrollmentService) ListOverdue(ctx context.Context) ([]models.Enrollment, error) {
	now := time.Now().UTC()
	candidates, err := s.repo.ListOverdueCandidates(ctx, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan overdue enrollments")
	}
	overdue := make([]models.Enrollment, 0, len(candidates))
	for _, e := range candidates {
		if e.PaymentIsOverdue(now) {
			overdue = append(overdue, e)
		}
	}
	return overdue, nil
}

// History returns the change history for an enrollment, oldest first.
func (s *EnrollmentService) History(ctx context.Context, id int64) ([]models.ChangeRecord, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	history, err := s.repo.History(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment history")
	}
	return history, nil
}

// applyTransition mutates the enrollment for an already validated target
// status and returns the history entries to record alongside it. A
// cancellation marks the seat as released and reports the group whose counter
// must be decremented; the caller performs the release only after the save
// commits, so a failed save never decrements and the persisted seat_released
// flag keeps a retry from decrementing twice.
func (s *EnrollmentService) applyTransition(enrollment *models.Enrollment, target models.EnrollmentStatus, reason, actor string) (changes []models.ChangeRecord, releaseGroupID int64) {
	now := time.Now().UTC()
	from := enrollment.Status
	enrollment.Status = target
	enrollment.StatusChangedAt = &now
	enrollment.StatusReason = &reason
	enrollment.StatusChangedBy = &actor

	switch target {
	case models.EnrollmentStatusSuspended:
		enrollment.SuspendedAt = &now
	case models.EnrollmentStatusCancelled:
		enrollment.CancelledAt = &now
		enrollment.ActualEnd = &now
		if !enrollment.SeatReleased {
			enrollment.SeatReleased = true
			releaseGroupID = enrollment.GroupID
		}
	case models.EnrollmentStatusGraduated:
		enrollment.GraduatedAt = &now
		enrollment.ActualEnd = &now
		enrollment.MayPresentSacrament = true
	case models.EnrollmentStatusActive:
		enrollment.SuspendedAt = nil
	}

	change := models.ChangeRecord{
		Description: fmt.Sprintf("status changed from %s to %s: %s", from, target, reason),
		Actor:       actor,
	}
	return []models.ChangeRecord{change}, releaseGroupID
}

// refreshEligibility loads the academic records and reevaluates the
// enrollment's requirement flags in place.
func (s *EnrollmentService) refreshEligibility(ctx context.Context, enrollment *models.Enrollment) error {
	attendance, err := s.academics.ListAttendance(ctx, enrollment.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}
	grades, err := s.academics.ListGrades(ctx, enrollment.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade records")
	}
	s.evaluator.Evaluate(enrollment, attendance, grades)
	return nil
}

func (s *EnrollmentService) load(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

func (s *EnrollmentService) save(ctx context.Context, enrollment *models.Enrollment, changes ...models.ChangeRecord) error {
	if err := s.repo.Save(ctx, enrollment, changes...); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return appErrors.Clone(appErrors.ErrConcurrencyConflict, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save enrollment")
	}
	return nil
}

func (s *EnrollmentService) releaseSeat(ctx context.Context, groupID int64) {
	if err := s.groups.ReleaseSeat(ctx, groupID); err != nil {
		s.logger.Warn("failed to release group seat", zap.Int64("group_id", groupID), zap.Error(err))
	}
}

func (s *EnrollmentService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, EnrollmentPattern(id)); err != nil {
		s.logger.Warn("failed to invalidate enrollment cache", zap.Int64("enrollment_id", id), zap.Error(err))
	}
}
