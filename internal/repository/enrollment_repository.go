package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/catequesis-api/internal/models"
)

// ErrVersionConflict is returned when an optimistic update matched no rows
// because a concurrent writer bumped the record version first.
var ErrVersionConflict = errors.New("enrollment version conflict")

const enrollmentColumns = `id, code, code_seq, receipt_number, catechumen_id, group_id, parish_id, level_id,
	enrolled_at, formation_start, estimated_end, actual_end, graduated_at, suspended_at, cancelled_at,
	status, status_changed_at, status_reason, status_changed_by,
	requires_payment, base_fee, materials_fee, amount_total, amount_paid, amount_pending, payment_status,
	has_discount, discount_kind, discount_percentage, discount_amount, discount_reason, discount_authorizer,
	payment_due_date, last_payment_date, last_payment_method, last_payment_ref,
	may_present_sacrament, meets_attendance_req, meets_grade_req, attendance_percentage, grade_average,
	seat_released, version, created_at, updated_at`

// EnrollmentRepository handles persistence of enrollments and their change
// history.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments matching the provided filters plus the total count.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	var conditions []string
	var args []interface{}

	if filter.CatechumenID > 0 {
		conditions = append(conditions, fmt.Sprintf("catechumen_id = $%d", len(args)+1))
		args = append(args, filter.CatechumenID)
	}
	if filter.GroupID > 0 {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.ParishID > 0 {
		conditions = append(conditions, fmt.Sprintf("parish_id = $%d", len(args)+1))
		args = append(args, filter.ParishID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("enrolled_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("enrolled_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"enrolled_at": "enrolled_at",
		"code":        "code",
		"status":      "status",
		"created_at":  "created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "enrolled_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM enrollments%s ORDER BY %s %s LIMIT %d OFFSET %d",
		enrollmentColumns, clause, orderBy, order, size, offset)

	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM enrollments" + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE id = $1", enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindByCode returns an enrollment by its durable external code.
func (r *EnrollmentRepository) FindByCode(ctx context.Context, code string) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE code = $1", enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, code); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ExistsOpenForCatechumen checks whether the catechumen already holds a
// non-terminal enrollment in the given group.
func (r *EnrollmentRepository) ExistsOpenForCatechumen(ctx context.Context, catechumenID, groupID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE catechumen_id = $1 AND group_id = $2 AND status IN ($3, $4, $5))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, catechumenID, groupID,
		models.EnrollmentStatusActive, models.EnrollmentStatusInProgress, models.EnrollmentStatusSuspended); err != nil {
		return false, fmt.Errorf("check open enrollment: %w", err)
	}
	return exists, nil
}

// CountPriorForLevel counts earlier enrollments of the catechumen at the same
// level, used to flag repeaters.
func (r *EnrollmentRepository) CountPriorForLevel(ctx context.Context, catechumenID, levelID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE catechumen_id = $1 AND level_id = $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, catechumenID, levelID); err != nil {
		return 0, fmt.Errorf("count prior enrollments: %w", err)
	}
	return total, nil
}

// Create persists a new enrollment plus its initial history entry in one
// transaction. The enrollment code is assigned here from a per-parish monthly
// sequence and never changes afterwards.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment, initial models.ChangeRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create enrollment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = now
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
	enrollment.Version = 1

	const seqQuery = `SELECT COALESCE(MAX(code_seq), 0) + 1 FROM enrollments
		WHERE parish_id = $1 AND EXTRACT(YEAR FROM enrolled_at) = $2 AND EXTRACT(MONTH FROM enrolled_at) = $3`
	if err := tx.GetContext(ctx, &enrollment.CodeSeq, seqQuery,
		enrollment.ParishID, enrollment.EnrolledAt.Year(), int(enrollment.EnrolledAt.Month())); err != nil {
		return fmt.Errorf("next enrollment sequence: %w", err)
	}
	enrollment.Code = models.FormatEnrollmentCode(enrollment.EnrolledAt, enrollment.CodeSeq)

	const insert = `INSERT INTO enrollments
		(code, code_seq, receipt_number, catechumen_id, group_id, parish_id, level_id,
		 enrolled_at, formation_start, estimated_end, actual_end, graduated_at, suspended_at, cancelled_at,
		 status, status_changed_at, status_reason, status_changed_by,
		 requires_payment, base_fee, materials_fee, amount_total, amount_paid, amount_pending, payment_status,
		 has_discount, discount_kind, discount_percentage, discount_amount, discount_reason, discount_authorizer,
		 payment_due_date, last_payment_date, last_payment_method, last_payment_ref,
		 may_present_sacrament, meets_attendance_req, meets_grade_req, attendance_percentage, grade_average,
		 seat_released, version, created_at, updated_at)
		VALUES
		(:code, :code_seq, :receipt_number, :catechumen_id, :group_id, :parish_id, :level_id,
		 :enrolled_at, :formation_start, :estimated_end, :actual_end, :graduated_at, :suspended_at, :cancelled_at,
		 :status, :status_changed_at, :status_reason, :status_changed_by,
		 :requires_payment, :base_fee, :materials_fee, :amount_total, :amount_paid, :amount_pending, :payment_status,
		 :has_discount, :discount_kind, :discount_percentage, :discount_amount, :discount_reason, :discount_authorizer,
		 :payment_due_date, :last_payment_date, :last_payment_method, :last_payment_ref,
		 :may_present_sacrament, :meets_attendance_req, :meets_grade_req, :attendance_percentage, :grade_average,
		 :seat_released, :version, :created_at, :updated_at)
		RETURNING id`
	insertStmt, err := tx.PrepareNamedContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare create enrollment: %w", err)
	}
	defer insertStmt.Close()
	if err := insertStmt.GetContext(ctx, &enrollment.ID, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}

	initial.EnrollmentID = enrollment.ID
	if initial.OccurredAt.IsZero() {
		initial.OccurredAt = now
	}
	const historyInsert = `INSERT INTO enrollment_changes (enrollment_id, occurred_at, description, actor)
		VALUES (:enrollment_id, :occurred_at, :description, :actor)`
	if _, err := tx.NamedExecContext(ctx, historyInsert, initial); err != nil {
		return fmt.Errorf("record enrollment creation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create enrollment: %w", err)
	}
	return nil
}

// Save persists a mutated enrollment and its new history entries in one
// transaction. The UPDATE is guarded by the loaded version: if a concurrent
// writer committed first, no row matches and ErrVersionConflict is returned
// with nothing written.
func (r *EnrollmentRepository) Save(ctx context.Context, enrollment *models.Enrollment, changes ...models.ChangeRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save enrollment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	enrollment.UpdatedAt = now
	loadedVersion := enrollment.Version
	enrollment.Version = loadedVersion + 1

	const update = `UPDATE enrollments SET
		receipt_number = :receipt_number, group_id = :group_id, level_id = :level_id,
		formation_start = :formation_start, estimated_end = :estimated_end, actual_end = :actual_end,
		graduated_at = :graduated_at, suspended_at = :suspended_at, cancelled_at = :cancelled_at,
		status = :status, status_changed_at = :status_changed_at, status_reason = :status_reason, status_changed_by = :status_changed_by,
		requires_payment = :requires_payment, base_fee = :base_fee, materials_fee = :materials_fee,
		amount_total = :amount_total, amount_paid = :amount_paid, amount_pending = :amount_pending, payment_status = :payment_status,
		has_discount = :has_discount, discount_kind = :discount_kind, discount_percentage = :discount_percentage,
		discount_amount = :discount_amount, discount_reason = :discount_reason, discount_authorizer = :discount_authorizer,
		payment_due_date = :payment_due_date, last_payment_date = :last_payment_date,
		last_payment_method = :last_payment_method, last_payment_ref = :last_payment_ref,
		may_present_sacrament = :may_present_sacrament, meets_attendance_req = :meets_attendance_req,
		meets_grade_req = :meets_grade_req, attendance_percentage = :attendance_percentage, grade_average = :grade_average,
		seat_released = :seat_released, version = :version, updated_at = :updated_at
		WHERE id = :id AND version = :loaded_version`
	params := struct {
		*models.Enrollment
		LoadedVersion int64 `db:"loaded_version"`
	}{enrollment, loadedVersion}
	result, err := tx.NamedExecContext(ctx, update, params)
	if err != nil {
		enrollment.Version = loadedVersion
		return fmt.Errorf("save enrollment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		enrollment.Version = loadedVersion
		return fmt.Errorf("check saved rows: %w", err)
	}
	if rows == 0 {
		enrollment.Version = loadedVersion
		return ErrVersionConflict
	}

	const historyInsert = `INSERT INTO enrollment_changes (enrollment_id, occurred_at, description, actor)
		VALUES (:enrollment_id, :occurred_at, :description, :actor)`
	for i := range changes {
		changes[i].EnrollmentID = enrollment.ID
		if changes[i].OccurredAt.IsZero() {
			changes[i].OccurredAt = now
		}
		if _, err := tx.NamedExecContext(ctx, historyInsert, changes[i]); err != nil {
			enrollment.Version = loadedVersion
			return fmt.Errorf("record enrollment change: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		enrollment.Version = loadedVersion
		return fmt.Errorf("commit save enrollment: %w", err)
	}
	return nil
}

// History returns the change history for an enrollment, oldest first.
func (r *EnrollmentRepository) History(ctx context.Context, enrollmentID int64) ([]models.ChangeRecord, error) {
	const query = `SELECT id, enrollment_id, occurred_at, description, actor
		FROM enrollment_changes WHERE enrollment_id = $1 ORDER BY occurred_at ASC, id ASC`
	var history []models.ChangeRecord
	if err := r.db.SelectContext(ctx, &history, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("load enrollment history: %w", err)
	}
	return history, nil
}

// ListByGroup returns enrollments for a group restricted to the given
// statuses.
func (r *EnrollmentRepository) ListByGroup(ctx context.Context, groupID int64, statuses ...models.EnrollmentStatus) ([]models.Enrollment, error) {
	args := []interface{}{groupID}
	clause := ""
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clause = fmt.Sprintf(" AND status IN (%s)", strings.Join(placeholders, ","))
	}
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE group_id = $1%s ORDER BY enrolled_at ASC", enrollmentColumns, clause)
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list group enrollments: %w", err)
	}
	return enrollments, nil
}

// ListForFinancialReport returns all enrollments inside the report scope.
func (r *EnrollmentRepository) ListForFinancialReport(ctx context.Context, filter models.FinancialReportFilter) ([]models.Enrollment, error) {
	var conditions []string
	var args []interface{}
	if filter.ParishID != nil {
		conditions = append(conditions, fmt.Sprintf("parish_id = $%d", len(args)+1))
		args = append(args, *filter.ParishID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("enrolled_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("enrolled_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}
	query := fmt.Sprintf("SELECT %s FROM enrollments%s ORDER BY enrolled_at ASC", enrollmentColumns, clause)
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("scan financial report enrollments: %w", err)
	}
	return enrollments, nil
}

// ListForAcademicReport returns all enrollments inside the report scope.
func (r *EnrollmentRepository) ListForAcademicReport(ctx context.Context, filter models.AcademicReportFilter) ([]models.Enrollment, error) {
	var conditions []string
	var args []interface{}
	if filter.GroupID != nil {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", len(args)+1))
		args = append(args, *filter.GroupID)
	}
	if filter.ParishID != nil {
		conditions = append(conditions, fmt.Sprintf("parish_id = $%d", len(args)+1))
		args = append(args, *filter.ParishID)
	}
	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}
	query := fmt.Sprintf("SELECT %s FROM enrollments%s ORDER BY enrolled_at ASC", enrollmentColumns, clause)
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("scan academic report enrollments: %w", err)
	}
	return enrollments, nil
}

// ListOverdueCandidates returns enrollments whose due date has passed and
// whose payment is not yet current.
func (r *EnrollmentRepository) ListOverdueCandidates(ctx context.Context, now time.Time) ([]models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments
		WHERE payment_due_date IS NOT NULL AND payment_due_date < $1
		AND payment_status NOT IN ($2, $3)
		ORDER BY payment_due_date ASC`, enrollmentColumns)
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, now, models.PaymentStatusPaid, models.PaymentStatusExempt); err != nil {
		return nil, fmt.Errorf("list overdue enrollments: %w", err)
	}
	return enrollments, nil
}
