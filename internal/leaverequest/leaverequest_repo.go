package leaverequest

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAllByManager(ctx context.Context, managerID string) ([]LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	// MarkActioned flips a request from PENDING to the given status and
	// stamps the actor. The WHERE clause is the state-machine guard:
	// only an un-cancelled PENDING row matches, so a second approval or
	// a reject after approve matches nothing and returns false.
	MarkActioned(ctx context.Context, id, status, actionedBy string, actionedAt time.Time) (bool, error)
	SetCancelled(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	if r.tx != nil {
		query := `
        INSERT INTO leave_requests (
            id, employee_id, manager_id, leave_type_id,
            start_at, end_at, comment, status, requested_at, cancelled,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
    `
		_, err := r.tx.ExecContext(
			ctx, query,
			lr.ID, lr.EmployeeID, lr.ManagerID, lr.LeaveTypeID,
			lr.StartAt, lr.EndAt, lr.Comment, lr.Status, lr.RequestedAt, lr.Cancelled,
		)
		return err
	}
	return r.db.WithContext(ctx).Omit("LeaveType").Create(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		First(&lr, "id = ?", id).Error
	return &lr, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ?", employeeID).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllByManager(ctx context.Context, managerID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("manager_id = ?", managerID).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) MarkActioned(ctx context.Context, id, status, actionedBy string, actionedAt time.Time) (bool, error) {
	query := `
UPDATE leave_requests
SET
	status = $2,
	actioned_by = $3,
	actioned_at = $4,
	updated_at = NOW()
WHERE id = $1
	AND status = $5
	AND cancelled = false
`

	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, id, status, actionedBy, actionedAt, StatusPending)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return affected == 1, nil
	}

	result := r.db.WithContext(ctx).Exec(`
UPDATE leave_requests
SET
	status = ?,
	actioned_by = ?,
	actioned_at = ?,
	updated_at = NOW()
WHERE id = ?
	AND status = ?
	AND cancelled = false
`, status, actionedBy, actionedAt, id, StatusPending)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) SetCancelled(ctx context.Context, id string) error {
	if r.tx != nil {
		query := `
UPDATE leave_requests
SET
	cancelled = true,
	updated_at = NOW()
WHERE id = $1
`
		_, err := r.tx.ExecContext(ctx, query, id)
		return err
	}

	return r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Update("cancelled", true).Error
}
