package allocation

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=allocation_repo.go -destination=mock/allocation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *LeaveAllocation) error
	FindByEmployeeTypePeriod(ctx context.Context, employeeID, leaveTypeID string, period int) (*LeaveAllocation, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveAllocation, error)
	// Deduct atomically subtracts days from the allocation iff the
	// remaining balance covers it. Returns false when the conditional
	// update matched no row, i.e. the balance was insufficient at commit
	// time. Runs on the transaction when one is attached.
	Deduct(ctx context.Context, id string, days decimal.Decimal) (bool, error)
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

func (r *repository) Create(ctx context.Context, a *LeaveAllocation) error {
	return r.db.WithContext(ctx).Omit("LeaveType").Create(a).Error
}

func (r *repository) FindByEmployeeTypePeriod(ctx context.Context, employeeID, leaveTypeID string, period int) (*LeaveAllocation, error) {
	var a LeaveAllocation
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("period = ?", period).
		First(&a).Error
	return &a, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveAllocation, error) {
	var allocations []LeaveAllocation
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ?", employeeID).
		Order("period DESC").
		Find(&allocations).Error
	return allocations, err
}

func (r *repository) Deduct(ctx context.Context, id string, days decimal.Decimal) (bool, error) {
	if r.tx != nil {
		query := `
UPDATE leave_allocations
SET
	days_remaining = days_remaining - $2,
	updated_at = NOW()
WHERE id = $1
	AND days_remaining >= $2
`
		res, err := r.tx.ExecContext(ctx, query, id, days)
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
UPDATE leave_allocations
SET
	days_remaining = days_remaining - ?,
	updated_at = NOW()
WHERE id = ?
	AND days_remaining >= ?
`, days, id, days)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
