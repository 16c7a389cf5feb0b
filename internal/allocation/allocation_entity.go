package allocation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveAllocation is the remaining leave-day budget for one employee, one
// leave type, one period (calendar year). The unique index is the
// idempotency guard for seeding: at most one row per tuple.
type LeaveAllocation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_allocation_employee_type_period;index:idx_allocations_employee"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_allocation_employee_type_period"`
	Period      int       `gorm:"type:int;not null;uniqueIndex:uq_allocation_employee_type_period"`

	// DaysRemaining is fractional: deductions are computed at hour
	// granularity (8 hours = 1 day).
	DaysRemaining decimal.Decimal `gorm:"type:numeric(7,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	LeaveType *AllocationLeaveType `gorm:"foreignKey:LeaveTypeID;references:ID"`
}

func (LeaveAllocation) TableName() string {
	return "leave_allocations"
}

// AllocationLeaveType is the minimal join projection of the catalog row.
type AllocationLeaveType struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string
}

func (AllocationLeaveType) TableName() string {
	return "leave_types"
}
