package leaverequest

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// LeaveRequest is one request in the lifecycle PENDING -> APPROVED or
// PENDING -> REJECTED, never reversed. Cancelled is an independent flag:
// a request can be cancelled in any state and cancellation does not
// restore an already-deducted allocation.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	ManagerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_manager"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	StartAt time.Time `gorm:"not null"`
	EndAt   time.Time `gorm:"not null"`
	Comment string    `gorm:"type:text"`

	Status      string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	ActionedBy  *uuid.UUID `gorm:"type:uuid"`
	RequestedAt time.Time  `gorm:"not null"`
	ActionedAt  *time.Time
	Cancelled   bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	LeaveType *RequestLeaveType `gorm:"foreignKey:LeaveTypeID;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// RequestLeaveType is the minimal join projection of the catalog row.
type RequestLeaveType struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string
}

func (RequestLeaveType) TableName() string {
	return "leave_types"
}
