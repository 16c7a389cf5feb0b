package leaverequest

type CreateLeaveRequestRequest struct {
	ManagerID   string `json:"manager_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartAt     string `json:"start_at" binding:"required"`
	EndAt       string `json:"end_at" binding:"required"`
	Comment     string `json:"comment"`
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	ManagerID     string  `json:"manager_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	StartAt       string  `json:"start_at"`
	EndAt         string  `json:"end_at"`
	DaysRequested string  `json:"days_requested"`
	Status        string  `json:"status"`
	ActionedBy    *string `json:"actioned_by,omitempty"`
	RequestedAt   string  `json:"requested_at"`
	ActionedAt    *string `json:"actioned_at,omitempty"`
	Comment       string  `json:"comment,omitempty"`
	Cancelled     bool    `json:"cancelled"`
}

// AllocationView is the balance line shown next to an employee's own
// requests.
type AllocationView struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name,omitempty"`
	Period        int    `json:"period"`
	DaysRemaining string `json:"days_remaining"`
}

// EmployeeLeaveView is the self-service view: the employee's requests
// together with their allocations.
type EmployeeLeaveView struct {
	Allocations []AllocationView       `json:"allocations"`
	Requests    []LeaveRequestResponse `json:"requests"`
}

type LeaveRequestSummary struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// AdminLeaveView is the administrative view: summary counts are derived
// from the listed requests, never stored.
type AdminLeaveView struct {
	Summary  LeaveRequestSummary    `json:"summary"`
	Requests []LeaveRequestResponse `json:"requests"`
}
