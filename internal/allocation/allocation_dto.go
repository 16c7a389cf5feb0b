package allocation

type SeedAllocationsRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Role       string `json:"role" binding:"required"`
}

type SeedAllocationsResponse struct {
	EmployeeID        string `json:"employee_id"`
	Period            int    `json:"period"`
	AllocationsSeeded int    `json:"allocations_seeded"`
}

type AllocationResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name,omitempty"`
	Period        int    `json:"period"`
	DaysRemaining string `json:"days_remaining"`
}
