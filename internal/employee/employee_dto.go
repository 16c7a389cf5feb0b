package employee

type CreateEmployeeRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"required"`
	ManagerID string `json:"manager_id" binding:"omitempty,uuid"`
	HireDate  string `json:"hire_date" binding:"required"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	EmployeeNumber string `json:"employee_number"`
	Role           string `json:"role"`
	ManagerID      string `json:"manager_id,omitempty"`
	HireDate       string `json:"hire_date"`
}
