package employee

import (
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	FullName       string      `gorm:"not null"`
	Email          string      `gorm:"uniqueIndex:uq_employee_email;not null"`
	EmployeeNumber string      `gorm:"uniqueIndex:uq_employee_number;not null"`
	Role           domain.Role `gorm:"type:varchar(20);not null"`
	ManagerID      *uuid.UUID  `gorm:"type:uuid"`
	HireDate       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Employee) TableName() string {
	return "employees"
}
