package allocation

import (
	"context"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/leavetype"

	allocationerrors "go-leave/internal/allocation/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Catalog is the leave-type catalog provider the seeder iterates.
type Catalog interface {
	FindAll(ctx context.Context) ([]leavetype.LeaveType, error)
}

//go:generate mockgen -source=allocation_service.go -destination=mock/allocation_service_mock.go -package=mock
type Service interface {
	// SeedForEmployee creates one allocation per catalog leave type for
	// the current period, with days = the type's default. It only
	// applies to the EMPLOYEE role and returns the number of rows
	// created. A tuple that already exists is skipped, so re-delivery
	// of an onboarding event is harmless.
	SeedForEmployee(ctx context.Context, employeeID string, role domain.Role) (int, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]AllocationResponse, error)
}

type service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(repo Repository, catalog Catalog, logger ...*zap.Logger) Service {
	return NewServiceWithNow(repo, catalog, nil, logger...)
}

// NewServiceWithNow injects the time source; tests pass a fixed clock.
func NewServiceWithNow(repo Repository, catalog Catalog, now func() time.Time, logger ...*zap.Logger) Service {
	l := zap.L().Named("allocation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allocation.service")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:    repo,
		catalog: catalog,
		now:     now,
		logger:  l,
	}
}

func (s *service) SeedForEmployee(ctx context.Context, employeeID string, role domain.Role) (int, error) {
	s.logger.Debug("seed allocations requested",
		zap.String("employee_id", employeeID),
		zap.String("role", role.String()),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return 0, allocationerrors.ErrInvalidEmployeeID
	}
	if !role.IsValid() {
		return 0, allocationerrors.ErrInvalidRole
	}

	// Only ordinary employees receive a yearly quota.
	if role != domain.RoleEmployee {
		s.logger.Info("seed allocations skipped for role",
			zap.String("employee_id", employeeID),
			zap.String("role", role.String()),
		)
		return 0, nil
	}

	types, err := s.catalog.FindAll(ctx)
	if err != nil {
		s.logger.Error("seed allocations catalog read failed", zap.Error(err))
		return 0, err
	}

	period := s.now().Year()
	created := 0

	// Inserts run one by one: each leave type is an independent row, and
	// a duplicate for one type must not abort the rest. The unique
	// constraint on (employee, type, period) is the dedup guard.
	for _, lt := range types {
		a := &LeaveAllocation{
			ID:            uuid.New(),
			EmployeeID:    employeeUUID,
			LeaveTypeID:   lt.ID,
			Period:        period,
			DaysRemaining: decimal.NewFromInt(int64(lt.DefaultDays)),
		}

		if err := s.repo.Create(ctx, a); err != nil {
			if isDuplicateAllocation(err) {
				s.logger.Warn("allocation already seeded, skipping",
					zap.String("employee_id", employeeID),
					zap.String("leave_type_id", lt.ID.String()),
					zap.Int("period", period),
				)
				continue
			}
			s.logger.Error("seed allocation persist failed",
				zap.String("employee_id", employeeID),
				zap.String("leave_type_id", lt.ID.String()),
				zap.Error(err),
			)
			return created, err
		}
		created++
	}

	s.logger.Info("seed allocations success",
		zap.String("employee_id", employeeID),
		zap.Int("period", period),
		zap.Int("created", created),
		zap.Int("catalog_size", len(types)),
	)

	return created, nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]AllocationResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, allocationerrors.ErrInvalidEmployeeID
	}

	allocations, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get allocations failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}

	return mapToListResponse(allocations), nil
}

func mapToResponse(a LeaveAllocation) AllocationResponse {
	resp := AllocationResponse{
		ID:            a.ID.String(),
		EmployeeID:    a.EmployeeID.String(),
		LeaveTypeID:   a.LeaveTypeID.String(),
		Period:        a.Period,
		DaysRemaining: a.DaysRemaining.String(),
	}
	if a.LeaveType != nil {
		resp.LeaveTypeName = a.LeaveType.Name
	}
	return resp
}

func mapToListResponse(allocations []LeaveAllocation) []AllocationResponse {
	resp := make([]AllocationResponse, len(allocations))
	for i, a := range allocations {
		resp[i] = mapToResponse(a)
	}
	return resp
}
