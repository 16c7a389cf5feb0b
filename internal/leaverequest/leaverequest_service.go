package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/allocation"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	allocationerrors "go-leave/internal/allocation/errors"
	leaverequesterrors "go-leave/internal/leaverequest/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// workdayHours is the fixed conversion rule: 8 elapsed hours equal one
// leave day.
const workdayHours = 8

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, actorID, id string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, employeeID, id string) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListForEmployee(ctx context.Context, employeeID string) (EmployeeLeaveView, error)
	ListAll(ctx context.Context, actorID string, role domain.Role) (AdminLeaveView, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	allocRepo allocation.Repository
	outbox    kafka.OutboxRepository
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	allocRepo allocation.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithNow(db, repo, allocRepo, outboxRepo, nil, logger...)
}

// NewServiceWithNow injects the time source; tests pass a fixed clock so
// "now", and with it the current period, is deterministic.
func NewServiceWithNow(
	db *sql.DB,
	repo Repository,
	allocRepo allocation.Repository,
	outboxRepo kafka.OutboxRepository,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		db:        db,
		repo:      repo,
		allocRepo: allocRepo,
		outbox:    outboxRepo,
		now:       now,
		logger:    l,
	}
}

// daysRequestedBetween converts an elapsed interval into leave days at
// hour granularity.
func daysRequestedBetween(start, end time.Time) decimal.Decimal {
	minutes := int64(end.Sub(start) / time.Minute)
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(workdayHours * 60))
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave request requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_at", req.StartAt),
		zap.String("end_at", req.EndAt),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	managerUUID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidManagerID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidLeaveTypeID
	}

	startAt, err := parseTimestamp(req.StartAt)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endAt, err := parseTimestamp(req.EndAt)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !startAt.Before(endAt) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRange
	}

	now := s.now()
	period := now.Year()

	alloc, err := s.allocRepo.FindByEmployeeTypePeriod(ctx, employeeID, req.LeaveTypeID, period)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, allocationerrors.ErrNoAllocation
		}
		s.logger.Error("create leave request allocation lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	// The balance is checked, never reserved, at submission: only an
	// approval consumes days. Concurrent pending requests may together
	// exceed the balance; approval re-verifies.
	daysRequested := daysRequestedBetween(startAt, endAt)
	if daysRequested.GreaterThan(alloc.DaysRemaining) {
		s.logger.Warn("create leave request insufficient balance",
			zap.String("employee_id", employeeID),
			zap.String("days_requested", daysRequested.String()),
			zap.String("days_remaining", alloc.DaysRemaining.String()),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrInsufficientBalance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr := &LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  employeeUUID,
		ManagerID:   managerUUID,
		LeaveTypeID: leaveTypeUUID,
		StartAt:     startAt,
		EndAt:       endAt,
		Comment:     req.Comment,
		Status:      StatusPending,
		RequestedAt: now,
	}

	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.queueLifecycleEvent(ctx, tx, rid, events.LeaveRequestSubmitted, lr, ""); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("create leave request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("days_requested", daysRequested.String()),
	)

	return mapToResponse(*lr), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveRequestResponse, error) {
	return s.action(ctx, actorID, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actorID, id string) (LeaveRequestResponse, error) {
	return s.action(ctx, actorID, id, StatusRejected)
}

// action performs the approve/reject transition. The request claim and,
// for approval, the allocation deduction run in one transaction: either
// both land or neither does.
func (s *service) action(ctx context.Context, actorID, id, targetStatus string) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("action leave request requested",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if lr.Cancelled {
		return LeaveRequestResponse{}, leaverequesterrors.ErrRequestCancelled
	}
	if lr.Status != StatusPending {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyActioned
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("action leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Claim the request first. Under two concurrent approvals only one
	// conditional update matches; the loser rolls back having touched
	// nothing.
	claimed, err := qtx.MarkActioned(ctx, id, targetStatus, actorID, now)
	if err != nil {
		s.logger.Error("action leave request claim failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if !claimed {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyActioned
	}

	daysRequested := daysRequestedBetween(lr.StartAt, lr.EndAt)

	if targetStatus == StatusApproved {
		alloc, err := s.allocRepo.FindByEmployeeTypePeriod(ctx, lr.EmployeeID.String(), lr.LeaveTypeID.String(), now.Year())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveRequestResponse{}, allocationerrors.ErrNoAllocation
			}
			s.logger.Error("action leave request allocation lookup failed", zap.Error(err))
			return LeaveRequestResponse{}, err
		}

		// Sufficiency is re-verified at approval: earlier approvals may
		// have consumed the balance since this request was created. The
		// conditional decrement repeats the check inside the row update,
		// so a concurrent approval cannot push the balance negative.
		if daysRequested.GreaterThan(alloc.DaysRemaining) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrInsufficientBalance
		}

		aqtx := s.allocRepo.WithTx(tx)
		deducted, err := aqtx.Deduct(ctx, alloc.ID.String(), daysRequested)
		if err != nil {
			s.logger.Error("action leave request deduct failed", zap.Error(err))
			return LeaveRequestResponse{}, err
		}
		if !deducted {
			return LeaveRequestResponse{}, leaverequesterrors.ErrInsufficientBalance
		}
	}

	eventType := events.LeaveRequestApproved
	if targetStatus == StatusRejected {
		eventType = events.LeaveRequestRejected
	}
	if err := s.queueLifecycleEvent(ctx, tx, rid, eventType, lr, actorID); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("action leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	lr.Status = targetStatus
	lr.ActionedBy = &actorUUID
	lr.ActionedAt = &now

	s.logger.Info("action leave request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("status", targetStatus),
		zap.String("days_requested", daysRequested.String()),
	)

	return mapToResponse(*lr), nil
}

func (s *service) Cancel(ctx context.Context, employeeID, id string) (LeaveRequestResponse, error) {
	s.logger.Debug("cancel leave request requested",
		zap.String("leave_request_id", id),
		zap.String("employee_id", employeeID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if lr.EmployeeID.String() != employeeID {
		return LeaveRequestResponse{}, leaverequesterrors.ErrNotRequestOwner
	}

	// Cancellation is unconditional: it applies to any state, and
	// cancelling an approved request does NOT restore the deducted
	// allocation. Returning the days would need an explicit allocation
	// credit flow, which this system does not have.
	if err := s.repo.SetCancelled(ctx, id); err != nil {
		s.logger.Error("cancel leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	lr.Cancelled = true

	s.logger.Info("cancel leave request success", zap.String("leave_request_id", id))

	return mapToResponse(*lr), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) (EmployeeLeaveView, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return EmployeeLeaveView{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	requests, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list leave requests failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return EmployeeLeaveView{}, err
	}

	allocations, err := s.allocRepo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list allocations failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return EmployeeLeaveView{}, err
	}

	view := EmployeeLeaveView{
		Allocations: make([]AllocationView, len(allocations)),
		Requests:    mapToListResponse(requests),
	}
	for i, a := range allocations {
		av := AllocationView{
			LeaveTypeID:   a.LeaveTypeID.String(),
			Period:        a.Period,
			DaysRemaining: a.DaysRemaining.String(),
		}
		if a.LeaveType != nil {
			av.LeaveTypeName = a.LeaveType.Name
		}
		view.Allocations[i] = av
	}

	return view, nil
}

func (s *service) ListAll(ctx context.Context, actorID string, role domain.Role) (AdminLeaveView, error) {
	var (
		requests []LeaveRequest
		err      error
	)

	switch role {
	case domain.RoleAdministrator:
		requests, err = s.repo.FindAll(ctx)
	case domain.RoleManager:
		// Managers only see requests addressed to them.
		requests, err = s.repo.FindAllByManager(ctx, actorID)
	default:
		return AdminLeaveView{}, apperror.ErrForbidden
	}
	if err != nil {
		s.logger.Error("list all leave requests failed",
			zap.String("actor_id", actorID),
			zap.String("role", role.String()),
			zap.Error(err),
		)
		return AdminLeaveView{}, err
	}

	view := AdminLeaveView{
		Requests: mapToListResponse(requests),
	}
	for _, lr := range requests {
		view.Summary.Total++
		switch lr.Status {
		case StatusApproved:
			view.Summary.Approved++
		case StatusRejected:
			view.Summary.Rejected++
		default:
			view.Summary.Pending++
		}
	}

	return view, nil
}

func (s *service) queueLifecycleEvent(ctx context.Context, tx *sql.Tx, rid, eventType string, lr *LeaveRequest, actionedBy string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveRequestEvent{
		EventType:      eventType,
		RequestID:      rid,
		LeaveRequestID: lr.ID.String(),
		EmployeeID:     lr.EmployeeID.String(),
		ManagerID:      lr.ManagerID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		StartAt:        lr.StartAt,
		EndAt:          lr.EndAt,
		ActionedBy:     actionedBy,
		OccurredAt:     s.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal lifecycle event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveRequestTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue lifecycle event failed",
			zap.String("leave_request_id", lr.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidTimeFormat
	}
	return t, nil
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            lr.ID.String(),
		EmployeeID:    lr.EmployeeID.String(),
		ManagerID:     lr.ManagerID.String(),
		LeaveTypeID:   lr.LeaveTypeID.String(),
		StartAt:       lr.StartAt.Format(time.RFC3339),
		EndAt:         lr.EndAt.Format(time.RFC3339),
		DaysRequested: daysRequestedBetween(lr.StartAt, lr.EndAt).String(),
		Status:        lr.Status,
		RequestedAt:   lr.RequestedAt.Format(time.RFC3339),
		Comment:       lr.Comment,
		Cancelled:     lr.Cancelled,
	}
	if lr.LeaveType != nil {
		resp.LeaveTypeName = lr.LeaveType.Name
	}
	if lr.ActionedBy != nil {
		v := lr.ActionedBy.String()
		resp.ActionedBy = &v
	}
	if lr.ActionedAt != nil {
		v := lr.ActionedAt.Format(time.RFC3339)
		resp.ActionedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}
