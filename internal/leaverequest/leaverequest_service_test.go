package leaverequest_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leave/internal/allocation"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	"go-leave/internal/leaverequest"
	"go-leave/internal/messaging/kafka"

	allocationerrors "go-leave/internal/allocation/errors"
	leaverequesterrors "go-leave/internal/leaverequest/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRequestRepository struct {
	withTxFn            func(tx *sql.Tx) leaverequest.Repository
	createFn            func(ctx context.Context, lr *leaverequest.LeaveRequest) error
	findByIDFn          func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error)
	findAllByEmployeeFn func(ctx context.Context, employeeID string) ([]leaverequest.LeaveRequest, error)
	findAllByManagerFn  func(ctx context.Context, managerID string) ([]leaverequest.LeaveRequest, error)
	findAllFn           func(ctx context.Context) ([]leaverequest.LeaveRequest, error)
	markActionedFn      func(ctx context.Context, id, status, actionedBy string, actionedAt time.Time) (bool, error)
	setCancelledFn      func(ctx context.Context, id string) error
}

func (f *fakeLeaveRequestRepository) WithTx(tx *sql.Tx) leaverequest.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRequestRepository) Create(ctx context.Context, lr *leaverequest.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, lr)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) FindByID(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRequestRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]leaverequest.LeaveRequest, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRequestRepository) FindAllByManager(ctx context.Context, managerID string) ([]leaverequest.LeaveRequest, error) {
	if f.findAllByManagerFn != nil {
		return f.findAllByManagerFn(ctx, managerID)
	}
	return nil, nil
}

func (f *fakeLeaveRequestRepository) FindAll(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRequestRepository) MarkActioned(ctx context.Context, id, status, actionedBy string, actionedAt time.Time) (bool, error) {
	if f.markActionedFn != nil {
		return f.markActionedFn(ctx, id, status, actionedBy, actionedAt)
	}
	return true, nil
}

func (f *fakeLeaveRequestRepository) SetCancelled(ctx context.Context, id string) error {
	if f.setCancelledFn != nil {
		return f.setCancelledFn(ctx, id)
	}
	return nil
}

type fakeAllocationRepository struct {
	withTxFn                    func(tx *sql.Tx) allocation.Repository
	createFn                    func(ctx context.Context, a *allocation.LeaveAllocation) error
	findByEmployeeTypePeriodFn  func(ctx context.Context, employeeID, leaveTypeID string, period int) (*allocation.LeaveAllocation, error)
	findAllByEmployeeFn         func(ctx context.Context, employeeID string) ([]allocation.LeaveAllocation, error)
	deductFn                    func(ctx context.Context, id string, days decimal.Decimal) (bool, error)
}

func (f *fakeAllocationRepository) WithTx(tx *sql.Tx) allocation.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAllocationRepository) Create(ctx context.Context, a *allocation.LeaveAllocation) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAllocationRepository) FindByEmployeeTypePeriod(ctx context.Context, employeeID, leaveTypeID string, period int) (*allocation.LeaveAllocation, error) {
	if f.findByEmployeeTypePeriodFn != nil {
		return f.findByEmployeeTypePeriodFn(ctx, employeeID, leaveTypeID, period)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAllocationRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]allocation.LeaveAllocation, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeAllocationRepository) Deduct(ctx context.Context, id string, days decimal.Decimal) (bool, error) {
	if f.deductFn != nil {
		return f.deductFn(ctx, id, days)
	}
	return true, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   leaverequest.Service
	repo      *fakeLeaveRequestRepository
	allocRepo *fakeAllocationRepository
	outbox    *fakeOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRequestRepository{}
	allocRepo := &fakeAllocationRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leaverequest.NewServiceWithNow(db, repo, allocRepo, outbox, func() time.Time { return fixedNow })

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		allocRepo: allocRepo,
		outbox:    outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func allocationWithBalance(employeeID, leaveTypeID string, days int64) *allocation.LeaveAllocation {
	return &allocation.LeaveAllocation{
		ID:            uuid.New(),
		EmployeeID:    uuid.MustParse(employeeID),
		LeaveTypeID:   uuid.MustParse(leaveTypeID),
		Period:        fixedNow.Year(),
		DaysRemaining: decimal.NewFromInt(days),
	}
}

func TestLeaveRequestService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	managerID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leaverequest.CreateLeaveRequestRequest{
			ManagerID:   managerID,
			LeaveTypeID: leaveTypeID,
			StartAt:     "2026-03-02T09:00:00Z",
			EndAt:       "2026-03-03T01:00:00Z",
			Comment:     "Family event",
		}

		deps.allocRepo.findByEmployeeTypePeriodFn = func(ctx context.Context, eid, ltid string, period int) (*allocation.LeaveAllocation, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, leaveTypeID, ltid)
			assert.Equal(t, 2026, period)
			return allocationWithBalance(eid, ltid, 10), nil
		}
		deps.repo.createFn = func(ctx context.Context, lr *leaverequest.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(employeeID), lr.EmployeeID)
			assert.Equal(t, uuid.MustParse(managerID), lr.ManagerID)
			assert.Equal(t, leaverequest.StatusPending, lr.Status)
			assert.Equal(t, fixedNow, lr.RequestedAt)
			assert.Nil(t, lr.ActionedBy)
			assert.Nil(t, lr.ActionedAt)
			assert.False(t, lr.Cancelled)
			return nil
		}

		resp, err := deps.service.Create(ctx, employeeID, req)

		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusPending, resp.Status)
		// 16 elapsed hours at 8 hours per day.
		assert.Equal(t, "2", resp.DaysRequested)
		assert.Nil(t, resp.ActionedBy)
		assert.Nil(t, resp.ActionedAt)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveRequestSubmitted, deps.outbox.created[0].EventType)
		assert.Equal(t, events.LeaveRequestTopic, deps.outbox.created[0].Topic)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative start not before end", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := leaverequest.CreateLeaveRequestRequest{
			ManagerID:   managerID,
			LeaveTypeID: leaveTypeID,
			StartAt:     "2026-03-03T09:00:00Z",
			EndAt:       "2026-03-03T09:00:00Z",
		}

		_, err := deps.service.Create(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidRange)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative malformed timestamp", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := leaverequest.CreateLeaveRequestRequest{
			ManagerID:   managerID,
			LeaveTypeID: leaveTypeID,
			StartAt:     "2026-03-02",
			EndAt:       "2026-03-03T09:00:00Z",
		}

		_, err := deps.service.Create(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTimeFormat)
	})

	t.Run("negative no allocation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := leaverequest.CreateLeaveRequestRequest{
			ManagerID:   managerID,
			LeaveTypeID: leaveTypeID,
			StartAt:     "2026-03-02T09:00:00Z",
			EndAt:       "2026-03-03T01:00:00Z",
		}

		deps.allocRepo.findByEmployeeTypePeriodFn = func(ctx context.Context, eid, ltid string, period int) (*allocation.LeaveAllocation, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Create(ctx, employeeID, req)

		assert.ErrorIs(t, err, allocationerrors.ErrNoAllocation)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance leaves nothing behind", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := leaverequest.CreateLeaveRequestRequest{
			ManagerID:   managerID,
			LeaveTypeID: leaveTypeID,
			StartAt:     "2026-03-02T09:00:00Z",
			EndAt:       "2026-03-04T01:00:00Z",
		}

		deps.allocRepo.findByEmployeeTypePeriodFn = func(ctx context.Context, eid, ltid string, period int) (*allocation.LeaveAllocation, error) {
			return allocationWithBalance(eid, ltid, 1), nil
		}
		deps.repo.createFn = func(ctx context.Context, lr *leaverequest.LeaveRequest) error {
			t.Fatal("request must not be persisted when the balance is insufficient")
			return nil
		}

		_, err := deps.service.Create(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaverequesterrors.ErrInsufficientBalance)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_Approve(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	pendingRequest := func(id string) *leaverequest.LeaveRequest {
		return &leaverequest.LeaveRequest{
			ID:          uuid.MustParse(id),
			EmployeeID:  uuid.MustParse(employeeID),
			ManagerID:   uuid.MustParse(actorID),
			LeaveTypeID: uuid.MustParse(leaveTypeID),
			StartAt:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndAt:       time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC),
			Status:      leaverequest.StatusPending,
			RequestedAt: fixedNow,
		}
	}

	t.Run("success deducts the requested days", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return pendingRequest(targetID), nil
		}
		deps.repo.markActionedFn = func(ctx context.Context, targetID, status, actionedBy string, actionedAt time.Time) (bool, error) {
			assert.Equal(t, id, targetID)
			assert.Equal(t, leaverequest.StatusApproved, status)
			assert.Equal(t, actorID, actionedBy)
			assert.Equal(t, fixedNow, actionedAt)
			return true, nil
		}
		deps.allocRepo.findByEmployeeTypePeriodFn = func(ctx context.Context, eid, ltid string, period int) (*allocation.LeaveAllocation, error) {
			assert.Equal(t, 2026, period)
			return allocationWithBalance(eid, ltid, 10), nil
		}
		deductCalled := false
		deps.allocRepo.deductFn = func(ctx context.Context, allocID string, days decimal.Decimal) (bool, error) {
			deductCalled = true
			assert.True(t, decimal.NewFromInt(2).Equal(days), "16 hours must deduct 2 days, got %s", days)
			return true, nil
		}

		resp, err := deps.service.Approve(ctx, actorID, id)

		assert.NoError(t, err)
		assert.True(t, deductCalled)
		assert.Equal(t, leaverequest.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ActionedBy)
		assert.Equal(t, actorID, *resp.ActionedBy)
		assert.NotNil(t, resp.ActionedAt)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveRequestApproved, deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already approved", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			lr := pendingRequest(targetID)
			lr.Status = leaverequest.StatusApproved
			return lr, nil
		}

		_, err := deps.service.Approve(ctx, actorID, id)

		assert.ErrorIs(t, err, leaverequesterrors.ErrAlreadyActioned)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent approval loses the claim", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return pendingRequest(targetID), nil
		}
		// Another approval won the conditional update between the read
		// and the claim.
		deps.repo.markActionedFn = func(ctx context.Context, targetID, status, actionedBy string, actionedAt time.Time) (bool, error) {
			return false, nil
		}
		deps.allocRepo.deductFn = func(ctx context.Context, allocID string, days decimal.Decimal) (bool, error) {
			t.Fatal("a lost claim must never touch the allocation")
			return false, nil
		}

		_, err := deps.service.Approve(ctx, actorID, id)

		assert.ErrorIs(t, err, leaverequesterrors.ErrAlreadyActioned)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative cancelled request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			lr := pendingRequest(targetID)
			lr.Cancelled = true
			return lr, nil
		}

		_, err := deps.service.Approve(ctx, actorID, id)

		assert.ErrorIs(t, err, leaverequesterrors.ErrRequestCancelled)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Approve(ctx, actorID, uuid.New().String())

		assert.ErrorIs(t, err, leaverequesterrors.ErrRequestNotFound)
	})

	t.Run("negative balance consumed since submission", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return pendingRequest(targetID), nil
		}
		deps.allocRepo.findByEmployeeTypePeriodFn = func(ctx context.Context, eid, ltid string, period int) (*allocation.LeaveAllocation, error) {
			return allocationWithBalance(eid, ltid, 1), nil
		}

		_, err := deps.service.Approve(ctx, actorID, id)

		assert.ErrorIs(t, err, leaverequesterrors.ErrInsufficientBalance)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative conditional deduct refuses", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return pendingRequest(targetID), nil
		}
		deps.allocRepo.findByEmployeeTypePeriodFn = func(ctx context.Context, eid, ltid string, period int) (*allocation.LeaveAllocation, error) {
			return allocationWithBalance(eid, ltid, 10), nil
		}
		// The row-level condition saw a smaller balance than the
		// pre-check did.
		deps.allocRepo.deductFn = func(ctx context.Context, allocID string, days decimal.Decimal) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Approve(ctx, actorID, id)

		assert.ErrorIs(t, err, leaverequesterrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("sequential approvals drain the balance", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		balance := decimal.NewFromInt(8)
		// Each request spans 40 hours = 5 days.
		makeRequest := func(id string) *leaverequest.LeaveRequest {
			lr := pendingRequest(id)
			lr.StartAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
			lr.EndAt = lr.StartAt.Add(40 * time.Hour)
			return lr
		}

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return makeRequest(targetID), nil
		}
		deps.allocRepo.findByEmployeeTypePeriodFn = func(ctx context.Context, eid, ltid string, period int) (*allocation.LeaveAllocation, error) {
			a := allocationWithBalance(eid, ltid, 0)
			a.DaysRemaining = balance
			return a, nil
		}
		deps.allocRepo.deductFn = func(ctx context.Context, allocID string, days decimal.Decimal) (bool, error) {
			if balance.LessThan(days) {
				return false, nil
			}
			balance = balance.Sub(days)
			return true, nil
		}

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Approve(ctx, actorID, uuid.New().String())
		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(3).Equal(balance))

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Approve(ctx, actorID, uuid.New().String())
		assert.ErrorIs(t, err, leaverequesterrors.ErrInsufficientBalance)
		assert.True(t, decimal.NewFromInt(3).Equal(balance), "a refused approval must not change the balance")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_Reject(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("success never touches the allocation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return &leaverequest.LeaveRequest{
				ID:          uuid.MustParse(targetID),
				EmployeeID:  uuid.MustParse(employeeID),
				ManagerID:   uuid.MustParse(actorID),
				LeaveTypeID: uuid.MustParse(leaveTypeID),
				StartAt:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				EndAt:       time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC),
				Status:      leaverequest.StatusPending,
				RequestedAt: fixedNow,
			}, nil
		}
		deps.repo.markActionedFn = func(ctx context.Context, targetID, status, actionedBy string, actionedAt time.Time) (bool, error) {
			assert.Equal(t, leaverequest.StatusRejected, status)
			return true, nil
		}
		deps.allocRepo.findByEmployeeTypePeriodFn = func(ctx context.Context, eid, ltid string, period int) (*allocation.LeaveAllocation, error) {
			t.Fatal("reject must not read the allocation")
			return nil, nil
		}
		deps.allocRepo.deductFn = func(ctx context.Context, allocID string, days decimal.Decimal) (bool, error) {
			t.Fatal("reject must not deduct")
			return false, nil
		}

		resp, err := deps.service.Reject(ctx, actorID, id)

		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusRejected, resp.Status)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveRequestRejected, deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_Cancel(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	request := func(id, owner string) *leaverequest.LeaveRequest {
		return &leaverequest.LeaveRequest{
			ID:          uuid.MustParse(id),
			EmployeeID:  uuid.MustParse(owner),
			ManagerID:   uuid.New(),
			LeaveTypeID: uuid.New(),
			StartAt:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndAt:       time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC),
			Status:      leaverequest.StatusApproved,
			RequestedAt: fixedNow,
		}
	}

	t.Run("success on an approved request keeps the deduction", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return request(targetID, employeeID), nil
		}
		cancelled := false
		deps.repo.setCancelledFn = func(ctx context.Context, targetID string) error {
			cancelled = true
			assert.Equal(t, id, targetID)
			return nil
		}
		deps.allocRepo.deductFn = func(ctx context.Context, allocID string, days decimal.Decimal) (bool, error) {
			t.Fatal("cancel must not restore or deduct the allocation")
			return false, nil
		}

		resp, err := deps.service.Cancel(ctx, employeeID, id)

		assert.NoError(t, err)
		assert.True(t, cancelled)
		assert.True(t, resp.Cancelled)
		assert.Equal(t, leaverequest.StatusApproved, resp.Status)
	})

	t.Run("negative not the owner", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return request(targetID, uuid.New().String()), nil
		}
		deps.repo.setCancelledFn = func(ctx context.Context, targetID string) error {
			t.Fatal("a non-owner must not cancel")
			return nil
		}

		_, err := deps.service.Cancel(ctx, employeeID, id)

		assert.ErrorIs(t, err, leaverequesterrors.ErrNotRequestOwner)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leaverequest.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Cancel(ctx, employeeID, uuid.New().String())

		assert.ErrorIs(t, err, leaverequesterrors.ErrRequestNotFound)
	})
}

func TestLeaveRequestService_ListAll(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New().String()

	requests := []leaverequest.LeaveRequest{
		{ID: uuid.New(), EmployeeID: uuid.New(), ManagerID: uuid.MustParse(managerID), LeaveTypeID: uuid.New(), StartAt: fixedNow, EndAt: fixedNow.Add(8 * time.Hour), Status: leaverequest.StatusApproved, RequestedAt: fixedNow},
		{ID: uuid.New(), EmployeeID: uuid.New(), ManagerID: uuid.MustParse(managerID), LeaveTypeID: uuid.New(), StartAt: fixedNow, EndAt: fixedNow.Add(8 * time.Hour), Status: leaverequest.StatusPending, RequestedAt: fixedNow},
		{ID: uuid.New(), EmployeeID: uuid.New(), ManagerID: uuid.MustParse(managerID), LeaveTypeID: uuid.New(), StartAt: fixedNow, EndAt: fixedNow.Add(8 * time.Hour), Status: leaverequest.StatusRejected, RequestedAt: fixedNow},
		{ID: uuid.New(), EmployeeID: uuid.New(), ManagerID: uuid.MustParse(managerID), LeaveTypeID: uuid.New(), StartAt: fixedNow, EndAt: fixedNow.Add(8 * time.Hour), Status: leaverequest.StatusPending, RequestedAt: fixedNow},
	}

	t.Run("manager sees own queue with derived summary", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByManagerFn = func(ctx context.Context, mid string) ([]leaverequest.LeaveRequest, error) {
			assert.Equal(t, managerID, mid)
			return requests, nil
		}
		deps.repo.findAllFn = func(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
			t.Fatal("manager listing must be scoped")
			return nil, nil
		}

		view, err := deps.service.ListAll(ctx, managerID, domain.RoleManager)

		assert.NoError(t, err)
		assert.Equal(t, 4, view.Summary.Total)
		assert.Equal(t, 1, view.Summary.Approved)
		assert.Equal(t, 2, view.Summary.Pending)
		assert.Equal(t, 1, view.Summary.Rejected)
		assert.Len(t, view.Requests, 4)
	})

	t.Run("administrator sees everything", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
			return requests[:2], nil
		}

		view, err := deps.service.ListAll(ctx, managerID, domain.RoleAdministrator)

		assert.NoError(t, err)
		assert.Equal(t, 2, view.Summary.Total)
	})

	t.Run("negative employee role", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ListAll(ctx, managerID, domain.RoleEmployee)

		assert.Error(t, err)
	})
}

func TestLeaveRequestService_ListForEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success combines requests and balances", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByEmployeeFn = func(ctx context.Context, eid string) ([]leaverequest.LeaveRequest, error) {
			assert.Equal(t, employeeID, eid)
			return []leaverequest.LeaveRequest{
				{ID: uuid.New(), EmployeeID: uuid.MustParse(employeeID), ManagerID: uuid.New(), LeaveTypeID: uuid.New(), StartAt: fixedNow, EndAt: fixedNow.Add(8 * time.Hour), Status: leaverequest.StatusPending, RequestedAt: fixedNow},
			}, nil
		}
		deps.allocRepo.findAllByEmployeeFn = func(ctx context.Context, eid string) ([]allocation.LeaveAllocation, error) {
			return []allocation.LeaveAllocation{
				{
					ID:            uuid.New(),
					EmployeeID:    uuid.MustParse(employeeID),
					LeaveTypeID:   uuid.New(),
					Period:        2026,
					DaysRemaining: decimal.RequireFromString("7.5"),
				},
			}, nil
		}

		view, err := deps.service.ListForEmployee(ctx, employeeID)

		assert.NoError(t, err)
		assert.Len(t, view.Requests, 1)
		assert.Len(t, view.Allocations, 1)
		assert.Equal(t, "7.5", view.Allocations[0].DaysRemaining)
		assert.Equal(t, 2026, view.Allocations[0].Period)
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ListForEmployee(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidEmployeeID)
	})
}

func TestLeaveRequestService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("negative repo error passthrough", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return nil, errors.New("db error")
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.Error(t, err)
		assert.NotErrorIs(t, err, leaverequesterrors.ErrRequestNotFound)
	})
}
