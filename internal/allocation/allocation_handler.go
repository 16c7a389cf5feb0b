package allocation

import (
	"net/http"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	allocationerrors "go-leave/internal/allocation/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("allocation.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allocation.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("allocation request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetMine lists the caller's own allocations.
func (h *Handler) GetMine(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	resp, err := h.service.GetAllByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Seed is the administrative fallback for onboarding flows that bypass
// the employee_created event.
func (h *Handler) Seed(c *gin.Context) {
	var req SeedAllocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http seed allocations validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.writeServiceError(c, allocationerrors.ErrInvalidRole)
		return
	}

	created, err := h.service.SeedForEmployee(c.Request.Context(), req.EmployeeID, role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, SeedAllocationsResponse{
		EmployeeID:        req.EmployeeID,
		Period:            time.Now().UTC().Year(),
		AllocationsSeeded: created,
	}, nil)
}
