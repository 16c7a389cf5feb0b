package app

import (
	"database/sql"

	"go-leave/internal/allocation"
	"go-leave/internal/employee"
	"go-leave/internal/leaverequest"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	allocationRepo := allocation.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	leaveTypeService := leavetype.NewService(db, leaveTypeRepo, rdb)
	allocationService := allocation.NewService(allocationRepo, leaveTypeRepo)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo)
	leaveRequestService := leaverequest.NewService(db, leaveRequestRepo, allocationRepo, outboxRepo)

	// --- Handlers ---
	allocationHandler := allocation.NewHandler(allocationService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		allocation.RegisterRoutes(api, allocationHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
	}

	return nil
}
