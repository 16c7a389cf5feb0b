package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/allocation"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/notification"
	"go-leave/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer hosts the two event-driven flows: allocation seeding on
// employee onboarding, and notifications on leave request transitions.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	allocationRepo := allocation.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	allocationService := allocation.NewService(allocationRepo, leaveTypeRepo)
	dispatcher := notification.NewLogDispatcher()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seeder := allocation.NewEmployeeCreatedConsumer(
		kafkaBroker,
		"go-leave-allocation-seeder",
		allocationService,
	)
	defer seeder.Close()
	seeder.Start(ctx)

	notifierReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveRequestTopic,
		GroupID:        "go-leave-notifier",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer notifierReader.Close()

	go consumer.ConsumeLeaveRequestLifecycle(ctx, notifierReader, employeeRepo, dispatcher, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
