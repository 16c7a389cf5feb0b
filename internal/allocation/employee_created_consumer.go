package allocation

import (
	"context"
	"encoding/json"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/events"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeCreatedConsumer seeds leave allocations when an employee is
// onboarded. Duplicate deliveries are absorbed by the seeder's unique
// constraint, so every message is committable after one service call.
type EmployeeCreatedConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewEmployeeCreatedConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *EmployeeCreatedConsumer {
	l := zap.L().Named("allocation.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allocation.consumer")
	}

	return &EmployeeCreatedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.EmployeeCreatedTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *EmployeeCreatedConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume employee_created failed", zap.Error(err))
				continue
			}

			var event events.EmployeeCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode employee_created event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid employee_created event failed", zap.Error(commitErr))
				}
				continue
			}

			role, err := domain.ParseRole(event.Role)
			if err != nil {
				c.logger.Error("employee_created event carries unknown role",
					zap.String("employee_id", event.EmployeeID),
					zap.String("role", event.Role),
				)
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid employee_created event failed", zap.Error(commitErr))
				}
				continue
			}

			created, err := c.service.SeedForEmployee(ctx, event.EmployeeID, role)
			if err != nil {
				c.logger.Error("seed allocations from event failed",
					zap.String("employee_id", event.EmployeeID),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit employee_created event failed", zap.Error(err))
				continue
			}

			c.logger.Info("allocations seeded from employee_created event",
				zap.String("employee_id", event.EmployeeID),
				zap.Int("created", created),
			)
		}
	}()
}

func (c *EmployeeCreatedConsumer) Close() error {
	return c.reader.Close()
}
