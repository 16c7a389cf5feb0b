package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveRequestLifecycle turns lifecycle events into notifications.
// A submitted request notifies the approving manager; an approval or
// rejection notifies the requesting employee. Delivery is best-effort:
// a failed send is logged and the message committed, it is never
// redelivered for a notification alone.
func ConsumeLeaveRequestLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	employeeRepo employee.Repository,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_request_lifecycle")
	log.Info("leave request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave request lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave request lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave request lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		recipientID, subject, body := composeNotification(event)
		if recipientID == "" {
			log.Warn("leave request lifecycle event has no recipient, skipping",
				zap.String("event_type", event.EventType),
				zap.String("leave_request_id", event.LeaveRequestID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		recipient, err := employeeRepo.FindByID(ctx, recipientID)
		if err != nil {
			log.Error("lookup notification recipient failed",
				zap.String("recipient_id", recipientID),
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := dispatcher.Send(ctx, recipient.Email, recipient.FullName, subject, body); err != nil {
			log.Error("dispatch leave request notification failed",
				zap.String("recipient_id", recipientID),
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave request lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave request notification processed",
			zap.String("event_type", event.EventType),
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("recipient_id", recipientID),
		)
	}
}

func composeNotification(event events.LeaveRequestEvent) (recipientID, subject, body string) {
	window := fmt.Sprintf("%s to %s",
		event.StartAt.Format(time.RFC3339),
		event.EndAt.Format(time.RFC3339),
	)

	switch event.EventType {
	case events.LeaveRequestSubmitted:
		return event.ManagerID,
			"Leave request awaiting your review",
			fmt.Sprintf("Employee %s requested leave from %s.", event.EmployeeID, window)
	case events.LeaveRequestApproved:
		return event.EmployeeID,
			"Your leave request was approved",
			fmt.Sprintf("Your leave from %s has been approved.", window)
	case events.LeaveRequestRejected:
		return event.EmployeeID,
			"Your leave request was rejected",
			fmt.Sprintf("Your leave from %s has been rejected.", window)
	default:
		return "", "", ""
	}
}
