package notification

import (
	"context"

	"go.uber.org/zap"
)

// Dispatcher delivers a message to a recipient. Delivery is best-effort:
// callers run after the state change has committed and must treat a
// failure as a warning, never as a reason to revert.
//
//go:generate mockgen -source=dispatcher.go -destination=mock/dispatcher_mock.go -package=mock
type Dispatcher interface {
	Send(ctx context.Context, recipientEmail, recipientName, subject, body string) error
}

// LogDispatcher writes notifications to the structured log instead of a
// real mail transport. It is the default wiring; a production deployment
// swaps in an SMTP or provider-backed implementation.
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger ...*zap.Logger) *LogDispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &LogDispatcher{logger: l}
}

func (d *LogDispatcher) Send(ctx context.Context, recipientEmail, recipientName, subject, body string) error {
	d.logger.Info("notification dispatched",
		zap.String("recipient_email", recipientEmail),
		zap.String("recipient_name", recipientName),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
