package events

import "time"

const LeaveRequestTopic = "leave.request.lifecycle.v1"

const (
	LeaveRequestSubmitted = "leave_request_submitted"
	LeaveRequestApproved  = "leave_request_approved"
	LeaveRequestRejected  = "leave_request_rejected"
)

// LeaveRequestEvent is published for every request lifecycle transition.
// The notifier consumer turns it into a message to the recipient; the
// state change that produced it has already been committed.
type LeaveRequestEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	ManagerID      string    `json:"manager_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	ActionedBy     string    `json:"actioned_by,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
