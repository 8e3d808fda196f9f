package events

import "time"

const AttendanceRecordedTopic = "hr.attendance.events.v1"

// AttendanceRecordedEvent fans out every persisted punch so downstream
// consumers (payroll, dashboards) follow the live attendance stream.
type AttendanceRecordedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	EmployeeNumber string    `json:"employee_number"`
	ScheduleDate   string    `json:"schedule_date"`
	Kind           string    `json:"kind"`
	RecordedTime   string    `json:"recorded_time"`
	OccurredAt     time.Time `json:"occurred_at"`
}
