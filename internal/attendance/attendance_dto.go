package attendance

type RecordEventRequest struct {
	EmployeeNumber   string   `json:"employee_number"`
	EmployeePublicID string   `json:"employee_public_id"`
	EventKind        string   `json:"event_kind" binding:"required"`
	OccurredAt       string   `json:"occurred_at"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Address          *string  `json:"address"`
	Notes            *string  `json:"notes"`
}

type RecordEventResponse struct {
	EmployeeNumber string `json:"employee_number"`
	ScheduleDate   string `json:"schedule_date"`
	EventKind      string `json:"event_kind"`
	RecordedTime   string `json:"recorded_time"`
}

// SyncRecord is one offline day captured by a kiosk: free-text person name
// plus whichever punches the device saw, as full RFC 3339 date-times.
type SyncRecord struct {
	Name        string   `json:"name"`
	TimeIn      *string  `json:"time_in"`
	TimeOut     *string  `json:"time_out"`
	BreakIn     *string  `json:"break_in"`
	BreakOut    *string  `json:"break_out"`
	OvertimeIn  *string  `json:"overtime_in"`
	OvertimeOut *string  `json:"overtime_out"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     *string  `json:"address"`
}

type SyncBatchRequest struct {
	Records []SyncRecord `json:"records"`
}

const (
	SyncStatusAccepted = "accepted"
	SyncStatusSkipped  = "skipped"
)

type SyncRecordResult struct {
	Index  int    `json:"index"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type SyncBatchResponse struct {
	Accepted int                `json:"accepted"`
	Skipped  int                `json:"skipped"`
	Results  []SyncRecordResult `json:"results"`
}

type DayRecordResponse struct {
	EmployeeID   int64    `json:"employee_id"`
	ScheduleDate string   `json:"schedule_date"`
	TimeIn       *string  `json:"time_in,omitempty"`
	TimeOut      *string  `json:"time_out,omitempty"`
	BreakIn      *string  `json:"break_in,omitempty"`
	BreakOut     *string  `json:"break_out,omitempty"`
	OvertimeIn   *string  `json:"overtime_in,omitempty"`
	OvertimeOut  *string  `json:"overtime_out,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Address      *string  `json:"address,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	UpdatedAt    string   `json:"updated_at"`
}
