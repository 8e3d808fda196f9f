package attendance

import (
	"time"
)

// DayRecord is the canonical attendance row: exactly one per employee per
// schedule date, with every punch of that day merged into it.
type DayRecord struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID   int64     `gorm:"column:employee_id;not null;uniqueIndex:uq_day_record_employee_date"`
	ScheduleDate time.Time `gorm:"column:schedule_date;type:date;not null;uniqueIndex:uq_day_record_employee_date"`
	TimeIn       *string   `gorm:"column:time_in;type:time"`
	TimeOut      *string   `gorm:"column:time_out;type:time"`
	BreakIn      *string   `gorm:"column:break_in;type:time"`
	BreakOut     *string   `gorm:"column:break_out;type:time"`
	OvertimeIn   *string   `gorm:"column:overtime_in;type:time"`
	OvertimeOut  *string   `gorm:"column:overtime_out;type:time"`
	Latitude     *float64  `gorm:"column:latitude"`
	Longitude    *float64  `gorm:"column:longitude"`
	Address      *string   `gorm:"column:address;type:text"`
	Notes        *string   `gorm:"column:notes;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DayRecord) TableName() string {
	return "day_records"
}

type EventKind string

const (
	KindTimeIn      EventKind = "time_in"
	KindTimeOut     EventKind = "time_out"
	KindBreakIn     EventKind = "break_in"
	KindBreakOut    EventKind = "break_out"
	KindOvertimeIn  EventKind = "overtime_in"
	KindOvertimeOut EventKind = "overtime_out"
)

// Kinds is the canonical punch order used when iterating a record's columns.
var Kinds = [6]EventKind{
	KindTimeIn, KindTimeOut,
	KindBreakIn, KindBreakOut,
	KindOvertimeIn, KindOvertimeOut,
}

// eventColumns is the closed kind-to-column mapping. Client input never
// reaches SQL text directly: an unknown kind is rejected before any query
// is built.
var eventColumns = map[EventKind]string{
	KindTimeIn:      "time_in",
	KindTimeOut:     "time_out",
	KindBreakIn:     "break_in",
	KindBreakOut:    "break_out",
	KindOvertimeIn:  "overtime_in",
	KindOvertimeOut: "overtime_out",
}

func (k EventKind) Valid() bool {
	_, ok := eventColumns[k]
	return ok
}

func (k EventKind) column() string {
	return eventColumns[k]
}

func (d *DayRecord) field(k EventKind) **string {
	switch k {
	case KindTimeIn:
		return &d.TimeIn
	case KindTimeOut:
		return &d.TimeOut
	case KindBreakIn:
		return &d.BreakIn
	case KindBreakOut:
		return &d.BreakOut
	case KindOvertimeIn:
		return &d.OvertimeIn
	default:
		return &d.OvertimeOut
	}
}
