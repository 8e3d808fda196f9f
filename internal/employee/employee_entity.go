package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeNumber string     `gorm:"column:employee_number;type:varchar(50);not null;uniqueIndex:uq_employee_number"`
	FirstName      string     `gorm:"column:first_name;type:varchar(100);not null"`
	LastName       string     `gorm:"column:last_name;type:varchar(100);not null"`
	PublicID       *uuid.UUID `gorm:"column:public_id;type:uuid;uniqueIndex:uq_employee_public_id"`
	Position       string     `gorm:"column:position;type:varchar(100)"`
	ScheduleGroup  string     `gorm:"column:schedule_group;type:varchar(50)"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// SplitName applies the display-name convention used by offline sync
// payloads: first token is the first name, the remainder is the last name.
// Lossy for multi-word first names; stable identifiers are preferred.
func SplitName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
