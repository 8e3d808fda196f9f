package attendance

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertEvent(ctx context.Context, rec *DayRecord, kind EventKind) error
	MergeBackfill(ctx context.Context, rec *DayRecord) error
	FindRange(ctx context.Context, employeeID int64, from, to time.Time) ([]DayRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// UpsertEvent writes one punch with last-write-wins semantics in a single
// conditional statement: concurrent calls for the same (employee, date)
// serialize at the database, never here. The target column comes from the
// closed eventColumns map, not from client input.
func (r *repository) UpsertEvent(ctx context.Context, rec *DayRecord, kind EventKind) error {
	col := kind.column()
	value := *rec.field(kind)

	query := fmt.Sprintf(`
		INSERT INTO day_records
			(employee_id, schedule_date, %[1]s, latitude, longitude, address, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, now(), now())
		ON CONFLICT (employee_id, schedule_date) DO UPDATE SET
			%[1]s = EXCLUDED.%[1]s,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			address = EXCLUDED.address,
			notes = EXCLUDED.notes,
			updated_at = now()
	`, col)

	return r.db.WithContext(ctx).Exec(
		query,
		rec.EmployeeID, rec.ScheduleDate.Format("2006-01-02"), value,
		rec.Latitude, rec.Longitude, rec.Address, rec.Notes,
	).Error
}

// MergeBackfill applies COALESCE semantics: a stored non-null field always
// wins over the incoming value, so offline sync only fills gaps and never
// erases or overwrites a recorded punch.
func (r *repository) MergeBackfill(ctx context.Context, rec *DayRecord) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO day_records
			(employee_id, schedule_date, time_in, time_out, break_in, break_out,
			 overtime_in, overtime_out, latitude, longitude, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, now(), now())
		ON CONFLICT (employee_id, schedule_date) DO UPDATE SET
			time_in      = COALESCE(day_records.time_in, EXCLUDED.time_in),
			time_out     = COALESCE(day_records.time_out, EXCLUDED.time_out),
			break_in     = COALESCE(day_records.break_in, EXCLUDED.break_in),
			break_out    = COALESCE(day_records.break_out, EXCLUDED.break_out),
			overtime_in  = COALESCE(day_records.overtime_in, EXCLUDED.overtime_in),
			overtime_out = COALESCE(day_records.overtime_out, EXCLUDED.overtime_out),
			latitude     = COALESCE(day_records.latitude, EXCLUDED.latitude),
			longitude    = COALESCE(day_records.longitude, EXCLUDED.longitude),
			address      = COALESCE(day_records.address, EXCLUDED.address),
			updated_at   = now()
	`,
		rec.EmployeeID, rec.ScheduleDate.Format("2006-01-02"),
		rec.TimeIn, rec.TimeOut, rec.BreakIn, rec.BreakOut,
		rec.OvertimeIn, rec.OvertimeOut,
		rec.Latitude, rec.Longitude, rec.Address,
	).Error
}

func (r *repository) FindRange(ctx context.Context, employeeID int64, from, to time.Time) ([]DayRecord, error) {
	var rows []DayRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("schedule_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("schedule_date DESC").
		Find(&rows).Error
	return rows, err
}
