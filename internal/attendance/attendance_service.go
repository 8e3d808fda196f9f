package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"timekeep/internal/employee"
	"timekeep/internal/events"
	"timekeep/internal/messaging/kafka"
	"timekeep/internal/shared/contextutil"

	attendanceerrors "timekeep/internal/attendance/errors"
	employeeerrors "timekeep/internal/employee/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	RecordEvent(ctx context.Context, req RecordEventRequest) (RecordEventResponse, error)
	SyncBatch(ctx context.Context, req SyncBatchRequest) (SyncBatchResponse, error)
	GetHistory(ctx context.Context, employeeNumber, from, to string) ([]DayRecordResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	directory employee.Resolver
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, directory employee.Resolver, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, directory, nil, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	directory employee.Resolver,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directory,
		outbox:    outboxRepo,
		logger:    l,
	}
}

// Schedule dates are always the UTC calendar date of the event's own
// timestamp. Server-local "today" is never used: an offline punch replayed
// after midnight must still land on the day it happened.
func scheduleDateOf(t time.Time) (time.Time, string) {
	u := t.UTC()
	date := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return date, u.Format("15:04:05")
}

func (s *service) RecordEvent(ctx context.Context, req RecordEventRequest) (RecordEventResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	kind := EventKind(req.EventKind)
	if !kind.Valid() {
		return RecordEventResponse{}, attendanceerrors.ErrInvalidEventKind
	}

	empl, err := s.resolveEmployee(ctx, req)
	if err != nil {
		return RecordEventResponse{}, err
	}

	occurred := time.Now().UTC()
	if req.OccurredAt != "" {
		occurred, err = time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			return RecordEventResponse{}, attendanceerrors.ErrInvalidTimestamp
		}
	}
	scheduleDate, timeOfDay := scheduleDateOf(occurred)

	rec := &DayRecord{
		EmployeeID:   empl.ID,
		ScheduleDate: scheduleDate,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		Notes:        req.Notes,
	}
	*rec.field(kind) = &timeOfDay

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpsertEvent(ctx, rec, kind); err != nil {
			return mapRepositoryError(err)
		}
		if s.outbox == nil {
			return nil
		}
		return s.queueRecordedEvent(ctx, tx, rid, empl.EmployeeNumber, scheduleDate, kind, timeOfDay)
	})
	if err != nil {
		log.Error("record event failed",
			zap.String("employee_number", empl.EmployeeNumber),
			zap.String("event_kind", string(kind)),
			zap.Error(err),
		)
		return RecordEventResponse{}, err
	}

	log.Info("event recorded",
		zap.String("employee_number", empl.EmployeeNumber),
		zap.String("event_kind", string(kind)),
		zap.String("schedule_date", scheduleDate.Format("2006-01-02")),
	)

	return RecordEventResponse{
		EmployeeNumber: empl.EmployeeNumber,
		ScheduleDate:   scheduleDate.Format("2006-01-02"),
		EventKind:      string(kind),
		RecordedTime:   timeOfDay,
	}, nil
}

func (s *service) resolveEmployee(ctx context.Context, req RecordEventRequest) (*employee.Employee, error) {
	switch {
	case req.EmployeeNumber != "":
		return s.directory.ResolveByNumber(ctx, req.EmployeeNumber)
	case req.EmployeePublicID != "":
		return s.directory.ResolveByPublicID(ctx, req.EmployeePublicID)
	default:
		return nil, attendanceerrors.ErrMissingEmployeeRef
	}
}

func (s *service) queueRecordedEvent(
	ctx context.Context,
	tx *gorm.DB,
	rid, employeeNumber string,
	scheduleDate time.Time,
	kind EventKind,
	timeOfDay string,
) error {
	event := events.AttendanceRecordedEvent{
		EventType:      "attendance_event_recorded",
		RequestID:      rid,
		EmployeeNumber: employeeNumber,
		ScheduleDate:   scheduleDate.Format("2006-01-02"),
		Kind:           string(kind),
		RecordedTime:   timeOfDay,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance",
		AggregateID:   fmt.Sprintf("%s:%s", employeeNumber, event.ScheduleDate),
		EventType:     event.EventType,
		Topic:         events.AttendanceRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// SyncBatch reconciles offline records inside one transaction: every merge
// commits or none does. Records that cannot be attributed to an employee are
// skipped and reported, never failed.
func (s *service) SyncBatch(ctx context.Context, req SyncBatchRequest) (SyncBatchResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if len(req.Records) == 0 {
		return SyncBatchResponse{}, attendanceerrors.ErrInvalidBatch
	}

	// Reject malformed timestamps up front so a parse failure cannot abort
	// the batch halfway through.
	parsed := make([]map[EventKind]time.Time, len(req.Records))
	for i, rec := range req.Records {
		times, err := parseRecordTimes(rec)
		if err != nil {
			return SyncBatchResponse{}, err
		}
		parsed[i] = times
	}

	resp := SyncBatchResponse{Results: make([]SyncRecordResult, len(req.Records))}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		for i, rec := range req.Records {
			result := s.applyRecord(ctx, qtx, rec, parsed[i])
			result.Index = i
			resp.Results[i] = result

			switch result.Status {
			case SyncStatusAccepted:
				resp.Accepted++
			case SyncStatusSkipped:
				resp.Skipped++
				log.Warn("sync record skipped",
					zap.Int("index", i),
					zap.String("reason", result.Reason),
				)
			default:
				// Datastore failure: abort and roll back the whole batch
				return errors.New(result.Reason)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("sync batch failed", zap.Error(err))
		return SyncBatchResponse{}, err
	}

	log.Info("sync batch applied",
		zap.Int("accepted", resp.Accepted),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

func (s *service) applyRecord(
	ctx context.Context,
	qtx Repository,
	rec SyncRecord,
	times map[EventKind]time.Time,
) SyncRecordResult {
	if rec.Name == "" {
		return SyncRecordResult{Status: SyncStatusSkipped, Reason: "missing person name"}
	}
	if len(times) == 0 {
		return SyncRecordResult{Status: SyncStatusSkipped, Reason: "no event timestamps"}
	}

	empl, err := s.directory.ResolveByName(ctx, rec.Name)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) || errors.Is(err, employeeerrors.ErrAmbiguousName) {
			return SyncRecordResult{Status: SyncStatusSkipped, Reason: "unresolvable name: " + rec.Name}
		}
		return SyncRecordResult{Status: "failed", Reason: err.Error()}
	}

	// Schedule date comes from the earliest punch in the record, so a day
	// whose first present timestamp crosses midnight still lands where the
	// shift started.
	var earliest time.Time
	for _, ts := range times {
		if earliest.IsZero() || ts.Before(earliest) {
			earliest = ts
		}
	}
	scheduleDate, _ := scheduleDateOf(earliest)

	row := &DayRecord{
		EmployeeID:   empl.ID,
		ScheduleDate: scheduleDate,
		Latitude:     rec.Latitude,
		Longitude:    rec.Longitude,
		Address:      rec.Address,
	}
	for _, k := range Kinds {
		if ts, ok := times[k]; ok {
			_, tod := scheduleDateOf(ts)
			v := tod
			*row.field(k) = &v
		}
	}

	if err := qtx.MergeBackfill(ctx, row); err != nil {
		return SyncRecordResult{Status: "failed", Reason: err.Error()}
	}
	return SyncRecordResult{Status: SyncStatusAccepted}
}

func parseRecordTimes(rec SyncRecord) (map[EventKind]time.Time, error) {
	raw := map[EventKind]*string{
		KindTimeIn:      rec.TimeIn,
		KindTimeOut:     rec.TimeOut,
		KindBreakIn:     rec.BreakIn,
		KindBreakOut:    rec.BreakOut,
		KindOvertimeIn:  rec.OvertimeIn,
		KindOvertimeOut: rec.OvertimeOut,
	}

	times := make(map[EventKind]time.Time)
	for k, v := range raw {
		if v == nil || *v == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, *v)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidTimestamp
		}
		times[k] = ts
	}
	return times, nil
}

func (s *service) GetHistory(ctx context.Context, employeeNumber, from, to string) ([]DayRecordResponse, error) {
	empl, err := s.directory.ResolveByNumber(ctx, employeeNumber)
	if err != nil {
		return nil, err
	}

	toDate := time.Now().UTC()
	if to != "" {
		toDate, err = time.Parse("2006-01-02", to)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidTimestamp
		}
	}
	fromDate := toDate.AddDate(0, -1, 0)
	if from != "" {
		fromDate, err = time.Parse("2006-01-02", from)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidTimestamp
		}
	}

	rows, err := s.repo.FindRange(ctx, empl.ID, fromDate, toDate)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]DayRecordResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(r DayRecord) DayRecordResponse {
	return DayRecordResponse{
		EmployeeID:   r.EmployeeID,
		ScheduleDate: r.ScheduleDate.Format("2006-01-02"),
		TimeIn:       r.TimeIn,
		TimeOut:      r.TimeOut,
		BreakIn:      r.BreakIn,
		BreakOut:     r.BreakOut,
		OvertimeIn:   r.OvertimeIn,
		OvertimeOut:  r.OvertimeOut,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Address:      r.Address,
		Notes:        r.Notes,
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}
