package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"timekeep/internal/events"
	"timekeep/internal/messaging/kafka"
	"timekeep/internal/shared/contextutil"
	"timekeep/internal/shared/counter"

	employeeerrors "timekeep/internal/employee/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)

	Resolver
}

// Resolver is the identity-resolution contract used by the attendance and
// face modules. Exactly one strategy applies per call site.
type Resolver interface {
	ResolveByNumber(ctx context.Context, number string) (*Employee, error)
	ResolveByPublicID(ctx context.Context, publicID string) (*Employee, error)
	ResolveByName(ctx context.Context, displayName string) (*Employee, error)
	EnsurePublicID(ctx context.Context, e *Employee) (uuid.UUID, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, counter counter.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create employee requested",
		zap.String("employee_number", req.EmployeeNumber),
	)

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			log.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	empl := &Employee{
		EmployeeNumber: req.EmployeeNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Position:       req.Position,
		ScheduleGroup:  req.ScheduleGroup,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if err := qtx.Create(ctx, empl); err != nil {
			return mapRepositoryError(err)
		}

		if s.outbox == nil {
			return nil
		}

		event := events.EmployeeCreatedEvent{
			EventType:      "employee_created",
			RequestID:      rid,
			EmployeeNumber: empl.EmployeeNumber,
			OccurredAt:     time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.EmployeeNumber,
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
	})
	if err != nil {
		log.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	log.Info("create employee success",
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res, nil
}

func (s *service) ResolveByNumber(ctx context.Context, number string) (*Employee, error) {
	empl, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return empl, nil
}

func (s *service) ResolveByPublicID(ctx context.Context, publicID string) (*Employee, error) {
	pid, err := uuid.Parse(publicID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidPublicID
	}
	empl, err := s.repo.FindByPublicID(ctx, pid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return empl, nil
}

// ResolveByName splits the display name on the first token and requires an
// exact, case-sensitive match. Zero or more than one hit is NotFound: the
// caller cannot safely guess which record was meant.
func (s *service) ResolveByName(ctx context.Context, displayName string) (*Employee, error) {
	first, last := SplitName(displayName)
	if first == "" {
		return nil, employeeerrors.ErrEmployeeNotFound
	}

	matches, err := s.repo.FindByName(ctx, first, last)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapRepositoryError(err)
	}
	switch len(matches) {
	case 0:
		return nil, employeeerrors.ErrEmployeeNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, employeeerrors.ErrAmbiguousName
	}
}

// EnsurePublicID returns the employee's stable public identifier, assigning
// one atomically on first use. Once assigned it never changes.
func (s *service) EnsurePublicID(ctx context.Context, e *Employee) (uuid.UUID, error) {
	if e.PublicID != nil {
		return *e.PublicID, nil
	}

	stored, err := s.repo.EnsurePublicID(ctx, e.ID, uuid.New())
	if err != nil {
		return uuid.Nil, mapRepositoryError(err)
	}
	e.PublicID = &stored
	return stored, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Position:       e.Position,
		ScheduleGroup:  e.ScheduleGroup,
		CreatedAt:      e.CreatedAt.Format("2006-01-02"),
	}
	if e.PublicID != nil {
		resp.PublicID = e.PublicID.String()
	}
	return resp
}
