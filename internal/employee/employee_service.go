package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	employeeerrors "github.com/dilinamewan/Employee-Directory/internal/employee/errors"
	"github.com/dilinamewan/Employee-Directory/internal/events"
	"github.com/dilinamewan/Employee-Directory/internal/messaging/kafka"
	"github.com/dilinamewan/Employee-Directory/internal/shared/apperror"
	"github.com/dilinamewan/Employee-Directory/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, q ListEmployeesQuery) (EmployeeListResponse, error)
	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Replace(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		logger: l,
		now:    time.Now,
	}
}

func (s *service) List(ctx context.Context, q ListEmployeesQuery) (EmployeeListResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	q = q.Normalize()

	total, err := s.repo.Count(ctx, q.Search)
	if err != nil {
		log.Error("count employees failed", zap.String("search", q.Search), zap.Error(err))
		return EmployeeListResponse{}, err
	}

	page := Paginate(q.Page, q.PageSize, total)
	resp := EmployeeListResponse{
		Items:      []EmployeeResponse{},
		Pagination: page,
	}
	if total == 0 {
		return resp, nil
	}

	empls, err := s.repo.List(ctx, q.Search, page.Offset(), page.PageSize)
	if err != nil {
		log.Error("list employees failed",
			zap.String("search", q.Search),
			zap.Int("page", page.CurrentPage),
			zap.Error(err),
		)
		return EmployeeListResponse{}, err
	}

	now := s.now()
	for _, e := range empls {
		resp.Items = append(resp.Items, mapToResponse(e, now))
	}

	log.Debug("list employees",
		zap.String("search", q.Search),
		zap.Int("page", page.CurrentPage),
		zap.Int64("total", total),
		zap.Int("returned", len(resp.Items)),
	)
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeResponse, error) {
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		mapped := mapRepositoryError(err)
		if mapped != employeeerrors.ErrEmployeeNotFound {
			contextutil.GetLogger(ctx, s.logger).Error("get employee failed", zap.Int64("employee_id", id), zap.Error(err))
		}
		return EmployeeResponse{}, mapped
	}
	return mapToResponse(*empl, s.now()), nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if errs := ValidateEmployee(req); len(errs) > 0 {
		return EmployeeResponse{}, apperror.NewValidation(errs)
	}
	empl := fromRequest(req)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			log.Error("create employee persist failed", zap.Error(err))
		}
		return EmployeeResponse{}, mapped
	}

	if err := s.enqueue(ctx, tx, events.EmployeeCreated, empl); err != nil {
		log.Error("create employee outbox persist failed", zap.Int64("employee_id", empl.ID), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	log.Info("employee created", zap.Int64("employee_id", empl.ID))
	return mapToResponse(*empl, s.now()), nil
}

// Replace overwrites every field of the record if req.Version still matches
// the stored version.
func (s *service) Replace(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(zap.Int64("employee_id", id))

	if errs := ValidateUpdate(req); len(errs) > 0 {
		return EmployeeResponse{}, apperror.NewValidation(errs)
	}
	empl := fromRequest(req.CreateEmployeeRequest)
	empl.ID = id

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("replace employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ok, err := qtx.Update(ctx, empl, req.Version)
	if err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			log.Error("replace employee persist failed", zap.Error(err))
		}
		return EmployeeResponse{}, mapped
	}
	if !ok {
		exists, err := qtx.Exists(ctx, id)
		if err != nil {
			log.Error("replace employee existence check failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		if !exists {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		log.Warn("replace employee version conflict", zap.Int64("expected_version", req.Version))
		return EmployeeResponse{}, employeeerrors.ErrEmployeeVersionConflict
	}

	stored, err := qtx.FindByID(ctx, id)
	if err != nil {
		log.Error("replace employee reload failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, events.EmployeeUpdated, stored); err != nil {
		log.Error("replace employee outbox persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("replace employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	log.Info("employee replaced", zap.Int64("version", stored.Version))
	return mapToResponse(*stored, s.now()), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	log := contextutil.GetLogger(ctx, s.logger).With(zap.Int64("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).Delete(ctx, id)
	if err != nil {
		log.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if !ok {
		return employeeerrors.ErrEmployeeNotFound
	}

	if err := s.enqueue(ctx, tx, events.EmployeeDeleted, &Employee{ID: id}); err != nil {
		log.Error("delete employee outbox persist failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	log.Info("employee deleted")
	return nil
}

// enqueue records a lifecycle event in the outbox within tx.
func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, empl *Employee) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	payload, err := json.Marshal(events.EmployeeLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		EmployeeID: empl.ID,
		Email:      empl.Email,
		Version:    empl.Version,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   strconv.FormatInt(empl.ID, 10),
		EventType:     eventType,
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// fromRequest assumes req already passed validation.
func fromRequest(req CreateEmployeeRequest) *Employee {
	hireDate, _ := time.Parse(hireDateLayout, req.HireDate)
	return &Employee{
		FullName:   req.FullName,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
		Phone:      req.Phone,
		HireDate:   hireDate,
		Version:    1,
	}
}

func mapToResponse(empl Employee, now time.Time) EmployeeResponse {
	return EmployeeResponse{
		ID:             empl.ID,
		FullName:       empl.FullName,
		Email:          empl.Email,
		Position:       empl.Position,
		Department:     empl.Department,
		Phone:          empl.Phone,
		HireDate:       empl.HireDate.Format(hireDateLayout),
		YearsOfService: empl.YearsOfService(now),
		Version:        empl.Version,
	}
}
