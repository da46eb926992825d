package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	employeeerrors "go-erp/internal/employee/errors"
	"go-erp/internal/employeesalary"
	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/reaction"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

const dateLayout = "2006-01-02"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	counter    counter.Repository
	ledger     employeesalary.Ledger
	outbox     kafka.OutboxRepository
	dispatcher reaction.Dispatcher
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	ledger employeesalary.Ledger,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, counter, ledger, nil, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	ledger employeesalary.Ledger,
	outboxRepo kafka.OutboxRepository,
	dispatcher reaction.Dispatcher,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		counter:    counter,
		ledger:     ledger,
		outbox:     outboxRepo,
		dispatcher: dispatcher,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	companyUUID, err := apperror.ParseCompanyID(companyID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	hireDate, err := time.Parse(dateLayout, req.HireDate)
	if err != nil {
		s.logger.Warn("create employee invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}
	if req.CurrentSalary.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeSalary
	}
	if req.Status == "" {
		req.Status = StatusActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.Code == "" {
		code, err := counter.Next(ctx, s.counter.WithTx(tx), companyID, counter.EmployeeCode, "EMP")
		if err != nil {
			s.logger.Error("create employee generate code failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.Code = code
	}

	empl := &Employee{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		Code:          req.Code,
		FullName:      req.FullName,
		Email:         req.Email,
		Status:        req.Status,
		CurrentSalary: req.CurrentSalary,
		HireDate:      hireDate,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if empl.CurrentSalary.IsPositive() {
		if _, err := s.ledger.Open(ctx, tx, empl.ID, empl.CurrentSalary, hireDate, "initial salary"); err != nil {
			s.logger.Error("create employee open salary record failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	created := events.EmployeeCreatedEvent{
		EventType:     "employee_created",
		RequestID:     rid,
		EmployeeID:    empl.ID.String(),
		CompanyID:     companyID,
		EmployeeCode:  empl.Code,
		InitialSalary: empl.CurrentSalary.StringFixed(2),
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.queueEvent(ctx, tx, rid, empl.ID, created.EventType, events.EmployeeLifecycleTopic, created); err != nil {
		return EmployeeResponse{}, err
	}

	s.dispatch(ctx, tx, rid, empl, true)

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("code", empl.Code),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	empls, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// concurrent misses for the same company share one query
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeResponse, len(empls))
		for i, e := range empls {
			resp[i] = EmployeeResponse{
				ID:        e.ID.String(),
				CompanyID: e.CompanyID.String(),
				Code:      e.Code,
				FullName:  e.FullName,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

// Update saves the employee. A different current salary is recorded in the
// salary ledger on the same transaction.
func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	hireDate, err := time.Parse(dateLayout, req.HireDate)
	if err != nil {
		s.logger.Warn("update employee invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}
	if req.CurrentSalary.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeSalary
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	occurredAt := time.Now().UTC()
	var salaryChanged *events.EmployeeSalaryChangedEvent
	if !empl.CurrentSalary.Equal(req.CurrentSalary) {
		record, err := s.ledger.ApplyChange(ctx, tx, employeesalary.SalaryChange{
			EmployeeID: empl.ID,
			From:       empl.CurrentSalary,
			To:         req.CurrentSalary,
			At:         occurredAt,
			Note:       "updated with employee record",
		})
		if err != nil {
			s.logger.Warn("update employee salary change rejected",
				zap.String("employee_id", id),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
		salaryChanged = &events.EmployeeSalaryChangedEvent{
			EventType:  "employee_salary_changed",
			RequestID:  rid,
			EmployeeID: empl.ID.String(),
			CompanyID:  empl.CompanyID.String(),
			Change:     events.SalaryChangeApplied,
			OldAmount:  empl.CurrentSalary.StringFixed(2),
			NewAmount:  req.CurrentSalary.StringFixed(2),
			RecordID:   record.ID.String(),
			OccurredAt: occurredAt,
		}
		s.logger.Info("employee salary changed",
			zap.String("request_id", rid),
			zap.String("employee_id", id),
			zap.String("from", empl.CurrentSalary.String()),
			zap.String("to", req.CurrentSalary.String()),
		)
	}

	empl.FullName = req.FullName
	empl.Email = req.Email
	if req.Code != "" {
		empl.Code = req.Code
	}
	empl.Status = req.Status
	empl.CurrentSalary = req.CurrentSalary
	empl.HireDate = hireDate

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	updated := events.EmployeeUpdatedEvent{
		EventType:    "employee_updated",
		RequestID:    rid,
		EmployeeID:   empl.ID.String(),
		CompanyID:    empl.CompanyID.String(),
		EmployeeCode: empl.Code,
		Status:       empl.Status,
		Salary:       empl.CurrentSalary.StringFixed(2),
		OccurredAt:   occurredAt,
	}
	if err := s.queueEvent(ctx, tx, rid, empl.ID, updated.EventType, events.EmployeeLifecycleTopic, updated); err != nil {
		return EmployeeResponse{}, err
	}
	if salaryChanged != nil {
		if err := s.queueEvent(ctx, tx, rid, empl.ID, salaryChanged.EventType, events.EmployeeSalaryTopic, *salaryChanged); err != nil {
			return EmployeeResponse{}, err
		}
	}

	s.dispatch(ctx, tx, rid, empl, false)

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)

	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

// queueEvent writes an outbox row on tx. It is a no-op without an outbox.
func (s *service) queueEvent(
	ctx context.Context,
	tx *sql.Tx,
	rid string,
	employeeID uuid.UUID,
	eventType, topic string,
	payload any,
) error {
	if s.outbox == nil {
		return nil
	}

	row, err := kafka.NewOutboxEvent(rid, "employee", employeeID.String(), eventType, topic, payload)
	if err != nil {
		s.logger.Error("marshal event failed",
			zap.String("request_id", rid),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, row); err != nil {
		s.logger.Error("employee outbox persist failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	s.logger.Debug("delete employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, companyID)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) dispatch(ctx context.Context, tx *sql.Tx, rid string, empl *Employee, created bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Dispatch(ctx, tx, reaction.Event{
		Entity:     reaction.EntityEmployee,
		ID:         empl.ID,
		CompanyID:  empl.CompanyID,
		Created:    created,
		RequestID:  rid,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            empl.ID.String(),
		CompanyID:     empl.CompanyID.String(),
		Code:          empl.Code,
		FullName:      empl.FullName,
		Email:         empl.Email,
		Status:        empl.Status,
		CurrentSalary: empl.CurrentSalary.StringFixed(2),
		HireDate:      empl.HireDate.Format(dateLayout),
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
