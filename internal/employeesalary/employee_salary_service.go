package employeesalary

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeesalaryerrors "go-erp/internal/employeesalary/errors"
	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/reaction"
	"go-erp/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Ledger is used by writers of employees.current_salary that already hold a
// transaction.
type Ledger interface {
	Open(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, amount decimal.Decimal, at time.Time, note string) (SalaryRecord, error)
	ApplyChange(ctx context.Context, tx *sql.Tx, change SalaryChange) (SalaryRecord, error)
}

//go:generate mockgen -source=employee_salary_service.go -destination=mock/employee_salary_service_mock.go -package=mock
type Service interface {
	Ledger
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]SalaryRecordResponse, error)
	GetActive(ctx context.Context, companyID, employeeID string) (SalaryRecordResponse, error)
	ChangeSalary(ctx context.Context, companyID, employeeID string, req ChangeSalaryRequest) (SalaryRecordResponse, error)
	Revert(ctx context.Context, companyID, employeeID string) (SalaryRecordResponse, error)
	CheckConsistency(ctx context.Context, companyID string) ([]ConsistencyIssueResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outbox     kafka.OutboxRepository
	dispatcher reaction.Dispatcher
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	dispatcher reaction.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employeesalary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeesalary.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		outbox:     outboxRepo,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) Open(
	ctx context.Context,
	tx *sql.Tx,
	employeeID uuid.UUID,
	amount decimal.Decimal,
	at time.Time,
	note string,
) (SalaryRecord, error) {
	if !amount.IsPositive() {
		return SalaryRecord{}, employeesalaryerrors.ErrInvalidSalaryAmount
	}

	record := SalaryRecord{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Amount:     amount,
		StartDate:  at,
		Active:     true,
		Note:       note,
	}
	if err := s.repo.WithTx(tx).Create(ctx, &record); err != nil {
		s.logger.Error("open salary record failed",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err),
		)
		return SalaryRecord{}, mapRepositoryError(err)
	}

	return record, nil
}

// ApplyChange closes the active record (if any) and opens a new one for
// change.To, both on tx. It does not touch employees.current_salary.
func (s *service) ApplyChange(ctx context.Context, tx *sql.Tx, change SalaryChange) (SalaryRecord, error) {
	return s.applyChange(ctx, s.repo.WithTx(tx), change)
}

func (s *service) applyChange(ctx context.Context, qtx Repository, change SalaryChange) (SalaryRecord, error) {
	if !change.To.IsPositive() {
		return SalaryRecord{}, employeesalaryerrors.ErrInvalidSalaryAmount
	}
	if change.From.Equal(change.To) {
		return SalaryRecord{}, employeesalaryerrors.ErrSalaryUnchanged
	}

	active, err := qtx.FindActive(ctx, change.EmployeeID)
	switch {
	case err == nil:
		if change.At.Before(active.StartDate) {
			return SalaryRecord{}, employeesalaryerrors.ErrEffectiveDateBeforeActive
		}
		// the partial unique index only allows one open record, close first
		if err := qtx.Close(ctx, active.ID, change.At); err != nil {
			s.logger.Error("close active salary record failed",
				zap.String("record_id", active.ID.String()),
				zap.Error(err),
			)
			return SalaryRecord{}, mapRepositoryError(err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Debug("no active salary record, opening first one",
			zap.String("employee_id", change.EmployeeID.String()),
		)
	default:
		return SalaryRecord{}, mapRepositoryError(err)
	}

	record := SalaryRecord{
		ID:         uuid.New(),
		EmployeeID: change.EmployeeID,
		Amount:     change.To,
		StartDate:  change.At,
		Active:     true,
		Note:       change.Note,
	}
	if err := qtx.Create(ctx, &record); err != nil {
		s.logger.Error("create salary record failed",
			zap.String("employee_id", change.EmployeeID.String()),
			zap.Error(err),
		)
		return SalaryRecord{}, mapRepositoryError(err)
	}

	return record, nil
}

func (s *service) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]SalaryRecordResponse, error) {
	s.logger.Debug("list salary history requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)
	empl, err := s.repo.FindEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, mapEmployeeError(err)
	}

	records, err := s.repo.ListByEmployee(ctx, empl.ID)
	if err != nil {
		s.logger.Error("list salary history failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(records), nil
}

func (s *service) GetActive(ctx context.Context, companyID, employeeID string) (SalaryRecordResponse, error) {
	empl, err := s.repo.FindEmployee(ctx, companyID, employeeID)
	if err != nil {
		return SalaryRecordResponse{}, mapEmployeeError(err)
	}

	record, err := s.repo.FindActive(ctx, empl.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryRecordResponse{}, employeesalaryerrors.ErrNoActiveSalary
		}
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*record), nil
}

func (s *service) ChangeSalary(
	ctx context.Context,
	companyID, employeeID string,
	req ChangeSalaryRequest,
) (SalaryRecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("change salary requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)

	if !req.Amount.IsPositive() {
		return SalaryRecordResponse{}, employeesalaryerrors.ErrInvalidSalaryAmount
	}

	at := s.now()
	if req.EffectiveDate != "" {
		parsed, err := time.Parse(dateLayout, req.EffectiveDate)
		if err != nil {
			return SalaryRecordResponse{}, employeesalaryerrors.ErrInvalidEffectiveDate
		}
		at = parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("change salary begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SalaryRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindEmployee(ctx, companyID, employeeID)
	if err != nil {
		return SalaryRecordResponse{}, mapEmployeeError(err)
	}

	record, err := s.applyChange(ctx, qtx, SalaryChange{
		EmployeeID: empl.ID,
		From:       empl.CurrentSalary,
		To:         req.Amount,
		At:         at,
		Note:       req.Note,
	})
	if err != nil {
		return SalaryRecordResponse{}, err
	}

	if err := qtx.SetCurrentSalary(ctx, empl.ID, req.Amount); err != nil {
		s.logger.Error("change salary update employee failed", zap.Error(err))
		return SalaryRecordResponse{}, mapEmployeeError(err)
	}

	if err := s.queueChanged(ctx, tx, rid, *empl, events.SalaryChangeApplied, empl.CurrentSalary, req.Amount, record.ID); err != nil {
		return SalaryRecordResponse{}, err
	}
	s.dispatch(ctx, tx, rid, *empl)

	if err := tx.Commit(); err != nil {
		s.logger.Error("change salary commit failed", zap.String("request_id", rid), zap.Error(err))
		return SalaryRecordResponse{}, err
	}

	s.logger.Info("change salary success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("from", empl.CurrentSalary.String()),
		zap.String("to", req.Amount.String()),
	)

	return mapToResponse(record), nil
}

// Revert reopens the most recently closed record and closes the active one,
// restoring the employee's current salary to the reopened amount.
func (s *service) Revert(ctx context.Context, companyID, employeeID string) (SalaryRecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("revert salary requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("revert salary begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SalaryRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindEmployee(ctx, companyID, employeeID)
	if err != nil {
		return SalaryRecordResponse{}, mapEmployeeError(err)
	}

	active, err := qtx.FindActive(ctx, empl.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryRecordResponse{}, employeesalaryerrors.ErrNoActiveSalary
		}
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	// looked up before closing, otherwise the active record would be found
	previous, err := qtx.FindPrevious(ctx, *active)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryRecordResponse{}, employeesalaryerrors.ErrNoPreviousSalary
		}
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	end := s.now()
	if end.Before(active.StartDate) {
		end = active.StartDate
	}
	if err := qtx.Close(ctx, active.ID, end); err != nil {
		s.logger.Error("revert salary close active failed", zap.Error(err))
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}
	if err := qtx.Reopen(ctx, previous.ID); err != nil {
		s.logger.Error("revert salary reopen previous failed", zap.Error(err))
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}
	if err := qtx.SetCurrentSalary(ctx, empl.ID, previous.Amount); err != nil {
		s.logger.Error("revert salary update employee failed", zap.Error(err))
		return SalaryRecordResponse{}, mapEmployeeError(err)
	}

	if err := s.queueChanged(ctx, tx, rid, *empl, events.SalaryChangeReverted, active.Amount, previous.Amount, previous.ID); err != nil {
		return SalaryRecordResponse{}, err
	}
	s.dispatch(ctx, tx, rid, *empl)

	if err := tx.Commit(); err != nil {
		s.logger.Error("revert salary commit failed", zap.String("request_id", rid), zap.Error(err))
		return SalaryRecordResponse{}, err
	}

	previous.Active = true
	previous.EndDate = nil
	s.logger.Info("revert salary success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("restored", previous.Amount.String()),
	)

	return mapToResponse(*previous), nil
}

func (s *service) CheckConsistency(ctx context.Context, companyID string) ([]ConsistencyIssueResponse, error) {
	issues, err := s.repo.FindInconsistent(ctx, companyID)
	if err != nil {
		s.logger.Error("salary consistency check failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	if len(issues) > 0 {
		s.logger.Warn("salary ledger inconsistencies found",
			zap.String("company_id", companyID),
			zap.Int("count", len(issues)),
		)
	}

	res := make([]ConsistencyIssueResponse, len(issues))
	for i, issue := range issues {
		res[i] = ConsistencyIssueResponse{
			EmployeeID:    issue.EmployeeID,
			FullName:      issue.FullName,
			CurrentSalary: issue.CurrentSalary.StringFixed(2),
			ActiveRecords: issue.ActiveRecords,
			ActiveAmount:  issue.ActiveAmount.StringFixed(2),
		}
	}
	return res, nil
}

func (s *service) queueChanged(
	ctx context.Context,
	tx *sql.Tx,
	rid string,
	empl EmployeeSalary,
	change string,
	from, to decimal.Decimal,
	recordID uuid.UUID,
) error {
	if s.outbox == nil {
		return nil
	}

	event := events.EmployeeSalaryChangedEvent{
		EventType:  "employee_salary_changed",
		RequestID:  rid,
		EmployeeID: empl.ID.String(),
		CompanyID:  empl.CompanyID.String(),
		Change:     change,
		OldAmount:  from.StringFixed(2),
		NewAmount:  to.StringFixed(2),
		RecordID:   recordID.String(),
		OccurredAt: s.now(),
	}
	row, err := kafka.NewOutboxEvent(rid, "employee", event.EmployeeID, event.EventType, events.EmployeeSalaryTopic, event)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, row); err != nil {
		s.logger.Error("salary outbox persist failed",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) dispatch(ctx context.Context, tx *sql.Tx, rid string, empl EmployeeSalary) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Dispatch(ctx, tx, reaction.Event{
		Entity:     reaction.EntityEmployee,
		ID:         empl.ID,
		CompanyID:  empl.CompanyID,
		RequestID:  rid,
		OccurredAt: s.now(),
	})
}

func mapToResponse(record SalaryRecord) SalaryRecordResponse {
	resp := SalaryRecordResponse{
		ID:         record.ID.String(),
		EmployeeID: record.EmployeeID.String(),
		Amount:     record.Amount.StringFixed(2),
		StartDate:  record.StartDate.Format(dateLayout),
		Active:     record.Active,
		Note:       record.Note,
		CreatedAt:  record.CreatedAt.Format(time.RFC3339),
	}
	if record.EndDate != nil {
		end := record.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	return resp
}

func mapToListResponse(records []SalaryRecord) []SalaryRecordResponse {
	res := make([]SalaryRecordResponse, len(records))
	for i, record := range records {
		res[i] = mapToResponse(record)
	}
	return res
}
