package evaluation

import (
	"context"
	"database/sql"
	"strings"
	"time"

	evaluationerrors "go-erp/internal/evaluation/errors"
	"go-erp/internal/reaction"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=evaluation_service.go -destination=mock/evaluation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEvaluationRequest) (EvaluationResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EvaluationResponse, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]EvaluationResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEvaluationRequest) (EvaluationResponse, error)
	Cancel(ctx context.Context, companyID, id string) (EvaluationResponse, error)
	AddCriterion(ctx context.Context, companyID, id string, req CriterionRequest) (EvaluationResponse, error)
	ScoreCriterion(ctx context.Context, companyID, id, criterionID string, req ScoreCriterionRequest) (EvaluationResponse, error)
	RefreshAll(ctx context.Context, companyID string) (RefreshSummary, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	dispatcher reaction.Dispatcher
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, dispatcher reaction.Dispatcher, logger ...*zap.Logger) Service {
	l := zap.L().Named("evaluation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("evaluation.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEvaluationRequest) (EvaluationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create evaluation requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, err := apperror.ParseCompanyID(companyID)
	if err != nil {
		return EvaluationResponse{}, err
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EvaluationResponse{}, evaluationerrors.ErrEmployeeNotFound
	}
	evaluatorID, err := uuid.Parse(req.EvaluatorID)
	if err != nil {
		return EvaluationResponse{}, evaluationerrors.ErrEmployeeNotFound
	}
	start, end, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return EvaluationResponse{}, err
	}

	kind := KindAnnual
	if req.Kind != "" {
		kind = Kind(req.Kind)
	}

	ev := Evaluation{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		EmployeeID:  employeeID,
		EvaluatorID: evaluatorID,
		Kind:        kind,
		Status:      StatusPending,
		PeriodStart: start,
		PeriodEnd:   end,
		Notes:       strings.TrimSpace(req.Notes),
	}
	for _, c := range req.Criteria {
		criterion, err := newCriterion(ev.ID, c)
		if err != nil {
			return EvaluationResponse{}, err
		}
		ev.Criteria = append(ev.Criteria, criterion)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create evaluation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	for _, id := range []string{req.EmployeeID, req.EvaluatorID} {
		exists, err := qtx.EmployeeExists(ctx, companyID, id)
		if err != nil {
			return EvaluationResponse{}, mapRepositoryError(err)
		}
		if !exists {
			return EvaluationResponse{}, evaluationerrors.ErrEmployeeNotFound
		}
	}

	if err := qtx.Create(ctx, &ev); err != nil {
		s.logger.Error("create evaluation failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	s.dispatch(ctx, tx, rid, reaction.EntityEvaluation, ev.ID, ev.CompanyID, true)

	resp, err := s.reload(ctx, qtx, ev.ID)
	if err != nil {
		return EvaluationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create evaluation commit failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}

	s.logger.Info("create evaluation success",
		zap.String("request_id", rid),
		zap.String("evaluation_id", ev.ID.String()),
		zap.Int("criteria", len(ev.Criteria)),
	)
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EvaluationResponse, error) {
	ev, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*ev), nil
}

func (s *service) List(ctx context.Context, companyID string, filter ListFilter) ([]EvaluationResponse, error) {
	evs, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list evaluations failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]EvaluationResponse, len(evs))
	for i, ev := range evs {
		res[i] = mapToResponse(ev)
	}
	return res, nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEvaluationRequest) (EvaluationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	start, end, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return EvaluationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update evaluation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ev, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	ev.Kind = Kind(req.Kind)
	ev.PeriodStart = start
	ev.PeriodEnd = end
	ev.Notes = strings.TrimSpace(req.Notes)
	if err := qtx.Update(ctx, ev); err != nil {
		s.logger.Error("update evaluation failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	s.dispatch(ctx, tx, rid, reaction.EntityEvaluation, ev.ID, ev.CompanyID, false)

	resp, err := s.reload(ctx, qtx, ev.ID)
	if err != nil {
		return EvaluationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update evaluation commit failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}

	s.logger.Info("update evaluation success",
		zap.String("request_id", rid),
		zap.String("evaluation_id", id),
	)
	return resp, nil
}

// Cancel is the only way into StatusCancelled. Cancelling twice is a no-op.
func (s *service) Cancel(ctx context.Context, companyID, id string) (EvaluationResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel evaluation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ev, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}
	if ev.Status == StatusCancelled {
		return mapToResponse(*ev), nil
	}

	if err := qtx.SetStatus(ctx, ev.ID, StatusCancelled); err != nil {
		s.logger.Error("cancel evaluation failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	s.dispatch(ctx, tx, rid, reaction.EntityEvaluation, ev.ID, ev.CompanyID, false)

	resp, err := s.reload(ctx, qtx, ev.ID)
	if err != nil {
		return EvaluationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel evaluation commit failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}

	s.logger.Info("cancel evaluation success",
		zap.String("request_id", rid),
		zap.String("evaluation_id", id),
		zap.String("previous_status", string(ev.Status)),
	)
	return resp, nil
}

func (s *service) AddCriterion(ctx context.Context, companyID, id string, req CriterionRequest) (EvaluationResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add criterion begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ev, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	criterion, err := newCriterion(ev.ID, req)
	if err != nil {
		return EvaluationResponse{}, err
	}
	if err := qtx.CreateCriterion(ctx, &criterion); err != nil {
		s.logger.Error("add criterion failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	s.dispatch(ctx, tx, rid, reaction.EntityEvaluationCriterion, criterion.ID, ev.CompanyID, true)

	resp, err := s.reload(ctx, qtx, ev.ID)
	if err != nil {
		return EvaluationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add criterion commit failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	return resp, nil
}

// ScoreCriterion is allowed on any evaluation; a cancelled one keeps its
// status.
func (s *service) ScoreCriterion(
	ctx context.Context,
	companyID, id, criterionID string,
	req ScoreCriterionRequest,
) (EvaluationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if req.Score.Valid && !validScore(req.Score.Decimal) {
		return EvaluationResponse{}, evaluationerrors.ErrInvalidScore
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("score criterion begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ev, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	criterion, err := qtx.FindCriterion(ctx, ev.ID, criterionID)
	if err != nil {
		return EvaluationResponse{}, mapCriterionError(err)
	}

	criterion.Score = req.Score
	criterion.Notes = strings.TrimSpace(req.Notes)
	if err := qtx.UpdateCriterion(ctx, criterion); err != nil {
		s.logger.Error("score criterion failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, mapCriterionError(err)
	}

	s.dispatch(ctx, tx, rid, reaction.EntityEvaluationCriterion, criterion.ID, ev.CompanyID, false)

	resp, err := s.reload(ctx, qtx, ev.ID)
	if err != nil {
		return EvaluationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("score criterion commit failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}

	s.logger.Info("score criterion success",
		zap.String("request_id", rid),
		zap.String("evaluation_id", id),
		zap.String("criterion_id", criterionID),
		zap.String("status", resp.Status),
	)
	return resp, nil
}

// RefreshAll re-runs the evaluation reactions for every non-cancelled
// evaluation of companyID, or of all companies when companyID is empty.
func (s *service) RefreshAll(ctx context.Context, companyID string) (RefreshSummary, error) {
	var summary RefreshSummary
	if s.dispatcher == nil {
		return summary, nil
	}

	ids, err := s.repo.ListIDs(ctx, companyID)
	if err != nil {
		s.logger.Error("refresh evaluations list failed", zap.Error(err))
		return summary, mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, err
	}
	defer tx.Rollback()

	for _, id := range ids {
		summary.Scanned++
		results := s.dispatcher.Dispatch(ctx, tx, reaction.Event{
			Entity:     reaction.EntityEvaluation,
			ID:         id,
			RequestID:  contextutil.GetRequestID(ctx),
			OccurredAt: s.now(),
		})
		for _, res := range results {
			if !res.OK() {
				summary.Failed++
			} else if res.Changed {
				summary.Changed++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("refresh evaluations commit failed", zap.Error(err))
		return RefreshSummary{}, err
	}

	s.logger.Info("refresh evaluations done",
		zap.String("company_id", companyID),
		zap.Int("scanned", summary.Scanned),
		zap.Int("changed", summary.Changed),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *service) dispatch(
	ctx context.Context,
	tx *sql.Tx,
	rid string,
	entity reaction.EntityType,
	id, companyID uuid.UUID,
	created bool,
) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Dispatch(ctx, tx, reaction.Event{
		Entity:     entity,
		ID:         id,
		CompanyID:  companyID,
		Created:    created,
		RequestID:  rid,
		OccurredAt: s.now(),
	})
}

func (s *service) reload(ctx context.Context, qtx Repository, id uuid.UUID) (EvaluationResponse, error) {
	ev, err := qtx.FindWithCriteria(ctx, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*ev), nil
}

func newCriterion(evaluationID uuid.UUID, req CriterionRequest) (Criterion, error) {
	weight := req.Weight
	if weight.IsNegative() {
		return Criterion{}, evaluationerrors.ErrInvalidWeight
	}
	if weight.IsZero() {
		weight = decimal.NewFromInt(1)
	}
	return Criterion{
		ID:           uuid.New(),
		EvaluationID: evaluationID,
		Name:         strings.TrimSpace(req.Name),
		Weight:       weight,
	}, nil
}

func parsePeriod(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, evaluationerrors.ErrInvalidDate
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, evaluationerrors.ErrInvalidDate
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, evaluationerrors.ErrInvalidPeriod
	}
	return start, end, nil
}

func mapToResponse(ev Evaluation) EvaluationResponse {
	resp := EvaluationResponse{
		ID:          ev.ID.String(),
		EmployeeID:  ev.EmployeeID.String(),
		EvaluatorID: ev.EvaluatorID.String(),
		Kind:        string(ev.Kind),
		Status:      string(ev.Status),
		PeriodStart: ev.PeriodStart.Format(dateLayout),
		PeriodEnd:   ev.PeriodEnd.Format(dateLayout),
		Rating:      string(ev.Rating),
		Notes:       ev.Notes,
	}
	if ev.EvaluatedOn != nil {
		on := ev.EvaluatedOn.Format(dateLayout)
		resp.EvaluatedOn = &on
	}
	if ev.OverallScore.Valid {
		score := ev.OverallScore.Decimal.StringFixed(2)
		resp.OverallScore = &score
	}
	for _, c := range ev.Criteria {
		cr := CriterionResponse{
			ID:     c.ID.String(),
			Name:   c.Name,
			Weight: c.Weight.StringFixed(2),
			Notes:  c.Notes,
		}
		if c.Score.Valid {
			score := c.Score.Decimal.StringFixed(2)
			cr.Score = &score
		}
		resp.Criteria = append(resp.Criteria, cr)
	}
	return resp
}
