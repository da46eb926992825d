package fleet

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	fleeterrors "go-erp/internal/fleet/errors"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const checklistCodePrefix = "CHK"

//go:generate mockgen -source=fleet_service.go -destination=mock/fleet_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, inspectorID string, req CreateChecklistRequest) (ChecklistResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ChecklistResponse, error)
	List(ctx context.Context, companyID string, filter ChecklistFilter) ([]ChecklistResponse, error)
	RenderReport(ctx context.Context, companyID, id string, w io.Writer) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("fleet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("fleet.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, companyID, inspectorID string, req CreateChecklistRequest) (ChecklistResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := apperror.ParseCompanyID(companyID)
	if err != nil {
		return ChecklistResponse{}, err
	}
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return ChecklistResponse{}, fleeterrors.ErrInvalidVehicle
	}
	if req.Odometer < 0 {
		return ChecklistResponse{}, fleeterrors.ErrInvalidOdometer
	}

	c := VehicleChecklist{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		VehicleID:       vehicleID,
		Kind:            ChecklistKind(req.Kind),
		Driver:          strings.TrimSpace(req.Driver),
		InspectedAt:     s.now(),
		Location:        strings.TrimSpace(req.Location),
		Odometer:        req.Odometer,
		Notes:           strings.TrimSpace(req.Notes),
		Recommendations: strings.TrimSpace(req.Recommendations),
	}
	if req.InspectedAt != nil {
		c.InspectedAt = req.InspectedAt.UTC()
	}
	if uid, err := uuid.Parse(inspectorID); err == nil {
		c.InspectorID = &uid
	}

	c.ResetItems()
	for _, name := range slices.Sorted(maps.Keys(req.Items)) {
		if !c.Set(ChecklistField(strings.TrimSpace(name)), req.Items[name]) {
			e := fleeterrors.ErrUnknownChecklistItem
			return ChecklistResponse{}, apperror.Wrap(fmt.Errorf("unknown item %q", name), e.Code, e.Message, e.HTTPStatus)
		}
	}
	c.FinalStatus = c.DeriveFinalStatus()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create checklist begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ChecklistResponse{}, err
	}
	defer tx.Rollback()

	code, err := counter.Next(ctx, s.counter.WithTx(tx), companyID, counter.ChecklistCode, checklistCodePrefix)
	if err != nil {
		s.logger.Error("create checklist code generation failed", zap.String("request_id", rid), zap.Error(err))
		return ChecklistResponse{}, err
	}
	c.Code = code

	if err := s.repo.WithTx(tx).Create(ctx, &c); err != nil {
		s.logger.Error("create checklist failed", zap.String("request_id", rid), zap.Error(err))
		return ChecklistResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create checklist commit failed", zap.String("request_id", rid), zap.Error(err))
		return ChecklistResponse{}, err
	}

	s.logger.Info("create checklist success",
		zap.String("request_id", rid),
		zap.String("checklist_id", c.ID.String()),
		zap.String("code", c.Code),
		zap.String("final_status", string(c.FinalStatus)),
		zap.Float64("score", c.Score()),
	)
	return mapChecklistResponse(c), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ChecklistResponse, error) {
	c, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return ChecklistResponse{}, mapRepositoryError(err)
	}
	return mapChecklistResponse(*c), nil
}

func (s *service) List(ctx context.Context, companyID string, filter ChecklistFilter) ([]ChecklistResponse, error) {
	rows, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list checklists failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	res := make([]ChecklistResponse, len(rows))
	for i, c := range rows {
		res[i] = mapChecklistResponse(c)
	}
	return res, nil
}

func (s *service) RenderReport(ctx context.Context, companyID, id string, w io.Writer) error {
	c, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	return RenderReport(w, c)
}

func mapChecklistResponse(c VehicleChecklist) ChecklistResponse {
	mandatory := make(map[ChecklistField]bool, len(mandatoryFields))
	for _, f := range mandatoryFields {
		mandatory[f] = true
	}

	items := make([]ChecklistItemResponse, 0, len(fieldDefs))
	for _, f := range Fields() {
		v, _ := c.Value(f)
		items = append(items, ChecklistItemResponse{
			Field:     string(f),
			Label:     f.Label(),
			Group:     f.Group(),
			Passed:    v,
			Mandatory: mandatory[f],
		})
	}

	failed := []string{}
	for _, f := range c.FailedMandatory() {
		failed = append(failed, string(f))
	}

	var inspector *string
	if c.InspectorID != nil {
		v := c.InspectorID.String()
		inspector = &v
	}

	return ChecklistResponse{
		ID:              c.ID.String(),
		Code:            c.Code,
		VehicleID:       c.VehicleID.String(),
		Kind:            string(c.Kind),
		InspectorID:     inspector,
		Driver:          c.Driver,
		InspectedAt:     c.InspectedAt.Format(time.RFC3339),
		Location:        c.Location,
		Odometer:        c.Odometer,
		Items:           items,
		PassedCount:     c.PassedCount(),
		TotalCount:      len(items),
		Score:           c.Score(),
		FailedMandatory: failed,
		FinalStatus:     string(c.FinalStatus),
		Notes:           c.Notes,
		Recommendations: c.Recommendations,
	}
}
