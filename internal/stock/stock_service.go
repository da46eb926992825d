package stock

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-erp/internal/reaction"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/counter"
	stockerrors "go-erp/internal/stock/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const movementCodePrefix = "MOV"

//go:generate mockgen -source=stock_service.go -destination=mock/stock_service_mock.go -package=mock
type Service interface {
	CreateItem(ctx context.Context, companyID string, req CreateItemRequest) (ItemResponse, error)
	ListItems(ctx context.Context, companyID string) ([]ItemResponse, error)
	CreateMovementType(ctx context.Context, companyID string, req CreateMovementTypeRequest) (MovementTypeResponse, error)
	ListMovementTypes(ctx context.Context, companyID string) ([]MovementTypeResponse, error)
	RecordMovement(ctx context.Context, companyID, userID string, req RecordMovementRequest) (MovementResponse, error)
	UpdateMovement(ctx context.Context, companyID, id string, req UpdateMovementRequest) (MovementResponse, error)
	GetMovement(ctx context.Context, companyID, id string) (MovementResponse, error)
	ListMovements(ctx context.Context, companyID string, filter MovementFilter) ([]MovementResponse, error)
	GetLineItem(ctx context.Context, companyID, id string) (LineItemResponse, error)
	ListLineItems(ctx context.Context, companyID, branchID string) ([]LineItemResponse, error)
	Reserve(ctx context.Context, companyID, id string, req ReservationRequest) (LineItemResponse, error)
	Release(ctx context.Context, companyID, id string, req ReservationRequest) (LineItemResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	counter    counter.Repository
	dispatcher reaction.Dispatcher
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	dispatcher reaction.Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("stock.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stock.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		counter:    counterRepo,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) CreateItem(ctx context.Context, companyID string, req CreateItemRequest) (ItemResponse, error) {
	companyUUID, err := apperror.ParseCompanyID(companyID)
	if err != nil {
		return ItemResponse{}, err
	}
	if req.MinStock.IsNegative() || req.MaxStock.IsNegative() ||
		(req.MaxStock.IsPositive() && req.MinStock.GreaterThan(req.MaxStock)) {
		return ItemResponse{}, stockerrors.ErrInvalidStockLimits
	}

	kind := KindProduct
	if req.Kind != "" {
		kind = ItemKind(req.Kind)
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "unit"
	}

	item := Item{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:      strings.TrimSpace(req.Name),
		Kind:      kind,
		Unit:      unit,
		MinStock:  req.MinStock,
		MaxStock:  req.MaxStock,
		Active:    true,
	}
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		s.logger.Error("create stock item failed", zap.String("code", item.Code), zap.Error(err))
		return ItemResponse{}, mapRepositoryError(err, stockerrors.ErrItemNotFound)
	}

	s.logger.Info("create stock item success", zap.String("item_id", item.ID.String()), zap.String("code", item.Code))
	return mapItemResponse(item), nil
}

func (s *service) ListItems(ctx context.Context, companyID string) ([]ItemResponse, error) {
	items, err := s.repo.ListItems(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err, stockerrors.ErrItemNotFound)
	}
	res := make([]ItemResponse, len(items))
	for i, item := range items {
		res[i] = mapItemResponse(item)
	}
	return res, nil
}

func (s *service) CreateMovementType(ctx context.Context, companyID string, req CreateMovementTypeRequest) (MovementTypeResponse, error) {
	companyUUID, err := apperror.ParseCompanyID(companyID)
	if err != nil {
		return MovementTypeResponse{}, err
	}

	mt := MovementType{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:           strings.TrimSpace(req.Name),
		IncreasesStock: req.IncreasesStock != nil && *req.IncreasesStock,
		Active:         true,
	}
	if err := s.repo.CreateMovementType(ctx, &mt); err != nil {
		s.logger.Error("create movement type failed", zap.String("code", mt.Code), zap.Error(err))
		return MovementTypeResponse{}, mapRepositoryError(err, stockerrors.ErrMovementTypeNotFound)
	}
	return mapMovementTypeResponse(mt), nil
}

func (s *service) ListMovementTypes(ctx context.Context, companyID string) ([]MovementTypeResponse, error) {
	types, err := s.repo.ListMovementTypes(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err, stockerrors.ErrMovementTypeNotFound)
	}
	res := make([]MovementTypeResponse, len(types))
	for i, mt := range types {
		res[i] = mapMovementTypeResponse(mt)
	}
	return res, nil
}

// RecordMovement persists the movement and dispatches its creation. The
// stock adjustment itself is a reaction; its failure never fails the
// movement.
func (s *service) RecordMovement(ctx context.Context, companyID, userID string, req RecordMovementRequest) (MovementResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("record movement requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("item_id", req.ItemID),
		zap.String("branch_id", req.BranchID),
	)

	companyUUID, err := apperror.ParseCompanyID(companyID)
	if err != nil {
		return MovementResponse{}, err
	}
	if !req.Quantity.IsPositive() {
		return MovementResponse{}, stockerrors.ErrInvalidQuantity
	}
	if !req.UnitPrice.IsPositive() {
		return MovementResponse{}, stockerrors.ErrInvalidUnitPrice
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return MovementResponse{}, apperror.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("record movement begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return MovementResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	item, err := qtx.FindItem(ctx, companyID, req.ItemID)
	if err != nil {
		return MovementResponse{}, mapRepositoryError(err, stockerrors.ErrItemNotFound)
	}
	mt, err := qtx.FindMovementType(ctx, companyID, req.MovementTypeID)
	if err != nil {
		return MovementResponse{}, mapRepositoryError(err, stockerrors.ErrMovementTypeNotFound)
	}
	if !mt.Active {
		return MovementResponse{}, stockerrors.ErrMovementTypeInactive
	}

	code, err := counter.Next(ctx, s.counter.WithTx(tx), companyID, counter.MovementCode, movementCodePrefix)
	if err != nil {
		s.logger.Error("record movement code generation failed", zap.String("request_id", rid), zap.Error(err))
		return MovementResponse{}, err
	}

	m := Movement{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		Code:           code,
		ItemID:         item.ID,
		BranchID:       branchID,
		MovementTypeID: mt.ID,
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
		TotalValue:     req.Quantity.Mul(req.UnitPrice).Round(2),
		Reference:      strings.TrimSpace(req.Reference),
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      s.now(),
	}
	if uid, err := uuid.Parse(userID); err == nil {
		m.RecordedBy = &uid
	}

	if err := qtx.CreateMovement(ctx, &m); err != nil {
		s.logger.Error("record movement failed", zap.String("request_id", rid), zap.Error(err))
		return MovementResponse{}, mapRepositoryError(err, stockerrors.ErrItemNotFound)
	}

	s.dispatch(ctx, tx, rid, m, true)

	if err := tx.Commit(); err != nil {
		s.logger.Error("record movement commit failed", zap.String("request_id", rid), zap.Error(err))
		return MovementResponse{}, err
	}

	s.logger.Info("record movement success",
		zap.String("request_id", rid),
		zap.String("movement_id", m.ID.String()),
		zap.String("code", m.Code),
		zap.Bool("increases_stock", mt.IncreasesStock),
		zap.String("quantity", m.Quantity.String()),
	)
	return mapMovementResponse(m), nil
}

func (s *service) UpdateMovement(ctx context.Context, companyID, id string, req UpdateMovementRequest) (MovementResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update movement begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return MovementResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	m, err := qtx.FindMovement(ctx, companyID, id)
	if err != nil {
		return MovementResponse{}, mapRepositoryError(err, stockerrors.ErrMovementNotFound)
	}

	m.Reference = strings.TrimSpace(req.Reference)
	m.Notes = strings.TrimSpace(req.Notes)
	if err := qtx.UpdateMovementNotes(ctx, m); err != nil {
		s.logger.Error("update movement failed", zap.String("request_id", rid), zap.Error(err))
		return MovementResponse{}, mapRepositoryError(err, stockerrors.ErrMovementNotFound)
	}

	s.dispatch(ctx, tx, rid, *m, false)

	if err := tx.Commit(); err != nil {
		s.logger.Error("update movement commit failed", zap.String("request_id", rid), zap.Error(err))
		return MovementResponse{}, err
	}
	return mapMovementResponse(*m), nil
}

func (s *service) GetMovement(ctx context.Context, companyID, id string) (MovementResponse, error) {
	m, err := s.repo.FindMovement(ctx, companyID, id)
	if err != nil {
		return MovementResponse{}, mapRepositoryError(err, stockerrors.ErrMovementNotFound)
	}
	return mapMovementResponse(*m), nil
}

func (s *service) ListMovements(ctx context.Context, companyID string, filter MovementFilter) ([]MovementResponse, error) {
	ms, err := s.repo.ListMovements(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list movements failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, mapRepositoryError(err, stockerrors.ErrMovementNotFound)
	}
	res := make([]MovementResponse, len(ms))
	for i, m := range ms {
		res[i] = mapMovementResponse(m)
	}
	return res, nil
}

func (s *service) GetLineItem(ctx context.Context, companyID, id string) (LineItemResponse, error) {
	li, err := s.repo.FindLineItem(ctx, companyID, id)
	if err != nil {
		return LineItemResponse{}, mapRepositoryError(err, stockerrors.ErrLineItemNotFound)
	}
	return mapLineItemResponse(*li), nil
}

func (s *service) ListLineItems(ctx context.Context, companyID, branchID string) ([]LineItemResponse, error) {
	items, err := s.repo.ListLineItems(ctx, companyID, branchID)
	if err != nil {
		return nil, mapRepositoryError(err, stockerrors.ErrLineItemNotFound)
	}
	res := make([]LineItemResponse, len(items))
	for i, li := range items {
		res[i] = mapLineItemResponse(li)
	}
	return res, nil
}

// Reserve holds qty of the available stock. Reserved never exceeds current.
func (s *service) Reserve(ctx context.Context, companyID, id string, req ReservationRequest) (LineItemResponse, error) {
	return s.changeReservation(ctx, companyID, id, req.Quantity, func(li *LineItem, qty decimal.Decimal) error {
		if li.Available().LessThan(qty) {
			return stockerrors.ErrInsufficientStock
		}
		li.ReservedQuantity = li.ReservedQuantity.Add(qty)
		return nil
	})
}

func (s *service) Release(ctx context.Context, companyID, id string, req ReservationRequest) (LineItemResponse, error) {
	return s.changeReservation(ctx, companyID, id, req.Quantity, func(li *LineItem, qty decimal.Decimal) error {
		if li.ReservedQuantity.LessThan(qty) {
			return stockerrors.ErrReleaseExceedsReserved
		}
		li.ReservedQuantity = li.ReservedQuantity.Sub(qty)
		return nil
	})
}

func (s *service) changeReservation(
	ctx context.Context,
	companyID, id string,
	qty decimal.Decimal,
	apply func(li *LineItem, qty decimal.Decimal) error,
) (LineItemResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if !qty.IsPositive() {
		return LineItemResponse{}, stockerrors.ErrInvalidQuantity
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reservation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LineItemResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	li, err := qtx.LockLineItem(ctx, companyID, id)
	if err != nil {
		return LineItemResponse{}, mapRepositoryError(err, stockerrors.ErrLineItemNotFound)
	}
	if err := apply(li, qty); err != nil {
		return LineItemResponse{}, err
	}
	if err := qtx.SetQuantities(ctx, li.ID, li.CurrentQuantity, li.ReservedQuantity); err != nil {
		s.logger.Error("reservation update failed", zap.String("request_id", rid), zap.Error(err))
		return LineItemResponse{}, mapRepositoryError(err, stockerrors.ErrLineItemNotFound)
	}

	updated, err := qtx.FindLineItem(ctx, companyID, id)
	if err != nil {
		return LineItemResponse{}, mapRepositoryError(err, stockerrors.ErrLineItemNotFound)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reservation commit failed", zap.String("request_id", rid), zap.Error(err))
		return LineItemResponse{}, err
	}

	s.logger.Info("reservation updated",
		zap.String("request_id", rid),
		zap.String("line_item_id", id),
		zap.String("reserved", updated.ReservedQuantity.String()),
	)
	return mapLineItemResponse(*updated), nil
}

func (s *service) dispatch(ctx context.Context, tx *sql.Tx, rid string, m Movement, created bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Dispatch(ctx, tx, reaction.Event{
		Entity:     reaction.EntityStockMovement,
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		Created:    created,
		RequestID:  rid,
		OccurredAt: s.now(),
	})
}

func mapItemResponse(item Item) ItemResponse {
	return ItemResponse{
		ID:       item.ID.String(),
		Code:     item.Code,
		Name:     item.Name,
		Kind:     string(item.Kind),
		Unit:     item.Unit,
		MinStock: item.MinStock.String(),
		MaxStock: item.MaxStock.String(),
	}
}

func mapMovementTypeResponse(mt MovementType) MovementTypeResponse {
	return MovementTypeResponse{
		ID:             mt.ID.String(),
		Code:           mt.Code,
		Name:           mt.Name,
		IncreasesStock: mt.IncreasesStock,
		Active:         mt.Active,
	}
}

func mapMovementResponse(m Movement) MovementResponse {
	resp := MovementResponse{
		ID:             m.ID.String(),
		Code:           m.Code,
		ItemID:         m.ItemID.String(),
		BranchID:       m.BranchID.String(),
		MovementTypeID: m.MovementTypeID.String(),
		Quantity:       m.Quantity.String(),
		UnitPrice:      m.UnitPrice.StringFixed(2),
		TotalValue:     m.TotalValue.StringFixed(2),
		Reference:      m.Reference,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
	if m.RecordedBy != nil {
		resp.RecordedBy = m.RecordedBy.String()
	}
	return resp
}

func mapLineItemResponse(li LineItem) LineItemResponse {
	resp := LineItemResponse{
		ID:               li.ID.String(),
		ItemID:           li.ItemID.String(),
		BranchID:         li.BranchID.String(),
		CurrentQuantity:  li.CurrentQuantity.String(),
		ReservedQuantity: li.ReservedQuantity.String(),
		Available:        li.Available().String(),
		Location:         li.Location,
	}
	if li.Item != nil {
		resp.ItemCode = li.Item.Code
		resp.ItemName = li.Item.Name
		resp.Level = string(li.Level(*li.Item))
	}
	return resp
}
