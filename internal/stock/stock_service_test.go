package stock_test

import (
	"context"
	"errors"
	"testing"

	"go-erp/internal/reaction"
	counterMock "go-erp/internal/shared/counter/mock"
	"go-erp/internal/stock"
	stockerrors "go-erp/internal/stock/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	service   stock.Service
	repo      *memoryRepository
	counter   *counterMock.MockRepository
	companyID uuid.UUID
	branchID  uuid.UUID
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newMemoryRepository()
	counterRepo := counterMock.NewMockRepository(ctrl)

	registry := reaction.NewRegistry()
	registry.Register(reaction.EntityStockMovement, stock.NewAdjustReaction(repo, nil, fixedNow))
	registry.Seal()

	return &serviceDeps{
		sqlMock:   sqlMock,
		service:   stock.NewService(db, repo, counterRepo, registry),
		repo:      repo,
		counter:   counterRepo,
		companyID: uuid.New(),
		branchID:  uuid.New(),
	}
}

func (d *serviceDeps) expectCode(n int64) {
	d.counter.EXPECT().WithTx(gomock.Any()).Return(d.counter)
	d.counter.EXPECT().GetNextValue(gomock.Any(), d.companyID.String(), "stock_movement_code").Return(n, nil)
}

func (d *serviceDeps) request(item *stock.Item, mt *stock.MovementType, qty string) stock.RecordMovementRequest {
	return stock.RecordMovementRequest{
		ItemID:         item.ID.String(),
		BranchID:       d.branchID.String(),
		MovementTypeID: mt.ID.String(),
		Quantity:       decimal.RequireFromString(qty),
		UnitPrice:      decimal.RequireFromString("2.50"),
	}
}

func TestStockService_RecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("entry raises stock", func(t *testing.T) {
		deps := setupServiceTest(t)
		item := deps.repo.addItem(deps.companyID, "BOLT", "0")
		mt := deps.repo.addType(deps.companyID, true)
		deps.repo.addLine(deps.companyID, item.ID, deps.branchID, "10", "0")

		deps.sqlMock.ExpectBegin()
		deps.expectCode(42)
		deps.sqlMock.ExpectExec("SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
		deps.sqlMock.ExpectExec("RELEASE SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
		deps.sqlMock.ExpectCommit()

		userID := uuid.NewString()
		resp, err := deps.service.RecordMovement(ctx, deps.companyID.String(), userID, deps.request(item, mt, "4"))

		require.NoError(t, err)
		assert.Equal(t, "MOV-000042", resp.Code)
		assert.Equal(t, "10.00", resp.TotalValue)
		assert.Equal(t, userID, resp.RecordedBy)
		assert.Equal(t, "14", deps.repo.line(item.ID, deps.branchID).CurrentQuantity.String())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("exit larger than stock clamps at zero", func(t *testing.T) {
		deps := setupServiceTest(t)
		item := deps.repo.addItem(deps.companyID, "NUT", "0")
		mt := deps.repo.addType(deps.companyID, false)
		deps.repo.addLine(deps.companyID, item.ID, deps.branchID, "2", "0")

		deps.sqlMock.ExpectBegin()
		deps.expectCode(1)
		deps.sqlMock.ExpectExec("SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
		deps.sqlMock.ExpectExec("RELEASE SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.RecordMovement(ctx, deps.companyID.String(), "", deps.request(item, mt, "5"))

		require.NoError(t, err)
		assert.True(t, deps.repo.line(item.ID, deps.branchID).CurrentQuantity.IsZero())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("failed adjustment keeps the movement", func(t *testing.T) {
		deps := setupServiceTest(t)
		item := deps.repo.addItem(deps.companyID, "GEAR", "0")
		mt := deps.repo.addType(deps.companyID, true)
		deps.repo.setErr = errors.New("lock timeout")

		deps.sqlMock.ExpectBegin()
		deps.expectCode(3)
		deps.sqlMock.ExpectExec("SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
		deps.sqlMock.ExpectExec("ROLLBACK TO SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.RecordMovement(ctx, deps.companyID.String(), "", deps.request(item, mt, "1"))

		require.NoError(t, err)
		assert.Equal(t, "MOV-000003", resp.Code)
		assert.Len(t, deps.repo.movements, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("inactive movement type", func(t *testing.T) {
		deps := setupServiceTest(t)
		item := deps.repo.addItem(deps.companyID, "PIN", "0")
		mt := deps.repo.addType(deps.companyID, true)
		mt.Active = false

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.RecordMovement(ctx, deps.companyID.String(), "", deps.request(item, mt, "1"))

		assert.ErrorIs(t, err, stockerrors.ErrMovementTypeInactive)
		assert.Empty(t, deps.repo.movements)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown item", func(t *testing.T) {
		deps := setupServiceTest(t)
		mt := deps.repo.addType(deps.companyID, true)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		req := deps.request(&stock.Item{ID: uuid.New()}, mt, "1")
		_, err := deps.service.RecordMovement(ctx, deps.companyID.String(), "", req)

		assert.ErrorIs(t, err, stockerrors.ErrItemNotFound)
	})

	t.Run("rejects non-positive quantity and price", func(t *testing.T) {
		deps := setupServiceTest(t)
		item := deps.repo.addItem(deps.companyID, "ROD", "0")
		mt := deps.repo.addType(deps.companyID, true)

		req := deps.request(item, mt, "0")
		_, err := deps.service.RecordMovement(ctx, deps.companyID.String(), "", req)
		assert.ErrorIs(t, err, stockerrors.ErrInvalidQuantity)

		req = deps.request(item, mt, "1")
		req.UnitPrice = decimal.Zero
		_, err = deps.service.RecordMovement(ctx, deps.companyID.String(), "", req)
		assert.ErrorIs(t, err, stockerrors.ErrInvalidUnitPrice)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestStockService_UpdateMovement(t *testing.T) {
	deps := setupServiceTest(t)
	item := deps.repo.addItem(deps.companyID, "BOLT", "0")
	mt := deps.repo.addType(deps.companyID, true)
	deps.repo.addLine(deps.companyID, item.ID, deps.branchID, "10", "0")
	mv := deps.repo.addMovement(item, mt, deps.branchID, "5")

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectExec("SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
	deps.sqlMock.ExpectExec("RELEASE SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
	deps.sqlMock.ExpectCommit()

	resp, err := deps.service.UpdateMovement(context.Background(), deps.companyID.String(), mv.ID.String(), stock.UpdateMovementRequest{
		Reference: " PO-77 ",
		Notes:     "delivered late",
	})

	require.NoError(t, err)
	assert.Equal(t, "PO-77", resp.Reference)
	assert.Equal(t, "10", deps.repo.line(item.ID, deps.branchID).CurrentQuantity.String())
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestStockService_Reservations(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve then release", func(t *testing.T) {
		deps := setupServiceTest(t)
		item := deps.repo.addItem(deps.companyID, "BOLT", "2")
		li := deps.repo.addLine(deps.companyID, item.ID, deps.branchID, "10", "0")

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		resp, err := deps.service.Reserve(ctx, deps.companyID.String(), li.ID.String(), stock.ReservationRequest{Quantity: decimal.NewFromInt(7)})
		require.NoError(t, err)
		assert.Equal(t, "7", resp.ReservedQuantity)
		assert.Equal(t, "3", resp.Available)
		assert.Equal(t, "normal", resp.Level)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		resp, err = deps.service.Release(ctx, deps.companyID.String(), li.ID.String(), stock.ReservationRequest{Quantity: decimal.NewFromInt(2)})
		require.NoError(t, err)
		assert.Equal(t, "5", resp.ReservedQuantity)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insufficient stock", func(t *testing.T) {
		deps := setupServiceTest(t)
		item := deps.repo.addItem(deps.companyID, "NUT", "0")
		li := deps.repo.addLine(deps.companyID, item.ID, deps.branchID, "3", "2")

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		_, err := deps.service.Reserve(ctx, deps.companyID.String(), li.ID.String(), stock.ReservationRequest{Quantity: decimal.NewFromInt(2)})

		assert.ErrorIs(t, err, stockerrors.ErrInsufficientStock)
		assert.Equal(t, "2", deps.repo.line(item.ID, deps.branchID).ReservedQuantity.String())
	})

	t.Run("release more than reserved", func(t *testing.T) {
		deps := setupServiceTest(t)
		item := deps.repo.addItem(deps.companyID, "PIN", "0")
		li := deps.repo.addLine(deps.companyID, item.ID, deps.branchID, "3", "1")

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		_, err := deps.service.Release(ctx, deps.companyID.String(), li.ID.String(), stock.ReservationRequest{Quantity: decimal.NewFromInt(2)})

		assert.ErrorIs(t, err, stockerrors.ErrReleaseExceedsReserved)
	})

	t.Run("zero quantity", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Reserve(ctx, deps.companyID.String(), uuid.NewString(), stock.ReservationRequest{})

		assert.ErrorIs(t, err, stockerrors.ErrInvalidQuantity)
	})
}

func TestStockService_CreateItem(t *testing.T) {
	deps := setupServiceTest(t)

	resp, err := deps.service.CreateItem(context.Background(), deps.companyID.String(), stock.CreateItemRequest{
		Code:     " bolt-m8 ",
		Name:     "Bolt M8",
		MinStock: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "BOLT-M8", resp.Code)
	assert.Equal(t, "product", resp.Kind)
	assert.Equal(t, "unit", resp.Unit)

	_, err = deps.service.CreateItem(context.Background(), deps.companyID.String(), stock.CreateItemRequest{
		Code:     "X",
		Name:     "X",
		MinStock: decimal.NewFromInt(10),
		MaxStock: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, stockerrors.ErrInvalidStockLimits)
}
