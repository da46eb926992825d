package stock_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-erp/internal/shared/apperror"
	"go-erp/internal/stock"
	stockerrors "go-erp/internal/stock/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeStockService struct {
	stock.Service
	recordFn        func(ctx context.Context, companyID, userID string, req stock.RecordMovementRequest) (stock.MovementResponse, error)
	listMovementsFn func(ctx context.Context, companyID string, filter stock.MovementFilter) ([]stock.MovementResponse, error)
	listLinesFn     func(ctx context.Context, companyID, branchID string) ([]stock.LineItemResponse, error)
	reserveFn       func(ctx context.Context, companyID, id string, req stock.ReservationRequest) (stock.LineItemResponse, error)
}

func (f *fakeStockService) RecordMovement(ctx context.Context, companyID, userID string, req stock.RecordMovementRequest) (stock.MovementResponse, error) {
	return f.recordFn(ctx, companyID, userID, req)
}

func (f *fakeStockService) ListMovements(ctx context.Context, companyID string, filter stock.MovementFilter) ([]stock.MovementResponse, error) {
	return f.listMovementsFn(ctx, companyID, filter)
}

func (f *fakeStockService) ListLineItems(ctx context.Context, companyID, branchID string) ([]stock.LineItemResponse, error) {
	return f.listLinesFn(ctx, companyID, branchID)
}

func (f *fakeStockService) Reserve(ctx context.Context, companyID, id string, req stock.ReservationRequest) (stock.LineItemResponse, error) {
	return f.reserveFn(ctx, companyID, id, req)
}

func newContext(method, target string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", "company-1")
	c.Set("user_id", "user-1")
	return c, w
}

const movementBody = `{
	"item_id":"6f1c1d1e-9a43-4a38-8a0e-3a1f0b6f2a11",
	"branch_id":"0c5a7e0b-2d2f-4f41-9a55-7e4f0a3b9c22",
	"movement_type_id":"1b2c3d4e-5f60-4a1b-8c2d-3e4f5a6b7c8d",
	"quantity":"4",
	"unit_price":"2.5"
}`

func TestStockHandler_RecordMovement(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeStockService{
			recordFn: func(ctx context.Context, companyID, userID string, req stock.RecordMovementRequest) (stock.MovementResponse, error) {
				assert.Equal(t, "company-1", companyID)
				assert.Equal(t, "user-1", userID)
				assert.Equal(t, "4", req.Quantity.String())
				return stock.MovementResponse{ID: "mv-1", Code: "MOV-000001"}, nil
			},
		}
		h := stock.NewHandler(svc)
		c, w := newContext(http.MethodPost, "/stock/movements", strings.NewReader(movementBody))

		h.RecordMovement(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"MOV-000001"`)
	})

	t.Run("validation error", func(t *testing.T) {
		h := stock.NewHandler(&fakeStockService{})
		c, w := newContext(http.MethodPost, "/stock/movements", strings.NewReader(`{"item_id":"x"}`))

		h.RecordMovement(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inactive movement type", func(t *testing.T) {
		svc := &fakeStockService{
			recordFn: func(ctx context.Context, companyID, userID string, req stock.RecordMovementRequest) (stock.MovementResponse, error) {
				return stock.MovementResponse{}, stockerrors.ErrMovementTypeInactive
			},
		}
		h := stock.NewHandler(svc)
		c, w := newContext(http.MethodPost, "/stock/movements", strings.NewReader(movementBody))

		h.RecordMovement(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestStockHandler_ListMovements(t *testing.T) {
	svc := &fakeStockService{
		listMovementsFn: func(ctx context.Context, companyID string, filter stock.MovementFilter) ([]stock.MovementResponse, error) {
			assert.Equal(t, "item-9", filter.ItemID)
			out := make([]stock.MovementResponse, 5)
			for i := range out {
				out[i] = stock.MovementResponse{ID: fmt.Sprintf("mv-%d", i)}
			}
			return out, nil
		},
	}
	h := stock.NewHandler(svc)
	c, w := newContext(http.MethodGet, "/stock/movements?item_id=item-9&page=2&page_size=2", nil)

	h.ListMovements(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mv-2"`)
	assert.NotContains(t, w.Body.String(), `"mv-0"`)
}

func TestStockHandler_ListLineItemsByLevel(t *testing.T) {
	svc := &fakeStockService{
		listLinesFn: func(ctx context.Context, companyID, branchID string) ([]stock.LineItemResponse, error) {
			assert.Equal(t, "branch-1", branchID)
			return []stock.LineItemResponse{
				{ID: "li-low", Level: "low"},
				{ID: "li-normal", Level: "normal"},
			}, nil
		},
	}
	h := stock.NewHandler(svc)
	c, w := newContext(http.MethodGet, "/stock/line-items?branch_id=branch-1&level=low", nil)

	h.ListLineItems(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "li-low")
	assert.NotContains(t, w.Body.String(), "li-normal")
}

func TestStockHandler_Reserve(t *testing.T) {
	svc := &fakeStockService{
		reserveFn: func(ctx context.Context, companyID, id string, req stock.ReservationRequest) (stock.LineItemResponse, error) {
			assert.Equal(t, "li-1", id)
			return stock.LineItemResponse{}, stockerrors.ErrInsufficientStock
		},
	}
	h := stock.NewHandler(svc)
	c, w := newContext(http.MethodPost, "/stock/line-items/li-1/reserve", strings.NewReader(`{"quantity":"3"}`))
	c.Params = gin.Params{{Key: "id", Value: "li-1"}}

	h.Reserve(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}
