package fleet_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-erp/internal/fleet"
	fleeterrors "go-erp/internal/fleet/errors"
	"go-erp/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeFleetService struct {
	fleet.Service
	createFn func(ctx context.Context, companyID, inspectorID string, req fleet.CreateChecklistRequest) (fleet.ChecklistResponse, error)
	reportFn func(ctx context.Context, companyID, id string, w io.Writer) error
}

func (f *fakeFleetService) Create(ctx context.Context, companyID, inspectorID string, req fleet.CreateChecklistRequest) (fleet.ChecklistResponse, error) {
	return f.createFn(ctx, companyID, inspectorID, req)
}

func (f *fakeFleetService) RenderReport(ctx context.Context, companyID, id string, w io.Writer) error {
	return f.reportFn(ctx, companyID, id, w)
}

func newContext(method, target string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", "company-1")
	c.Set("employee_id", "employee-1")
	return c, w
}

func TestFleetHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var got fleet.CreateChecklistRequest
		svc := &fakeFleetService{
			createFn: func(_ context.Context, companyID, inspectorID string, req fleet.CreateChecklistRequest) (fleet.ChecklistResponse, error) {
				assert.Equal(t, "company-1", companyID)
				assert.Equal(t, "employee-1", inspectorID)
				got = req
				return fleet.ChecklistResponse{Code: "CHK-000001", FinalStatus: "conditional"}, nil
			},
		}
		body := `{"vehicle_id":"6f1c1d1e-9a43-4a38-8a0e-3a1f0b6f2a11","kind":"weekly","driver":"Rui","items":{"battery_ok":false}}`
		c, w := newContext(http.MethodPost, "/fleet/checklists", strings.NewReader(body))

		fleet.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"CHK-000001"`)
		assert.Equal(t, map[string]bool{"battery_ok": false}, got.Items)
	})

	t.Run("invalid kind", func(t *testing.T) {
		body := `{"vehicle_id":"6f1c1d1e-9a43-4a38-8a0e-3a1f0b6f2a11","kind":"daily","driver":"Rui"}`
		c, w := newContext(http.MethodPost, "/fleet/checklists", strings.NewReader(body))

		fleet.NewHandler(&fakeFleetService{}).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		svc := &fakeFleetService{
			createFn: func(context.Context, string, string, fleet.CreateChecklistRequest) (fleet.ChecklistResponse, error) {
				return fleet.ChecklistResponse{}, fleeterrors.ErrUnknownChecklistItem
			},
		}
		body := `{"vehicle_id":"6f1c1d1e-9a43-4a38-8a0e-3a1f0b6f2a11","kind":"weekly","driver":"Rui","items":{"x":true}}`
		c, w := newContext(http.MethodPost, "/fleet/checklists", strings.NewReader(body))

		fleet.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Unknown checklist item")
	})
}

func TestFleetHandler_Report(t *testing.T) {
	t.Run("html", func(t *testing.T) {
		svc := &fakeFleetService{
			reportFn: func(_ context.Context, _, id string, w io.Writer) error {
				_, err := io.WriteString(w, "<h1>"+id+"</h1>")
				return err
			},
		}
		c, w := newContext(http.MethodGet, "/fleet/checklists/abc/report", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		fleet.NewHandler(svc).Report(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "<h1>abc</h1>", w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeFleetService{
			reportFn: func(context.Context, string, string, io.Writer) error {
				return fleeterrors.ErrChecklistNotFound
			},
		}
		c, w := newContext(http.MethodGet, "/fleet/checklists/abc/report", nil)

		fleet.NewHandler(svc).Report(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
