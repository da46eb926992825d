package rbac_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-erp/internal/domain"
	"go-erp/internal/rbac"
	"go-erp/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	rbac.Service
}

func (f *fakeService) Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error) {
	return req.Resource == "stock" && req.Action == "read", nil
}

func newRouter(companyID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Next()
	})
	router.POST("/rbac/enforce", rbac.NewHandler(&fakeService{}).Enforce)
	return router
}

func TestHandler_Enforce(t *testing.T) {
	body, _ := json.Marshal(domain.EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "stock",
		Action:     "read",
	})

	t.Run("allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newRouter("company-1").ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data domain.EnforceResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Allowed)
	})

	t.Run("other company is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newRouter("company-2").ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"employee_id":"emp-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newRouter("company-1").ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
