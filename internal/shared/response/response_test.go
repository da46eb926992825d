package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := response.Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, int64(5), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	page, _ = response.Paginate(items, 9, 2)
	assert.Empty(t, page)

	page, meta = response.Paginate(items, 0, 0)
	assert.Len(t, page, 5)
	assert.Equal(t, 1, meta.Page)
}

func TestPageQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, 20},
		{"?page=3&page_size=5", 3, 5},
		{"?page=-1&page_size=abc", 1, 20},
		{"?page_size=1000", 1, 100},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)

		page, size := response.PageQuery(c, 20)

		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.size, size, tt.query)
	}
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-9")

	response.Error(c, http.StatusConflict, "CONFLICT", "Duplicate", nil)

	var body struct {
		Ok    bool `json:"ok"`
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, body.Ok)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, "rid-9", body.Error.RequestID)
}
