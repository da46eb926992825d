package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

type PaginationMeta struct {
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	meta := PaginationMeta{Total: total, Page: page, PageSize: limit}
	if limit > 0 {
		meta.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return meta
}

// PageQuery reads ?page= and ?page_size=, clamping the size to maxPageSize.
// Missing or malformed values fall back to page 1 and defaultSize.
func PageQuery(c *gin.Context, defaultSize int) (page, pageSize int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err = strconv.Atoi(c.Query("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = defaultSize
	}
	return page, min(pageSize, maxPageSize)
}

// Paginate slices an in-memory result for list endpoints.
func Paginate[T any](items []T, page, pageSize int) ([]T, PaginationMeta) {
	page = max(page, 1)
	if pageSize < 1 {
		pageSize = 10
	}
	start := min((page-1)*pageSize, len(items))
	end := min(start+pageSize, len(items))
	return items[start:end], NewPaginationMeta(int64(len(items)), page, pageSize)
}

type ApiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Meta  *PaginationMeta `json:"meta,omitempty"`
	Error *ErrorBody      `json:"error,omitempty"`
}

type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details"`
	RequestID string `json:"request_id,omitempty"`
}

func Success(c *gin.Context, status int, data any, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{Ok: true, Data: data, Meta: meta})
}

// Error writes the failure envelope, echoing the request id so callers can
// quote it when reporting problems.
func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ApiEnvelope{
		Error: &ErrorBody{
			Code:      errorCode,
			Message:   message,
			Details:   details,
			RequestID: c.GetString("request_id"),
		},
	})
}
