package employee

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http create employee", zap.String("company_id", companyID))
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create employee validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// listQuery holds the in-memory filters and ordering of GET /employees.
type listQuery struct {
	search string
	status string
	sortBy string
	desc   bool
}

func parseListQuery(c *gin.Context) listQuery {
	return listQuery{
		search: strings.ToLower(strings.TrimSpace(c.Query("q"))),
		status: strings.TrimSpace(c.Query("status")),
		sortBy: strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "name"))),
		desc:   strings.EqualFold(strings.TrimSpace(c.Query("sort_dir")), "desc"),
	}
}

func (q listQuery) matches(e EmployeeResponse) bool {
	if q.status != "" && e.Status != q.status {
		return false
	}
	if q.search == "" {
		return true
	}
	for _, v := range []string{e.FullName, e.Email, e.Code} {
		if strings.Contains(strings.ToLower(v), q.search) {
			return true
		}
	}
	return false
}

func (q listQuery) compare(a, b EmployeeResponse) int {
	var n int
	switch q.sortBy {
	case "email":
		n = cmp.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	case "code":
		n = cmp.Compare(a.Code, b.Code)
	case "salary":
		n = salaryOf(a).Cmp(salaryOf(b))
	case "id":
		n = cmp.Compare(a.ID, b.ID)
	default:
		n = cmp.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName))
	}
	if q.desc {
		return -n
	}
	return n
}

func (q listQuery) apply(in []EmployeeResponse) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(in))
	for _, e := range in {
		if q.matches(e) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, q.compare)
	return out
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http get all employees", zap.String("company_id", companyID))

	resp, err := h.service.GetAll(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageQuery(c, 10)
	items, meta := response.Paginate(parseListQuery(c).apply(resp), page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetOptions(c *gin.Context) {
	companyID := c.GetString("company_id")
	resp, err := h.service.GetOptions(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func salaryOf(e EmployeeResponse) decimal.Decimal {
	d, err := decimal.NewFromString(e.CurrentSalary)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (h *Handler) GetById(c *gin.Context) {
	ctx := c.Request.Context()
	targetID := c.Param("id")
	companyID := c.GetString("company_id")
	h.logger.Debug("http get employee by id",
		zap.String("company_id", companyID),
		zap.String("employee_id", targetID),
	)

	resp, err := h.service.GetByID(ctx, companyID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	companyID := c.GetString("company_id")
	h.logger.Debug("http update employee",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update employee validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(ctx, companyID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	companyID := c.GetString("company_id")
	h.logger.Debug("http delete employee",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	if err := h.service.Delete(ctx, companyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
