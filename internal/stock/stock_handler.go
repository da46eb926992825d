package stock

import (
	"net/http"
	"strings"

	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("stock.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stock.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("stock request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("http stock validation failed", zap.String("path", c.FullPath()), zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return false
	}
	return true
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateItem(c.Request.Context(), c.GetString("company_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListItems(c *gin.Context) {
	resp, err := h.service.ListItems(c.Request.Context(), c.GetString("company_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CreateMovementType(c *gin.Context) {
	var req CreateMovementTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateMovementType(c.Request.Context(), c.GetString("company_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListMovementTypes(c *gin.Context) {
	resp, err := h.service.ListMovementTypes(c.Request.Context(), c.GetString("company_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RecordMovement(c *gin.Context) {
	var req RecordMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.RecordMovement(c.Request.Context(), c.GetString("company_id"), c.GetString("user_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdateMovement(c *gin.Context) {
	var req UpdateMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateMovement(c.Request.Context(), c.GetString("company_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMovement(c *gin.Context) {
	resp, err := h.service.GetMovement(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMovements(c *gin.Context) {
	filter := MovementFilter{
		ItemID:   strings.TrimSpace(c.Query("item_id")),
		BranchID: strings.TrimSpace(c.Query("branch_id")),
	}
	resp, err := h.service.ListMovements(c.Request.Context(), c.GetString("company_id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageQuery(c, 20)

	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetLineItem(c *gin.Context) {
	resp, err := h.service.GetLineItem(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListLineItems(c *gin.Context) {
	resp, err := h.service.ListLineItems(c.Request.Context(), c.GetString("company_id"), strings.TrimSpace(c.Query("branch_id")))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if level := strings.TrimSpace(c.Query("level")); level != "" {
		filtered := make([]LineItemResponse, 0, len(resp))
		for _, li := range resp {
			if li.Level == level {
				filtered = append(filtered, li)
			}
		}
		resp = filtered
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reserve(c *gin.Context) {
	var req ReservationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Reserve(c.Request.Context(), c.GetString("company_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Release(c *gin.Context) {
	var req ReservationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Release(c.Request.Context(), c.GetString("company_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
