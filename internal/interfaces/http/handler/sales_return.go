package handler

import (
	"github.com/gin-gonic/gin"

	apptrade "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// SalesReturnHandler handles sales return endpoints
type SalesReturnHandler struct {
	BaseHandler
	service *apptrade.SalesReturnService
}

// NewSalesReturnHandler creates a new SalesReturnHandler
func NewSalesReturnHandler(service *apptrade.SalesReturnService) *SalesReturnHandler {
	return &SalesReturnHandler{service: service}
}

// RegisterRoutes registers sales return routes
func (h *SalesReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/sales-returns")
	{
		returns.POST("", h.Create)
		returns.GET("", h.List)
		returns.GET("/:id", h.GetByID)
	}
}

// Create handles POST /sales-returns
func (h *SalesReturnHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req apptrade.CreateSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /sales-returns/:id
func (h *SalesReturnHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /sales-returns
func (h *SalesReturnHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}
	req.Normalize()

	resp, total, err := h.service.List(c.Request.Context(), req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, req.Page, req.PageSize)
}
