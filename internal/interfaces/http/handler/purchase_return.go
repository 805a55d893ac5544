package handler

import (
	"github.com/gin-gonic/gin"

	apptrade "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// PurchaseReturnHandler handles purchase return endpoints
type PurchaseReturnHandler struct {
	BaseHandler
	service *apptrade.PurchaseReturnService
}

// NewPurchaseReturnHandler creates a new PurchaseReturnHandler
func NewPurchaseReturnHandler(service *apptrade.PurchaseReturnService) *PurchaseReturnHandler {
	return &PurchaseReturnHandler{service: service}
}

// RegisterRoutes registers purchase return routes
func (h *PurchaseReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/purchase-returns")
	{
		returns.POST("", h.Create)
		returns.GET("", h.List)
		returns.GET("/:id", h.GetByID)
		returns.POST("/:id/approve", h.Approve)
		returns.POST("/:id/complete", h.Complete)
		returns.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /purchase-returns
func (h *PurchaseReturnHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req apptrade.CreatePurchaseReturnRequest
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

// Approve handles POST /purchase-returns/:id/approve
func (h *PurchaseReturnHandler) Approve(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID")
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete handles POST /purchase-returns/:id/complete
func (h *PurchaseReturnHandler) Complete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID")
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /purchase-returns/:id
func (h *PurchaseReturnHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetByID handles GET /purchase-returns/:id
func (h *PurchaseReturnHandler) GetByID(c *gin.Context) {
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

// List handles GET /purchase-returns
func (h *PurchaseReturnHandler) List(c *gin.Context) {
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
