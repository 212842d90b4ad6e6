package handler

import (
	"net/http"

	"garage/internal/middleware"
	"garage/internal/service"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApprovalHandler serves the customer-facing approval endpoints. The token
// subject is mapped to a customer id on every request.
type ApprovalHandler struct {
	approvalService service.ApprovalService
	actors          service.ActorResolver
}

func NewApprovalHandler(approvalService service.ApprovalService, actors service.ActorResolver) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService, actors: actors}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	customer := middleware.RequireRole(middleware.RoleCustomer)

	router.GET("/api/work-orders/:id/pending-approvals", customer, h.GetPendingApprovals)

	approvals := router.Group("/api/approvals")
	approvals.Use(customer)
	{
		approvals.POST("/services/:lineId/approve", h.ApproveService)
		approvals.POST("/services/:lineId/reject", h.RejectService)
		approvals.POST("/parts/:lineId/approve", h.ApprovePart)
		approvals.POST("/parts/:lineId/reject", h.RejectPart)
	}
}

func (h *ApprovalHandler) customerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := h.actors.ResolveCustomer(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		respondError(c, err)
		return uuid.Nil, false
	}
	return id, true
}

// GetPendingApprovals lists the lines still waiting for the customer's decision
// @Summary      Pending approvals
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=service.PendingApprovalsResponse}
// @Failure      403  {object}  response.Response "Not the work order's customer"
// @Router       /api/work-orders/{id}/pending-approvals [get]
func (h *ApprovalHandler) GetPendingApprovals(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	pending, err := h.approvalService.GetPendingApprovals(c.Request.Context(), woID, customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pending))
}

// ApproveService approves a service line. Approving twice is a no-op.
// @Summary      Approve service line
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        lineId   path      string                      true   "Service line ID"
// @Param        payload  body      service.ApproveLineRequest  false  "Notes"
// @Success      200      {object}  response.Response{data=service.ServiceLineResponse}
// @Router       /api/approvals/services/{lineId}/approve [post]
func (h *ApprovalHandler) ApproveService(c *gin.Context) {
	lineID, ok := uuidParam(c, "lineId")
	if !ok {
		return
	}
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	var req service.ApproveLineRequest
	// body is optional
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	line, err := h.approvalService.ApproveService(c.Request.Context(), lineID, customerID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, line))
}

// @Summary      Reject service line
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        lineId   path      string                     true   "Service line ID"
// @Param        payload  body      service.RejectLineRequest  false  "Reason"
// @Success      200      {object}  response.Response{data=service.ServiceLineResponse}
// @Router       /api/approvals/services/{lineId}/reject [post]
func (h *ApprovalHandler) RejectService(c *gin.Context) {
	lineID, ok := uuidParam(c, "lineId")
	if !ok {
		return
	}
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	var req service.RejectLineRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	line, err := h.approvalService.RejectService(c.Request.Context(), lineID, customerID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, line))
}

// @Summary      Approve part line
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        lineId   path      string                      true   "Part line ID"
// @Param        payload  body      service.ApproveLineRequest  false  "Notes"
// @Success      200      {object}  response.Response{data=service.PartLineResponse}
// @Router       /api/approvals/parts/{lineId}/approve [post]
func (h *ApprovalHandler) ApprovePart(c *gin.Context) {
	lineID, ok := uuidParam(c, "lineId")
	if !ok {
		return
	}
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	var req service.ApproveLineRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	line, err := h.approvalService.ApprovePart(c.Request.Context(), lineID, customerID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, line))
}

// @Summary      Reject part line
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        lineId   path      string                     true   "Part line ID"
// @Param        payload  body      service.RejectLineRequest  false  "Reason"
// @Success      200      {object}  response.Response{data=service.PartLineResponse}
// @Router       /api/approvals/parts/{lineId}/reject [post]
func (h *ApprovalHandler) RejectPart(c *gin.Context) {
	lineID, ok := uuidParam(c, "lineId")
	if !ok {
		return
	}
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	var req service.RejectLineRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	line, err := h.approvalService.RejectPart(c.Request.Context(), lineID, customerID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, line))
}
