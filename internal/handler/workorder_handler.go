package handler

import (
	"net/http"

	"garage/internal/middleware"
	"garage/internal/service"
	"garage/pkg/pagination"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WorkOrderHandler struct {
	workOrderService  service.WorkOrderService
	inspectionService service.InspectionService
}

func NewWorkOrderHandler(workOrderService service.WorkOrderService, inspectionService service.InspectionService) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderService:  workOrderService,
		inspectionService: inspectionService,
	}
}

func (h *WorkOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/work-orders")
	orders.Use(middleware.RequireStaff())
	{
		orders.POST("", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAdvisor), h.CreateWorkOrder)
		orders.GET("", h.ListWorkOrders)
		orders.GET("/:id", h.GetWorkOrder)
		orders.PUT("/:id/status", h.TransitionStatus)
		orders.POST("/:id/cancel", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAdvisor), h.CancelWorkOrder)
		orders.PUT("/:id/workflow-step", h.UpdateWorkflowStep)
		orders.PUT("/:id/discount", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAdvisor), h.SetDiscount)
		orders.GET("/:id/inspection-status", h.GetInspectionStatus)
		orders.GET("/:id/estimate-readiness", h.GetEstimateReadiness)
	}
}

// CreateWorkOrder opens a work order for a customer's vehicle
// @Summary      Create work order
// @Description  Opens a new work order in CHECK_IN with a generated WO-YYYYMMDD-NNN number
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWorkOrderRequest  true  "Work order payload"
// @Success      201      {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	var req service.CreateWorkOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	wo, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, wo))
}

// ListWorkOrders returns a paginated list of work orders
// @Summary      List work orders
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        status       query     string  false  "Filter by status"
// @Param        customer_id  query     string  false  "Filter by customer"
// @Param        search       query     string  false  "Search by work order number"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20)"
// @Success      200          {object}  response.Response{data=response.Page}
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	p := pagination.Parse(c)
	orders, total, err := h.workOrderService.ListWorkOrders(c.Request.Context(), service.WorkOrderListFilter{
		Status:     c.Query("status"),
		CustomerID: c.Query("customer_id"),
		Search:     c.Query("search"),
		Page:       p.Page,
		Limit:      p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(orders, total)))
}

// GetWorkOrder returns a work order with its lines
// @Summary      Get work order
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	wo, err := h.workOrderService.GetWorkOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// TransitionStatus moves a work order through its status graph
// @Summary      Transition status
// @Description  Validates the transition and its guards (customer approval, inspection gate, invoice)
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Work order ID"
// @Param        payload  body      service.TransitionStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/work-orders/{id}/status [put]
func (h *WorkOrderHandler) TransitionStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.TransitionStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	wo, err := h.workOrderService.TransitionStatus(c.Request.Context(), id, req.Status, req.Reason, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// CancelWorkOrder cancels a work order and records the reason
// @Summary      Cancel work order
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Work order ID"
// @Param        payload  body      service.CancelWorkOrderRequest  true  "Cancellation reason"
// @Success      200      {object}  response.Response{data=service.WorkOrderResponse}
// @Router       /api/work-orders/{id}/cancel [post]
func (h *WorkOrderHandler) CancelWorkOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.CancelWorkOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	wo, err := h.workOrderService.CancelWorkOrder(c.Request.Context(), id, req.Reason, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// @Summary      Update workflow step
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Work order ID"
// @Param        payload  body      service.UpdateWorkflowStepRequest  true  "Step"
// @Success      200      {object}  response.Response{data=service.WorkOrderResponse}
// @Router       /api/work-orders/{id}/workflow-step [put]
func (h *WorkOrderHandler) UpdateWorkflowStep(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateWorkflowStepRequest
	if !bindJSON(c, &req) {
		return
	}
	wo, err := h.workOrderService.UpdateWorkflowStep(c.Request.Context(), id, req.Step, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// @Summary      Set discount
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Work order ID"
// @Param        payload  body      service.SetDiscountRequest  true  "Discount amount"
// @Success      200      {object}  response.Response{data=service.WorkOrderResponse}
// @Router       /api/work-orders/{id}/discount [put]
func (h *WorkOrderHandler) SetDiscount(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.SetDiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		badRequest(c, "invalid amount")
		return
	}
	wo, err := h.workOrderService.SetDiscount(c.Request.Context(), id, amount, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// @Summary      Inspection status
// @Tags         inspections
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=service.InspectionStatus}
// @Router       /api/work-orders/{id}/inspection-status [get]
func (h *WorkOrderHandler) GetInspectionStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	status, err := h.inspectionService.GetInspectionStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}

// @Summary      Estimate readiness
// @Description  Reports whether the inspection gate allows moving to ESTIMATE, with reasons when blocked
// @Tags         inspections
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=service.EstimateReadiness}
// @Router       /api/work-orders/{id}/estimate-readiness [get]
func (h *WorkOrderHandler) GetEstimateReadiness(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	readiness, err := h.inspectionService.CanProceedToEstimate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, readiness))
}
