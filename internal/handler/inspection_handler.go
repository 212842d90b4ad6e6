package handler

import (
	"net/http"

	"garage/internal/middleware"
	"garage/internal/service"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
)

type InspectionHandler struct {
	inspectionService service.InspectionService
}

func NewInspectionHandler(inspectionService service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService}
}

func (h *InspectionHandler) RegisterRoutes(router *gin.RouterGroup) {
	templates := router.Group("/api/inspection-templates")
	templates.Use(middleware.RequireStaff())
	{
		templates.GET("", h.ListTemplates)
		templates.GET("/:id", h.GetTemplate)
		templates.POST("", middleware.RequireRole(middleware.RoleAdmin), h.CreateTemplate)
		templates.PUT("/:id", middleware.RequireRole(middleware.RoleAdmin), h.UpdateTemplate)
		templates.DELETE("/:id", middleware.RequireRole(middleware.RoleAdmin), h.DeleteTemplate)
	}

	staff := router.Group("/api")
	staff.Use(middleware.RequireStaff())
	{
		staff.POST("/work-orders/:id/inspections", h.CreateInspection)
		staff.GET("/work-orders/:id/inspections", h.ListInspections)
		staff.GET("/inspections/:id", h.GetInspection)
		staff.POST("/inspections/:id/complete", h.CompleteInspection)
		staff.POST("/inspections/:id/items", h.AddItem)
		staff.PUT("/inspection-items/:id", h.UpdateItem)
		staff.DELETE("/inspection-items/:id", h.DeleteItem)
	}
}

// @Summary      List inspection templates
// @Tags         inspections
// @Security     BearerAuth
// @Produce      json
// @Param        active  query     bool  false  "Only active templates"
// @Success      200     {object}  response.Response{data=[]service.TemplateResponse}
// @Router       /api/inspection-templates [get]
func (h *InspectionHandler) ListTemplates(c *gin.Context) {
	templates, err := h.inspectionService.ListTemplates(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, templates))
}

// @Summary      Get inspection template
// @Tags         inspections
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Template ID"
// @Success      200  {object}  response.Response{data=service.TemplateResponse}
// @Router       /api/inspection-templates/{id} [get]
func (h *InspectionHandler) GetTemplate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	tpl, err := h.inspectionService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tpl))
}

// @Summary      Create inspection template
// @Tags         inspections
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TemplateRequest  true  "Template with ordered items"
// @Success      201      {object}  response.Response{data=service.TemplateResponse}
// @Failure      409      {object}  response.Response "Name already used"
// @Router       /api/inspection-templates [post]
func (h *InspectionHandler) CreateTemplate(c *gin.Context) {
	var req service.TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.inspectionService.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tpl))
}

// UpdateTemplate replaces the template's fields and items
// @Summary      Update inspection template
// @Tags         inspections
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Template ID"
// @Param        payload  body      service.TemplateRequest  true  "Template"
// @Success      200      {object}  response.Response{data=service.TemplateResponse}
// @Router       /api/inspection-templates/{id} [put]
func (h *InspectionHandler) UpdateTemplate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.inspectionService.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tpl))
}

// @Summary      Delete inspection template
// @Tags         inspections
// @Security     BearerAuth
// @Param        id   path      string  true  "Template ID"
// @Success      200  {object}  response.Response
// @Router       /api/inspection-templates/{id} [delete]
func (h *InspectionHandler) DeleteTemplate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.inspectionService.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Template deleted"}))
}

// CreateInspection starts an inspection, copying the template items when one is given
// @Summary      Create inspection
// @Tags         inspections
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Work order ID"
// @Param        payload  body      service.CreateInspectionRequest  true  "Template or ad hoc name"
// @Success      201      {object}  response.Response{data=service.InspectionResponse}
// @Router       /api/work-orders/{id}/inspections [post]
func (h *InspectionHandler) CreateInspection(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.CreateInspectionRequest
	if !bindJSON(c, &req) {
		return
	}
	inspection, err := h.inspectionService.CreateInspection(c.Request.Context(), woID, req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, inspection))
}

// @Summary      List inspections of a work order
// @Tags         inspections
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=[]service.InspectionResponse}
// @Router       /api/work-orders/{id}/inspections [get]
func (h *InspectionHandler) ListInspections(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	list, err := h.inspectionService.ListInspections(c.Request.Context(), woID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// @Summary      Get inspection
// @Tags         inspections
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Inspection ID"
// @Success      200  {object}  response.Response{data=service.InspectionResponse}
// @Router       /api/inspections/{id} [get]
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	inspection, err := h.inspectionService.GetInspection(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, inspection))
}

// @Summary      Complete inspection
// @Tags         inspections
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Inspection ID"
// @Success      200  {object}  response.Response{data=service.InspectionResponse}
// @Router       /api/inspections/{id}/complete [post]
func (h *InspectionHandler) CompleteInspection(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	inspection, err := h.inspectionService.CompleteInspection(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, inspection))
}

// @Summary      Add checklist item
// @Tags         inspections
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Inspection ID"
// @Param        payload  body      service.ChecklistItemRequest  true  "Item"
// @Success      201      {object}  response.Response{data=service.ChecklistItemResponse}
// @Router       /api/inspections/{id}/items [post]
func (h *InspectionHandler) AddItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.ChecklistItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.inspectionService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// @Summary      Update checklist item
// @Tags         inspections
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                              true  "Item ID"
// @Param        payload  body      service.UpdateChecklistItemRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=service.ChecklistItemResponse}
// @Router       /api/inspection-items/{id} [put]
func (h *InspectionHandler) UpdateItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateChecklistItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.inspectionService.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// @Summary      Delete checklist item
// @Tags         inspections
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Router       /api/inspection-items/{id} [delete]
func (h *InspectionHandler) DeleteItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.inspectionService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Item deleted"}))
}
