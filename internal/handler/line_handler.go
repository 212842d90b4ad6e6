package handler

import (
	"net/http"

	"garage/internal/middleware"
	"garage/internal/service"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LineHandler edits the service, part and labor lines of a work order.
type LineHandler struct {
	lineService service.LineService
}

func NewLineHandler(lineService service.LineService) *LineHandler {
	return &LineHandler{lineService: lineService}
}

func (h *LineHandler) RegisterRoutes(router *gin.RouterGroup) {
	lines := router.Group("/api/work-orders/:id")
	lines.Use(middleware.RequireStaff())
	{
		lines.POST("/services", h.AddService)
		lines.PUT("/services/:lineId", h.UpdateService)
		lines.DELETE("/services/:lineId", h.RemoveService)

		lines.POST("/parts", h.AddPart)
		lines.DELETE("/parts/:lineId", h.RemovePart)
		lines.POST("/parts/:lineId/install", h.InstallPart)

		lines.POST("/labor", h.AddLabor)
		lines.PUT("/labor/:lineId", h.UpdateLabor)
		lines.DELETE("/labor/:lineId", h.RemoveLabor)
	}
}

func lineParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	lineID, ok := uuidParam(c, "lineId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return woID, lineID, true
}

// AddService adds a service line, from the catalog or ad hoc
// @Summary      Add service line
// @Description  Adds a service line. With estimated_minutes or technician_id an attached labor row is created too; it is never billed separately.
// @Tags         work-order-lines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Work order ID"
// @Param        payload  body      service.AddServiceLineRequest  true  "Service line"
// @Success      201      {object}  response.Response{data=service.ServiceLineResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/work-orders/{id}/services [post]
func (h *LineHandler) AddService(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.AddServiceLineRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.lineService.AddService(c.Request.Context(), woID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, line))
}

// @Summary      Update service line
// @Tags         work-order-lines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Work order ID"
// @Param        lineId   path      string                            true  "Service line ID"
// @Param        payload  body      service.UpdateServiceLineRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=service.ServiceLineResponse}
// @Router       /api/work-orders/{id}/services/{lineId} [put]
func (h *LineHandler) UpdateService(c *gin.Context) {
	woID, lineID, ok := lineParams(c)
	if !ok {
		return
	}
	var req service.UpdateServiceLineRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.lineService.UpdateService(c.Request.Context(), woID, lineID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, line))
}

// @Summary      Remove service line
// @Tags         work-order-lines
// @Security     BearerAuth
// @Param        id      path  string  true  "Work order ID"
// @Param        lineId  path  string  true  "Service line ID"
// @Success      200     {object}  response.Response
// @Router       /api/work-orders/{id}/services/{lineId} [delete]
func (h *LineHandler) RemoveService(c *gin.Context) {
	woID, lineID, ok := lineParams(c)
	if !ok {
		return
	}
	if err := h.lineService.RemoveService(c.Request.Context(), woID, lineID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Service line removed"}))
}

// @Summary      Add part line
// @Tags         work-order-lines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Work order ID"
// @Param        payload  body      service.AddPartLineRequest  true  "Part line"
// @Success      201      {object}  response.Response{data=service.PartLineResponse}
// @Router       /api/work-orders/{id}/parts [post]
func (h *LineHandler) AddPart(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.AddPartLineRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.lineService.AddPart(c.Request.Context(), woID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, line))
}

// @Summary      Remove part line
// @Tags         work-order-lines
// @Security     BearerAuth
// @Param        id      path  string  true  "Work order ID"
// @Param        lineId  path  string  true  "Part line ID"
// @Success      200     {object}  response.Response
// @Router       /api/work-orders/{id}/parts/{lineId} [delete]
func (h *LineHandler) RemovePart(c *gin.Context) {
	woID, lineID, ok := lineParams(c)
	if !ok {
		return
	}
	if err := h.lineService.RemovePart(c.Request.Context(), woID, lineID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Part line removed"}))
}

// InstallPart takes the part out of stock and stamps the installer
// @Summary      Install part
// @Tags         work-order-lines
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true  "Work order ID"
// @Param        lineId  path      string  true  "Part line ID"
// @Success      200     {object}  response.Response{data=service.PartLineResponse}
// @Failure      400     {object}  response.Response "Not approved or insufficient stock"
// @Router       /api/work-orders/{id}/parts/{lineId}/install [post]
func (h *LineHandler) InstallPart(c *gin.Context) {
	woID, lineID, ok := lineParams(c)
	if !ok {
		return
	}
	line, err := h.lineService.InstallPart(c.Request.Context(), woID, lineID, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, line))
}

// @Summary      Add labor line
// @Tags         work-order-lines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Work order ID"
// @Param        payload  body      service.AddLaborRequest  true  "Labor line"
// @Success      201      {object}  response.Response{data=service.LaborResponse}
// @Router       /api/work-orders/{id}/labor [post]
func (h *LineHandler) AddLabor(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.AddLaborRequest
	if !bindJSON(c, &req) {
		return
	}
	labor, err := h.lineService.AddLabor(c.Request.Context(), woID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, labor))
}

// @Summary      Update labor line
// @Tags         work-order-lines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Work order ID"
// @Param        lineId   path      string                      true  "Labor ID"
// @Param        payload  body      service.UpdateLaborRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=service.LaborResponse}
// @Router       /api/work-orders/{id}/labor/{lineId} [put]
func (h *LineHandler) UpdateLabor(c *gin.Context) {
	woID, lineID, ok := lineParams(c)
	if !ok {
		return
	}
	var req service.UpdateLaborRequest
	if !bindJSON(c, &req) {
		return
	}
	labor, err := h.lineService.UpdateLabor(c.Request.Context(), woID, lineID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, labor))
}

// @Summary      Remove labor line
// @Tags         work-order-lines
// @Security     BearerAuth
// @Param        id      path  string  true  "Work order ID"
// @Param        lineId  path  string  true  "Labor ID"
// @Success      200     {object}  response.Response
// @Router       /api/work-orders/{id}/labor/{lineId} [delete]
func (h *LineHandler) RemoveLabor(c *gin.Context) {
	woID, lineID, ok := lineParams(c)
	if !ok {
		return
	}
	if err := h.lineService.RemoveLabor(c.Request.Context(), woID, lineID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Labor line removed"}))
}
