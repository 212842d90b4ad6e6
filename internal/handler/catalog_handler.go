package handler

import (
	"net/http"

	"garage/internal/middleware"
	"garage/internal/service"
	"garage/pkg/pagination"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the service catalog and the parts inventory.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := middleware.RequireRole(middleware.RoleAdmin)

	catalog := router.Group("/api/catalog")
	catalog.Use(middleware.RequireStaff())
	{
		catalog.GET("/services", h.ListServices)
		catalog.GET("/services/:id", h.GetService)
		catalog.POST("/services", admin, h.CreateService)
	}

	parts := router.Group("/api/parts")
	parts.Use(middleware.RequireStaff())
	{
		parts.GET("", h.ListParts)
		parts.GET("/:id", h.GetPart)
		parts.POST("", admin, h.CreatePart)
		parts.POST("/:id/adjust", admin, h.AdjustStock)
	}
}

// @Summary      List catalog services
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        active  query     bool  false  "Only active services"
// @Success      200     {object}  response.Response{data=[]service.CatalogServiceResponse}
// @Router       /api/catalog/services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalogService.ListServices(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, services))
}

// @Summary      Get catalog service
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  response.Response{data=service.CatalogServiceResponse}
// @Router       /api/catalog/services/{id} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	svc, err := h.catalogService.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, svc))
}

// @Summary      Create catalog service
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCatalogServiceRequest  true  "Service"
// @Success      201      {object}  response.Response{data=service.CatalogServiceResponse}
// @Failure      409      {object}  response.Response "Code already used"
// @Router       /api/catalog/services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req service.CreateCatalogServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	svc, err := h.catalogService.CreateService(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, svc))
}

// ListParts handles retrieving paginated inventory
// @Summary      List parts
// @Description  Retrieves a paginated list of parts with current stock
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by SKU or name"
// @Success      200     {object}  response.Response{data=response.Page}
// @Router       /api/parts [get]
func (h *CatalogHandler) ListParts(c *gin.Context) {
	p := pagination.Parse(c)
	parts, total, err := h.catalogService.ListParts(c.Request.Context(), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(parts, total)))
}

// @Summary      Get part
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Part ID"
// @Success      200  {object}  response.Response{data=service.PartResponse}
// @Router       /api/parts/{id} [get]
func (h *CatalogHandler) GetPart(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	part, err := h.catalogService.GetPart(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// @Summary      Create part
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePartRequest  true  "Part"
// @Success      201      {object}  response.Response{data=service.PartResponse}
// @Router       /api/parts [post]
func (h *CatalogHandler) CreatePart(c *gin.Context) {
	var req service.CreatePartRequest
	if !bindJSON(c, &req) {
		return
	}
	part, err := h.catalogService.CreatePart(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, part))
}

// AdjustStock corrects the stock count and broadcasts the new level
// @Summary      Adjust stock
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Part ID"
// @Param        payload  body      service.AdjustStockRequest  true  "Signed delta"
// @Success      200      {object}  response.Response{data=service.PartResponse}
// @Failure      400      {object}  response.Response "Stock would go negative"
// @Router       /api/parts/{id}/adjust [post]
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	part, err := h.catalogService.AdjustStock(c.Request.Context(), id, req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}
