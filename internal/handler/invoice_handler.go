package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"garage/internal/middleware"
	"garage/internal/service"
	"garage/pkg/pagination"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	billing := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAdvisor)

	orders := router.Group("/api/work-orders/:id/invoice")
	orders.Use(middleware.RequireStaff())
	{
		orders.POST("", billing, h.CreateInvoice)
		orders.GET("", h.GetInvoiceByWorkOrder)
	}

	invoices := router.Group("/api/invoices")
	invoices.Use(billing)
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/export", h.ExportRegister)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id/status", h.UpdateInvoiceStatus)
		invoices.DELETE("/:id", middleware.RequireRole(middleware.RoleAdmin), h.DeleteInvoice)
		invoices.POST("/:id/pdf", h.RegeneratePDF)
	}
}

// CreateInvoice issues the invoice for a work order
// @Summary      Create invoice
// @Description  Snapshots the billable lines of the work order into an invoice. A work order is invoiced at most once.
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true   "Work order ID"
// @Param        payload  body      service.CreateInvoiceRequest  false  "Due date, notes and terms"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response "Already invoiced"
// @Router       /api/work-orders/{id}/invoice [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.CreateInvoiceRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), woID, req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// @Summary      Get invoice of a work order
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/invoice [get]
func (h *InvoiceHandler) GetInvoiceByWorkOrder(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoiceByWorkOrder(c.Request.Context(), woID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ListInvoices returns a paginated list of invoices
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        status       query     string  false  "Filter by status (PENDING, SENT, PAID, OVERDUE, CANCELLED)"
// @Param        customer_id  query     string  false  "Filter by customer"
// @Param        search       query     string  false  "Search by invoice number"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20)"
// @Success      200          {object}  response.Response{data=response.Page}
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	p := pagination.Parse(c)
	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), service.InvoiceFilter{
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
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(invoices, total)))
}

// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// @Summary      Update invoice status
// @Description  PAID and CANCELLED invoices are final
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                              true  "Invoice ID"
// @Param        payload  body      service.UpdateInvoiceStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateInvoiceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), id, req.Status, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// @Summary      Delete invoice
// @Tags         invoices
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response "Paid invoices cannot be deleted"
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id, middleware.ActorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Invoice deleted"}))
}

// @Summary      Regenerate invoice PDF
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Router       /api/invoices/{id}/pdf [post]
func (h *InvoiceHandler) RegeneratePDF(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.RegeneratePDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ExportRegister downloads the invoices issued in a date range as xlsx
// @Summary      Export invoice register
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query     string  true  "Start date (YYYY-MM-DD), inclusive"
// @Param        to    query     string  true  "End date (YYYY-MM-DD), inclusive"
// @Success      200   {file}    file
// @Failure      400   {object}  response.Response
// @Router       /api/invoices/export [get]
func (h *InvoiceHandler) ExportRegister(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		badRequest(c, "invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		badRequest(c, "invalid to date, expected YYYY-MM-DD")
		return
	}

	var buf bytes.Buffer
	if err := h.invoiceService.ExportRegister(c.Request.Context(), &buf, from, to.AddDate(0, 0, 1)); err != nil {
		respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("invoices_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
