package handler

import (
	"errors"
	"net/http"

	"garage/internal/middleware"
	"garage/internal/payments"
	"garage/internal/service"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/work-orders/:id/payments")
	group.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAdvisor))
	{
		group.GET("", h.ListPayments)
		group.POST("", h.RecordPayment)
		group.POST("/capture", h.CapturePayment)
	}
}

// @Summary      List payments
// @Description  Payments of a work order with the amount due and outstanding balance
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=service.PaymentSummaryResponse}
// @Router       /api/work-orders/{id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.paymentService.ListPayments(c.Request.Context(), woID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// RecordPayment registers a cash, card or transfer payment taken at the counter
// @Summary      Record payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Work order ID"
// @Param        payload  body      service.RecordPaymentRequest  true  "Payment"
// @Success      201      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response "Invalid amount or above the balance"
// @Router       /api/work-orders/{id}/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.paymentService.RecordPayment(c.Request.Context(), woID, req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}

// CapturePayment charges a card token through MercadoPago
// @Summary      Capture card payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Work order ID"
// @Param        payload  body      service.CapturePaymentRequest  true  "Card token and amount"
// @Success      201      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response "Declined"
// @Failure      503      {object}  response.Response "Gateway not configured"
// @Router       /api/work-orders/{id}/payments/capture [post]
func (h *PaymentHandler) CapturePayment(c *gin.Context) {
	woID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.CapturePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.paymentService.CapturePayment(c.Request.Context(), woID, req, middleware.ActorID(c))
	if err != nil {
		if errors.Is(err, payments.ErrGatewayNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, err.Error()))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}
