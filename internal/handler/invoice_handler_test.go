package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"garage/internal/service"
	"garage/internal/service/mocks"
	"garage/pkg/apperror"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newInvoiceRouter(t *testing.T) (*gin.Engine, *mocks.MockInvoiceService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockInvoiceService(ctrl)
	h := NewInvoiceHandler(svc)

	r := gin.New()
	r.POST("/api/work-orders/:id/invoice", h.CreateInvoice)
	r.GET("/api/invoices", h.ListInvoices)
	r.GET("/api/invoices/export", h.ExportRegister)
	r.PUT("/api/invoices/:id/status", h.UpdateInvoiceStatus)
	return r, svc
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestInvoiceHandler_CreateInvoice(t *testing.T) {
	woID := uuid.New()

	t.Run("invalid work order id", func(t *testing.T) {
		r, _ := newInvoiceRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/work-orders/not-a-uuid/invoice", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("created without body", func(t *testing.T) {
		r, svc := newInvoiceRouter(t)
		svc.EXPECT().
			CreateInvoice(gomock.Any(), woID, service.CreateInvoiceRequest{}, gomock.Nil()).
			Return(service.InvoiceResponse{InvoiceNumber: "INV-202610-0001", TotalAmount: "59.00"}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/work-orders/"+woID.String()+"/invoice", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "INV-202610-0001", data["invoice_number"])
		assert.Equal(t, "59.00", data["total_amount"])
	})

	t.Run("notes are passed through", func(t *testing.T) {
		r, svc := newInvoiceRouter(t)
		svc.EXPECT().
			CreateInvoice(gomock.Any(), woID, service.CreateInvoiceRequest{Notes: "thanks"}, gomock.Nil()).
			Return(service.InvoiceResponse{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/work-orders/"+woID.String()+"/invoice", bytes.NewBufferString(`{"notes":"thanks"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"already invoiced", apperror.Conflict("work order WO-20261018-001 is already invoiced"), http.StatusConflict},
		{"nothing to invoice", apperror.Validation("work order has nothing to invoice"), http.StatusBadRequest},
		{"unknown work order", apperror.NotFound("work order not found"), http.StatusNotFound},
		{"unexpected", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := newInvoiceRouter(t)
			svc.EXPECT().CreateInvoice(gomock.Any(), woID, gomock.Any(), gomock.Any()).Return(service.InvoiceResponse{}, tt.err)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/work-orders/"+woID.String()+"/invoice", nil))
			assert.Equal(t, tt.want, w.Code)

			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			if tt.want == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", resp.Error)
			} else {
				assert.Equal(t, tt.err.Error(), resp.Error)
			}
		})
	}
}

func TestInvoiceHandler_ListInvoices(t *testing.T) {
	r, svc := newInvoiceRouter(t)
	svc.EXPECT().
		ListInvoices(gomock.Any(), service.InvoiceFilter{Status: "PAID", Page: 2, Limit: 100}).
		Return([]service.InvoiceResponse{{InvoiceNumber: "INV-202610-0003"}}, int64(101), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/invoices?status=PAID&page=2&limit=500", nil))

	require.Equal(t, http.StatusOK, w.Code)
	page := decodeResponse(t, w).Data.(map[string]interface{})
	assert.EqualValues(t, 101, page["total"])
	assert.EqualValues(t, 100, page["limit"])
	assert.Len(t, page["items"], 1)
}

func TestInvoiceHandler_UpdateInvoiceStatus(t *testing.T) {
	id := uuid.New()

	t.Run("binding rejects unknown status", func(t *testing.T) {
		r, _ := newInvoiceRouter(t)
		req := httptest.NewRequest(http.MethodPut, "/api/invoices/"+id.String()+"/status", bytes.NewBufferString(`{"status":"PENDING"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("final invoice", func(t *testing.T) {
		r, svc := newInvoiceRouter(t)
		svc.EXPECT().UpdateInvoiceStatus(gomock.Any(), id, "CANCELLED", gomock.Nil()).
			Return(service.InvoiceResponse{}, apperror.Validation("invoice INV-202610-0001 is PAID and cannot change"))

		req := httptest.NewRequest(http.MethodPut, "/api/invoices/"+id.String()+"/status", bytes.NewBufferString(`{"status":"CANCELLED"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceHandler_ExportRegister(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		r, _ := newInvoiceRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/invoices/export?from=yesterday&to=2026-10-31", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("streams xlsx with an inclusive end date", func(t *testing.T) {
		r, svc := newInvoiceRouter(t)
		from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
		svc.EXPECT().ExportRegister(gomock.Any(), gomock.Any(), from, to).
			DoAndReturn(func(_ interface{}, w io.Writer, _, _ time.Time) error {
				_, err := w.Write([]byte("xlsx-bytes"))
				return err
			})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/invoices/export?from=2026-10-01&to=2026-10-31", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "invoices_20261001_20261031.xlsx")
		assert.Equal(t, "xlsx-bytes", w.Body.String())
	})
}
