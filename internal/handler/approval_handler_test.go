package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"garage/internal/middleware"
	"garage/internal/service"
	"garage/internal/service/mocks"
	"garage/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const customerSubject = "auth0|customer-1"

func newApprovalRouter(t *testing.T) (*gin.Engine, *mocks.MockApprovalService, *mocks.MockActorResolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockApprovalService(ctrl)
	actors := mocks.NewMockActorResolver(ctrl)
	h := NewApprovalHandler(svc, actors)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, customerSubject)
		c.Next()
	})
	r.POST("/api/approvals/services/:lineId/approve", h.ApproveService)
	r.POST("/api/approvals/services/:lineId/reject", h.RejectService)
	r.POST("/api/approvals/parts/:lineId/approve", h.ApprovePart)
	r.POST("/api/approvals/parts/:lineId/reject", h.RejectPart)
	return r, svc, actors
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApprovalHandler_MalformedBody(t *testing.T) {
	lineID := uuid.New()
	customerID := uuid.New()

	paths := []string{
		"/api/approvals/services/" + lineID.String() + "/approve",
		"/api/approvals/services/" + lineID.String() + "/reject",
		"/api/approvals/parts/" + lineID.String() + "/approve",
		"/api/approvals/parts/" + lineID.String() + "/reject",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			r, _, actors := newApprovalRouter(t)
			actors.EXPECT().ResolveCustomer(gomock.Any(), customerSubject).Return(customerID, nil)

			w := postJSON(r, path, `{"notes": `)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
		})
	}
}

func TestApprovalHandler_ApproveService(t *testing.T) {
	lineID := uuid.New()
	customerID := uuid.New()
	path := "/api/approvals/services/" + lineID.String() + "/approve"

	t.Run("empty body", func(t *testing.T) {
		r, svc, actors := newApprovalRouter(t)
		actors.EXPECT().ResolveCustomer(gomock.Any(), customerSubject).Return(customerID, nil)
		svc.EXPECT().ApproveService(gomock.Any(), lineID, customerID, "").
			Return(service.ServiceLineResponse{ID: lineID.String(), CustomerApproved: true}, nil)

		w := postJSON(r, path, "")

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, true, data["customer_approved"])
	})

	t.Run("notes are passed through", func(t *testing.T) {
		r, svc, actors := newApprovalRouter(t)
		actors.EXPECT().ResolveCustomer(gomock.Any(), customerSubject).Return(customerID, nil)
		svc.EXPECT().ApproveService(gomock.Any(), lineID, customerID, "go ahead").
			Return(service.ServiceLineResponse{ID: lineID.String()}, nil)

		w := postJSON(r, path, `{"notes":"go ahead"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown customer", func(t *testing.T) {
		r, _, actors := newApprovalRouter(t)
		actors.EXPECT().ResolveCustomer(gomock.Any(), customerSubject).
			Return(uuid.Nil, apperror.Unauthorized("no customer for this account"))

		w := postJSON(r, path, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestApprovalHandler_RejectPart(t *testing.T) {
	lineID := uuid.New()
	customerID := uuid.New()
	path := "/api/approvals/parts/" + lineID.String() + "/reject"

	t.Run("reason is passed through", func(t *testing.T) {
		r, svc, actors := newApprovalRouter(t)
		actors.EXPECT().ResolveCustomer(gomock.Any(), customerSubject).Return(customerID, nil)
		svc.EXPECT().RejectPart(gomock.Any(), lineID, customerID, "not now").
			Return(service.PartLineResponse{ID: lineID.String(), CustomerRejected: true}, nil)

		w := postJSON(r, path, `{"reason":"not now"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("installed part", func(t *testing.T) {
		r, svc, actors := newApprovalRouter(t)
		actors.EXPECT().ResolveCustomer(gomock.Any(), customerSubject).Return(customerID, nil)
		svc.EXPECT().RejectPart(gomock.Any(), lineID, customerID, "").
			Return(service.PartLineResponse{}, apperror.Validation("an installed part cannot be rejected"))

		w := postJSON(r, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
