package service

import (
	"errors"
	"strings"
	"testing"

	"garage/internal/model"
	"garage/internal/notification"
	notifmocks "garage/internal/notification/mocks"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateWorkOrder(t *testing.T) {
	h := defaultHarness(t)

	wo := h.newWorkOrder(t)
	assert.Equal(t, "WO-20261018-001", wo.WorkOrderNumber)
	assert.Equal(t, model.StatusPending, wo.Status)
	assert.Equal(t, model.StepCheckIn, wo.WorkflowStep)
	assert.Equal(t, model.PaymentStatusPending, wo.PaymentStatus)
	assert.Equal(t, "0.00", wo.TotalAmount)
	assert.Equal(t, "Ana Ruiz", wo.CustomerName)

	other := model.Customer{Name: "Someone Else"}
	require.NoError(t, h.customerRepo.Create(h.ctx, &other))
	_, err := h.workOrders.CreateWorkOrder(h.ctx, CreateWorkOrderRequest{
		CustomerID: other.ID.String(),
		VehicleID:  h.vehicle.ID.String(),
	}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestTransitionStatus_Guards(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	_, err := h.workOrders.TransitionStatus(h.ctx, woID, model.StatusInProgress, "", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation, "PENDING cannot jump to IN_PROGRESS")

	_, err = h.workOrders.TransitionStatus(h.ctx, woID, "FINISHED", "", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	h.moveTo(t, wo.ID, model.StatusEstimate)
	_, err = h.workOrders.TransitionStatus(h.ctx, woID, model.StatusAwaitingApproval, "", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation, "an empty estimate cannot be sent")

	line := h.addService(t, wo.ID, "Oil change", "40", 1)
	h.moveTo(t, wo.ID, model.StatusAwaitingApproval)

	_, err = h.workOrders.TransitionStatus(h.ctx, woID, model.StatusInProgress, "", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation, "pending approvals block work")

	h.approveService(t, line.ID)
	moved, err := h.workOrders.TransitionStatus(h.ctx, woID, model.StatusInProgress, "", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StepRepair, moved.WorkflowStep)
	require.NotNil(t, moved.OpenedAt)

	h.moveTo(t, wo.ID, model.StatusQCPending, model.StatusCompleted)
	done := h.reload(t, wo.ID)
	assert.Equal(t, model.StatusCompleted, done.Status)
	assert.NotNil(t, done.ClosedAt)

	_, err = h.workOrders.TransitionStatus(h.ctx, woID, model.StatusInProgress, "", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation, "COMPLETED is terminal")
}

func TestTransitionStatus_SameStatusIsSilent(t *testing.T) {
	rec := &recordingNotifier{}
	h := newHarness(t, harnessOptions{notifier: rec})
	wo := h.newWorkOrder(t)

	same, err := h.workOrders.TransitionStatus(h.ctx, uuid.MustParse(wo.ID), model.StatusPending, "", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, same.Status)
	assert.Empty(t, rec.events())
}

func TestTransitionStatus_NotifiesCustomer(t *testing.T) {
	rec := &recordingNotifier{}
	h := newHarness(t, harnessOptions{notifier: rec})
	wo := h.newWorkOrder(t)
	line := h.addService(t, wo.ID, "Oil change", "40", 1)
	h.approveService(t, line.ID)

	h.moveTo(t, wo.ID, model.StatusEstimate, model.StatusAwaitingApproval, model.StatusInProgress, model.StatusQCPending, model.StatusCompleted)

	events := rec.events()
	require.Len(t, events, 5)
	first := events[0]
	assert.Equal(t, notification.EventWorkOrderStatusChanged, first.EventType)
	assert.Equal(t, "ana@example.com", first.Recipient.Email)
	assert.Equal(t, model.StatusPending, first.Data["old_status"])
	assert.Equal(t, model.StatusEstimate, first.Data["new_status"])
	assert.Equal(t, notification.PriorityNormal, first.Priority)

	last := events[4]
	assert.Equal(t, notification.PriorityHigh, last.Priority)
	assert.Contains(t, last.Channels, notification.ChannelSMS)
}

func TestTransitionStatus_NotifierFailureKeepsStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := notifmocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down")).MinTimes(1)

	h := newHarness(t, harnessOptions{taxRate: dec("0.18"), notifier: notifier})
	wo := h.newWorkOrder(t)

	moved, err := h.workOrders.TransitionStatus(h.ctx, uuid.MustParse(wo.ID), model.StatusEstimate, "", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEstimate, moved.Status)
	assert.Equal(t, model.StatusEstimate, h.reload(t, wo.ID).Status)
}

func TestCancelWorkOrder(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	_, err := h.workOrders.CancelWorkOrder(h.ctx, woID, "  ", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	cancelled, err := h.workOrders.CancelWorkOrder(h.ctx, woID, "customer left", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, model.StepClosed, cancelled.WorkflowStep)
	assert.True(t, strings.HasSuffix(cancelled.Notes, "[Cancelled 2026-10-18 10:00:00] customer left"))
	assert.NotNil(t, cancelled.ClosedAt)

	_, err = h.lines.AddService(h.ctx, woID, AddServiceLineRequest{Description: "x", Quantity: 1, UnitPrice: "1"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSetDiscount(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)
	h.addService(t, wo.ID, "Timing belt", "100", 1)

	_, err := h.workOrders.SetDiscount(h.ctx, woID, decimal.RequireFromString("-1"), nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = h.workOrders.SetDiscount(h.ctx, woID, decimal.RequireFromString("100.01"), nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	discounted, err := h.workOrders.SetDiscount(h.ctx, woID, decimal.RequireFromString("15.555"), nil)
	require.NoError(t, err)
	assert.Equal(t, "15.56", discounted.DiscountAmount)
	assert.Equal(t, "84.44", discounted.TotalAmount)
}

func TestUpdateWorkflowStep(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	_, err := h.workOrders.UpdateWorkflowStep(h.ctx, woID, "WASHING", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	updated, err := h.workOrders.UpdateWorkflowStep(h.ctx, woID, model.StepInspection, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StepInspection, updated.WorkflowStep)
}
