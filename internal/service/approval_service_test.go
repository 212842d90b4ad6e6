package service

import (
	"testing"

	"garage/internal/model"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveService_IsIdempotent(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	line := h.addService(t, wo.ID, "Oil change", "40", 1)
	lineID := uuid.MustParse(line.ID)

	first, err := h.approvals.ApproveService(h.ctx, lineID, h.customer.ID, "go ahead")
	require.NoError(t, err)
	second, err := h.approvals.ApproveService(h.ctx, lineID, h.customer.ID, "again")
	require.NoError(t, err)

	assert.True(t, first.CustomerApproved)
	assert.Equal(t, first.ApprovedAt, second.ApprovedAt)
	assert.Equal(t, "go ahead", second.ApprovalNotes)

	logs, total, err := h.auditRepo.List(h.ctx, repository.AuditFilter{Action: model.ActionApproveLine, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, logs, 1)
}

func TestApproveService_RejectsOtherCustomer(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	line := h.addService(t, wo.ID, "Oil change", "40", 1)

	_, err := h.approvals.ApproveService(h.ctx, uuid.MustParse(line.ID), uuid.New(), "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	stored, err := h.lineRepo.FindServiceByID(h.ctx, uuid.MustParse(line.ID))
	require.NoError(t, err)
	assert.True(t, stored.AwaitingDecision())
}

func TestRejectService_DropsLineFromTotals(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	keep := h.addService(t, wo.ID, "Oil change", "40", 1)
	drop := h.addService(t, wo.ID, "Wheel alignment", "25", 2)
	assert.Equal(t, "90.00", money(h.reload(t, wo.ID).TotalAmount))

	rejected, err := h.approvals.RejectService(h.ctx, uuid.MustParse(drop.ID), h.customer.ID, "too expensive")
	require.NoError(t, err)
	assert.True(t, rejected.CustomerRejected)
	assert.Equal(t, model.LineStatusCancelled, rejected.Status)
	assert.Equal(t, "too expensive", rejected.RejectionReason)

	assert.Equal(t, "40.00", money(h.reload(t, wo.ID).TotalAmount))

	pending, err := h.approvals.GetPendingApprovals(h.ctx, uuid.MustParse(wo.ID), h.customer.ID)
	require.NoError(t, err)
	require.Len(t, pending.Services, 1)
	assert.Equal(t, keep.ID, pending.Services[0].ID)
}

func TestApproveService_AfterRejectionRestoresLine(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	line := h.addService(t, wo.ID, "Oil change", "40", 1)
	lineID := uuid.MustParse(line.ID)

	_, err := h.approvals.RejectService(h.ctx, lineID, h.customer.ID, "later")
	require.NoError(t, err)
	approved, err := h.approvals.ApproveService(h.ctx, lineID, h.customer.ID, "changed my mind")
	require.NoError(t, err)

	assert.True(t, approved.CustomerApproved)
	assert.False(t, approved.CustomerRejected)
	assert.Nil(t, approved.RejectedAt)
	assert.Equal(t, model.LineStatusPending, approved.Status)
	assert.Equal(t, "40.00", money(h.reload(t, wo.ID).TotalAmount))
}

func TestApprovePart_IsIdempotent(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	line := h.addPart(t, wo.ID, "25", 1, 4)
	lineID := uuid.MustParse(line.ID)

	first, err := h.approvals.ApprovePart(h.ctx, lineID, h.customer.ID, "ok")
	require.NoError(t, err)
	second, err := h.approvals.ApprovePart(h.ctx, lineID, h.customer.ID, "ok again")
	require.NoError(t, err)

	assert.True(t, first.CustomerApproved)
	require.NotNil(t, second.ApprovedAt)
	assert.Equal(t, first.ApprovedAt, second.ApprovedAt)
	assert.Equal(t, "ok", second.ApprovalNotes)

	_, total, err := h.auditRepo.List(h.ctx, repository.AuditFilter{Action: model.ActionApproveLine, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestApprovePart_RejectsOtherCustomer(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	line := h.addPart(t, wo.ID, "25", 1, 4)
	lineID := uuid.MustParse(line.ID)

	_, err := h.approvals.ApprovePart(h.ctx, lineID, uuid.New(), "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = h.approvals.RejectPart(h.ctx, lineID, uuid.New(), "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	stored, err := h.lineRepo.FindPartByID(h.ctx, lineID)
	require.NoError(t, err)
	assert.True(t, stored.AwaitingDecision())
}

func TestRejectPart_InstalledPartStays(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)
	line := h.addPart(t, wo.ID, "25", 2, 4)
	lineID := uuid.MustParse(line.ID)

	_, err := h.approvals.ApprovePart(h.ctx, lineID, h.customer.ID, "")
	require.NoError(t, err)
	installed, err := h.lines.InstallPart(h.ctx, woID, lineID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.LineStatusInstalled, installed.Status)

	_, err = h.approvals.RejectPart(h.ctx, lineID, h.customer.ID, "changed my mind")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	stored, err := h.lineRepo.FindPartByID(h.ctx, lineID)
	require.NoError(t, err)
	assert.False(t, stored.CustomerRejected)
	assert.Equal(t, model.LineStatusInstalled, stored.Status)
	assert.Equal(t, "50.00", money(h.reload(t, wo.ID).SubtotalParts))
}

func TestRejectPart_ApprovedServiceInvoicesAlone(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)
	svc := h.addService(t, wo.ID, "Brake inspection", "50", 1)
	part := h.addPart(t, wo.ID, "25", 1, 4)

	h.approveService(t, svc.ID)
	rejected, err := h.approvals.RejectPart(h.ctx, uuid.MustParse(part.ID), h.customer.ID, "not now")
	require.NoError(t, err)
	assert.True(t, rejected.CustomerRejected)
	assert.NotNil(t, rejected.RejectedAt)

	stored := h.reload(t, wo.ID)
	assert.Equal(t, "50.00", money(stored.SubtotalServices))
	assert.Equal(t, "0.00", money(stored.SubtotalParts))
	assert.Equal(t, "50.00", money(stored.Subtotal))

	inv, err := h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "50.00", inv.Subtotal)
	assert.Equal(t, "9.00", inv.TaxAmount)
	assert.Equal(t, "59.00", inv.TotalAmount)

	types := make([]string, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		types = append(types, item.Type)
	}
	assert.Equal(t, []string{model.LineTypeService, model.LineTypeTax}, types)
}

func TestCountPendingApprovals(t *testing.T) {
	services := []model.WorkOrderService{
		{Status: model.LineStatusPending},
		{Status: model.LineStatusPending, Approval: model.Approval{CustomerApproved: true}},
		{Status: model.LineStatusCancelled},
	}
	parts := []model.WorkOrderPart{
		{Status: model.LineStatusPending},
		{Status: model.LineStatusPending, Approval: model.Approval{CustomerRejected: true}},
	}
	assert.Equal(t, 2, countPendingApprovals(services, parts))
}
