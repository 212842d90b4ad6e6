package service

import (
	"testing"

	"garage/internal/model"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatedHarness(t *testing.T) *harness {
	return newHarness(t, harnessOptions{requireInspection: true, taxRate: decimal.RequireFromString("0.18")})
}

func TestEvaluateEstimateReadiness(t *testing.T) {
	done := func(items ...model.InspectionChecklistItem) model.WorkOrderInspection {
		return model.WorkOrderInspection{ID: uuid.New(), IsCompleted: true, Items: items}
	}

	tests := []struct {
		name        string
		inspections []model.WorkOrderInspection
		canProceed  bool
		reason      string
	}{
		{"none recorded", nil, false, "no inspections recorded for this work order"},
		{"one pending", []model.WorkOrderInspection{done(), {ID: uuid.New()}}, false, "1 of 2 inspections pending"},
		{"follow up", []model.WorkOrderInspection{done(
			model.InspectionChecklistItem{Label: "Tires", Status: model.CheckGreen},
			model.InspectionChecklistItem{Label: "Brake pads", Status: model.CheckRed, RequiresFollowUp: true},
		)}, false, "1 checklist items require follow-up: Brake pads"},
		{"clear", []model.WorkOrderInspection{done(
			model.InspectionChecklistItem{Label: "Wipers", Status: model.CheckYellow},
		)}, true, "all inspections completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluateEstimateReadiness(tt.inspections)
			assert.Equal(t, tt.canProceed, got.CanProceed)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestInspectionGate_RedItemBlocksEstimate(t *testing.T) {
	h := gatedHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	_, err := h.workOrders.TransitionStatus(h.ctx, woID, model.StatusEstimate, "", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	inspection, err := h.inspections.CreateInspection(h.ctx, woID, CreateInspectionRequest{Name: "Multipoint"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StepInspection, h.reload(t, wo.ID).WorkflowStep)

	inspectionID := uuid.MustParse(inspection.ID)
	_, err = h.inspections.AddItem(h.ctx, inspectionID, ChecklistItemRequest{Label: "Tires"})
	require.NoError(t, err)
	red, err := h.inspections.AddItem(h.ctx, inspectionID, ChecklistItemRequest{Label: "Brake pads", Status: model.CheckRed})
	require.NoError(t, err)
	assert.True(t, red.RequiresFollowUp)
	assert.Equal(t, 2, red.Position)

	readiness, err := h.inspections.CanProceedToEstimate(h.ctx, woID)
	require.NoError(t, err)
	assert.False(t, readiness.CanProceed)
	assert.Equal(t, "1 of 1 inspections pending", readiness.Reason)

	_, err = h.inspections.CompleteInspection(h.ctx, inspectionID, nil)
	require.NoError(t, err)

	readiness, err = h.inspections.CanProceedToEstimate(h.ctx, woID)
	require.NoError(t, err)
	assert.False(t, readiness.CanProceed)
	require.Len(t, readiness.FollowUpItems, 1)
	assert.Equal(t, "Brake pads", readiness.FollowUpItems[0].Label)

	_, err = h.workOrders.TransitionStatus(h.ctx, woID, model.StatusEstimate, "", nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	green := model.CheckGreen
	noFollowUp := false
	_, err = h.inspections.UpdateItem(h.ctx, uuid.MustParse(red.ID), UpdateChecklistItemRequest{Status: &green, RequiresFollowUp: &noFollowUp})
	require.NoError(t, err)

	moved, err := h.workOrders.TransitionStatus(h.ctx, woID, model.StatusEstimate, "", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEstimate, moved.Status)
}

func TestCreateInspection_FromTemplateCopiesItems(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)

	tpl, err := h.inspections.CreateTemplate(h.ctx, TemplateRequest{
		Name: "Pre-trip",
		Items: []TemplateItemRequest{
			{Label: "Lights", Required: true},
			{Label: "Horn"},
		},
	})
	require.NoError(t, err)

	_, err = h.inspections.CreateTemplate(h.ctx, TemplateRequest{Name: "Pre-trip"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	inspection, err := h.inspections.CreateInspection(h.ctx, uuid.MustParse(wo.ID), CreateInspectionRequest{TemplateID: tpl.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Pre-trip", inspection.Name)
	require.Len(t, inspection.Items, 2)
	for _, item := range inspection.Items {
		assert.Equal(t, model.CheckGreen, item.Status)
		assert.False(t, item.RequiresFollowUp)
	}

	status, err := h.inspections.GetInspectionStatus(h.ctx, uuid.MustParse(wo.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, status.PendingInspections)
	assert.False(t, status.AllCompleted)
}

func TestCompleteInspection_IsIdempotent(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	inspection, err := h.inspections.CreateInspection(h.ctx, uuid.MustParse(wo.ID), CreateInspectionRequest{Name: "Quick look"}, nil)
	require.NoError(t, err)
	id := uuid.MustParse(inspection.ID)

	first, err := h.inspections.CompleteInspection(h.ctx, id, nil)
	require.NoError(t, err)
	second, err := h.inspections.CompleteInspection(h.ctx, id, nil)
	require.NoError(t, err)

	assert.True(t, second.IsCompleted)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
}

func TestChecklistItems_FrozenOnClosedWorkOrder(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	inspection, err := h.inspections.CreateInspection(h.ctx, woID, CreateInspectionRequest{Name: "Multipoint"}, nil)
	require.NoError(t, err)
	inspectionID := uuid.MustParse(inspection.ID)
	item, err := h.inspections.AddItem(h.ctx, inspectionID, ChecklistItemRequest{Label: "Tires"})
	require.NoError(t, err)
	itemID := uuid.MustParse(item.ID)

	_, err = h.workOrders.CancelWorkOrder(h.ctx, woID, "customer left", nil)
	require.NoError(t, err)

	_, err = h.inspections.AddItem(h.ctx, inspectionID, ChecklistItemRequest{Label: "Wipers"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	red := model.CheckRed
	_, err = h.inspections.UpdateItem(h.ctx, itemID, UpdateChecklistItemRequest{Status: &red})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	err = h.inspections.DeleteItem(h.ctx, itemID)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = h.inspections.CompleteInspection(h.ctx, inspectionID, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	stored, err := h.inspections.GetInspection(h.ctx, inspectionID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, model.CheckGreen, stored.Items[0].Status)
	assert.False(t, stored.IsCompleted)
}

func TestChecklistItems_UnknownItem(t *testing.T) {
	h := defaultHarness(t)

	err := h.inspections.DeleteItem(h.ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	bogus := "BLUE"
	_, err = h.inspections.UpdateItem(h.ctx, uuid.New(), UpdateChecklistItemRequest{Status: &bogus})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
