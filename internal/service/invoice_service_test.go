package service

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"garage/internal/model"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCreateInvoice_ServiceWithAttachedLabor(t *testing.T) {
	h := newHarness(t, harnessOptions{taxRate: dec("0.18"), laborRate: dec("50")})
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	line, err := h.lines.AddService(h.ctx, woID, AddServiceLineRequest{
		Description:      "Brake inspection",
		Quantity:         1,
		UnitPrice:        "50",
		EstimatedMinutes: 30, // worth 25.00 at the labor rate, never billed
	})
	require.NoError(t, err)
	h.approveService(t, line.ID)

	inv, err := h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "INV-202610-0001", inv.InvoiceNumber)
	assert.Equal(t, model.InvoicePending, inv.Status)
	assert.Equal(t, "50.00", inv.Subtotal)
	assert.Equal(t, "0.00", inv.SubtotalLabor)
	assert.Equal(t, "9.00", inv.TaxAmount)
	assert.Equal(t, "59.00", inv.TotalAmount)
	assert.Equal(t, "Net 30", inv.Terms)
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, formatTime(fixedNow.AddDate(0, 0, 30)), *inv.DueDate)

	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, model.LineTypeService, inv.LineItems[0].Type)
	assert.Equal(t, "50.00", inv.LineItems[0].Amount)
	assert.Equal(t, model.LineTypeTax, inv.LineItems[1].Type)
	assert.Equal(t, "9.00", inv.LineItems[1].Amount)

	stored := h.reload(t, wo.ID)
	assert.Equal(t, model.StepInvoiced, stored.WorkflowStep)
	assert.Equal(t, "9.00", money(stored.TaxAmount))
	assert.Equal(t, "59.00", money(stored.TotalAmount))
}

func TestCreateInvoice_StandaloneLaborAndDiscount(t *testing.T) {
	h := newHarness(t, harnessOptions{taxRate: dec("0.10"), laborRate: dec("60")})
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	h.addService(t, wo.ID, "Diagnostics", "80", 1)
	_, err := h.lines.AddLabor(h.ctx, woID, AddLaborRequest{Description: "Road test", EstimatedMinutes: 30})
	require.NoError(t, err)
	_, err = h.workOrders.SetDiscount(h.ctx, woID, dec("10"), nil)
	require.NoError(t, err)

	inv, err := h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{Notes: "thanks"}, nil)
	require.NoError(t, err)

	// 80 service + 30 labor, 10% tax, minus 10
	assert.Equal(t, "110.00", inv.Subtotal)
	assert.Equal(t, "30.00", inv.SubtotalLabor)
	assert.Equal(t, "11.00", inv.TaxAmount)
	assert.Equal(t, "10.00", inv.DiscountAmount)
	assert.Equal(t, "111.00", inv.TotalAmount)

	types := make([]string, 0, len(inv.LineItems))
	for _, l := range inv.LineItems {
		types = append(types, l.Type)
	}
	assert.Equal(t, []string{model.LineTypeService, model.LineTypeLabor, model.LineTypeTax, model.LineTypeDiscount}, types)
	assert.Equal(t, "-10.00", inv.LineItems[3].Amount)
}

func TestCreateInvoice_UsesActiveTaxRule(t *testing.T) {
	h := defaultHarness(t)
	_, err := h.taxes.CreateTaxRule(h.ctx, TaxRuleRequest{TaxType: model.TaxTypeSales, Rate: "0.21", EffectiveFrom: "2026-01-01"}, nil)
	require.NoError(t, err)

	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Oil change", "100", 1)

	inv, err := h.invoices.CreateInvoice(h.ctx, uuid.MustParse(wo.ID), CreateInvoiceRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.2100", inv.TaxRate)
	assert.Equal(t, "21.00", inv.TaxAmount)
	assert.NotNil(t, inv.TaxRuleID)
}

func TestCreateInvoice_OnlyOnceUnderConcurrency(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Oil change", "40", 1)
	woID := uuid.MustParse(wo.ID)

	const n = 4
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
}

func TestCreateInvoice_Rejections(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	_, err := h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation, "nothing to invoice")

	_, err = h.invoices.CreateInvoice(h.ctx, uuid.New(), CreateInvoiceRequest{}, nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	h.addService(t, wo.ID, "Oil change", "40", 1)
	_, err = h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
	require.NoError(t, err)

	_, err = h.lines.AddService(h.ctx, woID, AddServiceLineRequest{Description: "late", Quantity: 1, UnitPrice: "5"})
	assert.ErrorIs(t, err, apperror.ErrValidation, "lines are frozen once invoiced")
	_, err = h.workOrders.SetDiscount(h.ctx, woID, dec("1"), nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreateInvoice_DiscountOnlyIsNothingToInvoice(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)
	line := h.addService(t, wo.ID, "Timing belt", "100", 1)

	_, err := h.workOrders.SetDiscount(h.ctx, woID, dec("80"), nil)
	require.NoError(t, err)
	_, err = h.approvals.RejectService(h.ctx, uuid.MustParse(line.ID), h.customer.ID, "too expensive")
	require.NoError(t, err)

	stored := h.reload(t, wo.ID)
	assert.Equal(t, "0.00", money(stored.DiscountAmount))
	assert.Equal(t, "0.00", money(stored.TotalAmount))

	_, err = h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	exists, err := h.invoiceRepo.ExistsForWorkOrder(h.ctx, woID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateInvoice_RejectsDiscountAboveSubtotal(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)
	h.addService(t, wo.ID, "Oil change", "40", 1)

	// Written past SetDiscount, as an import or a manual fix would.
	require.NoError(t, h.workOrderRepo.Updates(h.ctx, woID, map[string]interface{}{"discount_amount": dec("500")}))

	_, err := h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	exists, err := h.invoiceRepo.ExistsForWorkOrder(h.ctx, woID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBuildInvoiceSnapshot_DiscountAloneIsNotBillable(t *testing.T) {
	inv := buildInvoiceSnapshot(invoiceInput{
		services: []model.WorkOrderService{{
			Description: "Declined",
			Subtotal:    dec("100"),
			Status:      model.LineStatusCancelled,
			Approval:    model.Approval{CustomerRejected: true},
		}},
		taxRate:  dec("0.18"),
		discount: dec("80"),
	})
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, model.LineTypeDiscount, inv.LineItems[0].Type)
	assert.False(t, hasBillableItems(inv.LineItems))
}

func TestInvoiceSnapshotIgnoresLaterEdits(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	line := h.addService(t, wo.ID, "Oil change", "40", 1)

	inv, err := h.invoices.CreateInvoice(h.ctx, uuid.MustParse(wo.ID), CreateInvoiceRequest{}, nil)
	require.NoError(t, err)

	stored, err := h.lineRepo.FindServiceByID(h.ctx, uuid.MustParse(line.ID))
	require.NoError(t, err)
	stored.Description = "Renamed"
	stored.UnitPrice = dec("999")
	stored.Reprice()
	require.NoError(t, h.lineRepo.SaveService(h.ctx, stored))

	again, err := h.invoices.GetInvoice(h.ctx, uuid.MustParse(inv.ID))
	require.NoError(t, err)
	assert.Equal(t, "Oil change", again.LineItems[0].Description)
	assert.Equal(t, "40.00", again.LineItems[0].Amount)
}

func TestDeleteInvoice(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Oil change", "100", 1)
	woID := uuid.MustParse(wo.ID)

	inv, err := h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "118.00", money(h.reload(t, wo.ID).TotalAmount))

	require.NoError(t, h.invoices.DeleteInvoice(h.ctx, uuid.MustParse(inv.ID), nil))

	stored := h.reload(t, wo.ID)
	assert.Equal(t, model.StepQualityCheck, stored.WorkflowStep)
	assert.Equal(t, "0.00", money(stored.TaxAmount))
	assert.Equal(t, "100.00", money(stored.TotalAmount))

	_, err = h.invoices.GetInvoiceByWorkOrder(h.ctx, woID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteInvoice_RefusedOncePaymentsExist(t *testing.T) {
	h := defaultHarness(t)
	wo, inv := invoicedWorkOrder(t, h, "100")
	woID := uuid.MustParse(wo.ID)

	_, err := h.payments.RecordPayment(h.ctx, woID, RecordPaymentRequest{Amount: "18", Method: model.PaymentMethodCash}, nil)
	require.NoError(t, err)

	err = h.invoices.DeleteInvoice(h.ctx, uuid.MustParse(inv.ID), nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	got, err := h.invoices.GetInvoice(h.ctx, uuid.MustParse(inv.ID))
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePending, got.Status)
	assert.Equal(t, model.StepInvoiced, h.reload(t, wo.ID).WorkflowStep)
}

func TestUpdateInvoiceStatus_FinalStates(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Oil change", "40", 1)
	inv, err := h.invoices.CreateInvoice(h.ctx, uuid.MustParse(wo.ID), CreateInvoiceRequest{}, nil)
	require.NoError(t, err)
	id := uuid.MustParse(inv.ID)

	sent, err := h.invoices.UpdateInvoiceStatus(h.ctx, id, model.InvoiceSent, nil)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceSent, sent.Status)

	paid, err := h.invoices.UpdateInvoiceStatus(h.ctx, id, model.InvoicePaid, nil)
	require.NoError(t, err)
	assert.NotNil(t, paid.PaidAt)

	_, err = h.invoices.UpdateInvoiceStatus(h.ctx, id, model.InvoiceCancelled, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	err = h.invoices.DeleteInvoice(h.ctx, id, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRenderInvoicePDF_StoresURL(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Oil change", "40", 1)
	inv, err := h.invoices.CreateInvoice(h.ctx, uuid.MustParse(wo.ID), CreateInvoiceRequest{}, nil)
	require.NoError(t, err)

	got, err := h.invoices.RegeneratePDF(h.ctx, uuid.MustParse(inv.ID))
	require.NoError(t, err)
	assert.Equal(t, "http://files.test/"+wo.ID+"/"+inv.InvoiceNumber+".pdf", got.PDFURL)
}

func TestExportRegister(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Oil change", "50", 1)
	_, err := h.invoices.CreateInvoice(h.ctx, uuid.MustParse(wo.ID), CreateInvoiceRequest{}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, h.invoices.ExportRegister(h.ctx, &buf, from, from.AddDate(0, 1, 0)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "INV-202610-0001", rows[1][0])
	assert.Equal(t, wo.WorkOrderNumber, rows[1][1])
	assert.Equal(t, "Ana Ruiz", rows[1][2])

	err = h.invoices.ExportRegister(h.ctx, &buf, from, from)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestBuildInvoiceSnapshot_SkipsZeroLabor(t *testing.T) {
	inv := buildInvoiceSnapshot(invoiceInput{
		labor:     []model.WorkOrderLabor{{Description: "Unpriced", EstimatedMinutes: 60}},
		taxRate:   decimal.Zero,
		laborRate: decimal.Zero,
	})
	assert.Empty(t, inv.LineItems)
	assert.True(t, inv.TotalAmount.IsZero())
}
