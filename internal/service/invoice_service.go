package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"garage/internal/jobs"
	"garage/internal/model"
	"garage/internal/notification"
	"garage/internal/pdf"
	"garage/internal/report"
	"garage/internal/repository"
	"garage/internal/storage"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateInvoiceRequest struct {
	DueDate *time.Time `json:"due_date"`
	Notes   string     `json:"notes"`
	Terms   string     `json:"terms"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SENT PAID OVERDUE CANCELLED"`
}

type InvoiceFilter struct {
	Status     string
	CustomerID string
	Search     string
	Page       int
	Limit      int
}

type InvoiceLineResponse struct {
	ID          string  `json:"id"`
	Position    int     `json:"position"`
	Type        string  `json:"type"`
	SourceID    *string `json:"source_id"`
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	Amount      string  `json:"amount"`
}

type InvoiceResponse struct {
	ID               string                `json:"id"`
	InvoiceNumber    string                `json:"invoice_number"`
	WorkOrderID      string                `json:"work_order_id"`
	CustomerID       string                `json:"customer_id"`
	Status           string                `json:"status"`
	SubtotalServices string                `json:"subtotal_services"`
	SubtotalLabor    string                `json:"subtotal_labor"`
	SubtotalParts    string                `json:"subtotal_parts"`
	Subtotal         string                `json:"subtotal"`
	TaxRuleID        *string               `json:"tax_rule_id"`
	TaxRate          string                `json:"tax_rate"`
	TaxAmount        string                `json:"tax_amount"`
	DiscountAmount   string                `json:"discount_amount"`
	TotalAmount      string                `json:"total_amount"`
	IssuedAt         string                `json:"issued_at"`
	DueDate          *string               `json:"due_date"`
	PaidAt           *string               `json:"paid_at"`
	Notes            string                `json:"notes"`
	Terms            string                `json:"terms"`
	PDFURL           string                `json:"pdf_url"`
	LineItems        []InvoiceLineResponse `json:"line_items,omitempty"`
}

// BillingOptions are the shop defaults applied when invoicing.
type BillingOptions struct {
	TaxRate   decimal.Decimal
	LaborRate decimal.Decimal
	DueDays   int
	Terms     string
}

// --- Interface ---

//go:generate mockgen -destination=mocks/mock_invoice_service.go -package=mocks garage/internal/service InvoiceService
type InvoiceService interface {
	CreateInvoice(ctx context.Context, workOrderID uuid.UUID, req CreateInvoiceRequest, actorID *uuid.UUID) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (InvoiceResponse, error)
	GetInvoiceByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string, actorID *uuid.UUID) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	RegeneratePDF(ctx context.Context, id uuid.UUID) (InvoiceResponse, error)
	RenderInvoicePDF(ctx context.Context, id uuid.UUID) error
	ExportRegister(ctx context.Context, w io.Writer, from, to time.Time) error
}

type invoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	workOrderRepo repository.WorkOrderRepository
	lineRepo      repository.LineRepository
	taxRuleRepo   repository.TaxRuleRepository
	customerRepo  repository.CustomerRepository
	auditRepo     repository.AuditRepository
	sequence      SequenceGenerator
	pricing       PricingService
	dispatcher    jobs.Dispatcher
	notifier      notification.Notifier
	storage       storage.Storage
	txManager     repository.TransactionManager
	billing       BillingOptions
	now           Clock
	log           *zap.Logger
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	workOrderRepo repository.WorkOrderRepository,
	lineRepo repository.LineRepository,
	taxRuleRepo repository.TaxRuleRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	sequence SequenceGenerator,
	pricing PricingService,
	dispatcher jobs.Dispatcher,
	notifier notification.Notifier,
	store storage.Storage,
	txManager repository.TransactionManager,
	billing BillingOptions,
	now Clock,
	log *zap.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:   invoiceRepo,
		workOrderRepo: workOrderRepo,
		lineRepo:      lineRepo,
		taxRuleRepo:   taxRuleRepo,
		customerRepo:  customerRepo,
		auditRepo:     auditRepo,
		sequence:      sequence,
		pricing:       pricing,
		dispatcher:    dispatcher,
		notifier:      notifier,
		storage:       store,
		txManager:     txManager,
		billing:       billing,
		now:           now,
		log:           log,
	}
}

// --- Snapshot ---

type invoiceInput struct {
	services  []model.WorkOrderService
	parts     []model.WorkOrderPart
	labor     []model.WorkOrderLabor
	taxRate   decimal.Decimal
	laborRate decimal.Decimal
	discount  decimal.Decimal
}

// buildInvoiceSnapshot copies the billable lines into invoice line items and
// computes the invoice totals. Service-attached labor is never billed.
func buildInvoiceSnapshot(in invoiceInput) model.Invoice {
	var inv model.Invoice
	pos := 0
	add := func(item model.InvoiceLineItem) {
		pos++
		item.Position = pos
		inv.LineItems = append(inv.LineItems, item)
	}

	for i := range in.services {
		s := in.services[i]
		if !s.Billable() {
			continue
		}
		id := s.ID
		add(model.InvoiceLineItem{
			Type:        model.LineTypeService,
			SourceID:    &id,
			Description: s.Description,
			Quantity:    decimal.NewFromInt(int64(s.Quantity)),
			UnitPrice:   s.UnitPrice,
			Amount:      s.Subtotal,
		})
		inv.SubtotalServices = inv.SubtotalServices.Add(s.Subtotal)
	}

	for i := range in.labor {
		l := in.labor[i]
		if !l.Standalone() || l.Status == model.LineStatusCancelled {
			continue
		}
		hours, amount := laborAmount(l, in.laborRate)
		if !amount.IsPositive() {
			continue
		}
		id := l.ID
		add(model.InvoiceLineItem{
			Type:        model.LineTypeLabor,
			SourceID:    &id,
			Description: l.Description,
			Quantity:    hours,
			UnitPrice:   in.laborRate,
			Amount:      amount,
		})
		inv.SubtotalLabor = inv.SubtotalLabor.Add(amount)
	}

	for i := range in.parts {
		p := in.parts[i]
		if !p.Billable() {
			continue
		}
		id := p.ID
		add(model.InvoiceLineItem{
			Type:        model.LineTypePart,
			SourceID:    &id,
			Description: p.Description,
			Quantity:    decimal.NewFromInt(int64(p.Quantity)),
			UnitPrice:   p.UnitPrice,
			Amount:      p.Subtotal,
		})
		inv.SubtotalParts = inv.SubtotalParts.Add(p.Subtotal)
	}

	inv.Subtotal = inv.SubtotalServices.Add(inv.SubtotalLabor).Add(inv.SubtotalParts)
	inv.TaxRate = in.taxRate
	inv.TaxAmount = inv.Subtotal.Mul(in.taxRate).Round(2)
	if inv.TaxAmount.IsPositive() {
		add(model.InvoiceLineItem{
			Type:        model.LineTypeTax,
			Description: fmt.Sprintf("Tax (%s%%)", in.taxRate.Mul(decimal.NewFromInt(100)).StringFixed(2)),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   inv.TaxAmount,
			Amount:      inv.TaxAmount,
		})
	}

	inv.DiscountAmount = in.discount
	if in.discount.IsPositive() {
		add(model.InvoiceLineItem{
			Type:        model.LineTypeDiscount,
			Description: "Discount",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   in.discount.Neg(),
			Amount:      in.discount.Neg(),
		})
	}

	inv.TotalAmount = inv.Subtotal.Add(inv.TaxAmount).Sub(inv.DiscountAmount)
	return inv
}

// hasBillableItems reports whether any service, labor or part line made it
// into the snapshot. Tax and discount lines alone are not an invoice.
func hasBillableItems(items []model.InvoiceLineItem) bool {
	for _, item := range items {
		switch item.Type {
		case model.LineTypeService, model.LineTypeLabor, model.LineTypePart:
			return true
		}
	}
	return false
}

// resolveTaxRate prefers the SALES rule in effect, then the configured rate.
func (s *invoiceService) resolveTaxRate(ctx context.Context, at time.Time) (decimal.Decimal, *uuid.UUID, error) {
	rule, err := s.taxRuleRepo.FindEffective(ctx, model.TaxTypeSales, at)
	if err == nil {
		id := rule.ID
		return rule.Rate, &id, nil
	}
	if repository.IsNotFound(err) {
		return s.billing.TaxRate, nil, nil
	}
	return decimal.Zero, nil, fmt.Errorf("failed to resolve tax rate: %w", err)
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, workOrderID uuid.UUID, req CreateInvoiceRequest, actorID *uuid.UUID) (InvoiceResponse, error) {
	now := s.now()
	var invoice model.Invoice

	err := createWithNumber(ctx, s.sequence, ScopeInvoice, now, func(number string) error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			wo, err := s.workOrderRepo.FindByIDForUpdate(txCtx, workOrderID)
			if err != nil {
				return notFound(err, "work order")
			}
			if wo.Status == model.StatusCancelled {
				return apperror.Validation("a cancelled work order cannot be invoiced")
			}
			exists, err := s.invoiceRepo.ExistsForWorkOrder(txCtx, workOrderID)
			if err != nil {
				return fmt.Errorf("failed to check invoice: %w", err)
			}
			if exists {
				return apperror.Conflict("work order " + wo.WorkOrderNumber + " is already invoiced")
			}

			services, err := s.lineRepo.ListServices(txCtx, workOrderID)
			if err != nil {
				return fmt.Errorf("failed to load service lines: %w", err)
			}
			parts, err := s.lineRepo.ListParts(txCtx, workOrderID)
			if err != nil {
				return fmt.Errorf("failed to load part lines: %w", err)
			}
			labor, err := s.lineRepo.ListLabor(txCtx, workOrderID)
			if err != nil {
				return fmt.Errorf("failed to load labor lines: %w", err)
			}
			rate, ruleID, err := s.resolveTaxRate(txCtx, now)
			if err != nil {
				return err
			}

			invoice = buildInvoiceSnapshot(invoiceInput{
				services:  services,
				parts:     parts,
				labor:     labor,
				taxRate:   rate,
				laborRate: s.billing.LaborRate,
				discount:  wo.DiscountAmount,
			})
			if !hasBillableItems(invoice.LineItems) {
				return apperror.Validation("work order has nothing to invoice")
			}
			if invoice.DiscountAmount.GreaterThan(invoice.Subtotal) {
				return apperror.Validation("discount " + money(invoice.DiscountAmount) + " exceeds invoice subtotal " + money(invoice.Subtotal))
			}

			invoice.InvoiceNumber = number
			invoice.WorkOrderID = workOrderID
			invoice.CustomerID = wo.CustomerID
			invoice.Status = model.InvoicePending
			invoice.TaxRuleID = ruleID
			invoice.IssuedAt = now
			invoice.Notes = req.Notes
			invoice.Terms = req.Terms
			if invoice.Terms == "" {
				invoice.Terms = s.billing.Terms
			}
			if req.DueDate != nil {
				invoice.DueDate = req.DueDate
			} else if s.billing.DueDays > 0 {
				due := now.AddDate(0, 0, s.billing.DueDays)
				invoice.DueDate = &due
			}

			if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
				return fmt.Errorf("failed to create invoice: %w", err)
			}
			if err := s.workOrderRepo.Updates(txCtx, workOrderID, map[string]interface{}{
				"tax_amount":    invoice.TaxAmount,
				"workflow_step": model.StepInvoiced,
			}); err != nil {
				return fmt.Errorf("failed to update work order: %w", err)
			}
			if err := writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateInvoice, "invoice", invoice.ID.String(), number, map[string]string{
				"work_order_id": workOrderID.String(),
				"total":         money(invoice.TotalAmount),
			}); err != nil {
				return err
			}
			_, err = s.pricing.RecomputeTotals(txCtx, workOrderID)
			return err
		})
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return InvoiceResponse{}, apperror.Wrap(apperror.KindConflict, "work order is already invoiced", err)
		}
		return InvoiceResponse{}, err
	}

	s.afterInvoiceCreated(ctx, invoice)
	return s.GetInvoice(ctx, invoice.ID)
}

// afterInvoiceCreated queues the PDF and tells the customer. Neither can
// undo the invoice, so failures are only logged.
func (s *invoiceService) afterInvoiceCreated(ctx context.Context, invoice model.Invoice) {
	task, err := jobs.NewRenderInvoicePDFTask(invoice.ID)
	if err == nil {
		err = s.dispatcher.Dispatch(ctx, task)
	}
	if err != nil {
		s.log.Warn("invoice pdf job not queued", zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
	}

	n := notification.Notification{
		EventType: notification.EventInvoiceCreated,
		Channels:  []string{notification.ChannelInApp, notification.ChannelEmail},
		Priority:  notification.PriorityNormal,
		Data: map[string]interface{}{
			"invoice_id":     invoice.ID.String(),
			"invoice_number": invoice.InvoiceNumber,
			"work_order_id":  invoice.WorkOrderID.String(),
			"total_amount":   money(invoice.TotalAmount),
		},
	}
	if customer, err := s.customerRepo.FindByID(ctx, invoice.CustomerID); err == nil {
		n.Recipient = notification.Recipient{Email: customer.Email, Name: customer.Name, Phone: customer.Phone}
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.log.Warn("invoice notification failed", zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
	}
}

func (s *invoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return InvoiceResponse{}, notFound(err, "invoice")
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) GetInvoiceByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByWorkOrderID(ctx, workOrderID)
	if err != nil {
		return InvoiceResponse{}, notFound(err, "invoice")
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	customerID, err := parseOptionalUUID(filter.CustomerID, "customer_id")
	if err != nil {
		return nil, 0, err
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceFilter{
		Status:     filter.Status,
		CustomerID: customerID,
		Search:     filter.Search,
		Offset:     (filter.Page - 1) * filter.Limit,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

func isInvoiceStatus(status string) bool {
	switch status {
	case model.InvoicePending, model.InvoiceSent, model.InvoicePaid, model.InvoiceOverdue, model.InvoiceCancelled:
		return true
	}
	return false
}

// UpdateInvoiceStatus moves an open invoice. PAID and CANCELLED are final.
func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string, actorID *uuid.UUID) (InvoiceResponse, error) {
	if !isInvoiceStatus(status) || status == model.InvoicePending {
		return InvoiceResponse{}, apperror.Validation("invalid invoice status " + status)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "invoice")
		}
		if _, err := s.workOrderRepo.FindByIDForUpdate(txCtx, invoice.WorkOrderID); err != nil {
			return notFound(err, "work order")
		}
		if invoice.Status == status {
			return nil
		}
		if invoice.Status == model.InvoicePaid || invoice.Status == model.InvoiceCancelled {
			return apperror.Validation("invoice is " + invoice.Status + " and can no longer change")
		}

		fields := map[string]interface{}{"status": status}
		if status == model.InvoicePaid {
			fields["paid_at"] = s.now()
		}
		if err := s.invoiceRepo.Updates(txCtx, id, fields); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateInvoice, "invoice", id.String(), invoice.InvoiceNumber, map[string]string{
			"from": invoice.Status,
			"to":   status,
		})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}
	return s.GetInvoice(ctx, id)
}

// DeleteInvoice drops an invoice nobody has paid against and returns the
// work order to quality check with its tax cleared.
func (s *invoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "invoice")
		}
		wo, err := s.workOrderRepo.FindByIDForUpdate(txCtx, invoice.WorkOrderID)
		if err != nil {
			return notFound(err, "work order")
		}
		if invoice.Status == model.InvoicePaid {
			return apperror.Validation("a paid invoice cannot be deleted")
		}
		if wo.PaymentStatus != model.PaymentStatusPending {
			return apperror.Validation("invoice " + invoice.InvoiceNumber + " has payments recorded against it")
		}

		if err := s.invoiceRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		if err := s.workOrderRepo.Updates(txCtx, invoice.WorkOrderID, map[string]interface{}{
			"tax_amount":    decimal.Zero,
			"workflow_step": model.StepQualityCheck,
		}); err != nil {
			return fmt.Errorf("failed to reset work order: %w", err)
		}
		if err := writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeleteInvoice, "invoice", id.String(), invoice.InvoiceNumber, map[string]string{
			"work_order_id": invoice.WorkOrderID.String(),
		}); err != nil {
			return err
		}
		_, err = s.pricing.RecomputeTotals(txCtx, invoice.WorkOrderID)
		return err
	})
}

func (s *invoiceService) RegeneratePDF(ctx context.Context, id uuid.UUID) (InvoiceResponse, error) {
	if err := s.RenderInvoicePDF(ctx, id); err != nil {
		return InvoiceResponse{}, err
	}
	return s.GetInvoice(ctx, id)
}

// RenderInvoicePDF renders, uploads and records the invoice document. The
// background job calls it too.
func (s *invoiceService) RenderInvoicePDF(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "invoice")
	}
	wo, err := s.workOrderRepo.FindWithParties(ctx, invoice.WorkOrderID)
	if err != nil {
		return notFound(err, "work order")
	}

	doc := pdf.Document{
		InvoiceNumber:   invoice.InvoiceNumber,
		WorkOrderNumber: wo.WorkOrderNumber,
		IssuedAt:        invoice.IssuedAt,
		DueDate:         invoice.DueDate,
		Subtotal:        invoice.Subtotal,
		TaxRate:         invoice.TaxRate,
		TaxAmount:       invoice.TaxAmount,
		DiscountAmount:  invoice.DiscountAmount,
		TotalAmount:     invoice.TotalAmount,
		Notes:           invoice.Notes,
		Terms:           invoice.Terms,
	}
	if wo.Customer != nil {
		doc.CustomerName = wo.Customer.Name
		doc.CustomerEmail = wo.Customer.Email
	}
	if wo.Vehicle != nil {
		doc.Vehicle = wo.Vehicle.Label()
	}
	for _, l := range invoice.LineItems {
		doc.Lines = append(doc.Lines, pdf.Line{
			Type:        l.Type,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}

	data, err := pdf.RenderInvoice(doc)
	if err != nil {
		return err
	}
	url, err := s.storage.UploadPDF(ctx, data, invoice.InvoiceNumber+".pdf", wo.ID.String())
	if err != nil {
		return fmt.Errorf("failed to upload invoice pdf: %w", err)
	}
	if err := s.invoiceRepo.Updates(ctx, id, map[string]interface{}{"pdf_url": url}); err != nil {
		return fmt.Errorf("failed to store pdf url: %w", err)
	}
	return nil
}

// ExportRegister writes the invoices issued in [from, to) as a spreadsheet.
func (s *invoiceService) ExportRegister(ctx context.Context, w io.Writer, from, to time.Time) error {
	if !to.After(from) {
		return apperror.Validation("export range end must be after start")
	}
	invoices, err := s.invoiceRepo.ListIssuedBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to fetch invoices: %w", err)
	}

	customers := map[uuid.UUID]string{}
	rows := make([]report.RegisterRow, 0, len(invoices))
	for _, inv := range invoices {
		name, ok := customers[inv.CustomerID]
		if !ok {
			if c, err := s.customerRepo.FindByID(ctx, inv.CustomerID); err == nil {
				name = c.Name
			}
			customers[inv.CustomerID] = name
		}
		woNumber := ""
		if wo, err := s.workOrderRepo.FindByID(ctx, inv.WorkOrderID); err == nil {
			woNumber = wo.WorkOrderNumber
		}
		rows = append(rows, report.RegisterRow{
			InvoiceNumber:   inv.InvoiceNumber,
			WorkOrderNumber: woNumber,
			CustomerName:    name,
			Status:          inv.Status,
			IssuedAt:        inv.IssuedAt,
			DueDate:         inv.DueDate,
			Services:        inv.SubtotalServices,
			Labor:           inv.SubtotalLabor,
			Parts:           inv.SubtotalParts,
			Subtotal:        inv.Subtotal,
			Tax:             inv.TaxAmount,
			Discount:        inv.DiscountAmount,
			Total:           inv.TotalAmount,
		})
	}
	return report.WriteInvoiceRegister(w, rows)
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:               inv.ID.String(),
		InvoiceNumber:    inv.InvoiceNumber,
		WorkOrderID:      inv.WorkOrderID.String(),
		CustomerID:       inv.CustomerID.String(),
		Status:           inv.Status,
		SubtotalServices: money(inv.SubtotalServices),
		SubtotalLabor:    money(inv.SubtotalLabor),
		SubtotalParts:    money(inv.SubtotalParts),
		Subtotal:         money(inv.Subtotal),
		TaxRuleID:        uuidString(inv.TaxRuleID),
		TaxRate:          inv.TaxRate.StringFixed(4),
		TaxAmount:        money(inv.TaxAmount),
		DiscountAmount:   money(inv.DiscountAmount),
		TotalAmount:      money(inv.TotalAmount),
		IssuedAt:         formatTime(inv.IssuedAt),
		DueDate:          formatTimePtr(inv.DueDate),
		PaidAt:           formatTimePtr(inv.PaidAt),
		Notes:            inv.Notes,
		Terms:            inv.Terms,
		PDFURL:           inv.PDFURL,
	}
	for _, l := range inv.LineItems {
		resp.LineItems = append(resp.LineItems, InvoiceLineResponse{
			ID:          l.ID.String(),
			Position:    l.Position,
			Type:        l.Type,
			SourceID:    uuidString(l.SourceID),
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			UnitPrice:   money(l.UnitPrice),
			Amount:      money(l.Amount),
		})
	}
	return resp
}
