package service

import (
	"context"
	"sync"
	"testing"
	"time"

	jobmocks "garage/internal/jobs/mocks"
	"garage/internal/model"
	"garage/internal/notification"
	notifmocks "garage/internal/notification/mocks"
	"garage/internal/repository"
	"garage/internal/storage"
	"garage/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type harnessOptions struct {
	requireInspection bool
	taxRate           decimal.Decimal
	laborRate         decimal.Decimal
	notifier          notification.Notifier
}

type harness struct {
	db  *gorm.DB
	ctx context.Context

	workOrderRepo  repository.WorkOrderRepository
	customerRepo   repository.CustomerRepository
	lineRepo       repository.LineRepository
	catalogRepo    repository.CatalogRepository
	invoiceRepo    repository.InvoiceRepository
	paymentRepo    repository.PaymentRepository
	taxRuleRepo    repository.TaxRuleRepository
	auditRepo      repository.AuditRepository
	inspectionRepo repository.InspectionRepository

	notifier   notification.Notifier
	dispatcher *jobmocks.MockDispatcher

	pricing     PricingService
	workOrders  WorkOrderService
	lines       LineService
	approvals   ApprovalService
	inspections InspectionService
	invoices    InvoiceService
	payments    PaymentService
	catalog     CatalogService
	taxes       TaxService

	customer model.Customer
	vehicle  model.Vehicle
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	db := testutil.NewDB(t)
	ctrl := gomock.NewController(t)
	log := zap.NewNop()

	h := &harness{
		db:             db,
		ctx:            context.Background(),
		workOrderRepo:  repository.NewWorkOrderRepository(db),
		customerRepo:   repository.NewCustomerRepository(db),
		lineRepo:       repository.NewLineRepository(db),
		catalogRepo:    repository.NewCatalogRepository(db),
		invoiceRepo:    repository.NewInvoiceRepository(db),
		paymentRepo:    repository.NewPaymentRepository(db),
		taxRuleRepo:    repository.NewTaxRuleRepository(db),
		auditRepo:      repository.NewAuditRepository(db),
		inspectionRepo: repository.NewInspectionRepository(db),
		notifier:       opts.notifier,
		dispatcher:     jobmocks.NewMockDispatcher(ctrl),
	}
	if h.notifier == nil {
		mock := notifmocks.NewMockNotifier(ctrl)
		mock.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		h.notifier = mock
	}
	h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	txManager := repository.NewTransactionManager(db)
	sequence := NewSequenceGenerator(repository.NewSequenceRepository(db))
	store := storage.NewLocalStorage(t.TempDir(), "http://files.test")

	h.pricing = NewPricingService(h.workOrderRepo, h.lineRepo, h.paymentRepo, h.invoiceRepo, txManager)
	h.inspections = NewInspectionService(h.inspectionRepo, h.workOrderRepo, txManager, fixedClock)
	h.workOrders = NewWorkOrderService(h.workOrderRepo, h.customerRepo, h.lineRepo, h.invoiceRepo, h.auditRepo,
		sequence, h.pricing, h.inspections, h.notifier, txManager,
		WorkflowOptions{RequireInspection: opts.requireInspection}, fixedClock, log)
	h.lines = NewLineService(h.workOrderRepo, h.lineRepo, h.catalogRepo, h.invoiceRepo, h.auditRepo, h.pricing, txManager, fixedClock)
	h.approvals = NewApprovalService(h.workOrderRepo, h.lineRepo, h.auditRepo, h.pricing, txManager, fixedClock)
	h.invoices = NewInvoiceService(h.invoiceRepo, h.workOrderRepo, h.lineRepo, h.taxRuleRepo, h.customerRepo, h.auditRepo,
		sequence, h.pricing, h.dispatcher, h.notifier, store, txManager,
		BillingOptions{TaxRate: opts.taxRate, LaborRate: opts.laborRate, DueDays: 30, Terms: "Net 30"},
		fixedClock, log)
	h.payments = NewPaymentService(h.paymentRepo, h.workOrderRepo, h.invoiceRepo, h.customerRepo, h.auditRepo,
		h.pricing, nil, h.notifier, txManager, fixedClock, log)
	h.catalog = NewCatalogService(h.catalogRepo, h.auditRepo, txManager, nil, log)
	h.taxes = NewTaxService(h.taxRuleRepo, h.auditRepo, txManager, fixedClock)

	h.customer = model.Customer{Name: "Ana Ruiz", Email: "ana@example.com", Phone: "+5491100000000"}
	require.NoError(t, h.customerRepo.Create(h.ctx, &h.customer))
	h.vehicle = model.Vehicle{CustomerID: h.customer.ID, Make: "Toyota", Model: "Corolla", Year: 2019, LicensePlate: "AB123CD"}
	require.NoError(t, h.customerRepo.CreateVehicle(h.ctx, &h.vehicle))
	return h
}

// recordingNotifier keeps every notification it is asked to send.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (r *recordingNotifier) Send(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) events() []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Notification(nil), r.sent...)
}

func defaultHarness(t *testing.T) *harness {
	return newHarness(t, harnessOptions{taxRate: decimal.RequireFromString("0.18")})
}

func (h *harness) newWorkOrder(t *testing.T) WorkOrderResponse {
	t.Helper()
	wo, err := h.workOrders.CreateWorkOrder(h.ctx, CreateWorkOrderRequest{
		CustomerID: h.customer.ID.String(),
		VehicleID:  h.vehicle.ID.String(),
	}, nil)
	require.NoError(t, err)
	return wo
}

func (h *harness) addService(t *testing.T, woID string, description, price string, qty int) ServiceLineResponse {
	t.Helper()
	line, err := h.lines.AddService(h.ctx, uuid.MustParse(woID), AddServiceLineRequest{
		Description: description,
		Quantity:    qty,
		UnitPrice:   price,
	})
	require.NoError(t, err)
	return line
}

// addPart stocks a catalog part and puts qty of it on the work order.
func (h *harness) addPart(t *testing.T, woID string, price string, qty, stock int) PartLineResponse {
	t.Helper()
	part := model.InventoryPart{
		SKU:          "SKU-" + uuid.NewString()[:8],
		Name:         "Brake pad set",
		CurrentStock: stock,
		UnitPrice:    decimal.RequireFromString(price),
	}
	require.NoError(t, h.catalogRepo.CreatePart(h.ctx, &part))
	line, err := h.lines.AddPart(h.ctx, uuid.MustParse(woID), AddPartLineRequest{
		PartID:   part.ID.String(),
		Quantity: qty,
	})
	require.NoError(t, err)
	return line
}

func (h *harness) approveService(t *testing.T, lineID string) {
	t.Helper()
	_, err := h.approvals.ApproveService(h.ctx, uuid.MustParse(lineID), h.customer.ID, "")
	require.NoError(t, err)
}

func (h *harness) moveTo(t *testing.T, woID string, statuses ...string) {
	t.Helper()
	for _, st := range statuses {
		_, err := h.workOrders.TransitionStatus(h.ctx, uuid.MustParse(woID), st, "", nil)
		require.NoError(t, err, "transition to %s", st)
	}
}

func (h *harness) reload(t *testing.T, woID string) *model.WorkOrder {
	t.Helper()
	wo, err := h.workOrderRepo.FindByID(h.ctx, uuid.MustParse(woID))
	require.NoError(t, err)
	return wo
}
