package app

import (
	"errors"
	"time"

	"garage/internal/config"
	"garage/internal/handler"
	"garage/internal/jobs"
	"garage/internal/notification"
	"garage/internal/payments"
	"garage/internal/repository"
	"garage/internal/service"
	"garage/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra carries the process-specific adapters. The API process publishes
// through the websocket hub, the worker through a LogPublisher.
type Infra struct {
	Dispatcher jobs.Dispatcher
	Publisher  notification.Publisher
	Storage    storage.Storage
	Gateway    payments.Gateway
}

// Container holds the service graph shared by cmd/api and cmd/worker.
type Container struct {
	WorkOrders  service.WorkOrderService
	Lines       service.LineService
	Approvals   service.ApprovalService
	Inspections service.InspectionService
	Invoices    service.InvoiceService
	Payments    service.PaymentService
	Catalog     service.CatalogService
	Customers   service.CustomerService
	Taxes       service.TaxService
	Audit       service.AuditService
	Statistics  service.StatisticsService
	Pricing     service.PricingService
}

// NewContainer wires Repository -> Service.
func NewContainer(cfg config.Config, db *gorm.DB, infra Infra, log *zap.Logger) *Container {
	now := service.Clock(time.Now)
	txManager := repository.NewTransactionManager(db)

	workOrderRepo := repository.NewWorkOrderRepository(db)
	lineRepo := repository.NewLineRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	taxRuleRepo := repository.NewTaxRuleRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	notifier := notification.NewService(infra.Publisher, infra.Dispatcher, log.Named("notify"))
	sequence := service.NewSequenceGenerator(repository.NewSequenceRepository(db))
	pricing := service.NewPricingService(workOrderRepo, lineRepo, paymentRepo, invoiceRepo, txManager)
	inspections := service.NewInspectionService(inspectionRepo, workOrderRepo, txManager, now)

	return &Container{
		WorkOrders: service.NewWorkOrderService(
			workOrderRepo, customerRepo, lineRepo, invoiceRepo, auditRepo,
			sequence, pricing, inspections, notifier, txManager,
			service.WorkflowOptions{RequireInspection: cfg.RequireInspection},
			now, log.Named("workorders"),
		),
		Lines:       service.NewLineService(workOrderRepo, lineRepo, catalogRepo, invoiceRepo, auditRepo, pricing, txManager, now),
		Approvals:   service.NewApprovalService(workOrderRepo, lineRepo, auditRepo, pricing, txManager, now),
		Inspections: inspections,
		Invoices: service.NewInvoiceService(
			invoiceRepo, workOrderRepo, lineRepo, taxRuleRepo, customerRepo, auditRepo,
			sequence, pricing, infra.Dispatcher, notifier, infra.Storage, txManager,
			service.BillingOptions{
				TaxRate:   cfg.Billing.TaxRate,
				LaborRate: cfg.Billing.LaborRate,
				DueDays:   cfg.Billing.DueDays,
				Terms:     cfg.Billing.Terms,
			},
			now, log.Named("invoices"),
		),
		Payments: service.NewPaymentService(
			paymentRepo, workOrderRepo, invoiceRepo, customerRepo, auditRepo,
			pricing, infra.Gateway, notifier, txManager, now, log.Named("payments"),
		),
		Catalog:    service.NewCatalogService(catalogRepo, auditRepo, txManager, infra.Publisher, log.Named("catalog")),
		Customers:  service.NewCustomerService(customerRepo),
		Taxes:      service.NewTaxService(taxRuleRepo, auditRepo, txManager, now),
		Audit:      service.NewAuditService(auditRepo),
		Statistics: service.NewStatisticsService(db, invoiceRepo),
		Pricing:    pricing,
	}
}

// RegisterRoutes mounts every API handler on router.
func (c *Container) RegisterRoutes(router *gin.RouterGroup) {
	handler.NewWorkOrderHandler(c.WorkOrders, c.Inspections).RegisterRoutes(router)
	handler.NewLineHandler(c.Lines).RegisterRoutes(router)
	handler.NewApprovalHandler(c.Approvals, c.Customers).RegisterRoutes(router)
	handler.NewInspectionHandler(c.Inspections).RegisterRoutes(router)
	handler.NewInvoiceHandler(c.Invoices).RegisterRoutes(router)
	handler.NewPaymentHandler(c.Payments).RegisterRoutes(router)
	handler.NewCatalogHandler(c.Catalog).RegisterRoutes(router)
	handler.NewCustomerHandler(c.Customers).RegisterRoutes(router)
	handler.NewTaxHandler(c.Taxes).RegisterRoutes(router)
	handler.NewAuditHandler(c.Audit).RegisterRoutes(router)
	handler.NewStatisticsHandler(c.Statistics).RegisterRoutes(router)
}

// NewStorage prefers Cloudinary and falls back to the local directory
// served under cfg.StorageURL.
func NewStorage(cfg config.Config, log *zap.Logger) (storage.Storage, error) {
	if cfg.Cloudinary != "" {
		return storage.NewCloudinaryStorage(cfg.Cloudinary)
	}
	log.Info("cloudinary not configured, storing documents locally", zap.String("dir", cfg.StorageDir))
	return storage.NewLocalStorage(cfg.StorageDir, cfg.StorageURL), nil
}

// NewGateway returns nil when no MercadoPago credentials are configured;
// card capture then answers 503.
func NewGateway(cfg config.Config, log *zap.Logger) (payments.Gateway, error) {
	gw, err := payments.NewMercadoPagoGateway(cfg.MercadoPago.AccessToken, cfg.MercadoPago.Mock, log.Named("mercadopago"))
	if errors.Is(err, payments.ErrMissingAccessToken) {
		log.Warn("mercadopago access token missing, card capture disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return gw, nil
}
