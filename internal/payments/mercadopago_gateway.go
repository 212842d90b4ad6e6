package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrMissingAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrGatewayNotConfigured = errors.New("payment gateway not configured")

const StatusApproved = "approved"

type ChargeRequest struct {
	Amount            decimal.Decimal
	Token             string
	PaymentMethodID   string
	Installments      int
	PayerEmail        string
	Description       string
	ExternalReference string
}

type ChargeResult struct {
	ProviderPaymentID string
	Status            string
	StatusDetail      string
}

func (r ChargeResult) Approved() bool {
	return r.Status == StatusApproved
}

// Gateway charges a card token with an external provider.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

type MercadoPagoGateway struct {
	client   payment.Client
	mockMode bool
	log      *zap.Logger
}

// NewMercadoPagoGateway returns a gateway backed by the MercadoPago SDK.
// In mock mode every charge is approved locally without a network call.
func NewMercadoPagoGateway(accessToken string, mock bool, log *zap.Logger) (*MercadoPagoGateway, error) {
	if mock {
		log.Info("payment gateway mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, log: log}, nil
	}
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPagoGateway{client: payment.NewClient(cfg), log: log}, nil
}

func (g *MercadoPagoGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if !req.Amount.IsPositive() {
		return ChargeResult{}, fmt.Errorf("charge amount must be positive")
	}
	if g != nil && g.mockMode {
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		g.log.Info("mock charge approved",
			zap.String("provider_payment_id", id),
			zap.String("external_reference", req.ExternalReference),
			zap.String("amount", req.Amount.StringFixed(2)))
		return ChargeResult{ProviderPaymentID: id, Status: StatusApproved, StatusDetail: "accredited"}, nil
	}
	if g == nil || g.client == nil {
		return ChargeResult{}, ErrGatewayNotConfigured
	}

	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}
	request := payment.Request{
		TransactionAmount: req.Amount.InexactFloat64(),
		Token:             req.Token,
		Description:       req.Description,
		Installments:      installments,
		PaymentMethodID:   req.PaymentMethodID,
		ExternalReference: req.ExternalReference,
		Payer:             &payment.PayerRequest{Email: req.PayerEmail},
	}

	resp, err := g.client.Create(ctx, request)
	if err != nil {
		g.log.Warn("mercadopago create failed", zap.String("external_reference", req.ExternalReference), zap.Error(err))
		return ChargeResult{}, fmt.Errorf("mercadopago create: %w", err)
	}
	g.log.Info("mercadopago charge created",
		zap.Int("provider_payment_id", resp.ID),
		zap.String("status", resp.Status))

	return ChargeResult{
		ProviderPaymentID: strconv.Itoa(resp.ID),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
	}, nil
}
