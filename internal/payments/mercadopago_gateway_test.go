package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewMercadoPagoGateway_MissingToken(t *testing.T) {
	_, err := NewMercadoPagoGateway("", false, zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingAccessToken)
}

func TestMercadoPagoGateway_MockCharge(t *testing.T) {
	g, err := NewMercadoPagoGateway("", true, zap.NewNop())
	require.NoError(t, err)

	res, err := g.Charge(context.Background(), ChargeRequest{
		Amount:            decimal.RequireFromString("59.00"),
		Token:             "tok_test",
		ExternalReference: "INV-202401-0001",
	})
	require.NoError(t, err)
	assert.True(t, res.Approved())
	assert.NotEmpty(t, res.ProviderPaymentID)
}

func TestMercadoPagoGateway_RejectsNonPositiveAmount(t *testing.T) {
	g, err := NewMercadoPagoGateway("", true, zap.NewNop())
	require.NoError(t, err)

	_, err = g.Charge(context.Background(), ChargeRequest{Amount: decimal.Zero})
	assert.Error(t, err)
}

func TestMercadoPagoGateway_NilIsNotConfigured(t *testing.T) {
	var g *MercadoPagoGateway
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}
