package service

import (
	"testing"

	"garage/internal/repository"
	"garage/internal/testutil"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCustomerService(repository.NewCustomerRepository(db))
	ctx := t.Context()

	c, err := svc.CreateCustomer(ctx, CreateCustomerRequest{ExternalID: "auth0|42", Name: "Luis Pena", Email: "luis@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateCustomer(ctx, CreateCustomerRequest{ExternalID: "auth0|42", Name: "Someone else"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	id, err := svc.ResolveCustomer(ctx, "auth0|42")
	require.NoError(t, err)
	assert.Equal(t, c.ID, id.String())

	_, err = svc.ResolveCustomer(ctx, "auth0|unknown")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = svc.ResolveCustomer(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	v, err := svc.AddVehicle(ctx, id, CreateVehicleRequest{Make: "Ford", Model: "Ranger", Year: 2021})
	require.NoError(t, err)
	assert.Equal(t, c.ID, v.CustomerID)

	_, err = svc.AddVehicle(ctx, uuid.New(), CreateVehicleRequest{Make: "Ford", Model: "Ka"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	vehicles, err := svc.ListVehicles(ctx, id)
	require.NoError(t, err)
	assert.Len(t, vehicles, 1)

	list, total, err := svc.ListCustomers(ctx, "Luis", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestTaxService_RejectsOverlap(t *testing.T) {
	h := defaultHarness(t)

	_, err := h.taxes.CreateTaxRule(h.ctx, TaxRuleRequest{TaxType: "SALES", Rate: "0.18", EffectiveFrom: "2026-01-01", EffectiveTo: "2026-12-31"}, nil)
	require.NoError(t, err)

	_, err = h.taxes.CreateTaxRule(h.ctx, TaxRuleRequest{TaxType: "SALES", Rate: "0.20", EffectiveFrom: "2026-06-01"}, nil)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = h.taxes.CreateTaxRule(h.ctx, TaxRuleRequest{TaxType: "SALES", Rate: "1.5", EffectiveFrom: "2027-01-01"}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = h.taxes.CreateTaxRule(h.ctx, TaxRuleRequest{TaxType: "PARTS", Rate: "0.05", EffectiveFrom: "2026-06-01"}, nil)
	assert.NoError(t, err, "other tax types do not overlap")

	active, err := h.taxes.GetActiveTaxRate(h.ctx, "SALES")
	require.NoError(t, err)
	require.NotNil(t, active)
}
