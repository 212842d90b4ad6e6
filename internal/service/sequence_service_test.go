package service

import (
	"regexp"
	"sync"
	"testing"

	"garage/internal/repository"
	"garage/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGenerator_Format(t *testing.T) {
	db := testutil.NewDB(t)
	gen := NewSequenceGenerator(repository.NewSequenceRepository(db))
	ctx := t.Context()

	wo, err := gen.Next(ctx, ScopeWorkOrder, fixedNow)
	require.NoError(t, err)
	inv, err := gen.Next(ctx, ScopeInvoice, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "WO-20261018-001", wo)
	assert.Equal(t, "INV-202610-0001", inv)
}

func TestCreateWorkOrder_NumbersUniqueUnderConcurrency(t *testing.T) {
	h := defaultHarness(t)

	const n = 10
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wo, err := h.workOrders.CreateWorkOrder(h.ctx, CreateWorkOrderRequest{
				CustomerID: h.customer.ID.String(),
				VehicleID:  h.vehicle.ID.String(),
			}, nil)
			if assert.NoError(t, err) {
				numbers <- wo.WorkOrderNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	pattern := regexp.MustCompile(`^WO-20261018-\d{3}$`)
	seen := map[string]bool{}
	for num := range numbers {
		assert.Regexp(t, pattern, num)
		assert.False(t, seen[num], "duplicate number %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}
