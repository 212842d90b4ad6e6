package repository

import (
	"context"
	"sync"
	"testing"

	"garage/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceRepository_Next(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSequenceRepository(db)
	ctx := context.Background()

	first, err := repo.Next(ctx, "WO", "20261018")
	require.NoError(t, err)
	second, err := repo.Next(ctx, "WO", "20261018")
	require.NoError(t, err)
	otherDay, err := repo.Next(ctx, "WO", "20261019")
	require.NoError(t, err)
	otherScope, err := repo.Next(ctx, "INV", "20261018")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), otherDay)
	assert.Equal(t, int64(1), otherScope)
}

func TestSequenceRepository_NextConcurrent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSequenceRepository(db)

	const n = 25
	var wg sync.WaitGroup
	values := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Next(context.Background(), "WO", "20261018")
			assert.NoError(t, err)
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	seen := map[int64]bool{}
	for v := range values {
		assert.False(t, seen[v], "duplicate value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
}
