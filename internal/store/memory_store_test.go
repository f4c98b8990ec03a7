package store

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/fjod/greenleaf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *MemoryStore {
	t.Helper()
	catalog, err := domain.NewCatalog([]domain.Product{
		{ID: 1, Name: "Snake Plant", Price: 15, Category: "Indoor"},
		{ID: 2, Name: "Aloe Vera", Price: 12, Category: "Succulents"},
		{ID: 3, Name: "Peace Lily", Price: 20, Category: "Indoor"},
	})
	require.NoError(t, err)
	return NewMemoryStore(catalog)
}

func TestMemoryStore_StartsEmpty(t *testing.T) {
	store := setupStore(t)
	assert.Empty(t, store.Snapshot())
}

func TestMemoryStore_AddToCart_Twice(t *testing.T) {
	store := setupStore(t)

	qty, err := store.AddToCart(1)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	qty, err = store.AddToCart(1)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	assert.Equal(t, domain.Cart{1: 2}, store.Snapshot())
}

func TestMemoryStore_AddToCart_ProductNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.AddToCart(999)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, store.Snapshot())
}

func TestMemoryStore_SetQuantity_Set(t *testing.T) {
	store := setupStore(t)

	outcome, err := store.SetQuantity(2, 4)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Kind: Set, Quantity: 4}, outcome)
	assert.Equal(t, domain.Cart{2: 4}, store.Snapshot())

	// overwrite, not increment
	outcome, err = store.SetQuantity(2, 1)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Kind: Set, Quantity: 1}, outcome)
	assert.Equal(t, domain.Cart{2: 1}, store.Snapshot())
}

func TestMemoryStore_SetQuantity_ZeroRemoves(t *testing.T) {
	store := setupStore(t)
	_, _ = store.AddToCart(1)
	_, _ = store.AddToCart(2)

	outcome, err := store.SetQuantity(1, 0)
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome.Kind)

	cart := store.Snapshot()
	_, present := cart[1]
	assert.False(t, present)
	assert.Equal(t, domain.Cart{2: 1}, cart)
}

func TestMemoryStore_SetQuantity_NegativeRemoves(t *testing.T) {
	store := setupStore(t)
	_, _ = store.SetQuantity(3, 5)

	outcome, err := store.SetQuantity(3, -7)
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome.Kind)
	assert.Empty(t, store.Snapshot())
}

func TestMemoryStore_SetQuantity_RemoveAbsentIsNoop(t *testing.T) {
	store := setupStore(t)

	outcome, err := store.SetQuantity(1, 0)
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome.Kind)
	assert.Empty(t, store.Snapshot())
}

func TestMemoryStore_SetQuantity_Idempotent(t *testing.T) {
	store := setupStore(t)

	first, err := store.SetQuantity(1, 3)
	require.NoError(t, err)
	second, err := store.SetQuantity(1, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, domain.Cart{1: 3}, store.Snapshot())
}

func TestMemoryStore_SetQuantity_ProductNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.SetQuantity(999, 2)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = store.SetQuantity(999, 0)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, store.Snapshot())
}

func TestMemoryStore_AddToCart_AtLimit(t *testing.T) {
	store := setupStore(t)
	_, err := store.SetQuantity(1, domain.MaxQuantity)
	require.NoError(t, err)

	qty, err := store.AddToCart(1)
	assert.ErrorIs(t, err, ErrQuantityLimit)
	assert.Equal(t, domain.MaxQuantity, qty)
	assert.Equal(t, domain.Cart{1: domain.MaxQuantity}, store.Snapshot())
}

func TestMemoryStore_AddToCart_UpToLimit(t *testing.T) {
	store := setupStore(t)

	for i := 0; i < domain.MaxQuantity; i++ {
		_, err := store.AddToCart(2)
		require.NoError(t, err)
	}

	_, err := store.AddToCart(2)
	assert.ErrorIs(t, err, ErrQuantityLimit)
	assert.Equal(t, domain.Cart{2: domain.MaxQuantity}, store.Snapshot())
}

func TestMemoryStore_SetQuantity_AboveLimit(t *testing.T) {
	store := setupStore(t)
	_, _ = store.SetQuantity(1, 4)

	for _, qty := range []int{domain.MaxQuantity + 1, math.MaxInt} {
		_, err := store.SetQuantity(1, qty)
		assert.ErrorIs(t, err, ErrQuantityLimit, "quantity %d", qty)
	}
	assert.Equal(t, domain.Cart{1: 4}, store.Snapshot())

	outcome, err := store.SetQuantity(1, domain.MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Kind: Set, Quantity: domain.MaxQuantity}, outcome)
}

func TestMemoryStore_MaxQuantitySetThenAdd(t *testing.T) {
	store := setupStore(t)

	_, err := store.SetQuantity(1, math.MaxInt)
	require.ErrorIs(t, err, ErrQuantityLimit)

	_, err = store.AddToCart(1)
	require.NoError(t, err)

	cart := store.Snapshot()
	assert.Equal(t, domain.Cart{1: 1}, cart)
	cost, err := domain.TotalCost(cart, store.Catalog())
	require.NoError(t, err)
	assert.Equal(t, int64(15), cost)
}

func TestMemoryStore_SnapshotIsCopy(t *testing.T) {
	store := setupStore(t)
	_, _ = store.AddToCart(1)

	snap := store.Snapshot()
	snap[1] = 100
	snap[2] = 1

	assert.Equal(t, domain.Cart{1: 1}, store.Snapshot())
}

func TestMemoryStore_RandomSequencesPreserveInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []int64{1, 2, 3, 4} // 4 is not in the catalog
	quantities := []int{
		math.MinInt, -3, -1, 0, 1, 2, 3,
		domain.MaxQuantity - 1, domain.MaxQuantity, domain.MaxQuantity + 1, math.MaxInt,
	}

	for run := 0; run < 50; run++ {
		store := setupStore(t)
		for op := 0; op < 200; op++ {
			id := ids[rng.Intn(len(ids))]
			if rng.Intn(2) == 0 {
				_, _ = store.AddToCart(id)
			} else {
				_, _ = store.SetQuantity(id, quantities[rng.Intn(len(quantities))])
			}

			cart := store.Snapshot()
			for k, qty := range cart {
				require.True(t, store.Catalog().Contains(k), "key %d not in catalog", k)
				require.GreaterOrEqual(t, qty, 1, "key %d has quantity %d", k, qty)
				require.LessOrEqual(t, qty, domain.MaxQuantity, "key %d has quantity %d", k, qty)
			}
			_, err := domain.TotalItems(cart)
			require.NoError(t, err)
			_, err = domain.TotalCost(cart, store.Catalog())
			require.NoError(t, err)
		}
	}
}

func TestMemoryStore_ConcurrentAdds(t *testing.T) {
	store := setupStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.AddToCart(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, domain.Cart{1: 100}, store.Snapshot())
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "set", Set.String())
	assert.Equal(t, "unknown", OutcomeKind(0).String())
}
