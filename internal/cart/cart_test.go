package cart

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

var (
	shoes = Product{ID: 1, Name: "Trail Shoes", ImageURL: "https://cdn.example.com/shoes.jpg", Seller: "acme", Price: 100, DiscountPrice: f64(80), Stock: 12}
	socks = Product{ID: 2, Name: "Wool Socks", Seller: "acme", Price: 9.5, Stock: 40}
	belt  = Product{ID: 3, Name: "Belt", Seller: "leatherco", Price: 25, Stock: 5}
)

func newTestCart(t *testing.T) (*Cart, kv.Store) {
	t.Helper()
	store := kv.NewMemoryStore()
	return New(store, "tester"), store
}

// checkInvariants asserts the derived totals always match the items.
func checkInvariants(t *testing.T, c *Cart) {
	t.Helper()

	items := 0
	price := 0.0
	for _, it := range c.Items() {
		require.Greater(t, it.Quantity, 0, "no line item may have quantity <= 0")
		items += it.Quantity
		price += it.Price * float64(it.Quantity)
	}
	assert.Equal(t, items, c.TotalItems())
	assert.InDelta(t, price, c.TotalPrice(), 1e-9)
}

func TestAddItem_SnapshotsEffectivePrice(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, shoes, 1))

	it, ok := c.Item(1)
	require.True(t, ok)
	assert.Equal(t, 80.0, it.Price)
	require.NotNil(t, it.OriginalPrice)
	assert.Equal(t, 100.0, *it.OriginalPrice)
	assert.Equal(t, "Trail Shoes", it.Name)
	assert.Equal(t, "acme", it.Seller)
	assert.Equal(t, 12, it.Stock)
	checkInvariants(t, c)
}

func TestAddItem_NoDiscountOmitsOriginalPrice(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, socks, 2))

	it, ok := c.Item(2)
	require.True(t, ok)
	assert.Equal(t, 9.5, it.Price)
	assert.Nil(t, it.OriginalPrice)
}

func TestAddItem_RepeatedAddAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, shoes, 1))
	require.NoError(t, c.AddItem(ctx, shoes, 2))

	require.Equal(t, 1, c.Len(), "same product must stay one line item")
	it, _ := c.Item(1)
	assert.Equal(t, 3, it.Quantity)
	assert.Equal(t, 3, c.TotalItems())
	assert.InDelta(t, 240.0, c.TotalPrice(), 1e-9)
	checkInvariants(t, c)
}

func TestAddItem_SecondAddDoesNotRefreshSnapshot(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, shoes, 1))

	changed := shoes
	changed.Name = "Trail Shoes v2"
	changed.Price = 200
	changed.DiscountPrice = nil
	require.NoError(t, c.AddItem(ctx, changed, 1))

	it, _ := c.Item(1)
	assert.Equal(t, "Trail Shoes", it.Name, "snapshot fields are frozen at first add")
	assert.Equal(t, 80.0, it.Price)
	assert.Equal(t, 2, it.Quantity)
}

func TestAddItem_QuantityBelowOneBecomesOne(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, belt, 0))
	require.NoError(t, c.AddItem(ctx, socks, -3))

	it, _ := c.Item(3)
	assert.Equal(t, 1, it.Quantity)
	it, _ = c.Item(2)
	assert.Equal(t, 1, it.Quantity)
	checkInvariants(t, c)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, shoes, 1))
	require.NoError(t, c.AddItem(ctx, socks, 2))

	require.NoError(t, c.RemoveItem(ctx, 1))
	_, ok := c.Item(1)
	assert.False(t, ok)
	assert.Equal(t, 2, c.TotalItems())

	// unknown id is a no-op, not an error
	require.NoError(t, c.RemoveItem(ctx, 99))
	assert.Equal(t, 1, c.Len())
	checkInvariants(t, c)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, shoes, 5))
	require.NoError(t, c.UpdateQuantity(ctx, 1, 2))

	it, _ := c.Item(1)
	assert.Equal(t, 2, it.Quantity, "set is absolute, not a delta")
	assert.InDelta(t, 160.0, c.TotalPrice(), 1e-9)

	// unknown id is a no-op
	require.NoError(t, c.UpdateQuantity(ctx, 99, 4))
	assert.Equal(t, 2, c.TotalItems())
	checkInvariants(t, c)
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	ctx := context.Background()

	for _, qty := range []int{0, -5} {
		c, _ := newTestCart(t)
		require.NoError(t, c.AddItem(ctx, shoes, 2))
		require.NoError(t, c.UpdateQuantity(ctx, 1, qty))

		_, ok := c.Item(1)
		assert.False(t, ok, "quantity %d must remove the item", qty)
		assert.Equal(t, 0, c.TotalItems())
		assert.Zero(t, c.TotalPrice())
	}
}

func TestItemsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, belt, 1))
	require.NoError(t, c.AddItem(ctx, shoes, 1))
	require.NoError(t, c.AddItem(ctx, socks, 1))
	require.NoError(t, c.AddItem(ctx, shoes, 1)) // must not move shoes to the back

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)
	assert.Equal(t, int64(2), items[2].ID)
}

func TestRoundTrip_PersistAndReload(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	c := New(store, "tester")
	require.NoError(t, c.AddItem(ctx, shoes, 2))
	require.NoError(t, c.AddItem(ctx, socks, 1))

	// simulate a new session against the same storage
	reloaded := New(store, "tester")
	require.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, c.Items(), reloaded.Items())
	assert.Equal(t, c.TotalItems(), reloaded.TotalItems())
	assert.InDelta(t, c.TotalPrice(), reloaded.TotalPrice(), 1e-9)
	checkInvariants(t, reloaded)
}

func TestClear_ErasesPersistedSnapshot(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	c := New(store, "tester")
	require.NoError(t, c.AddItem(ctx, shoes, 2))
	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, 0, c.TotalItems())
	assert.Zero(t, c.TotalPrice())

	_, err := store.Get(ctx, "cart:tester")
	assert.ErrorIs(t, err, kv.ErrNotFound, "clear must erase the snapshot, not just zero memory")

	reloaded := New(store, "tester")
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 0, reloaded.Len())
}

func TestLoad_MissingKeyYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.TotalItems())
}

func TestLoad_CorruptSnapshotYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "cart:tester", []byte("{not json")))

	c := New(store, "tester")
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestLoad_DropsNonPositiveQuantities(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "cart:tester",
		[]byte(`[{"id":1,"price":10,"quantity":2},{"id":2,"price":5,"quantity":0}]`)))

	c := New(store, "tester")
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.TotalItems())
	checkInvariants(t, c)
}

func TestMutationSequence_TotalsAlwaysConsistent(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	steps := []func() error{
		func() error { return c.AddItem(ctx, shoes, 3) },
		func() error { return c.AddItem(ctx, socks, 1) },
		func() error { return c.UpdateQuantity(ctx, 1, 1) },
		func() error { return c.AddItem(ctx, belt, 2) },
		func() error { return c.RemoveItem(ctx, 2) },
		func() error { return c.UpdateQuantity(ctx, 3, 0) },
		func() error { return c.AddItem(ctx, socks, 4) },
	}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		checkInvariants(t, c)
	}
}

// failingStore breaks on every operation to exercise the error policy.
type failingStore struct{ err error }

func (s failingStore) Get(context.Context, string) ([]byte, error) { return nil, s.err }

func (s failingStore) Set(context.Context, string, []byte) error { return s.err }

func (s failingStore) Delete(context.Context, string) error { return s.err }

func TestErrorPolicy_SwallowKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("storage down")
	c := New(failingStore{err: boom}, "tester")

	require.NoError(t, c.AddItem(ctx, shoes, 1))
	assert.Equal(t, 1, c.TotalItems())
	require.NoError(t, c.Clear(ctx))
	require.NoError(t, c.Load(ctx))
}

func TestErrorPolicy_SurfaceReturnsStorageError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("storage down")
	c := NewWithPolicy(failingStore{err: boom}, "tester", SurfaceErrors)

	err := c.AddItem(ctx, shoes, 1)
	require.ErrorIs(t, err, boom)
	// the in-memory mutation still applied
	assert.Equal(t, 1, c.TotalItems())

	require.ErrorIs(t, c.Clear(ctx), boom)
	require.ErrorIs(t, c.Load(ctx), boom)
}
