package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/repository"
)

func TestCartAdd_RepeatedCallsAccumulate(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	v := f.user(t, "vendor1")
	buyer := f.user(t, "buyer1")
	p := f.product(t, v.ID, "mug", 10.00)

	require.NoError(t, f.cartSvc.Add(ctx, buyer.ID, p.ID, 2))
	require.NoError(t, f.cartSvc.Add(ctx, buyer.ID, p.ID, 3))

	items, err := f.cartSvc.List(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)
	assert.Equal(t, "mug", items[0].Name)
}

func TestCartUpdate_SetsAbsoluteQuantity(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	v := f.user(t, "vendor1")
	buyer := f.user(t, "buyer1")
	p := f.product(t, v.ID, "mug", 10.00)

	require.NoError(t, f.cartSvc.Add(ctx, buyer.ID, p.ID, 2))
	require.NoError(t, f.cartSvc.Update(ctx, buyer.ID, p.ID, 7))
	// idempotent: same final call, same final state
	require.NoError(t, f.cartSvc.Update(ctx, buyer.ID, p.ID, 7))

	items, err := f.cartSvc.List(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].Quantity)
}

func TestCartUpdate_MissingLine(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	buyer := f.user(t, "buyer1")

	err := f.cartSvc.Update(ctx, buyer.ID, 99, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCartRemove(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	v := f.user(t, "vendor1")
	buyer := f.user(t, "buyer1")
	p := f.product(t, v.ID, "mug", 10.00)

	require.NoError(t, f.cartSvc.Add(ctx, buyer.ID, p.ID, 2))
	require.NoError(t, f.cartSvc.Remove(ctx, buyer.ID, p.ID))
	// removing an absent line is a no-op
	require.NoError(t, f.cartSvc.Remove(ctx, buyer.ID, p.ID))

	items, err := f.cartSvc.List(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCart_InvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	assert.ErrorIs(t, f.cartSvc.Add(ctx, 0, 1, 1), ErrInvalidInput)
	assert.ErrorIs(t, f.cartSvc.Add(ctx, 1, 1, 0), ErrInvalidInput)
	assert.ErrorIs(t, f.cartSvc.Update(ctx, 1, 1, -2), ErrInvalidInput)
	_, err := f.cartSvc.List(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
