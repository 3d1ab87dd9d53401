package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHistory_GroupsItemsByOrderPreservingReadOrder(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	v := f.user(t, "vendor1")
	buyer := f.user(t, "buyer1")
	pa := f.product(t, v.ID, "A", 1.00)
	pb := f.product(t, v.ID, "B", 2.00)
	pc := f.product(t, v.ID, "C", 3.00)

	// first order: A then B; second order: C
	require.NoError(t, f.cartSvc.Add(ctx, buyer.ID, pa.ID, 1))
	require.NoError(t, f.cartSvc.Add(ctx, buyer.ID, pb.ID, 1))
	order1, err := f.checkout.Checkout(ctx, buyer.ID)
	require.NoError(t, err)

	require.NoError(t, f.cartSvc.Add(ctx, buyer.ID, pc.ID, 1))
	order2, err := f.checkout.Checkout(ctx, buyer.ID)
	require.NoError(t, err)

	views, err := f.history.OrdersForVendor(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string][]string{}
	for _, view := range views {
		names := make([]string, 0, len(view.Items))
		for _, it := range view.Items {
			names = append(names, it.Name)
		}
		byID[view.OrderID.String()] = names
	}
	assert.Equal(t, []string{"A", "B"}, byID[order1.String()])
	assert.Equal(t, []string{"C"}, byID[order2.String()])

	// user history matches vendor history for a single-vendor setup
	userViews, err := f.history.OrdersForUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, userViews, 2)
}

func TestOrderHistory_EmptyForUnknownIDs(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	views, err := f.history.OrdersForVendor(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = f.history.OrdersForUser(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
