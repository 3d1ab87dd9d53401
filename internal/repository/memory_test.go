package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

func seedUser(t *testing.T, users *MemoryUsers, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Fullname: username, Email: username + "@x.test", Role: "customer"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestMemoryProducts_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := &domain.Product{VendorID: 1, Name: "A", Price: 5}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// mutating the copy must not touch the store
	got.Price = 100
	again, _ := store.GetByID(ctx, p.ID)
	if again.Price != 5 {
		t.Fatalf("store mutated through returned copy")
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCarts_AddAccumulatesAndPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users := NewMemoryUsers(store)
	carts := NewMemoryCarts(store)
	buyer := seedUser(t, users, "buyer")

	p1 := &domain.Product{VendorID: buyer.ID, Name: "first", Price: 1}
	p2 := &domain.Product{VendorID: buyer.ID, Name: "second", Price: 2}
	_ = store.Create(ctx, p1)
	_ = store.Create(ctx, p2)

	_ = carts.Add(ctx, buyer.ID, p1.ID, 1)
	_ = carts.Add(ctx, buyer.ID, p2.ID, 1)
	_ = carts.Add(ctx, buyer.ID, p1.ID, 2)

	lines, err := carts.LinesForCheckout(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", len(lines))
	}
	// insertion order: p1 before p2, quantity accumulated
	if lines[0].ProductID != p1.ID || lines[0].Quantity != 3 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].ProductID != p2.ID || lines[1].Quantity != 1 {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}

func TestMemoryCarts_LineForDeletedProduct(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users := NewMemoryUsers(store)
	carts := NewMemoryCarts(store)
	buyer := seedUser(t, users, "buyer")

	p := &domain.Product{VendorID: buyer.ID, Name: "gone", Price: 1}
	_ = store.Create(ctx, p)
	_ = carts.Add(ctx, buyer.ID, p.ID, 1)
	_ = store.Delete(ctx, p.ID)

	if _, err := carts.LinesForCheckout(ctx, buyer.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryTx_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users := NewMemoryUsers(store)
	carts := NewMemoryCarts(store)
	orders := NewMemoryOrders(store)
	tx := NewMemoryTx(store)
	buyer := seedUser(t, users, "buyer")

	p := &domain.Product{VendorID: buyer.ID, Name: "A", Price: 5}
	_ = store.Create(ctx, p)
	_ = carts.Add(ctx, buyer.ID, p.ID, 2)

	boom := errors.New("boom")
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		o := &domain.Order{ID: uuid.New(), UserID: buyer.ID, TotalPrice: 10, Status: domain.OrderStatusPending}
		if err := orders.Create(ctx, o); err != nil {
			return err
		}
		if err := carts.Clear(ctx, buyer.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	// order gone, cart restored
	rows, err := orders.ItemRowsForUser(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("item rows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no order rows after rollback")
	}
	lines, err := carts.LinesForCheckout(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("cart not restored: %+v", lines)
	}
}

func TestMemoryUsers_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users := NewMemoryUsers(store)
	seedUser(t, users, "alice")

	err := users.Create(ctx, &domain.User{Username: "alice", Fullname: "A", Email: "a@x.test", Role: "customer"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
