package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// MemoryStore объединённое in-memory хранилище. Служит режимом для локальной
// разработки (STORE=memory) и фикстурой в тестах
type MemoryStore struct {
	mu         sync.RWMutex
	nextProdID int64
	nextUserID int64
	seq        int64

	usersByID    map[int64]domain.User
	productsByID map[int64]domain.Product
	ordersByID   map[uuid.UUID]domain.Order
	orderSeq     map[uuid.UUID]int64

	// cart lines keyed by user, then product; addSeq preserves insertion
	// order the way a (user_id, product_id) table with added_at does
	carts map[int64]map[int64]memCartLine

	// order items in insertion order
	orderItems []domain.OrderItem
}

type memCartLine struct {
	quantity int64
	addedAt  time.Time
	seq      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextProdID:   1,
		nextUserID:   1,
		usersByID:    make(map[int64]domain.User),
		productsByID: make(map[int64]domain.Product),
		ordersByID:   make(map[uuid.UUID]domain.Order),
		orderSeq:     make(map[uuid.UUID]int64),
		carts:        make(map[int64]map[int64]memCartLine),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p.ID = m.nextProdID
	m.nextProdID++
	p.CreatedAt = time.Now().UTC()
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) GetDetail(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	d := domain.ProductDetail{Product: p}
	if u, ok := m.usersByID[p.VendorID]; ok {
		d.VendorName = u.Fullname
		d.VendorEmail = u.Email
		d.VendorPhone = u.Phone
		d.VendorAvatar = u.Avatar
	}
	return &d, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	old, ok := m.productsByID[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = old.CreatedAt
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if f.Category != nil && p.Category != *f.Category {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if p.VendorID == vendorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// UserRepository implementation on wrapper type
type MemoryUsers struct{ store *MemoryStore }

func NewMemoryUsers(store *MemoryStore) *MemoryUsers { return &MemoryUsers{store: store} }

var _ UserRepository = (*MemoryUsers)(nil)

func (mu *MemoryUsers) Create(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	for _, existing := range mu.store.usersByID {
		if existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	u.ID = mu.store.nextUserID
	mu.store.nextUserID++
	u.CreatedAt = time.Now().UTC()
	mu.store.usersByID[u.ID] = *u
	return nil
}

func (mu *MemoryUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	for _, u := range mu.store.usersByID {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (mu *MemoryUsers) UpdateProfile(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	for id, existing := range mu.store.usersByID {
		if existing.Username == u.Username {
			existing.Fullname = u.Fullname
			existing.Email = u.Email
			existing.Phone = u.Phone
			existing.Address = u.Address
			mu.store.usersByID[id] = existing
			return nil
		}
	}
	return ErrNotFound
}

// CartRepository implementation on wrapper type
type MemoryCarts struct{ store *MemoryStore }

func NewMemoryCarts(store *MemoryStore) *MemoryCarts { return &MemoryCarts{store: store} }

var _ CartRepository = (*MemoryCarts)(nil)

func (mc *MemoryCarts) Add(ctx context.Context, userID, productID, quantity int64) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	lines := mc.store.carts[userID]
	if lines == nil {
		lines = make(map[int64]memCartLine)
		mc.store.carts[userID] = lines
	}
	if line, ok := lines[productID]; ok {
		line.quantity += quantity
		lines[productID] = line
		return nil
	}
	mc.store.seq++
	lines[productID] = memCartLine{quantity: quantity, addedAt: time.Now().UTC(), seq: mc.store.seq}
	return nil
}

func (mc *MemoryCarts) Update(ctx context.Context, userID, productID, quantity int64) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	line, ok := mc.store.carts[userID][productID]
	if !ok {
		return ErrNotFound
	}
	line.quantity = quantity
	mc.store.carts[userID][productID] = line
	return nil
}

func (mc *MemoryCarts) Remove(ctx context.Context, userID, productID int64) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	delete(mc.store.carts[userID], productID)
	return nil
}

func (mc *MemoryCarts) Clear(ctx context.Context, userID int64) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	delete(mc.store.carts, userID)
	return nil
}

func (mc *MemoryCarts) List(ctx context.Context, userID int64) ([]domain.CartItemView, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	out := make([]domain.CartItemView, 0)
	for productID, line := range mc.store.carts[userID] {
		p, ok := mc.store.productsByID[productID]
		if !ok {
			continue
		}
		v := domain.CartItemView{
			CartItem: domain.CartItem{
				UserID:    userID,
				ProductID: productID,
				Quantity:  line.quantity,
				AddedAt:   line.addedAt,
			},
			Name:     p.Name,
			Price:    p.Price,
			ImageURL: p.ImageURL,
		}
		if u, ok := mc.store.usersByID[p.VendorID]; ok {
			v.SellerName = u.Fullname
		}
		out = append(out, v)
	}
	sortCartViews(out, mc.store.carts[userID])
	return out, nil
}

func sortCartViews(views []domain.CartItemView, lines map[int64]memCartLine) {
	sort.Slice(views, func(i, j int) bool {
		return lines[views[i].ProductID].seq < lines[views[j].ProductID].seq
	})
}

func (mc *MemoryCarts) LinesForCheckout(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	lines := mc.store.carts[userID]
	ids := make([]int64, 0, len(lines))
	for productID := range lines {
		ids = append(ids, productID)
	}
	sort.Slice(ids, func(i, j int) bool { return lines[ids[i]].seq < lines[ids[j]].seq })

	out := make([]domain.CartLine, 0, len(ids))
	for _, productID := range ids {
		p, ok := mc.store.productsByID[productID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		out = append(out, domain.CartLine{
			ProductID: productID,
			Quantity:  lines[productID].quantity,
			Price:     p.Price,
		})
	}
	return out, nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o.CreatedAt = time.Now().UTC()
	mo.store.seq++
	mo.store.orderSeq[o.ID] = mo.store.seq
	mo.store.ordersByID[o.ID] = *o
	return nil
}

func (mo *MemoryOrders) AddItems(ctx context.Context, items []domain.OrderItem) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	for _, it := range items {
		if _, ok := mo.store.ordersByID[it.OrderID]; !ok {
			return ErrNotFound
		}
	}
	mo.store.orderItems = append(mo.store.orderItems, items...)
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) ItemRowsForVendor(ctx context.Context, vendorID int64) ([]OrderItemRow, error) {
	return mo.itemRows(ctx, func(o domain.Order, p domain.Product) bool {
		return p.VendorID == vendorID
	})
}

func (mo *MemoryOrders) ItemRowsForUser(ctx context.Context, userID int64) ([]OrderItemRow, error) {
	return mo.itemRows(ctx, func(o domain.Order, p domain.Product) bool {
		return o.UserID == userID
	})
}

// itemRows mirrors the SQL join: newest order first, items in insertion
// order within an order.
func (mo *MemoryOrders) itemRows(ctx context.Context, keep func(domain.Order, domain.Product) bool) ([]OrderItemRow, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]OrderItemRow, 0)
	for _, it := range mo.store.orderItems {
		o, ok := mo.store.ordersByID[it.OrderID]
		if !ok {
			continue
		}
		p, ok := mo.store.productsByID[it.ProductID]
		if !ok {
			continue
		}
		if !keep(o, p) {
			continue
		}
		out = append(out, OrderItemRow{
			Order: o,
			Item: domain.OrderViewItem{
				ProductID: it.ProductID,
				Name:      p.Name,
				Quantity:  it.Quantity,
				Price:     it.Price,
				ImageURL:  p.ImageURL,
			},
		})
	}
	// stable: preserves item insertion order inside each order
	sort.SliceStable(out, func(i, j int) bool {
		return mo.store.orderSeq[out[i].Order.ID] > mo.store.orderSeq[out[j].Order.ID]
	})
	return out, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

var _ TxManager = (*MemoryTx)(nil)

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Для in-memory используем блокировку записи и помечаем контекст, чтобы
	// репозитории пропускали внутренние локи. Откат — восстановление снимка
	// состояния, снятого на входе
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	snap := tx.store.snapshot()
	ctx = context.WithValue(ctx, txKey{}, true)
	if err := fn(ctx); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	nextProdID int64
	nextUserID int64
	seq        int64

	users      map[int64]domain.User
	products   map[int64]domain.Product
	orders     map[uuid.UUID]domain.Order
	orderSeq   map[uuid.UUID]int64
	carts      map[int64]map[int64]memCartLine
	orderItems []domain.OrderItem
}

// caller holds mu
func (m *MemoryStore) snapshot() memSnapshot {
	snap := memSnapshot{
		nextProdID: m.nextProdID,
		nextUserID: m.nextUserID,
		seq:        m.seq,
		users:      make(map[int64]domain.User, len(m.usersByID)),
		products:   make(map[int64]domain.Product, len(m.productsByID)),
		orders:     make(map[uuid.UUID]domain.Order, len(m.ordersByID)),
		orderSeq:   make(map[uuid.UUID]int64, len(m.orderSeq)),
		carts:      make(map[int64]map[int64]memCartLine, len(m.carts)),
		orderItems: append([]domain.OrderItem(nil), m.orderItems...),
	}
	for k, v := range m.usersByID {
		snap.users[k] = v
	}
	for k, v := range m.productsByID {
		snap.products[k] = v
	}
	for k, v := range m.ordersByID {
		snap.orders[k] = v
	}
	for k, v := range m.orderSeq {
		snap.orderSeq[k] = v
	}
	for userID, lines := range m.carts {
		cp := make(map[int64]memCartLine, len(lines))
		for k, v := range lines {
			cp[k] = v
		}
		snap.carts[userID] = cp
	}
	return snap
}

// caller holds mu
func (m *MemoryStore) restore(snap memSnapshot) {
	m.nextProdID = snap.nextProdID
	m.nextUserID = snap.nextUserID
	m.seq = snap.seq
	m.usersByID = snap.users
	m.productsByID = snap.products
	m.ordersByID = snap.orders
	m.orderSeq = snap.orderSeq
	m.carts = snap.carts
	m.orderItems = snap.orderItems
}
