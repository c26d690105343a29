package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/mall/internal/domain/cart"
	"github.com/xiebiao/mall/internal/domain/order"
	"github.com/xiebiao/mall/internal/domain/product"
	"github.com/xiebiao/mall/internal/domain/seller"
	"github.com/xiebiao/mall/internal/domain/user"
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// Users 用户仓储
func (s *Store) Users() user.Repository { return userRepo{s} }

// Sellers 卖家仓储
func (s *Store) Sellers() seller.Repository { return sellerRepo{s} }

// Products 商品仓储
func (s *Store) Products() product.Repository { return productRepo{s} }

// Carts 购物车仓储
func (s *Store) Carts() cart.Repository { return cartRepo{s} }

// Orders 订单仓储
func (s *Store) Orders() order.Repository { return orderRepo{s} }

func sortedItems(m map[uint]cart.Item) []cart.Item {
	out := make([]cart.Item, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ===== user =====

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}
	u.ID = r.s.id()
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// ===== seller =====

type sellerRepo struct{ s *Store }

func (r sellerRepo) Create(_ context.Context, p *seller.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.sellers {
		if existing.UserID == p.UserID || existing.ShopName == p.ShopName {
			return seller.ErrSellerDuplicate
		}
	}
	p.ID = r.s.id()
	r.s.sellers[p.ID] = *p
	return nil
}

func (r sellerRepo) FindByUserID(_ context.Context, userID uint) (*seller.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.sellers {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, seller.ErrSellerNotFound
}

func (r sellerRepo) ApplyStats(_ context.Context, d seller.StatsDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.sellers[d.SellerID]
	if !ok {
		return seller.ErrSellerNotFound
	}
	p.TotalSales = p.TotalSales.Add(d.Sales)
	p.TotalOrders += d.Orders
	p.UpdatedAt = r.s.now()
	r.s.sellers[p.ID] = p
	return nil
}

// ===== product =====

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Title == p.Title {
			return product.ErrTitleDuplicate
		}
	}
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) FindByID(_ context.Context, id uint) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return &p, nil
}

func (r productRepo) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.FindByID(ctx, id)
}

func (r productRepo) LockByIDs(_ context.Context, ids []uint) (map[uint]*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uint]*product.Product, len(ids))
	for _, id := range ids {
		p, ok := r.s.products[id]
		if !ok {
			return nil, product.ErrProductNotFound
		}
		out[id] = &p
	}
	return out, nil
}

func (r productRepo) DecrementStock(_ context.Context, id uint, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	if p.Stock < quantity {
		return product.ErrInsufficientStock
	}
	p.Stock -= quantity
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return nil
}

func (r productRepo) MarkOutOfStock(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if ok && p.Stock == 0 {
		p.Status = product.StatusOutOfStock
		r.s.products[id] = p
	}
	return nil
}

// ===== cart =====

type cartRepo struct{ s *Store }

func (r cartRepo) findByUser(userID uint) (cart.Cart, bool) {
	for _, c := range r.s.carts {
		if c.UserID == userID {
			return c, true
		}
	}
	return cart.Cart{}, false
}

func (r cartRepo) FindByUserID(_ context.Context, userID uint) (*cart.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.findByUser(userID)
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	for _, it := range sortedItems(r.s.items) {
		if it.CartID != c.ID {
			continue
		}
		item := it
		if p, ok := r.s.products[it.ProductID]; ok {
			item.Product = &p
		}
		c.Items = append(c.Items, &item)
	}
	return &c, nil
}

func (r cartRepo) GetOrCreateForUpdate(_ context.Context, userID uint) (*cart.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.findByUser(userID); ok {
		return &c, nil
	}
	now := r.s.now()
	c := cart.Cart{ID: r.s.id(), UserID: userID, Status: cart.StatusActive, CreatedAt: now, UpdatedAt: now}
	r.s.carts[c.ID] = c
	return &c, nil
}

func (r cartRepo) LockActiveByUserID(_ context.Context, userID uint) (*cart.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.findByUser(userID)
	if !ok || !c.IsActive() {
		return nil, cart.ErrNoActiveCart
	}
	return &c, nil
}

func (r cartRepo) UpdateStatus(_ context.Context, cartID uint, status cart.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[cartID]
	if !ok {
		return cart.ErrCartNotFound
	}
	c.Status = status
	c.UpdatedAt = r.s.now()
	r.s.carts[cartID] = c
	return nil
}

func (r cartRepo) LockItem(_ context.Context, cartID, productID uint) (*cart.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.CartID == cartID && it.ProductID == productID {
			return &it, nil
		}
	}
	return nil, cart.ErrCartItemNotFound
}

func (r cartRepo) ListItems(_ context.Context, cartID uint) ([]*cart.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*cart.Item
	for _, it := range sortedItems(r.s.items) {
		if it.CartID == cartID {
			item := it
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r cartRepo) CreateItem(_ context.Context, item *cart.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.CartID == item.CartID && it.ProductID == item.ProductID {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "购物车明细重复")
		}
	}
	item.ID = r.s.id()
	stored := *item
	stored.Product = nil
	r.s.items[item.ID] = stored
	return nil
}

func (r cartRepo) UpdateItem(_ context.Context, item *cart.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[item.ID]
	if !ok {
		return cart.ErrCartItemNotFound
	}
	it.Quantity = item.Quantity
	it.UnitPrice = item.UnitPrice
	it.UpdatedAt = r.s.now()
	r.s.items[item.ID] = it
	return nil
}

func (r cartRepo) DeleteItem(_ context.Context, userID, itemID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[itemID]
	if !ok {
		return cart.ErrCartItemNotFound
	}
	if c, ok := r.s.carts[it.CartID]; !ok || c.UserID != userID {
		return cart.ErrCartItemNotFound
	}
	delete(r.s.items, itemID)
	return nil
}

func (r cartRepo) DeleteItems(_ context.Context, cartID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, it := range r.s.items {
		if it.CartID == cartID {
			delete(r.s.items, id)
		}
	}
	return nil
}

// ===== order =====

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.OrderNo == o.OrderNo {
			return order.ErrOrderNoDuplicate
		}
	}
	o.ID = r.s.id()
	for i := range o.Items {
		o.Items[i].ID = r.s.id()
		o.Items[i].OrderID = o.ID
	}
	stored := *o
	stored.Items = append([]order.OrderItem(nil), o.Items...)
	r.s.orders[o.ID] = stored
	return nil
}

func (r orderRepo) ListByUserID(_ context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []order.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	start := (page - 1) * pageSize
	if start < 0 || start >= len(all) {
		return []*order.Order{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}

	out := make([]*order.Order, 0, end-start)
	for _, o := range all[start:end] {
		o := o
		o.Items = append([]order.OrderItem(nil), o.Items...)
		out = append(out, &o)
	}
	return out, total, nil
}
