// Package memory 内存版仓储与事务管理器
//
// 单元测试用它替代MySQL验证交易核心的原子性:
// Transaction开始时对全部数据做快照,fn返回error时整体恢复。
// 事务之间通过互斥锁串行执行,相当于对所有行加了排他锁。
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/mall/internal/domain/cart"
	"github.com/xiebiao/mall/internal/domain/order"
	"github.com/xiebiao/mall/internal/domain/product"
	"github.com/xiebiao/mall/internal/domain/seller"
	"github.com/xiebiao/mall/internal/domain/user"
)

type txKey struct{}

// Store 内存数据库
type Store struct {
	txMu sync.Mutex // 串行化事务
	mu   sync.Mutex // 保护下面的数据

	nextID   uint
	now      func() time.Time
	users    map[uint]user.User
	sellers  map[uint]seller.Profile
	products map[uint]product.Product
	carts    map[uint]cart.Cart
	items    map[uint]cart.Item
	orders   map[uint]order.Order
}

// NewStore 创建空的内存数据库
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[uint]user.User),
		sellers:  make(map[uint]seller.Profile),
		products: make(map[uint]product.Product),
		carts:    make(map[uint]cart.Cart),
		items:    make(map[uint]cart.Item),
		orders:   make(map[uint]order.Order),
	}
}

type snapshot struct {
	nextID   uint
	users    map[uint]user.User
	sellers  map[uint]seller.Profile
	products map[uint]product.Product
	carts    map[uint]cart.Cart
	items    map[uint]cart.Item
	orders   map[uint]order.Order
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// 值类型存储,Order.Items切片在写入时已复制且之后不再修改,浅拷贝即可
func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		nextID:   s.nextID,
		users:    cloneMap(s.users),
		sellers:  cloneMap(s.sellers),
		products: cloneMap(s.products),
		carts:    cloneMap(s.carts),
		items:    cloneMap(s.items),
		orders:   cloneMap(s.orders),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.users = snap.users
	s.sellers = snap.sellers
	s.products = snap.products
	s.carts = snap.carts
	s.items = snap.items
	s.orders = snap.orders
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// Transaction 实现tx.Manager
// 嵌套调用直接复用外层事务
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ===== 测试辅助 =====

// Product 读取商品当前状态
func (s *Store) Product(id uint) (product.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// UpdateProduct 直接修改商品(模拟其他请求改库存/改价/下架)
func (s *Store) UpdateProduct(id uint, fn func(p *product.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		fn(&p)
		s.products[id] = p
	}
}

// SellerProfile 读取卖家档案
func (s *Store) SellerProfile(id uint) (seller.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.sellers[id]
	return p, ok
}

// DeleteSellerProfile 删除卖家档案(构造结算中途失败)
func (s *Store) DeleteSellerProfile(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sellers, id)
}

// Cart 按用户读取购物车(不含明细)
func (s *Store) Cart(userID uint) (cart.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if c.UserID == userID {
			return c, true
		}
	}
	return cart.Cart{}, false
}

// CartItems 读取购物车明细(按id升序)
func (s *Store) CartItems(cartID uint) []cart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []cart.Item
	for _, it := range sortedItems(s.items) {
		if it.CartID == cartID {
			out = append(out, it)
		}
	}
	return out
}

// OrderCount 订单总数
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
