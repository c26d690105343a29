package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcart "github.com/xiebiao/mall/internal/application/cart"
	"github.com/xiebiao/mall/internal/domain/cart"
	"github.com/xiebiao/mall/internal/domain/order"
	"github.com/xiebiao/mall/internal/domain/pricing"
	"github.com/xiebiao/mall/internal/domain/product"
	"github.com/xiebiao/mall/internal/domain/seller"
	"github.com/xiebiao/mall/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/mall/pkg/circuitbreaker"
)

const buyerID = 100

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.CreatedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if routingKey == order.RoutingKeyCreated {
		p.events = append(p.events, message.(order.CreatedEvent))
	}
	return nil
}

type fixture struct {
	store     *memory.Store
	add       *appcart.AddToCartUseCase
	checkout  *CheckoutUseCase
	list      *ListOrdersUseCase
	publisher *recordingPublisher
	breaker   *circuitbreaker.Breaker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	breaker := circuitbreaker.New("order-events", circuitbreaker.Settings{FailureThreshold: 2})
	return &fixture{
		store:     store,
		add:       appcart.NewAddToCartUseCase(store.Carts(), store.Products(), store, zap.NewNop()),
		checkout:  NewCheckoutUseCase(store.Carts(), store.Products(), store.Orders(), store.Sellers(), store, pub, breaker, zap.NewNop()),
		list:      NewListOrdersUseCase(store.Orders()),
		publisher: pub,
		breaker:   breaker,
	}
}

func (f *fixture) seller(t *testing.T, userID uint, shop string) uint {
	t.Helper()
	p, err := seller.NewProfile(userID, shop)
	require.NoError(t, err)
	require.NoError(t, f.store.Sellers().Create(context.Background(), p))
	return p.ID
}

func (f *fixture) product(t *testing.T, sellerID uint, title string, price int64, d pricing.Discount, stock int) uint {
	t.Helper()
	p, err := product.NewProduct(sellerID, title, "", decimal.NewFromInt(price), d, stock)
	require.NoError(t, err)
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p.ID
}

func (f *fixture) addToCart(t *testing.T, userID, productID uint, qty int) {
	t.Helper()
	_, err := f.add.Execute(context.Background(), appcart.AddToCartRequest{UserID: userID, ProductID: productID, Quantity: qty})
	require.NoError(t, err)
}

var tenPercent = pricing.Discount{Type: pricing.DiscountPercent, Value: decimal.NewFromInt(10)}

func TestCheckout_WorkedExample(t *testing.T) {
	f := newFixture(t)
	sellerID := f.seller(t, 1, "shop-one")
	pid := f.product(t, sellerID, "机械键盘", 100, tenPercent, 5)

	f.addToCart(t, buyerID, pid, 3)
	f.addToCart(t, buyerID, pid, 2)

	resp, err := f.checkout.Execute(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Equal(t, "450.00", resp.TotalAmount)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, 1, resp.ItemCount)
	assert.Equal(t, 5, resp.TotalQuantity)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "90.00", resp.Items[0].UnitPrice)
	assert.Equal(t, "90.00", resp.Items[0].LiveUnitPrice)
	assert.Regexp(t, `^ORD\d+$`, resp.OrderNo)

	p, _ := f.store.Product(pid)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, product.StatusOutOfStock, p.Status)

	profile, _ := f.store.SellerProfile(sellerID)
	assert.Equal(t, "450.00", profile.TotalSales.StringFixed(2))
	assert.Equal(t, 1, profile.TotalOrders)

	c, _ := f.store.Cart(buyerID)
	assert.Equal(t, cart.StatusOrdered, c.Status)
	assert.Empty(t, f.store.CartItems(c.ID))

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, resp.OrderNo, f.publisher.events[0].OrderNo)
	assert.Equal(t, "450.00", f.publisher.events[0].TotalAmount)

	// 购物车已是ORDERED,重复提交不会产生第二张订单
	_, err = f.checkout.Execute(context.Background(), buyerID)
	assert.ErrorIs(t, err, cart.ErrNoActiveCart)
	assert.Equal(t, 1, f.store.OrderCount())
}

func TestCheckout_ChargesSnapshotPrice(t *testing.T) {
	f := newFixture(t)
	sellerID := f.seller(t, 1, "shop-one")
	pid := f.product(t, sellerID, "显示器", 100, tenPercent, 10)
	f.addToCart(t, buyerID, pid, 2)

	// 加购后卖家取消折扣
	f.store.UpdateProduct(pid, func(p *product.Product) { p.Discount = pricing.NoDiscount() })

	resp, err := f.checkout.Execute(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Equal(t, "90.00", resp.Items[0].UnitPrice)
	assert.Equal(t, "100.00", resp.Items[0].LiveUnitPrice)
	assert.Equal(t, "180.00", resp.TotalAmount)

	p, _ := f.store.Product(pid)
	assert.Equal(t, 8, p.Stock)
	assert.Equal(t, product.StatusActive, p.Status)
}

func TestCheckout_InsufficientStockRollsBackThenRetrySucceeds(t *testing.T) {
	f := newFixture(t)
	sellerID := f.seller(t, 1, "shop-one")
	a := f.product(t, sellerID, "商品A", 10, pricing.NoDiscount(), 10)
	b := f.product(t, sellerID, "商品B", 20, pricing.NoDiscount(), 5)
	f.addToCart(t, buyerID, a, 2)
	f.addToCart(t, buyerID, b, 3)

	// 其他订单买走了B
	f.store.UpdateProduct(b, func(p *product.Product) { p.Stock = 2 })

	_, err := f.checkout.Execute(context.Background(), buyerID)
	require.ErrorIs(t, err, product.ErrInsufficientStock)

	pa, _ := f.store.Product(a)
	assert.Equal(t, 10, pa.Stock, "A的库存不能被部分扣减")
	assert.Equal(t, 0, f.store.OrderCount())
	c, _ := f.store.Cart(buyerID)
	assert.Equal(t, cart.StatusActive, c.Status)
	assert.Len(t, f.store.CartItems(c.ID), 2)
	profile, _ := f.store.SellerProfile(sellerID)
	assert.True(t, profile.TotalSales.IsZero())
	assert.Empty(t, f.publisher.events)

	// 补货后重试
	f.store.UpdateProduct(b, func(p *product.Product) { p.Stock = 5 })
	resp, err := f.checkout.Execute(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Equal(t, "80.00", resp.TotalAmount)
	assert.Equal(t, 1, f.store.OrderCount())

	_, err = f.checkout.Execute(context.Background(), buyerID)
	assert.ErrorIs(t, err, cart.ErrNoActiveCart)
}

func TestCheckout_ProductUnavailable(t *testing.T) {
	f := newFixture(t)
	sellerID := f.seller(t, 1, "shop-one")
	pid := f.product(t, sellerID, "耳机", 50, pricing.NoDiscount(), 3)
	f.addToCart(t, buyerID, pid, 1)

	f.store.UpdateProduct(pid, func(p *product.Product) { p.Status = product.StatusInactive })

	_, err := f.checkout.Execute(context.Background(), buyerID)
	assert.ErrorIs(t, err, product.ErrProductUnavailable)
	assert.Equal(t, 0, f.store.OrderCount())
}

func TestCheckout_MissingSellerProfileRollsBack(t *testing.T) {
	f := newFixture(t)
	sellerID := f.seller(t, 1, "shop-one")
	pid := f.product(t, sellerID, "台灯", 30, pricing.NoDiscount(), 4)
	f.addToCart(t, buyerID, pid, 2)

	f.store.DeleteSellerProfile(sellerID)

	_, err := f.checkout.Execute(context.Background(), buyerID)
	require.ErrorIs(t, err, seller.ErrSellerNotFound)

	// 订单和扣减库存发生在卖家统计之前,必须一起回滚
	p, _ := f.store.Product(pid)
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 0, f.store.OrderCount())
	c, _ := f.store.Cart(buyerID)
	assert.Equal(t, cart.StatusActive, c.Status)
	assert.Len(t, f.store.CartItems(c.ID), 1)
}

func TestCheckout_SellerStatsCountPerLine(t *testing.T) {
	f := newFixture(t)
	s1 := f.seller(t, 1, "shop-one")
	s2 := f.seller(t, 2, "shop-two")
	a := f.product(t, s1, "商品A", 10, pricing.NoDiscount(), 10)
	b := f.product(t, s1, "商品B", 25, pricing.Discount{Type: pricing.DiscountAmount, Value: decimal.NewFromInt(5)}, 10)
	c := f.product(t, s2, "商品C", 7, pricing.NoDiscount(), 10)
	f.addToCart(t, buyerID, a, 1)
	f.addToCart(t, buyerID, b, 2)
	f.addToCart(t, buyerID, c, 3)

	resp, err := f.checkout.Execute(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Equal(t, "71.00", resp.TotalAmount)
	assert.Equal(t, 3, resp.ItemCount)
	assert.Equal(t, 6, resp.TotalQuantity)

	// 明细顺序与购物车明细顺序一致
	assert.Equal(t, []uint{a, b, c}, []uint{resp.Items[0].ProductID, resp.Items[1].ProductID, resp.Items[2].ProductID})

	p1, _ := f.store.SellerProfile(s1)
	assert.Equal(t, "50.00", p1.TotalSales.StringFixed(2))
	assert.Equal(t, 2, p1.TotalOrders)

	p2, _ := f.store.SellerProfile(s2)
	assert.Equal(t, "21.00", p2.TotalSales.StringFixed(2))
	assert.Equal(t, 1, p2.TotalOrders)
}

func TestCheckout_NoCartOrEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.Execute(ctx, buyerID)
	assert.ErrorIs(t, err, cart.ErrNoActiveCart)

	sellerID := f.seller(t, 1, "shop-one")
	pid := f.product(t, sellerID, "水杯", 15, pricing.NoDiscount(), 2)
	added, err := f.add.Execute(ctx, appcart.AddToCartRequest{UserID: buyerID, ProductID: pid, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.store.Carts().DeleteItem(ctx, buyerID, added.Item.ID))

	_, err = f.checkout.Execute(ctx, buyerID)
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestCheckout_ConcurrentSubmitCreatesOneOrder(t *testing.T) {
	f := newFixture(t)
	sellerID := f.seller(t, 1, "shop-one")
	pid := f.product(t, sellerID, "抢购款", 99, pricing.NoDiscount(), 3)
	f.addToCart(t, buyerID, pid, 3)

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.checkout.Execute(context.Background(), buyerID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, cart.ErrNoActiveCart)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.store.OrderCount())

	p, _ := f.store.Product(pid)
	assert.Equal(t, 0, p.Stock)
}

func TestCheckout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker unreachable")
	sellerID := f.seller(t, 1, "shop-one")
	pid := f.product(t, sellerID, "背包", 120, pricing.NoDiscount(), 10)

	for i := 0; i < 3; i++ {
		f.addToCart(t, buyerID, pid, 1)
		_, err := f.checkout.Execute(context.Background(), buyerID)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, f.store.OrderCount())
	// 连续2次失败后熔断
	assert.Equal(t, circuitbreaker.StateOpen, f.breaker.State())
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sellerID := f.seller(t, 1, "shop-one")
	pid := f.product(t, sellerID, "笔记本", 5, pricing.NoDiscount(), 10)

	for i := 0; i < 3; i++ {
		f.addToCart(t, buyerID, pid, i+1)
		_, err := f.checkout.Execute(ctx, buyerID)
		require.NoError(t, err)
	}

	result, err := f.list.Execute(ctx, ListOrdersRequest{UserID: buyerID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.List, 3)
	// 最新的订单在前
	assert.Equal(t, "15.00", result.List[0].TotalAmount)

	result, err = f.list.Execute(ctx, ListOrdersRequest{UserID: buyerID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.List, 1)
	assert.Equal(t, "5.00", result.List[0].TotalAmount)

	result, err = f.list.Execute(ctx, ListOrdersRequest{UserID: buyerID, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, result.PageSize)

	result, err = f.list.Execute(ctx, ListOrdersRequest{UserID: buyerID + 1, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Empty(t, result.List)
}
