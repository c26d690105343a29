package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/mall/internal/domain/cart"
	"github.com/xiebiao/mall/internal/domain/pricing"
	"github.com/xiebiao/mall/internal/domain/product"
	"github.com/xiebiao/mall/internal/domain/seller"
	"github.com/xiebiao/mall/internal/infrastructure/persistence/memory"
)

const buyerID = 100

type fixture struct {
	store  *memory.Store
	add    *AddToCartUseCase
	view   *ViewCartUseCase
	remove *RemoveItemUseCase
	prodID uint
}

// newFixture 库存5,原价100,九折
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	profile, err := seller.NewProfile(1, "shop-one")
	require.NoError(t, err)
	require.NoError(t, store.Sellers().Create(ctx, profile))

	p, err := product.NewProduct(profile.ID, "机械键盘", "", decimal.NewFromInt(100),
		pricing.Discount{Type: pricing.DiscountPercent, Value: decimal.NewFromInt(10)}, 5)
	require.NoError(t, err)
	require.NoError(t, store.Products().Create(ctx, p))

	return &fixture{
		store:  store,
		add:    NewAddToCartUseCase(store.Carts(), store.Products(), store, zap.NewNop()),
		view:   NewViewCartUseCase(store.Carts()),
		remove: NewRemoveItemUseCase(store.Carts(), zap.NewNop()),
		prodID: p.ID,
	}
}

func (f *fixture) addQty(t *testing.T, qty int) (*AddToCartResponse, error) {
	t.Helper()
	return f.add.Execute(context.Background(), AddToCartRequest{UserID: buyerID, ProductID: f.prodID, Quantity: qty})
}

func TestAddToCart_CreateThenMerge(t *testing.T) {
	f := newFixture(t)

	first, err := f.addQty(t, 3)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, 3, first.Item.Quantity)
	assert.Equal(t, "90.00", first.Item.UnitPrice)
	assert.Equal(t, "270.00", first.Summary.TotalPrice)

	second, err := f.addQty(t, 2)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Item.ID, second.Item.ID)
	assert.Equal(t, 5, second.Item.Quantity)
	assert.Equal(t, SummaryResponse{TotalItems: 5, TotalPrice: "450.00", DistinctItems: 1}, second.Summary)

	// 加购不扣库存
	p, _ := f.store.Product(f.prodID)
	assert.Equal(t, 5, p.Stock)
}

func TestAddToCart_StockExceededWritesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.addQty(t, 6)
	assert.ErrorIs(t, err, cart.ErrStockExceeded)

	// 事务回滚,连购物车都没有创建
	_, ok := f.store.Cart(buyerID)
	assert.False(t, ok)
}

func TestAddToCart_MergeExceedingStockKeepsItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.addQty(t, 3)
	require.NoError(t, err)

	_, err = f.addQty(t, 3)
	require.ErrorIs(t, err, cart.ErrStockExceeded)
	assert.Contains(t, err.Error(), "已有3件")

	c, ok := f.store.Cart(buyerID)
	require.True(t, ok)
	items := f.store.CartItems(c.ID)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddToCart_RefreshesSnapshotPriceOnMerge(t *testing.T) {
	f := newFixture(t)

	_, err := f.addQty(t, 1)
	require.NoError(t, err)

	f.store.UpdateProduct(f.prodID, func(p *product.Product) {
		p.Discount = pricing.NoDiscount()
	})

	resp, err := f.addQty(t, 1)
	require.NoError(t, err)
	assert.Equal(t, "100.00", resp.Item.UnitPrice)
	assert.Equal(t, "200.00", resp.Summary.TotalPrice)
}

func TestAddToCart_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		product func(f *fixture) uint
		qty     int
		wantErr error
	}{
		{"数量为0", nil, nil, 0, cart.ErrInvalidQuantity},
		{"数量超过100", nil, nil, 101, cart.ErrInvalidQuantity},
		{"商品不存在", nil, func(*fixture) uint { return 999 }, 1, product.ErrProductNotFound},
		{"商品已下架", func(f *fixture) {
			f.store.UpdateProduct(f.prodID, func(p *product.Product) { p.Status = product.StatusInactive })
		}, nil, 1, product.ErrProductUnavailable},
		{"商品售罄", func(f *fixture) {
			f.store.UpdateProduct(f.prodID, func(p *product.Product) {
				p.Stock = 0
				p.Status = product.StatusOutOfStock
			})
		}, nil, 1, product.ErrProductUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			id := f.prodID
			if tt.product != nil {
				id = tt.product(f)
			}
			_, err := f.add.Execute(context.Background(), AddToCartRequest{UserID: buyerID, ProductID: id, Quantity: tt.qty})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddToCart_ReactivatesOrderedCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.addQty(t, 1)
	require.NoError(t, err)
	c, _ := f.store.Cart(buyerID)
	require.NoError(t, f.store.Carts().UpdateStatus(ctx, c.ID, cart.StatusOrdered))

	_, err = f.addQty(t, 1)
	require.NoError(t, err)

	reactivated, _ := f.store.Cart(buyerID)
	assert.Equal(t, c.ID, reactivated.ID)
	assert.Equal(t, cart.StatusActive, reactivated.Status)
}

func TestViewCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.view.Execute(ctx, buyerID)
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	_, err = f.addQty(t, 2)
	require.NoError(t, err)

	resp, err := f.view.Execute(ctx, buyerID)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "机械键盘", resp.Items[0].Title)
	assert.Equal(t, "180.00", resp.Items[0].LineTotal)
	assert.Equal(t, "180.00", resp.Summary.TotalPrice)
}

func TestRemoveItem_OnlyOwnItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	added, err := f.addQty(t, 1)
	require.NoError(t, err)

	err = f.remove.Execute(ctx, buyerID+1, added.Item.ID)
	assert.ErrorIs(t, err, cart.ErrCartItemNotFound)

	require.NoError(t, f.remove.Execute(ctx, buyerID, added.Item.ID))
	assert.ErrorIs(t, f.remove.Execute(ctx, buyerID, added.Item.ID), cart.ErrCartItemNotFound)

	resp, err := f.view.Execute(ctx, buyerID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "0.00", resp.Summary.TotalPrice)
}
