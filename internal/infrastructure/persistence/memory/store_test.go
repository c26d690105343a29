package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall/internal/domain/pricing"
	"github.com/xiebiao/mall/internal/domain/product"
)

func TestStore_TransactionRollback(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p, err := product.NewProduct(1, "机械键盘", "", decimal.NewFromInt(300), pricing.NoDiscount(), 3)
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(ctx, p))

	boom := errors.New("boom")
	err = s.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Products().DecrementStock(ctx, p.ID, 3))
		require.NoError(t, s.Products().MarkOutOfStock(ctx, p.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, ok := s.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, 3, got.Stock)
	assert.Equal(t, product.StatusActive, got.Status)
}

func TestStore_NestedTransactionSharesOuter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Transaction(ctx, func(ctx context.Context) error {
		// 嵌套调用不能再次获取txMu,否则死锁
		return s.Transaction(ctx, func(ctx context.Context) error { return nil })
	})
	assert.NoError(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().Transaction(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProductRepo_DecrementStockGuard(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p, _ := product.NewProduct(1, "显示器", "", decimal.NewFromInt(999), pricing.NoDiscount(), 1)
	require.NoError(t, s.Products().Create(ctx, p))

	assert.ErrorIs(t, s.Products().DecrementStock(ctx, p.ID, 2), product.ErrInsufficientStock)
	assert.ErrorIs(t, s.Products().DecrementStock(ctx, 999, 1), product.ErrProductNotFound)
	assert.ErrorIs(t, s.Products().Create(ctx, &product.Product{Title: "显示器"}), product.ErrTitleDuplicate)
}
